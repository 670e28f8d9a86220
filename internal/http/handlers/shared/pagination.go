package shared

import "github.com/greenmart-next/internal/constants"

// NormalizePagination 归一化分页参数。
func NormalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = constants.DefaultSearchLimit
	}
	if pageSize > constants.MaxSearchLimit {
		pageSize = constants.MaxSearchLimit
	}
	return page, pageSize
}
