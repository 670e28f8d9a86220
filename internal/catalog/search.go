package catalog

import (
	"math"
	"sort"
	"strings"

	"github.com/greenmart-next/internal/constants"

	"github.com/shopspring/decimal"
)

// 可用排序字段
const (
	SortFieldName           = "name"
	SortFieldPrice          = "price"
	SortFieldRating         = "rating"
	SortFieldSustainability = "sustainabilityScore"
	SortFieldCreatedAt      = "createdAt"
)

const (
	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

// SearchFilter 商品搜索过滤条件。全部谓词可选，按 AND 组合；
// 字符串空值与指针 nil 表示未设置。
type SearchFilter struct {
	Category       string
	Subcategory    string
	Organic        *bool
	LocallySourced *bool
	InStock        *bool
	PriceMin       *decimal.Decimal
	PriceMax       *decimal.Decimal
	ScoreMin       *float64
	ScoreMax       *float64
	Certifications []string
	Tags           []string
	Query          string
}

// SearchSort 排序参数
type SearchSort struct {
	Field string
	Order string
}

// SearchResult 分页搜索结果
type SearchResult struct {
	Items      []EnrichedProduct `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	TotalPages int               `json:"total_pages"`
	HasMore    bool              `json:"has_more"`
}

// SearchEngine 目录查询引擎：只读，不产生副作用，可任意并发调用。
// 读取的是存储的近时快照，不阻塞在途变更。
type SearchEngine struct {
	store *Store
}

// NewSearchEngine 创建查询引擎
func NewSearchEngine(store *Store) *SearchEngine {
	return &SearchEngine{store: store}
}

// Search 过滤、排序并分页上架商品，条目附带库存与统计读时快照
func (e *SearchEngine) Search(filter SearchFilter, sortBy SearchSort, page, limit int) (*SearchResult, error) {
	if err := validateFilter(filter, page, limit); err != nil {
		return nil, err
	}
	sortBy, err := normalizeSort(sortBy)
	if err != nil {
		return nil, err
	}

	matched := e.collect(filter)
	sortItems(matched, sortBy)

	total := len(matched)
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return &SearchResult{
		Items:      matched[start:end],
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}, nil
}

func validateFilter(filter SearchFilter, page, limit int) error {
	if page < 1 || limit < 1 {
		return ErrFilterInvalid
	}
	if filter.PriceMin != nil && filter.PriceMax != nil && filter.PriceMin.GreaterThan(*filter.PriceMax) {
		return ErrFilterInvalid
	}
	if filter.ScoreMin != nil && filter.ScoreMax != nil && *filter.ScoreMin > *filter.ScoreMax {
		return ErrFilterInvalid
	}
	return nil
}

func normalizeSort(sortBy SearchSort) (SearchSort, error) {
	if sortBy.Field == "" {
		sortBy.Field = SortFieldCreatedAt
		if sortBy.Order == "" {
			sortBy.Order = SortOrderDesc
		}
	}
	if sortBy.Order == "" {
		sortBy.Order = SortOrderAsc
	}
	switch sortBy.Field {
	case SortFieldName, SortFieldPrice, SortFieldRating, SortFieldSustainability, SortFieldCreatedAt:
	default:
		return sortBy, ErrSortInvalid
	}
	switch sortBy.Order {
	case SortOrderAsc, SortOrderDesc:
	default:
		return sortBy, ErrSortInvalid
	}
	return sortBy, nil
}

// collect 在读锁下装配命中条目的聚合副本
func (e *SearchEngine) collect(filter SearchFilter) []EnrichedProduct {
	s := e.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := strings.ToLower(strings.TrimSpace(filter.Query))
	var matched []EnrichedProduct
	for id, product := range s.products {
		if product.Status != constants.ProductStatusActive {
			continue
		}
		if filter.Category != "" && product.Category != filter.Category {
			continue
		}
		if filter.Subcategory != "" && product.Subcategory != filter.Subcategory {
			continue
		}
		if filter.Organic != nil && product.IsOrganic != *filter.Organic {
			continue
		}
		if filter.LocallySourced != nil && product.IsLocallySourced != *filter.LocallySourced {
			continue
		}
		if filter.PriceMin != nil && product.PriceAmount.LessThan(*filter.PriceMin) {
			continue
		}
		if filter.PriceMax != nil && product.PriceAmount.GreaterThan(*filter.PriceMax) {
			continue
		}
		if filter.ScoreMin != nil && product.SustainabilityScore < *filter.ScoreMin {
			continue
		}
		if filter.ScoreMax != nil && product.SustainabilityScore > *filter.ScoreMax {
			continue
		}
		if len(filter.Certifications) > 0 && !product.Certifications.ContainsAny(filter.Certifications) {
			continue
		}
		if len(filter.Tags) > 0 && !product.Tags.ContainsAny(filter.Tags) {
			continue
		}
		if query != "" && !matchQuery(product.Name, product.Description, product.Tags, query) {
			continue
		}
		inv := s.inventories[id]
		if filter.InStock != nil {
			available := 0
			if inv != nil {
				available = inv.AvailableQuantity
			}
			if *filter.InStock != (available > 0) {
				continue
			}
		}
		view := s.enrichLocked(id)
		if view != nil {
			matched = append(matched, *view)
		}
	}
	return matched
}

// matchQuery 对名称/描述/标签做大小写不敏感的子串匹配
func matchQuery(name, description string, tags []string, query string) bool {
	if strings.Contains(strings.ToLower(name), query) {
		return true
	}
	if strings.Contains(strings.ToLower(description), query) {
		return true
	}
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

func sortItems(items []EnrichedProduct, sortBy SearchSort) {
	less := lessFunc(sortBy.Field)
	sort.SliceStable(items, func(i, j int) bool {
		if sortBy.Order == SortOrderDesc {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
}

func lessFunc(field string) func(a, b EnrichedProduct) bool {
	switch field {
	case SortFieldName:
		return func(a, b EnrichedProduct) bool {
			return strings.ToLower(a.Product.Name) < strings.ToLower(b.Product.Name)
		}
	case SortFieldPrice:
		return func(a, b EnrichedProduct) bool {
			return a.Product.PriceAmount.LessThan(b.Product.PriceAmount.Decimal)
		}
	case SortFieldRating:
		return func(a, b EnrichedProduct) bool {
			return a.Analytics.AverageRating < b.Analytics.AverageRating
		}
	case SortFieldSustainability:
		return func(a, b EnrichedProduct) bool {
			return a.Product.SustainabilityScore < b.Product.SustainabilityScore
		}
	default:
		// 时间字段按时刻比较，而非字符串
		return func(a, b EnrichedProduct) bool {
			return a.Product.CreatedAt.Before(b.Product.CreatedAt)
		}
	}
}
