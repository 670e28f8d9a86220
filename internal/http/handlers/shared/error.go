package shared

import (
	"errors"

	"github.com/greenmart-next/internal/catalog"
	"github.com/greenmart-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// RespondError 将引擎错误映射为统一响应
func RespondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, catalog.ErrNameRequired),
		errors.Is(err, catalog.ErrPriceInvalid),
		errors.Is(err, catalog.ErrQuantityInvalid),
		errors.Is(err, catalog.ErrStockInvalid),
		errors.Is(err, catalog.ErrFilterInvalid),
		errors.Is(err, catalog.ErrSortInvalid):
		response.BadRequest(c, err.Error())
	default:
		response.Internal(c, err.Error())
	}
}
