package public

import (
	"strconv"
	"strings"

	"github.com/greenmart-next/internal/catalog"
	handlershared "github.com/greenmart-next/internal/http/handlers/shared"
	"github.com/greenmart-next/internal/http/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// GetProducts 搜索商品列表
func (h *Handler) GetProducts(c *gin.Context) {
	filter, err := parseSearchFilter(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	sortBy := catalog.SearchSort{
		Field: c.Query("sort_by"),
		Order: c.Query("sort_order"),
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	result, err := h.Search.Search(filter, sortBy, page, pageSize)
	if err != nil {
		handlershared.RespondError(c, err)
		return
	}
	response.SuccessWithPage(c, result.Items, response.Pagination{
		Page:      result.Page,
		PageSize:  pageSize,
		Total:     result.Total,
		TotalPage: result.TotalPages,
		HasMore:   result.HasMore,
	})
}

// GetProduct 读取商品聚合视图（含已下架商品）
func (h *Handler) GetProduct(c *gin.Context) {
	view, ok := h.Catalog.Get(c.Param("id"))
	if !ok {
		response.NotFound(c, catalog.ErrNotFound.Error())
		return
	}
	response.Success(c, view)
}

// TrackView 商品详情页曝光上报
func (h *Handler) TrackView(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.Catalog.Get(id); !ok {
		response.NotFound(c, catalog.ErrNotFound.Error())
		return
	}
	h.Analytics.TrackView(id)
	response.Success(c, nil)
}

// TrackAddToCart 加购行为上报
func (h *Handler) TrackAddToCart(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.Catalog.Get(id); !ok {
		response.NotFound(c, catalog.ErrNotFound.Error())
		return
	}
	h.Analytics.TrackAddToCart(id)
	response.Success(c, nil)
}

func parseSearchFilter(c *gin.Context) (catalog.SearchFilter, error) {
	filter := catalog.SearchFilter{
		Category:    c.Query("category"),
		Subcategory: c.Query("subcategory"),
		Query:       c.Query("q"),
	}
	var err error
	if filter.Organic, err = parseOptionalBool(c.Query("organic")); err != nil {
		return filter, catalog.ErrFilterInvalid
	}
	if filter.LocallySourced, err = parseOptionalBool(c.Query("locally_sourced")); err != nil {
		return filter, catalog.ErrFilterInvalid
	}
	if filter.InStock, err = parseOptionalBool(c.Query("in_stock")); err != nil {
		return filter, catalog.ErrFilterInvalid
	}
	if filter.PriceMin, err = parseOptionalDecimal(c.Query("price_min")); err != nil {
		return filter, catalog.ErrFilterInvalid
	}
	if filter.PriceMax, err = parseOptionalDecimal(c.Query("price_max")); err != nil {
		return filter, catalog.ErrFilterInvalid
	}
	if filter.ScoreMin, err = parseOptionalFloat(c.Query("score_min")); err != nil {
		return filter, catalog.ErrFilterInvalid
	}
	if filter.ScoreMax, err = parseOptionalFloat(c.Query("score_max")); err != nil {
		return filter, catalog.ErrFilterInvalid
	}
	filter.Certifications = splitListParam(c.Query("certifications"))
	filter.Tags = splitListParam(c.Query("tags"))
	return filter, nil
}

func parseOptionalBool(raw string) (*bool, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func parseOptionalDecimal(raw string) (*decimal.Decimal, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func parseOptionalFloat(raw string) (*float64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func splitListParam(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
