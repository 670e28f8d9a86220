package admin

import (
	"github.com/greenmart-next/internal/catalog"
	handlershared "github.com/greenmart-next/internal/http/handlers/shared"
	"github.com/greenmart-next/internal/http/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// createProductRequest 创建商品请求
type createProductRequest struct {
	Name                string          `json:"name" binding:"required"`
	Description         string          `json:"description"`
	Category            string          `json:"category" binding:"required"`
	Subcategory         string          `json:"subcategory"`
	Price               decimal.Decimal `json:"price"`
	IsOrganic           bool            `json:"is_organic"`
	IsLocallySourced    bool            `json:"is_locally_sourced"`
	Tags                []string        `json:"tags"`
	Certifications      []string        `json:"certifications"`
	SustainabilityScore float64         `json:"sustainability_score"`

	InitialStock      int              `json:"initial_stock"`
	LowStockThreshold *int             `json:"low_stock_threshold"`
	ReorderPoint      int              `json:"reorder_point"`
	Supplier          string           `json:"supplier"`
	UnitCost          decimal.Decimal  `json:"unit_cost"`
	Margin            float64          `json:"margin"`
}

// updateProductRequest 更新商品请求（仅合并出现的字段）
type updateProductRequest struct {
	Name                *string          `json:"name"`
	Description         *string          `json:"description"`
	Category            *string          `json:"category"`
	Subcategory         *string          `json:"subcategory"`
	Price               *decimal.Decimal `json:"price"`
	IsOrganic           *bool            `json:"is_organic"`
	IsLocallySourced    *bool            `json:"is_locally_sourced"`
	Tags                []string         `json:"tags"`
	Certifications      []string         `json:"certifications"`
	SustainabilityScore *float64         `json:"sustainability_score"`
}

// updateInventoryRequest 更新库存请求
type updateInventoryRequest struct {
	StockQuantity     *int             `json:"stock_quantity"`
	LowStockThreshold *int             `json:"low_stock_threshold"`
	ReorderPoint      *int             `json:"reorder_point"`
	Supplier          *string          `json:"supplier"`
	UnitCost          *decimal.Decimal `json:"unit_cost"`
	Margin            *float64         `json:"margin"`
}

// bulkInventoryRequest 批量库存更新请求
type bulkInventoryRequest struct {
	Items []struct {
		ProductID string                 `json:"product_id" binding:"required"`
		Update    updateInventoryRequest `json:"update"`
	} `json:"items" binding:"required"`
}

// featureRequest 直播推荐上报请求
type featureRequest struct {
	StreamID string `json:"stream_id" binding:"required"`
}

// ratingRequest 外部评分聚合喂入请求
type ratingRequest struct {
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	threshold := h.Config.Engine.LowStockThreshold
	if req.LowStockThreshold != nil {
		threshold = *req.LowStockThreshold
	}
	view, err := h.Catalog.Create(catalog.CreateProductInput{
		Name:                req.Name,
		Description:         req.Description,
		Category:            req.Category,
		Subcategory:         req.Subcategory,
		Price:               req.Price,
		IsOrganic:           req.IsOrganic,
		IsLocallySourced:    req.IsLocallySourced,
		Tags:                req.Tags,
		Certifications:      req.Certifications,
		SustainabilityScore: req.SustainabilityScore,
		InitialStock:        req.InitialStock,
		LowStockThreshold:   threshold,
		ReorderPoint:        req.ReorderPoint,
		Supplier:            req.Supplier,
		UnitCost:            req.UnitCost,
		Margin:              req.Margin,
	})
	if err != nil {
		handlershared.RespondError(c, err)
		return
	}
	response.Success(c, view)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	view, err := h.Catalog.Update(c.Param("id"), catalog.ProductUpdate{
		Name:                req.Name,
		Description:         req.Description,
		Category:            req.Category,
		Subcategory:         req.Subcategory,
		Price:               req.Price,
		IsOrganic:           req.IsOrganic,
		IsLocallySourced:    req.IsLocallySourced,
		Tags:                req.Tags,
		Certifications:      req.Certifications,
		SustainabilityScore: req.SustainabilityScore,
	})
	if err != nil {
		handlershared.RespondError(c, err)
		return
	}
	response.Success(c, view)
}

// DeleteProduct 软删除商品（记录与库存/统计保留供审计）
func (h *Handler) DeleteProduct(c *gin.Context) {
	if err := h.Catalog.SoftDelete(c.Param("id")); err != nil {
		handlershared.RespondError(c, err)
		return
	}
	response.Success(c, nil)
}

// UpdateInventory 更新库存（补货、阈值调整等）
func (h *Handler) UpdateInventory(c *gin.Context) {
	var req updateInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	inv, err := h.Reservations.UpdateInventory(c.Param("id"), toInventoryUpdate(req))
	if err != nil {
		handlershared.RespondError(c, err)
		return
	}
	response.Success(c, inv)
}

// BulkUpdatePrices 批量调价
func (h *Handler) BulkUpdatePrices(c *gin.Context) {
	var items []catalog.PriceUpdate
	if err := c.ShouldBindJSON(&items); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, h.Catalog.BulkUpdatePrices(items))
}

// BulkUpdateInventory 批量库存更新
func (h *Handler) BulkUpdateInventory(c *gin.Context) {
	var req bulkInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	items := make([]catalog.InventoryBulkItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, catalog.InventoryBulkItem{
			ProductID: item.ProductID,
			Update:    toInventoryUpdate(item.Update),
		})
	}
	response.Success(c, h.Reservations.BulkUpdateInventory(items))
}

// FeatureInStream 直播间推荐上报
func (h *Handler) FeatureInStream(c *gin.Context) {
	var req featureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	id := c.Param("id")
	if _, ok := h.Catalog.Get(id); !ok {
		handlershared.RespondError(c, catalog.ErrNotFound)
		return
	}
	h.Analytics.FeatureInStream(id, req.StreamID)
	response.Success(c, nil)
}

// SetRating 外部评价系统喂入评分聚合
func (h *Handler) SetRating(c *gin.Context) {
	var req ratingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	id := c.Param("id")
	if _, ok := h.Catalog.Get(id); !ok {
		handlershared.RespondError(c, catalog.ErrNotFound)
		return
	}
	h.Analytics.SetRating(id, req.AverageRating, req.ReviewCount)
	response.Success(c, nil)
}

func toInventoryUpdate(req updateInventoryRequest) catalog.InventoryUpdate {
	return catalog.InventoryUpdate{
		StockQuantity:     req.StockQuantity,
		LowStockThreshold: req.LowStockThreshold,
		ReorderPoint:      req.ReorderPoint,
		Supplier:          req.Supplier,
		UnitCost:          req.UnitCost,
		Margin:            req.Margin,
	}
}
