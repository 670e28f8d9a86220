package public

import (
	"github.com/greenmart-next/internal/catalog"
	handlershared "github.com/greenmart-next/internal/http/handlers/shared"
	"github.com/greenmart-next/internal/http/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// reserveRequest 预占/释放库存请求
type reserveRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

// purchaseRequest 确认购买请求（支付确认后由结算方调用）
type purchaseRequest struct {
	ProductID string          `json:"product_id" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// ReserveStock 支付授权前预占库存。
// reserved=false 表示可售量不足，是正常业务结果而非错误。
func (h *Handler) ReserveStock(c *gin.Context) {
	var req reserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	reserved, err := h.Reservations.ReserveStock(req.ProductID, req.Quantity)
	if err != nil {
		handlershared.RespondError(c, err)
		return
	}
	response.Success(c, gin.H{"reserved": reserved})
}

// ReleaseStock 支付失败/取消/超时后释放预占
func (h *Handler) ReleaseStock(c *gin.Context) {
	var req reserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.Reservations.ReleaseStock(req.ProductID, req.Quantity); err != nil {
		handlershared.RespondError(c, err)
		return
	}
	response.Success(c, nil)
}

// ConfirmPurchase 支付确认后记账购买统计
func (h *Handler) ConfirmPurchase(c *gin.Context) {
	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if _, ok := h.Catalog.Get(req.ProductID); !ok {
		handlershared.RespondError(c, catalog.ErrNotFound)
		return
	}
	h.Analytics.TrackPurchase(req.ProductID, req.Quantity, req.Revenue)
	response.Success(c, nil)
}
