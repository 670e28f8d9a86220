package public

import "github.com/greenmart-next/internal/provider"

// Handler 前台/公开接口处理器入口
// 说明：该处理器用于商品检索、行为上报与结算协作方接口。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
