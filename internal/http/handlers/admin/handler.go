package admin

import "github.com/greenmart-next/internal/provider"

// Handler 管理端接口处理器入口
// 说明：该处理器用于目录维护工具侧 API（商品维护、库存维护、批量操作）。
type Handler struct {
	*provider.Container
}

// New 创建管理端处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
