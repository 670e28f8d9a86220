package worker

import (
	"context"
	"encoding/json"

	"github.com/greenmart-next/internal/logger"
	"github.com/greenmart-next/internal/provider"
	"github.com/greenmart-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 通知任务消费者：承接引擎转发的库存通知，
// 输出运营告警日志（邮件/IM 投递由下游系统对接）。
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskLowStockAlert, c.handleLowStockAlert)
	mux.HandleFunc(queue.TaskStockActivity, c.handleStockActivity)
}

func (c *Consumer) handleLowStockAlert(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.LowStockAlertPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_low_stock_unmarshal_failed", "error", err)
		return err
	}
	if payload.ProductID == "" {
		logger.Debugw("worker_low_stock_skip_invalid_payload")
		return nil
	}
	restockNeeded := payload.Available <= payload.ReorderPoint
	logger.Warnw("worker_low_stock_alert",
		"product_id", payload.ProductID,
		"available", payload.Available,
		"threshold", payload.Threshold,
		"reorder_point", payload.ReorderPoint,
		"supplier", payload.Supplier,
		"restock_needed", restockNeeded,
	)
	return nil
}

func (c *Consumer) handleStockActivity(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.StockActivityPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_stock_activity_unmarshal_failed", "error", err)
		return err
	}
	if payload.ProductID == "" {
		return nil
	}
	logger.Infow("worker_stock_activity",
		"product_id", payload.ProductID,
		"action", payload.Action,
		"quantity", payload.Quantity,
		"available", payload.Available,
	)
	return nil
}
