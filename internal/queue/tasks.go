package queue

import (
	"encoding/json"

	"github.com/greenmart-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskLowStockAlert 低库存告警通知任务
	TaskLowStockAlert = constants.TaskLowStockAlert
	// TaskStockActivity 库存预占/释放通知任务
	TaskStockActivity = constants.TaskStockActivity
)

// LowStockAlertPayload 低库存告警任务载荷
type LowStockAlertPayload struct {
	ProductID    string `json:"product_id"`
	Available    int    `json:"available"`
	Threshold    int    `json:"threshold"`
	ReorderPoint int    `json:"reorder_point"`
	Supplier     string `json:"supplier"`
}

// StockActivityPayload 库存预占/释放任务载荷
type StockActivityPayload struct {
	ProductID string `json:"product_id"`
	Action    string `json:"action"` // stock_reserved / stock_released
	Quantity  int    `json:"quantity"`
	Available int    `json:"available"`
}

// NewLowStockAlertTask 创建低库存告警任务
func NewLowStockAlertTask(payload LowStockAlertPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLowStockAlert, body), nil
}

// NewStockActivityTask 创建库存动态任务
func NewStockActivityTask(payload StockActivityPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStockActivity, body), nil
}
