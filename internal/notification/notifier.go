package notification

import (
	"github.com/greenmart-next/internal/events"
	"github.com/greenmart-next/internal/logger"
	"github.com/greenmart-next/internal/queue"
)

// Notifier 通知协作方入口：订阅引擎事件，将低库存告警与库存动态
// 转发到通知队列，驱动补货与运营告警流程。引擎正确性不依赖本模块。
type Notifier struct {
	channel     *events.Channel
	queueClient *queue.Client
	subID       string
}

// New 创建通知转发器
func New(channel *events.Channel, queueClient *queue.Client) *Notifier {
	return &Notifier{
		channel:     channel,
		queueClient: queueClient,
	}
}

// Start 注册事件订阅
func (n *Notifier) Start() {
	if n == nil || n.channel == nil {
		return
	}
	n.subID = n.channel.Subscribe(n.handle)
}

// Stop 退订
func (n *Notifier) Stop() {
	if n == nil || n.channel == nil || n.subID == "" {
		return
	}
	n.channel.Unsubscribe(n.subID)
	n.subID = ""
}

func (n *Notifier) handle(evt events.Event) {
	switch evt.Type {
	case events.TypeLowStockAlert:
		payload := queue.LowStockAlertPayload{
			ProductID:    evt.ProductID,
			Available:    payloadInt(evt.Payload, "available"),
			Threshold:    payloadInt(evt.Payload, "threshold"),
			ReorderPoint: payloadInt(evt.Payload, "reorder_point"),
			Supplier:     payloadString(evt.Payload, "supplier"),
		}
		if err := n.queueClient.EnqueueLowStockAlert(payload); err != nil {
			logger.Warnw("notify_low_stock_enqueue_failed", "product_id", evt.ProductID, "error", err)
		}
	case events.TypeStockReserved, events.TypeStockReleased:
		payload := queue.StockActivityPayload{
			ProductID: evt.ProductID,
			Action:    string(evt.Type),
			Quantity:  payloadInt(evt.Payload, "quantity"),
			Available: payloadInt(evt.Payload, "available"),
		}
		if err := n.queueClient.EnqueueStockActivity(payload); err != nil {
			logger.Warnw("notify_stock_activity_enqueue_failed", "product_id", evt.ProductID, "error", err)
		}
	}
}

func payloadInt(payload map[string]interface{}, key string) int {
	if payload == nil {
		return 0
	}
	if value, ok := payload[key].(int); ok {
		return value
	}
	return 0
}

func payloadString(payload map[string]interface{}, key string) string {
	if payload == nil {
		return ""
	}
	if value, ok := payload[key].(string); ok {
		return value
	}
	return ""
}
