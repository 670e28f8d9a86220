package events

import (
	"sync"
	"time"

	"github.com/greenmart-next/internal/logger"

	"github.com/google/uuid"
)

// Type 领域事件类型
type Type string

const (
	TypeCreated             Type = "created"
	TypeUpdated             Type = "updated"
	TypeDeleted             Type = "deleted"
	TypeInventoryUpdated    Type = "inventory_updated"
	TypeLowStockAlert       Type = "low_stock_alert"
	TypeStockReserved       Type = "stock_reserved"
	TypeStockReleased       Type = "stock_released"
	TypeViewed              Type = "viewed"
	TypeAddedToCart         Type = "added_to_cart"
	TypePurchased           Type = "purchased"
	TypeFeaturedInStream    Type = "featured_in_stream"
	TypeBulkPriceUpdate     Type = "bulk_price_update"
	TypeBulkInventoryUpdate Type = "bulk_inventory_update"
)

// Event 领域事件：状态变更完成后发布，供外部协作方消费
type Event struct {
	Type       Type                   `json:"type"`
	ProductID  string                 `json:"product_id,omitempty"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// Handler 订阅回调
type Handler func(Event)

// Channel 进程内事件通道
//
// 发布方永不阻塞：事件进入缓冲队列，由单个分发协程按发布顺序
// 依次投递，因此同一商品的事件顺序与其变更完成顺序一致。
// 订阅者 panic 被隔离，不影响其他订阅者与发布方。
type Channel struct {
	mu          sync.RWMutex
	subscribers map[string]Handler
	queue       chan Event
	done        chan struct{}
	closed      bool
}

// NewChannel 创建事件通道并启动分发协程
func NewChannel(buffer int) *Channel {
	if buffer <= 0 {
		buffer = 64
	}
	c := &Channel{
		subscribers: make(map[string]Handler),
		queue:       make(chan Event, buffer),
		done:        make(chan struct{}),
	}
	go c.dispatch()
	return c
}

// Subscribe 注册订阅者，返回用于退订的订阅ID
func (c *Channel) Subscribe(fn Handler) string {
	if fn == nil {
		return ""
	}
	id := uuid.NewString()
	c.mu.Lock()
	c.subscribers[id] = fn
	c.mu.Unlock()
	return id
}

// Unsubscribe 退订
func (c *Channel) Unsubscribe(id string) {
	c.mu.Lock()
	delete(c.subscribers, id)
	c.mu.Unlock()
}

// Publish 发布事件（非阻塞；队列满时丢弃并记录告警）
func (c *Channel) Publish(evt Event) {
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now()
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return
	}
	select {
	case c.queue <- evt:
	default:
		logger.Warnw("event_queue_full_dropped", "type", string(evt.Type), "product_id", evt.ProductID)
	}
}

// Close 停止接收新事件，排空队列后退出分发协程
func (c *Channel) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.queue)
	c.mu.Unlock()
	<-c.done
}

func (c *Channel) dispatch() {
	defer close(c.done)
	for evt := range c.queue {
		c.mu.RLock()
		handlers := make([]Handler, 0, len(c.subscribers))
		for _, fn := range c.subscribers {
			handlers = append(handlers, fn)
		}
		c.mu.RUnlock()
		for _, fn := range handlers {
			c.deliver(fn, evt)
		}
	}
}

func (c *Channel) deliver(fn Handler, evt Event) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorw("event_subscriber_panic", "type", string(evt.Type), "product_id", evt.ProductID, "panic", r)
		}
	}()
	fn(evt)
}
