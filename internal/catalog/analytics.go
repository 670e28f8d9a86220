package catalog

import (
	"time"

	"github.com/greenmart-next/internal/events"

	"github.com/shopspring/decimal"
)

// Tracker 商品行为统计：记录浏览/加购/购买/直播推荐并重算派生指标。
// 商品是否存在由 CatalogStore 在上游校验，统计记录缺失时静默忽略。
type Tracker struct {
	store *Store
}

// NewTracker 创建统计器
func NewTracker(store *Store) *Tracker {
	return &Tracker{store: store}
}

// TrackView 记录一次商品浏览
func (t *Tracker) TrackView(id string) {
	s := t.store
	unlock := s.locks.Lock(id)
	defer unlock()

	s.mu.Lock()
	record, ok := s.analytics[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	record.Views++
	record.LastUpdated = time.Now()
	views := record.Views
	s.mu.Unlock()

	s.publish(events.TypeViewed, id, map[string]interface{}{"views": views})
}

// TrackAddToCart 记录一次加购并重算转化率（views 为 0 时转化率为 0）
func (t *Tracker) TrackAddToCart(id string) {
	s := t.store
	unlock := s.locks.Lock(id)
	defer unlock()

	s.mu.Lock()
	record, ok := s.analytics[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	record.AddToCartCount++
	record.ConversionRate = conversionRate(record.AddToCartCount, record.Views)
	record.LastUpdated = time.Now()
	count := record.AddToCartCount
	rate := record.ConversionRate
	s.mu.Unlock()

	s.publish(events.TypeAddedToCart, id, map[string]interface{}{
		"add_to_cart_count": count,
		"conversion_rate":   rate,
	})
}

// TrackPurchase 记录确认支付的购买：累加件数与营收并重算转化率
func (t *Tracker) TrackPurchase(id string, qty int, revenue decimal.Decimal) {
	if qty <= 0 {
		return
	}
	s := t.store
	unlock := s.locks.Lock(id)
	defer unlock()

	s.mu.Lock()
	record, ok := s.analytics[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	record.PurchaseCount += int64(qty)
	record.Revenue = record.Revenue.Add(revenue)
	record.ConversionRate = conversionRate(record.PurchaseCount, record.Views)
	record.LastUpdated = time.Now()
	count := record.PurchaseCount
	total := record.Revenue.String()
	s.mu.Unlock()

	s.publish(events.TypePurchased, id, map[string]interface{}{
		"quantity":       qty,
		"purchase_count": count,
		"revenue":        total,
	})
}

// FeatureInStream 记录一次直播间推荐
func (t *Tracker) FeatureInStream(id, streamID string) {
	s := t.store
	unlock := s.locks.Lock(id)
	defer unlock()

	s.mu.Lock()
	record, ok := s.analytics[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	record.StreamFeaturedCount++
	record.LastUpdated = time.Now()
	count := record.StreamFeaturedCount
	s.mu.Unlock()

	s.publish(events.TypeFeaturedInStream, id, map[string]interface{}{
		"stream_id":             streamID,
		"stream_featured_count": count,
	})
}

// SetRating 外部评价系统喂入的评分聚合
func (t *Tracker) SetRating(id string, average float64, count int64) {
	s := t.store
	unlock := s.locks.Lock(id)
	defer unlock()

	s.mu.Lock()
	record, ok := s.analytics[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	record.AverageRating = average
	record.ReviewCount = count
	record.LastUpdated = time.Now()
	s.mu.Unlock()
}

// conversionRate 每次整体重算，避免增量误差累积
func conversionRate(actions, views int64) float64 {
	if views <= 0 {
		return 0
	}
	return float64(actions) / float64(views)
}
