package catalog

import (
	"time"

	"github.com/greenmart-next/internal/events"
	"github.com/greenmart-next/internal/models"

	"github.com/shopspring/decimal"
)

// ReservationManager 库存预占管理器：对 Store 的库存记录执行原子
// 预占/释放，结算流程在支付授权前预占、失败或超时后释放。
type ReservationManager struct {
	store *Store
}

// NewReservationManager 创建库存预占管理器
func NewReservationManager(store *Store) *ReservationManager {
	return &ReservationManager{store: store}
}

// InventoryUpdate 库存可选字段更新（nil 表示保持原值）
type InventoryUpdate struct {
	StockQuantity     *int
	LowStockThreshold *int
	ReorderPoint      *int
	Supplier          *string
	UnitCost          *decimal.Decimal
	Margin            *float64
}

// InventoryBulkItem 批量库存更新单项
type InventoryBulkItem struct {
	ProductID string
	Update    InventoryUpdate
}

// ReserveStock 预占库存。
// 返回 false 表示可售量不足，属正常业务分支而非错误；
// 同一商品的并发预占经键级锁串行化，库存为 1 时 N 个并发请求恰有一个成功。
func (m *ReservationManager) ReserveStock(id string, qty int) (bool, error) {
	if qty <= 0 {
		return false, ErrQuantityInvalid
	}
	s := m.store

	unlock := s.locks.Lock(id)
	defer unlock()

	s.mu.Lock()
	inv, ok := s.inventories[id]
	if !ok {
		s.mu.Unlock()
		return false, ErrNotFound
	}
	if inv.AvailableQuantity < qty {
		s.mu.Unlock()
		return false, nil
	}
	prevAvailable := inv.AvailableQuantity
	inv.ReservedQuantity += qty
	inv.AvailableQuantity -= qty
	crossed := crossedLowStock(prevAvailable, inv.AvailableQuantity, inv.LowStockThreshold)
	snapshot := *inv
	s.mu.Unlock()

	s.publish(events.TypeStockReserved, id, map[string]interface{}{
		"quantity":  qty,
		"reserved":  snapshot.ReservedQuantity,
		"available": snapshot.AvailableQuantity,
	})
	if crossed {
		m.publishLowStock(id, snapshot)
	}
	return true, nil
}

// ReleaseStock 释放预占库存。
// 释放量按已预占量收口（不会为负），过量释放只回补实际占用的部分。
func (m *ReservationManager) ReleaseStock(id string, qty int) error {
	if qty <= 0 {
		return ErrQuantityInvalid
	}
	s := m.store

	unlock := s.locks.Lock(id)
	defer unlock()

	s.mu.Lock()
	inv, ok := s.inventories[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	released := qty
	if released > inv.ReservedQuantity {
		released = inv.ReservedQuantity
	}
	inv.ReservedQuantity -= released
	inv.AvailableQuantity += released
	snapshot := *inv
	s.mu.Unlock()

	s.publish(events.TypeStockReleased, id, map[string]interface{}{
		"quantity":  released,
		"reserved":  snapshot.ReservedQuantity,
		"available": snapshot.AvailableQuantity,
	})
	return nil
}

// UpdateInventory 更新库存字段（如补货后的新库存总量），
// 可售量按不变式重算；可售量自阈值上方跌至阈值及以下时恰好发布一次低库存告警。
func (m *ReservationManager) UpdateInventory(id string, update InventoryUpdate) (*models.Inventory, error) {
	if update.StockQuantity != nil && *update.StockQuantity < 0 {
		return nil, ErrStockInvalid
	}
	if update.LowStockThreshold != nil && *update.LowStockThreshold < 0 {
		return nil, ErrStockInvalid
	}
	if update.ReorderPoint != nil && *update.ReorderPoint < 0 {
		return nil, ErrStockInvalid
	}
	s := m.store

	unlock := s.locks.Lock(id)
	defer unlock()

	s.mu.Lock()
	inv, ok := s.inventories[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	if update.StockQuantity != nil && *update.StockQuantity < inv.ReservedQuantity {
		s.mu.Unlock()
		return nil, ErrStockInvalid
	}

	prevAvailable := inv.AvailableQuantity
	if update.StockQuantity != nil {
		if *update.StockQuantity > inv.StockQuantity {
			now := time.Now()
			inv.LastRestocked = &now
		}
		inv.StockQuantity = *update.StockQuantity
	}
	if update.LowStockThreshold != nil {
		inv.LowStockThreshold = *update.LowStockThreshold
	}
	if update.ReorderPoint != nil {
		inv.ReorderPoint = *update.ReorderPoint
	}
	if update.Supplier != nil {
		inv.Supplier = *update.Supplier
	}
	if update.UnitCost != nil {
		inv.UnitCost = models.NewMoneyFromDecimal(*update.UnitCost)
	}
	if update.Margin != nil {
		inv.Margin = *update.Margin
	}
	inv.AvailableQuantity = inv.StockQuantity - inv.ReservedQuantity
	crossed := crossedLowStock(prevAvailable, inv.AvailableQuantity, inv.LowStockThreshold)
	snapshot := *inv
	s.mu.Unlock()

	s.publish(events.TypeInventoryUpdated, id, map[string]interface{}{
		"stock":     snapshot.StockQuantity,
		"available": snapshot.AvailableQuantity,
	})
	if crossed {
		m.publishLowStock(id, snapshot)
	}
	return &snapshot, nil
}

// BulkUpdateInventory 批量库存更新：逐项独立生效，汇总发布一条事件
func (m *ReservationManager) BulkUpdateInventory(items []InventoryBulkItem) BulkResult {
	result := BulkResult{Failed: make(map[string]string)}
	for _, item := range items {
		if _, err := m.UpdateInventory(item.ProductID, item.Update); err != nil {
			result.Failed[item.ProductID] = err.Error()
			continue
		}
		result.Succeeded = append(result.Succeeded, item.ProductID)
	}
	m.store.publish(events.TypeBulkInventoryUpdate, "", map[string]interface{}{
		"succeeded": len(result.Succeeded),
		"failed":    len(result.Failed),
	})
	return result
}

func (m *ReservationManager) publishLowStock(id string, inv models.Inventory) {
	m.store.publish(events.TypeLowStockAlert, id, map[string]interface{}{
		"available":     inv.AvailableQuantity,
		"threshold":     inv.LowStockThreshold,
		"reorder_point": inv.ReorderPoint,
		"supplier":      inv.Supplier,
	})
}

// crossedLowStock 判断可售量是否从阈值上方跌至阈值及以下。
// 已处于阈值以下时继续下跌不重复告警。
func crossedLowStock(prev, next, threshold int) bool {
	return prev > threshold && next <= threshold
}
