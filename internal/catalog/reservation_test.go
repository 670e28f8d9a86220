package catalog

import (
	"sync"
	"testing"
	"time"

	"github.com/greenmart-next/internal/events"
)

// eventCollector 收集异步分发的事件，供断言用
type eventCollector struct {
	mu     sync.Mutex
	byType map[events.Type]int
}

func newEventCollector(t *testing.T, channel *events.Channel) *eventCollector {
	t.Helper()
	collector := &eventCollector{byType: make(map[events.Type]int)}
	channel.Subscribe(func(evt events.Event) {
		collector.mu.Lock()
		collector.byType[evt.Type]++
		collector.mu.Unlock()
	})
	return collector
}

func (c *eventCollector) count(eventType events.Type) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.byType[eventType]
}

// waitForCount 轮询等待异步分发追上，超时即失败
func (c *eventCollector) waitForCount(t *testing.T, eventType events.Type, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if c.count(eventType) >= want {
			if got := c.count(eventType); got != want {
				t.Fatalf("expected %d %s events, got %d", want, eventType, got)
			}
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d %s events, got %d after timeout", want, eventType, c.count(eventType))
}

func newReservationTestSetup(t *testing.T) (*Store, *ReservationManager, *eventCollector) {
	t.Helper()
	channel := events.NewChannel(256)
	t.Cleanup(channel.Close)
	store := NewStore(channel)
	collector := newEventCollector(t, channel)
	return store, NewReservationManager(store), collector
}

func TestReserveStockMaintainsInvariant(t *testing.T) {
	store, manager, _ := newReservationTestSetup(t)
	view := createTestProduct(t, store, CreateProductInput{InitialStock: 10})

	ok, err := manager.ReserveStock(view.Product.ID, 4)
	if err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if !ok {
		t.Fatalf("expected reservation to succeed")
	}

	got, _ := store.Get(view.Product.ID)
	inv := got.Inventory
	if inv.StockQuantity != 10 || inv.ReservedQuantity != 4 || inv.AvailableQuantity != 6 {
		t.Fatalf("invariant broken: %+v", inv)
	}
	if inv.AvailableQuantity != inv.StockQuantity-inv.ReservedQuantity {
		t.Fatalf("available != stock - reserved: %+v", inv)
	}
}

func TestReserveStockValidation(t *testing.T) {
	store, manager, _ := newReservationTestSetup(t)
	view := createTestProduct(t, store, CreateProductInput{InitialStock: 10})

	if _, err := manager.ReserveStock(view.Product.ID, 0); err != ErrQuantityInvalid {
		t.Fatalf("expected ErrQuantityInvalid, got %v", err)
	}
	if _, err := manager.ReserveStock("missing-id", 1); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// 可售不足是业务结果而非错误
	ok, err := manager.ReserveStock(view.Product.ID, 11)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected insufficient stock to reject reservation")
	}
	got, _ := store.Get(view.Product.ID)
	if got.Inventory.ReservedQuantity != 0 || got.Inventory.AvailableQuantity != 10 {
		t.Fatalf("failed reservation must not mutate inventory: %+v", got.Inventory)
	}
}

func TestConcurrentReserveSingleUnit(t *testing.T) {
	store, manager, _ := newReservationTestSetup(t)
	view := createTestProduct(t, store, CreateProductInput{InitialStock: 1})

	const workers = 32
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := manager.ReserveStock(view.Product.ID, 1)
			if err != nil {
				t.Errorf("reserve failed: %v", err)
				return
			}
			if ok {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 {
		t.Fatalf("expected exactly one winner, got %d", succeeded)
	}
	got, _ := store.Get(view.Product.ID)
	if got.Inventory.ReservedQuantity != 1 || got.Inventory.AvailableQuantity != 0 {
		t.Fatalf("inventory mismatch after race: %+v", got.Inventory)
	}
}

func TestConcurrentReserveOverlappingQuantities(t *testing.T) {
	store, manager, _ := newReservationTestSetup(t)
	view := createTestProduct(t, store, CreateProductInput{InitialStock: 10})

	var wg sync.WaitGroup
	results := make([]bool, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			ok, err := manager.ReserveStock(view.Product.ID, 6)
			if err != nil {
				t.Errorf("reserve failed: %v", err)
				return
			}
			results[idx] = ok
		}(i)
	}
	wg.Wait()

	if results[0] == results[1] {
		t.Fatalf("expected exactly one of two overlapping reservations to win, got %v", results)
	}
	got, _ := store.Get(view.Product.ID)
	if got.Inventory.ReservedQuantity != 6 || got.Inventory.AvailableQuantity != 4 {
		t.Fatalf("inventory mismatch: %+v", got.Inventory)
	}
}

func TestReleaseStockSymmetry(t *testing.T) {
	store, manager, _ := newReservationTestSetup(t)
	view := createTestProduct(t, store, CreateProductInput{InitialStock: 20})

	if ok, _ := manager.ReserveStock(view.Product.ID, 5); !ok {
		t.Fatalf("reserve failed")
	}
	if err := manager.ReleaseStock(view.Product.ID, 5); err != nil {
		t.Fatalf("release failed: %v", err)
	}

	got, _ := store.Get(view.Product.ID)
	if got.Inventory.ReservedQuantity != 0 || got.Inventory.AvailableQuantity != 20 {
		t.Fatalf("release must restore availability: %+v", got.Inventory)
	}
}

func TestReleaseStockClampsToReserved(t *testing.T) {
	store, manager, _ := newReservationTestSetup(t)
	view := createTestProduct(t, store, CreateProductInput{InitialStock: 10})

	if ok, _ := manager.ReserveStock(view.Product.ID, 3); !ok {
		t.Fatalf("reserve failed")
	}
	if err := manager.ReleaseStock(view.Product.ID, 100); err != nil {
		t.Fatalf("release failed: %v", err)
	}

	got, _ := store.Get(view.Product.ID)
	if got.Inventory.ReservedQuantity != 0 || got.Inventory.AvailableQuantity != 10 {
		t.Fatalf("over-release must clamp to reserved amount: %+v", got.Inventory)
	}

	if err := manager.ReleaseStock(view.Product.ID, 0); err != ErrQuantityInvalid {
		t.Fatalf("expected ErrQuantityInvalid, got %v", err)
	}
	if err := manager.ReleaseStock("missing-id", 1); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLowStockAlertFiresOnceOnCrossing(t *testing.T) {
	store, manager, collector := newReservationTestSetup(t)
	view := createTestProduct(t, store, CreateProductInput{InitialStock: 10, LowStockThreshold: 3})

	// 10 -> 2 跌穿阈值，恰好一次告警
	if ok, _ := manager.ReserveStock(view.Product.ID, 8); !ok {
		t.Fatalf("reserve failed")
	}
	collector.waitForCount(t, events.TypeLowStockAlert, 1)

	// 已在阈值以下继续下跌不重复告警
	if ok, _ := manager.ReserveStock(view.Product.ID, 1); !ok {
		t.Fatalf("reserve failed")
	}
	collector.waitForCount(t, events.TypeStockReserved, 2)
	if got := collector.count(events.TypeLowStockAlert); got != 1 {
		t.Fatalf("expected single low stock alert, got %d", got)
	}
}

func TestLowStockAlertOnInventoryUpdate(t *testing.T) {
	store, manager, collector := newReservationTestSetup(t)
	view := createTestProduct(t, store, CreateProductInput{InitialStock: 10, LowStockThreshold: 3})

	// 补货方向下调库存至阈值以下同样告警
	newStock := 2
	if _, err := manager.UpdateInventory(view.Product.ID, InventoryUpdate{StockQuantity: &newStock}); err != nil {
		t.Fatalf("update inventory failed: %v", err)
	}
	collector.waitForCount(t, events.TypeLowStockAlert, 1)

	// 阈值以下再次更新不重复告警
	lower := 1
	if _, err := manager.UpdateInventory(view.Product.ID, InventoryUpdate{StockQuantity: &lower}); err != nil {
		t.Fatalf("update inventory failed: %v", err)
	}
	collector.waitForCount(t, events.TypeInventoryUpdated, 2)
	if got := collector.count(events.TypeLowStockAlert); got != 1 {
		t.Fatalf("expected single low stock alert, got %d", got)
	}
}

func TestReleaseNeverTriggersLowStockAlert(t *testing.T) {
	store, manager, collector := newReservationTestSetup(t)
	view := createTestProduct(t, store, CreateProductInput{InitialStock: 10, LowStockThreshold: 3})

	if ok, _ := manager.ReserveStock(view.Product.ID, 8); !ok {
		t.Fatalf("reserve failed")
	}
	collector.waitForCount(t, events.TypeLowStockAlert, 1)

	if err := manager.ReleaseStock(view.Product.ID, 8); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	collector.waitForCount(t, events.TypeStockReleased, 1)
	if got := collector.count(events.TypeLowStockAlert); got != 1 {
		t.Fatalf("release must not emit low stock alerts, got %d", got)
	}
}

func TestUpdateInventoryValidation(t *testing.T) {
	store, manager, _ := newReservationTestSetup(t)
	view := createTestProduct(t, store, CreateProductInput{InitialStock: 10})

	if ok, _ := manager.ReserveStock(view.Product.ID, 4); !ok {
		t.Fatalf("reserve failed")
	}

	negative := -1
	if _, err := manager.UpdateInventory(view.Product.ID, InventoryUpdate{StockQuantity: &negative}); err != ErrStockInvalid {
		t.Fatalf("expected ErrStockInvalid for negative stock, got %v", err)
	}

	// 新库存不得低于已预占量
	tooLow := 3
	if _, err := manager.UpdateInventory(view.Product.ID, InventoryUpdate{StockQuantity: &tooLow}); err != ErrStockInvalid {
		t.Fatalf("expected ErrStockInvalid below reserved, got %v", err)
	}

	if _, err := manager.UpdateInventory("missing-id", InventoryUpdate{}); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateInventorySetsLastRestockedOnIncrease(t *testing.T) {
	store, manager, _ := newReservationTestSetup(t)
	view := createTestProduct(t, store, CreateProductInput{InitialStock: 10})

	restocked := 25
	inv, err := manager.UpdateInventory(view.Product.ID, InventoryUpdate{StockQuantity: &restocked})
	if err != nil {
		t.Fatalf("update inventory failed: %v", err)
	}
	if inv.LastRestocked == nil {
		t.Fatalf("stock increase must set last restocked timestamp")
	}
	if inv.StockQuantity != 25 || inv.AvailableQuantity != 25 {
		t.Fatalf("inventory mismatch: %+v", inv)
	}

	// 仅调阈值不刷新补货时间
	previous := *inv.LastRestocked
	threshold := 7
	inv, err = manager.UpdateInventory(view.Product.ID, InventoryUpdate{LowStockThreshold: &threshold})
	if err != nil {
		t.Fatalf("update inventory failed: %v", err)
	}
	if inv.LastRestocked == nil || !inv.LastRestocked.Equal(previous) {
		t.Fatalf("threshold-only update must not touch last restocked")
	}
}

func TestBulkUpdateInventoryPartialFailure(t *testing.T) {
	store, manager, _ := newReservationTestSetup(t)
	a := createTestProduct(t, store, CreateProductInput{Name: "燕麦", InitialStock: 5})

	stock := 50
	bad := -2
	result := manager.BulkUpdateInventory([]InventoryBulkItem{
		{ProductID: a.Product.ID, Update: InventoryUpdate{StockQuantity: &stock}},
		{ProductID: "missing-id", Update: InventoryUpdate{StockQuantity: &stock}},
		{ProductID: a.Product.ID, Update: InventoryUpdate{StockQuantity: &bad}},
	})

	if len(result.Succeeded) != 1 {
		t.Fatalf("expected one success, got %v", result.Succeeded)
	}
	if len(result.Failed) != 2 {
		t.Fatalf("expected two failures, got %v", result.Failed)
	}
	got, _ := store.Get(a.Product.ID)
	if got.Inventory.StockQuantity != 50 {
		t.Fatalf("successful item must apply, got %+v", got.Inventory)
	}
}
