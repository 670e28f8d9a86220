package events

import (
	"sync"
	"testing"
	"time"
)

func waitUntil(t *testing.T, check func() bool, message string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if check() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting: %s", message)
}

func TestPublishDeliversToSubscribers(t *testing.T) {
	channel := NewChannel(16)
	defer channel.Close()

	var mu sync.Mutex
	var received []Event
	channel.Subscribe(func(evt Event) {
		mu.Lock()
		received = append(received, evt)
		mu.Unlock()
	})

	channel.Publish(Event{Type: TypeCreated, ProductID: "p-1"})

	waitUntil(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 1
	}, "event delivery")

	mu.Lock()
	defer mu.Unlock()
	if received[0].Type != TypeCreated || received[0].ProductID != "p-1" {
		t.Fatalf("unexpected event: %+v", received[0])
	}
	if received[0].OccurredAt.IsZero() {
		t.Fatalf("publish must stamp occurred_at")
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	channel := NewChannel(16)
	defer channel.Close()

	var mu sync.Mutex
	count := 0
	id := channel.Subscribe(func(Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	channel.Publish(Event{Type: TypeViewed, ProductID: "p-1"})
	waitUntil(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count == 1
	}, "first delivery")

	channel.Unsubscribe(id)
	channel.Publish(Event{Type: TypeViewed, ProductID: "p-1"})

	// 第二条事件经同一分发协程排队，用哨兵订阅确认已处理完
	var sentinelMu sync.Mutex
	sentinelSeen := 0
	channel.Subscribe(func(Event) {
		sentinelMu.Lock()
		sentinelSeen++
		sentinelMu.Unlock()
	})
	channel.Publish(Event{Type: TypeViewed, ProductID: "p-1"})
	waitUntil(t, func() bool {
		sentinelMu.Lock()
		defer sentinelMu.Unlock()
		return sentinelSeen >= 1
	}, "sentinel delivery")

	mu.Lock()
	defer mu.Unlock()
	if count != 1 {
		t.Fatalf("unsubscribed handler must not receive events, got %d", count)
	}
}

func TestSubscriberPanicIsolated(t *testing.T) {
	channel := NewChannel(16)
	defer channel.Close()

	channel.Subscribe(func(Event) {
		panic("subscriber blew up")
	})

	var mu sync.Mutex
	delivered := 0
	channel.Subscribe(func(Event) {
		mu.Lock()
		delivered++
		mu.Unlock()
	})

	channel.Publish(Event{Type: TypeUpdated, ProductID: "p-1"})
	channel.Publish(Event{Type: TypeUpdated, ProductID: "p-1"})

	waitUntil(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return delivered == 2
	}, "delivery despite panicking peer")
}

func TestDeliveryPreservesPublishOrder(t *testing.T) {
	channel := NewChannel(64)
	defer channel.Close()

	var mu sync.Mutex
	var order []Type
	channel.Subscribe(func(evt Event) {
		mu.Lock()
		order = append(order, evt.Type)
		mu.Unlock()
	})

	sequence := []Type{TypeStockReserved, TypeLowStockAlert, TypeStockReleased, TypeInventoryUpdated}
	for _, eventType := range sequence {
		channel.Publish(Event{Type: eventType, ProductID: "p-1"})
	}

	waitUntil(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(order) == len(sequence)
	}, "ordered delivery")

	mu.Lock()
	defer mu.Unlock()
	for i, eventType := range sequence {
		if order[i] != eventType {
			t.Fatalf("order broken at %d: expected %s, got %s", i, eventType, order[i])
		}
	}
}

func TestPublishAfterCloseIsNoOp(t *testing.T) {
	channel := NewChannel(16)

	var mu sync.Mutex
	count := 0
	channel.Subscribe(func(Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	channel.Publish(Event{Type: TypeCreated, ProductID: "p-1"})
	channel.Close()
	// Close 排空队列后返回，此前发布的事件已投递
	mu.Lock()
	drained := count
	mu.Unlock()
	if drained != 1 {
		t.Fatalf("close must drain pending events, got %d", drained)
	}

	channel.Publish(Event{Type: TypeCreated, ProductID: "p-2"})
	channel.Close()

	mu.Lock()
	defer mu.Unlock()
	if count != 1 {
		t.Fatalf("publish after close must be dropped, got %d", count)
	}
}
