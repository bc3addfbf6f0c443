package events

import (
	"sync"
	"testing"
	"time"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := NewBus(10)
	defer bus.Close()

	var mu sync.Mutex
	received := []Event{}

	unsub := bus.Subscribe(EventCardRefreshed, func(e Event) {
		mu.Lock()
		received = append(received, e)
		mu.Unlock()
	})
	defer unsub()

	bus.Publish(EventCardRefreshed, map[string]interface{}{
		"card_id": "card_123",
	})

	// Wait for async delivery
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()

	if len(received) != 1 {
		t.Fatalf("expected 1 event, got %d", len(received))
	}

	if received[0].Type != EventCardRefreshed {
		t.Errorf("expected type %s, got %s", EventCardRefreshed, received[0].Type)
	}

	if cardID, ok := received[0].Data["card_id"].(string); !ok || cardID != "card_123" {
		t.Errorf("expected card_id card_123, got %v", received[0].Data["card_id"])
	}
}

func TestBus_MultipleSubscribers(t *testing.T) {
	bus := NewBus(10)
	defer bus.Close()

	var mu1, mu2 sync.Mutex
	received1 := []Event{}
	received2 := []Event{}

	unsub1 := bus.Subscribe(EventStateChanged, func(e Event) {
		mu1.Lock()
		received1 = append(received1, e)
		mu1.Unlock()
	})
	defer unsub1()

	unsub2 := bus.Subscribe(EventStateChanged, func(e Event) {
		mu2.Lock()
		received2 = append(received2, e)
		mu2.Unlock()
	})
	defer unsub2()

	bus.Publish(EventStateChanged, map[string]interface{}{"op": "add_card"})

	time.Sleep(50 * time.Millisecond)

	mu1.Lock()
	n1 := len(received1)
	mu1.Unlock()
	mu2.Lock()
	n2 := len(received2)
	mu2.Unlock()

	if n1 != 1 || n2 != 1 {
		t.Errorf("expected both subscribers to receive the event, got %d and %d", n1, n2)
	}
}

func TestBus_TypeIsolation(t *testing.T) {
	bus := NewBus(10)
	defer bus.Close()

	var mu sync.Mutex
	received := []Event{}

	unsub := bus.Subscribe(EventAlertTriggered, func(e Event) {
		mu.Lock()
		received = append(received, e)
		mu.Unlock()
	})
	defer unsub()

	// A different event type must not be delivered.
	bus.Publish(EventStateChanged, map[string]interface{}{"op": "set_columns"})

	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 0 {
		t.Errorf("expected 0 events, got %d", len(received))
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus(10)
	defer bus.Close()

	var mu sync.Mutex
	count := 0

	unsub := bus.Subscribe(EventCardRefreshed, func(e Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	bus.Publish(EventCardRefreshed, nil)
	time.Sleep(50 * time.Millisecond)
	unsub()
	bus.Publish(EventCardRefreshed, nil)
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if count != 1 {
		t.Errorf("expected 1 event after unsubscribe, got %d", count)
	}
}

func TestBus_SubscriberPanicRecovered(t *testing.T) {
	bus := NewBus(10)
	defer bus.Close()

	var mu sync.Mutex
	delivered := 0

	unsub := bus.Subscribe(EventAlertTriggered, func(e Event) {
		mu.Lock()
		delivered++
		mu.Unlock()
		panic("subscriber bug")
	})
	defer unsub()

	bus.Publish(EventAlertTriggered, nil)
	bus.Publish(EventAlertTriggered, nil)
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if delivered != 2 {
		t.Errorf("panicking subscriber stopped receiving: %d", delivered)
	}
}

func TestBus_NonBlockingWhenFull(t *testing.T) {
	bus := NewBus(1)
	defer bus.Close()

	block := make(chan struct{})
	unsub := bus.Subscribe(EventStateChanged, func(e Event) {
		<-block
	})
	defer unsub()

	// First fills the in-flight slot, second fills the buffer, the rest are
	// dropped. None of these may block the publisher.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			bus.Publish(EventStateChanged, nil)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full subscriber")
	}
	close(block)
}
