package service

import (
	"testing"

	"collabpay/types"
)

func TestBrokerDropsForSlowSubscriber(t *testing.T) {
	b := NewBroker(testLogger())
	slow, cancelSlow := b.Subscribe(1)
	fast, cancelFast := b.Subscribe(8)
	defer cancelFast()

	for i := 0; i < 3; i++ {
		b.Publish(types.Event{Type: types.EventContractCreated})
	}
	if len(slow) != 1 || len(fast) != 3 {
		t.Fatalf("unexpected buffered counts slow=%d fast=%d", len(slow), len(fast))
	}

	cancelSlow()
	cancelSlow()
	if _, ok := <-drain(slow); ok {
		t.Fatalf("expected closed channel after cancel")
	}
	if b.Subscribers() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", b.Subscribers())
	}
	b.Publish(types.Event{Type: types.EventContractDeployed})
	if len(fast) != 4 {
		t.Fatalf("publish after cancel failed, fast=%d", len(fast))
	}
}

// drain 读掉缓冲中的事件，返回已关闭的 channel
func drain(ch <-chan types.Event) <-chan types.Event {
	for range ch {
	}
	return ch
}
