package service

import (
	"log/slog"
	"sync"
	"time"

	"collabpay/types"

	"github.com/google/uuid"
)

// Broker 显式的事件推送：状态变更后由 service 主动 Publish，订阅方自行消费
type Broker struct {
	mu     sync.Mutex
	next   uint64
	subs   map[uint64]chan types.Event
	logger *slog.Logger
	now    func() time.Time
}

func NewBroker(logger *slog.Logger) *Broker {
	return &Broker{
		subs:   make(map[uint64]chan types.Event),
		logger: logger,
		now:    time.Now,
	}
}

// Subscribe 返回事件 channel 和取消函数；取消后 channel 会被关闭
func (b *Broker) Subscribe(buffer int) (<-chan types.Event, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan types.Event, buffer)

	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish 非阻塞投递，订阅方消费过慢时丢弃事件
func (b *Broker) Publish(evt types.Event) {
	if evt.ID == "" {
		evt.ID = uuid.NewString()
	}
	if evt.At.IsZero() {
		evt.At = b.now()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs {
		select {
		case ch <- evt:
		default:
			b.logger.Warn("dropping event for slow subscriber",
				"subscriber", id,
				"type", evt.Type,
				"contract_id", evt.ContractID,
			)
		}
	}
}

// Subscribers 当前订阅数
func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
