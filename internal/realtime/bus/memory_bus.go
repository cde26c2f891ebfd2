package bus

import (
	"context"
	"fmt"
	"sync"

	"github.com/yungbote/profileforms-backend/internal/platform/logger"
	"github.com/yungbote/profileforms-backend/internal/realtime"
)

// MemoryBus delivers messages in-process. Used when REDIS_ADDR is unset.
type MemoryBus struct {
	mu   sync.RWMutex
	log  *logger.Logger
	subs []func(realtime.Message)
	done bool
}

func NewMemoryBus(log *logger.Logger) *MemoryBus {
	if log == nil {
		log = logger.Nop()
	}
	return &MemoryBus{log: log.With("service", "MemoryEventBus")}
}

func (b *MemoryBus) Publish(ctx context.Context, msg realtime.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.done {
		return fmt.Errorf("memory event bus closed")
	}
	b.log.Debug("event published", "channel", msg.Channel, "event", msg.Event)
	for _, fn := range b.subs {
		fn(msg)
	}
	return nil
}

func (b *MemoryBus) StartForwarder(ctx context.Context, onMsg func(m realtime.Message)) error {
	if onMsg == nil {
		return fmt.Errorf("onMsg callback required")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.done {
		return fmt.Errorf("memory event bus closed")
	}
	b.subs = append(b.subs, onMsg)
	return nil
}

func (b *MemoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.done = true
	b.subs = nil
	return nil
}
