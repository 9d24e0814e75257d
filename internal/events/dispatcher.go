// Package events provides the in-process dispatcher that fans committed
// domain events out to registered subscribers.
package events

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/saralhq/admin-backend/internal/core/domain"
	"github.com/saralhq/admin-backend/internal/core/port"
)

// Dispatcher implements port.EventBus. Subscribers are registered during
// application wiring; dispatch happens after the owning transaction has
// committed, so a failing subscriber can only be logged, never rolled back.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]port.EventHandler
	logger   *zap.Logger
}

// NewDispatcher constructs an empty dispatcher.
func NewDispatcher(logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		handlers: make(map[string][]port.EventHandler),
		logger:   logger,
	}
}

// Subscribe registers a handler for the named event type. Handlers run in
// registration order.
func (d *Dispatcher) Subscribe(eventName string, handler port.EventHandler) {
	if handler == nil {
		return
	}
	d.mu.Lock()
	d.handlers[eventName] = append(d.handlers[eventName], handler)
	d.mu.Unlock()
}

// Dispatch delivers each event, in slice order, to every subscriber of its
// name. Each delivery is attempted exactly once; a handler error or panic
// is logged and does not prevent delivery to the remaining handlers.
func (d *Dispatcher) Dispatch(ctx context.Context, events []domain.Event) {
	for _, event := range events {
		d.mu.RLock()
		subscribers := d.handlers[event.EventName()]
		d.mu.RUnlock()

		for _, handler := range subscribers {
			if err := d.deliver(ctx, handler, event); err != nil {
				d.logger.Error("event handler failed",
					zap.String("event", event.EventName()),
					zap.Error(err),
				)
			}
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, handler port.EventHandler, event domain.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("event handler panicked: %v", r)
		}
	}()
	return handler(ctx, event)
}

var _ port.EventBus = (*Dispatcher)(nil)
