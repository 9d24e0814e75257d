package port

import (
	"context"

	"github.com/saralhq/admin-backend/internal/core/domain"
)

// EventHandler reacts to a dispatched domain event. Handler failures are
// isolated per subscriber; they never abort the committed transaction.
type EventHandler func(ctx context.Context, event domain.Event) error

// EventBus fans committed domain events out to subscribers. Subscription is
// keyed by the event's concrete name.
type EventBus interface {
	Subscribe(eventName string, handler EventHandler)
	// Dispatch delivers each event, in order, to every handler subscribed
	// to its name. Events are post-commit notifications; Dispatch reports
	// nothing back to the mutating caller.
	Dispatch(ctx context.Context, events []domain.Event)
}
