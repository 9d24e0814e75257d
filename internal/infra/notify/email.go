// Package notify delivers account notifications raised by domain events.
package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/saralhq/admin-backend/internal/core/domain"
	"github.com/saralhq/admin-backend/internal/core/port"
	"github.com/saralhq/admin-backend/internal/infra/logger"
)

// EmailNotifier sends the welcome message with the temporary password to a
// freshly registered user. This implementation records the delivery in the
// log; a real mail transport slots in behind the same subscription.
type EmailNotifier struct {
	logger *zap.Logger
}

// NewEmailNotifier constructs an EmailNotifier.
func NewEmailNotifier(log *zap.Logger) *EmailNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &EmailNotifier{logger: log}
}

// Register subscribes the notifier to user registration events.
func (n *EmailNotifier) Register(bus port.EventBus) {
	bus.Subscribe(domain.EventUserRegistered, n.handle)
}

func (n *EmailNotifier) handle(_ context.Context, event domain.Event) error {
	registered, ok := event.(domain.UserRegisteredEvent)
	if !ok {
		return nil
	}

	n.logger.Info("welcome email queued",
		zap.String("user_id", registered.UserID),
		zap.String("email", logger.MaskEmail(registered.Email)),
		zap.String("temporary_password", logger.MaskString(registered.TemporaryPassword)),
	)
	return nil
}
