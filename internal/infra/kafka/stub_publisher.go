package kafka

import (
	"context"

	"go.uber.org/zap"

	"github.com/saralhq/admin-backend/internal/core/domain"
	"github.com/saralhq/admin-backend/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Used when no
// brokers are configured, typically in development environments.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

// Register attaches the stub to every integration-relevant event name.
func (p *StubPublisher) Register(bus port.EventBus) {
	for _, name := range []string{
		domain.EventUserRegistered,
		domain.EventUserStatusChanged,
		domain.EventUserRolesAssigned,
		domain.EventRoleCreated,
		domain.EventRoleDeleted,
		domain.EventRolePermissionsChanged,
		domain.EventEfaConfigurationCreated,
		domain.EventEfaConfigurationUpdated,
		domain.EventFileUploaded,
		domain.EventFileDeleted,
	} {
		bus.Subscribe(name, p.handle)
	}
}

func (p *StubPublisher) handle(_ context.Context, event domain.Event) error {
	p.logger.Info("Stub event published",
		zap.String("event_type", event.EventName()),
		zap.Any("payload", integrationPayload(event)),
	)
	return nil
}
