package memory

import (
	"context"

	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/application/directory"
)

// NoopPublisher logs events instead of sending them.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (p *NoopPublisher) PublishUserSaved(ctx context.Context, evt directory.UserSavedEvent) error {
	zlog.Debug().
		Str("routing_key", evt.RoutingKey()).
		Int64("user_id", evt.UserID).
		Int64("version", evt.Version).
		Msg("noop publish")
	return nil
}
