package driven

import (
	"context"

	"github.com/vendee/vendee/internal/core/domain"
)

// EventPublisher emits analytics events. This is an optional dependency;
// callers log publish errors and carry on.
type EventPublisher interface {
	PublishDispatch(ctx context.Context, event domain.DispatchEvent) error
	PublishUnmetDemand(ctx context.Context, event domain.UnmetDemandEvent) error
	Close() error
}
