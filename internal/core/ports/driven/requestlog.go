package driven

import (
	"context"

	"github.com/vendee/vendee/internal/core/domain"
)

// RequestLog is the append-only log of accepted delivery requests.
type RequestLog interface {
	// Append adds a request. Returns ErrAlreadyExists on a duplicate ID.
	Append(ctx context.Context, req domain.DeliveryRequest) error

	// Get retrieves a request by ID.
	Get(ctx context.Context, id string) (*domain.DeliveryRequest, error)

	// List returns requests in append order.
	List(ctx context.Context) ([]domain.DeliveryRequest, error)
}
