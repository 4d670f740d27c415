package driving

import (
	"context"

	"github.com/vendee/vendee/internal/core/domain"
)

// DispatchService runs the delivery offer exchange with a mobile seller.
type DispatchService interface {
	// Dispatch offers the delivery to the seller and records acceptances.
	Dispatch(ctx context.Context, req domain.DispatchRequest) (*domain.DispatchResult, error)

	// Requests lists accepted delivery requests.
	Requests(ctx context.Context) ([]domain.DeliveryRequest, error)
}
