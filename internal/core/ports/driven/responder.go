package driven

import (
	"context"

	"github.com/vendee/vendee/internal/core/domain"
)

// SellerResponder decides how a seller answers a delivery offer.
// It must return OfferAccepted or OfferRejected.
type SellerResponder interface {
	Respond(ctx context.Context, offer domain.Offer) (domain.OfferStatus, error)
}
