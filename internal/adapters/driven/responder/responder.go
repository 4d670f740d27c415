// Package responder provides SellerResponder implementations that decide
// whether a mobile seller takes a delivery offer.
package responder

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/vendee/vendee/internal/core/domain"
	"github.com/vendee/vendee/internal/core/ports/driven"
)

// Ensure the responders implement the interface.
var (
	_ driven.SellerResponder = (*Random)(nil)
	_ driven.SellerResponder = (*Fixed)(nil)
)

// Random accepts offers with a fixed probability.
type Random struct {
	mu         sync.Mutex
	rng        *rand.Rand
	acceptRate float64
}

// NewRandom creates a responder that accepts with probability acceptRate.
// A nil rng uses a randomly seeded source.
func NewRandom(acceptRate float64, rng *rand.Rand) *Random {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Random{rng: rng, acceptRate: acceptRate}
}

// NewCoinFlip creates a responder that accepts half of the offers.
func NewCoinFlip() *Random {
	return NewRandom(0.5, nil)
}

// Respond flips the coin.
func (r *Random) Respond(ctx context.Context, _ domain.Offer) (domain.OfferStatus, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.mu.Lock()
	roll := r.rng.Float64()
	r.mu.Unlock()

	if roll < r.acceptRate {
		return domain.OfferAccepted, nil
	}
	return domain.OfferRejected, nil
}

// Fixed always gives the same answer.
type Fixed struct {
	status domain.OfferStatus
}

// NewFixed creates a responder that always answers status.
func NewFixed(status domain.OfferStatus) *Fixed {
	return &Fixed{status: status}
}

// Accepting always accepts.
func Accepting() *Fixed {
	return NewFixed(domain.OfferAccepted)
}

// Rejecting always rejects.
func Rejecting() *Fixed {
	return NewFixed(domain.OfferRejected)
}

// Respond returns the configured status.
func (f *Fixed) Respond(ctx context.Context, _ domain.Offer) (domain.OfferStatus, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return f.status, nil
}
