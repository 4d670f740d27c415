package driving

import (
	"context"

	"github.com/vendee/vendee/internal/core/domain"
)

// SmartBuyService runs the full pipeline from free text to recommendations.
type SmartBuyService interface {
	// SmartBuy parses text, matches sellers, ranks them, and records unmet demand.
	// A parse failure is returned as *domain.ParseFailure.
	SmartBuy(ctx context.Context, text string, location domain.Coordinate) (*domain.SmartBuyResult, error)
}
