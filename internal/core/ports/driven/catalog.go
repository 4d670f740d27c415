package driven

import (
	"context"

	"github.com/vendee/vendee/internal/core/domain"
)

// CatalogSource loads a bulk catalog of sellers and inventories.
type CatalogSource interface {
	Load(ctx context.Context) (*domain.Catalog, error)
}
