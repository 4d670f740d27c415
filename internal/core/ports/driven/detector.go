package driven

import (
	"context"

	"github.com/vendee/vendee/internal/core/domain"
)

// ItemDetector classifies the contents of an inventory photo.
// This is an optional dependency.
type ItemDetector interface {
	// Detect returns labels with confidences, highest first.
	Detect(ctx context.Context, image []byte) ([]domain.DetectedItem, error)

	// Close releases resources.
	Close() error
}
