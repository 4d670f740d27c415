package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vendee/vendee/internal/core/domain"
	"github.com/vendee/vendee/internal/core/ports/driven"
)

// Ensure RequestLog implements the interface.
var _ driven.RequestLog = (*RequestLog)(nil)

// RequestLog is an in-memory append-only delivery request log.
type RequestLog struct {
	mu       sync.RWMutex
	requests []domain.DeliveryRequest
	ids      map[string]struct{}
}

// NewRequestLog creates a new in-memory request log.
func NewRequestLog() *RequestLog {
	return &RequestLog{
		ids: make(map[string]struct{}),
	}
}

// Append adds a request to the log.
func (l *RequestLog) Append(_ context.Context, req domain.DeliveryRequest) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.ids[req.ID]; ok {
		return fmt.Errorf("delivery request %s: %w", req.ID, domain.ErrAlreadyExists)
	}
	l.ids[req.ID] = struct{}{}
	l.requests = append(l.requests, cloneRequest(req))
	return nil
}

// Get retrieves a request by ID.
func (l *RequestLog) Get(_ context.Context, id string) (*domain.DeliveryRequest, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for i := range l.requests {
		if l.requests[i].ID == id {
			req := cloneRequest(l.requests[i])
			return &req, nil
		}
	}
	return nil, domain.ErrNotFound
}

// List returns requests in append order.
func (l *RequestLog) List(_ context.Context) ([]domain.DeliveryRequest, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]domain.DeliveryRequest, len(l.requests))
	for i := range l.requests {
		result[i] = cloneRequest(l.requests[i])
	}
	return result, nil
}

func cloneRequest(req domain.DeliveryRequest) domain.DeliveryRequest {
	req.ItemsRequested = append([]domain.DemandItem(nil), req.ItemsRequested...)
	req.Offers = append([]domain.Offer(nil), req.Offers...)
	return req
}
