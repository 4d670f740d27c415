package sqlstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vendee/vendee/internal/core/domain"
	"github.com/vendee/vendee/internal/core/ports/driven"
)

// requestLog implements driven.RequestLog.
type requestLog struct {
	store *Store
}

var _ driven.RequestLog = (*requestLog)(nil)

type requestRow struct {
	ID              string  `db:"id"`
	Position        int64   `db:"position"`
	RequesterID     string  `db:"requester_id"`
	Latitude        float64 `db:"latitude"`
	Longitude       float64 `db:"longitude"`
	ItemsRequested  string  `db:"items_requested"`
	Status          string  `db:"status"`
	CreatedAt       int64   `db:"created_at"`
	Offers          string  `db:"offers"`
	TotalOffersSent int     `db:"total_offers_sent"`
	MaxRetries      int     `db:"max_retries"`
}

const requestColumns = `id, position, requester_id, latitude, longitude, items_requested, status,
	created_at, offers, total_offers_sent, max_retries`

func (r requestRow) toDomain() (*domain.DeliveryRequest, error) {
	record := "delivery request " + r.ID
	var items []domain.DemandItem
	if err := json.Unmarshal([]byte(r.ItemsRequested), &items); err != nil {
		return nil, domain.IntegrityError(record, "items: "+err.Error())
	}
	var offers []domain.Offer
	if err := json.Unmarshal([]byte(r.Offers), &offers); err != nil {
		return nil, domain.IntegrityError(record, "offers: "+err.Error())
	}
	return &domain.DeliveryRequest{
		ID:              r.ID,
		RequesterID:     r.RequesterID,
		Location:        domain.Coordinate{Latitude: r.Latitude, Longitude: r.Longitude},
		ItemsRequested:  items,
		Status:          domain.OfferStatus(r.Status),
		CreatedAt:       fromNanos(r.CreatedAt),
		Offers:          offers,
		TotalOffersSent: r.TotalOffersSent,
		MaxRetries:      r.MaxRetries,
	}, nil
}

// Append records a delivery request. Existing IDs are never overwritten.
func (l *requestLog) Append(ctx context.Context, req domain.DeliveryRequest) error {
	items, err := marshalJSON(req.ItemsRequested)
	if err != nil {
		return fmt.Errorf("marshalling items: %w", err)
	}
	offers, err := marshalJSON(req.Offers)
	if err != nil {
		return fmt.Errorf("marshalling offers: %w", err)
	}

	n, err := l.store.exec(ctx, `
		INSERT INTO delivery_requests (id, position, requester_id, latitude, longitude, items_requested,
			status, created_at, offers, total_offers_sent, max_retries)
		VALUES (?, `+nextPosition("delivery_requests")+`, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING`,
		req.ID, req.RequesterID, req.Location.Latitude, req.Location.Longitude, items,
		string(req.Status), toNanos(req.CreatedAt), offers, req.TotalOffersSent, req.MaxRetries)
	if err != nil {
		return fmt.Errorf("appending delivery request: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delivery request %s: %w", req.ID, domain.ErrAlreadyExists)
	}
	return nil
}

// Get retrieves a delivery request by ID.
func (l *requestLog) Get(ctx context.Context, id string) (*domain.DeliveryRequest, error) {
	var row requestRow
	query := l.store.db.Rebind("SELECT " + requestColumns + " FROM delivery_requests WHERE id = ?")
	if err := l.store.db.GetContext(ctx, &row, query, id); err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("querying delivery request: %w", err)
	}
	return row.toDomain()
}

// List returns all delivery requests in append order.
func (l *requestLog) List(ctx context.Context) ([]domain.DeliveryRequest, error) {
	var rows []requestRow
	query := "SELECT " + requestColumns + " FROM delivery_requests ORDER BY position"
	if err := l.store.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("querying delivery requests: %w", err)
	}

	result := make([]domain.DeliveryRequest, 0, len(rows))
	for _, row := range rows {
		req, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		result = append(result, *req)
	}
	return result, nil
}
