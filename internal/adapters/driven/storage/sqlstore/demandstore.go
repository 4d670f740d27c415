package sqlstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vendee/vendee/internal/core/domain"
	"github.com/vendee/vendee/internal/core/ports/driven"
)

// demandStore implements driven.DemandStore.
type demandStore struct {
	store *Store
}

var _ driven.DemandStore = (*demandStore)(nil)

type demandRow struct {
	ItemName      string  `db:"item_name"`
	Position      int64   `db:"position"`
	ID            string  `db:"id"`
	TotalRequests int     `db:"total_requests"`
	LastRequested int64   `db:"last_requested"`
	Locations     string  `db:"locations"`
	AvgMaxPrice   float64 `db:"avg_max_price"`
	Priority      string  `db:"priority"`
	Version       int64   `db:"version"`
}

const demandColumns = `item_name, position, id, total_requests, last_requested, locations,
	avg_max_price, priority, version`

func (r demandRow) toDomain() (*domain.DemandRecord, error) {
	var locations []domain.LocationBucket
	if err := json.Unmarshal([]byte(r.Locations), &locations); err != nil {
		return nil, domain.IntegrityError("demand "+r.ItemName, "locations: "+err.Error())
	}
	return &domain.DemandRecord{
		ID:            r.ID,
		ItemName:      r.ItemName,
		TotalRequests: r.TotalRequests,
		LastRequested: fromNanos(r.LastRequested),
		Locations:     locations,
		AvgMaxPrice:   r.AvgMaxPrice,
		Priority:      domain.Priority(r.Priority),
	}, nil
}

// Upsert transforms the record for itemName. The callback may run more
// than once when a concurrent writer wins, so it must not have side
// effects beyond computing the next record.
func (s *demandStore) Upsert(
	ctx context.Context, itemName string, fn driven.DemandUpsertFunc,
) (*domain.DemandRecord, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		total, err := s.store.count(ctx, "demand_records")
		if err != nil {
			return nil, err
		}

		row, err := s.getRow(ctx, itemName)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}

		var current *domain.DemandRecord
		if row != nil {
			if current, err = row.toDomain(); err != nil {
				return nil, err
			}
		}

		next, err := fn(current, total)
		if err != nil {
			return nil, err
		}
		next.ItemName = itemName

		locations, err := marshalJSON(next.Locations)
		if err != nil {
			return nil, fmt.Errorf("marshalling locations: %w", err)
		}

		var n int64
		if row == nil {
			n, err = s.store.exec(ctx, `
				INSERT INTO demand_records (item_name, position, id, total_requests, last_requested,
					locations, avg_max_price, priority, version)
				VALUES (?, `+nextPosition("demand_records")+`, ?, ?, ?, ?, ?, ?, 1)
				ON CONFLICT (item_name) DO NOTHING`,
				itemName, next.ID, next.TotalRequests, toNanos(next.LastRequested),
				locations, next.AvgMaxPrice, string(next.Priority))
		} else {
			n, err = s.store.exec(ctx, `
				UPDATE demand_records SET id = ?, total_requests = ?, last_requested = ?, locations = ?,
					avg_max_price = ?, priority = ?, version = version + 1
				WHERE item_name = ? AND version = ?`,
				next.ID, next.TotalRequests, toNanos(next.LastRequested), locations,
				next.AvgMaxPrice, string(next.Priority), itemName, row.Version)
		}
		if err != nil {
			return nil, fmt.Errorf("saving demand record: %w", err)
		}
		if n == 1 {
			return &next, nil
		}
	}
	return nil, fmt.Errorf("upsert demand %s: %w", itemName, domain.ErrConflict)
}

// Get retrieves the record for an item.
func (s *demandStore) Get(ctx context.Context, itemName string) (*domain.DemandRecord, error) {
	row, err := s.getRow(ctx, itemName)
	if err != nil {
		return nil, err
	}
	return row.toDomain()
}

func (s *demandStore) getRow(ctx context.Context, itemName string) (*demandRow, error) {
	var row demandRow
	query := s.store.db.Rebind("SELECT " + demandColumns + " FROM demand_records WHERE item_name = ?")
	if err := s.store.db.GetContext(ctx, &row, query, itemName); err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("querying demand record: %w", err)
	}
	return &row, nil
}

// List returns all records in creation order.
func (s *demandStore) List(ctx context.Context) ([]domain.DemandRecord, error) {
	var rows []demandRow
	query := "SELECT " + demandColumns + " FROM demand_records ORDER BY position"
	if err := s.store.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("querying demand records: %w", err)
	}

	result := make([]domain.DemandRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		result = append(result, *rec)
	}
	return result, nil
}
