package sqlstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vendee/vendee/internal/core/domain"
	"github.com/vendee/vendee/internal/core/ports/driven"
)

// inventoryStore implements driven.InventoryStore.
type inventoryStore struct {
	store *Store
}

var _ driven.InventoryStore = (*inventoryStore)(nil)

type inventoryRow struct {
	SellerID       string `db:"seller_id"`
	Position       int64  `db:"position"`
	Items          string `db:"items"`
	LastUpdated    int64  `db:"last_updated"`
	ImageURL       string `db:"image_url"`
	TotalItems     int    `db:"total_items"`
	EstimatedValue string `db:"estimated_value"`
}

const inventoryColumns = `seller_id, position, items, last_updated, image_url, total_items, estimated_value`

func (r inventoryRow) toDomain() (*domain.Inventory, error) {
	record := "inventory " + r.SellerID
	var items []domain.InventoryItem
	if err := json.Unmarshal([]byte(r.Items), &items); err != nil {
		return nil, domain.IntegrityError(record, "items: "+err.Error())
	}
	value, err := decimal.NewFromString(r.EstimatedValue)
	if err != nil {
		return nil, domain.IntegrityError(record, "estimated value: "+err.Error())
	}
	return &domain.Inventory{
		SellerID:       r.SellerID,
		Items:          items,
		LastUpdated:    fromNanos(r.LastUpdated),
		ImageURL:       r.ImageURL,
		TotalItems:     r.TotalItems,
		EstimatedValue: value,
	}, nil
}

// Get retrieves the inventory of a seller.
func (s *inventoryStore) Get(ctx context.Context, sellerID string) (*domain.Inventory, error) {
	var row inventoryRow
	query := s.store.db.Rebind("SELECT " + inventoryColumns + " FROM inventories WHERE seller_id = ?")
	if err := s.store.db.GetContext(ctx, &row, query, sellerID); err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("querying inventory: %w", err)
	}
	return row.toDomain()
}

// Save replaces the seller's whole snapshot.
func (s *inventoryStore) Save(ctx context.Context, inv domain.Inventory) error {
	items, err := marshalJSON(inv.Items)
	if err != nil {
		return fmt.Errorf("marshalling items: %w", err)
	}
	_, err = s.store.exec(ctx, `
		INSERT INTO inventories (seller_id, position, items, last_updated, image_url, total_items, estimated_value)
		VALUES (?, `+nextPosition("inventories")+`, ?, ?, ?, ?, ?)
		ON CONFLICT (seller_id) DO UPDATE SET
			items = excluded.items,
			last_updated = excluded.last_updated,
			image_url = excluded.image_url,
			total_items = excluded.total_items,
			estimated_value = excluded.estimated_value`,
		inv.SellerID, items, toNanos(inv.LastUpdated), inv.ImageURL, inv.TotalItems, inv.EstimatedValue.String())
	if err != nil {
		return fmt.Errorf("saving inventory: %w", err)
	}
	return nil
}

// List returns all inventories in insertion order.
func (s *inventoryStore) List(ctx context.Context) ([]domain.Inventory, error) {
	var rows []inventoryRow
	query := "SELECT " + inventoryColumns + " FROM inventories ORDER BY position"
	if err := s.store.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("querying inventories: %w", err)
	}

	result := make([]domain.Inventory, 0, len(rows))
	for _, row := range rows {
		inv, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		result = append(result, *inv)
	}
	return result, nil
}
