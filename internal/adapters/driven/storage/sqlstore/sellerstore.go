package sqlstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vendee/vendee/internal/core/domain"
	"github.com/vendee/vendee/internal/core/ports/driven"
)

// sellerStore implements driven.SellerStore.
type sellerStore struct {
	store *Store
}

var _ driven.SellerStore = (*sellerStore)(nil)

// sellerRow is the sellers table layout.
type sellerRow struct {
	ID             string  `db:"id"`
	Position       int64   `db:"position"`
	Name           string  `db:"name"`
	Contact        string  `db:"contact"`
	Latitude       float64 `db:"latitude"`
	Longitude      float64 `db:"longitude"`
	Status         string  `db:"status"`
	Kind           string  `db:"kind"`
	Rating         float64 `db:"rating"`
	RatingCount    int     `db:"rating_count"`
	Specialties    string  `db:"specialties"`
	OperatingHours string  `db:"operating_hours"`
	OnboardedAt    int64   `db:"onboarded_at"`
	LastActive     int64   `db:"last_active"`
	Version        int64   `db:"version"`
}

const sellerColumns = `id, position, name, contact, latitude, longitude, status, kind,
	rating, rating_count, specialties, operating_hours, onboarded_at, last_active, version`

func newSellerRow(s domain.Seller) (sellerRow, error) {
	specialties, err := marshalJSON(s.Specialties)
	if err != nil {
		return sellerRow{}, fmt.Errorf("marshalling specialties: %w", err)
	}
	return sellerRow{
		ID:             s.ID,
		Name:           s.Name,
		Contact:        s.Contact,
		Latitude:       s.Location.Latitude,
		Longitude:      s.Location.Longitude,
		Status:         string(s.Status),
		Kind:           string(s.Kind),
		Rating:         s.Rating,
		RatingCount:    s.RatingCount,
		Specialties:    specialties,
		OperatingHours: s.OperatingHours,
		OnboardedAt:    toNanos(s.OnboardedAt),
		LastActive:     toNanos(s.LastActive),
	}, nil
}

func (r sellerRow) toDomain() (*domain.Seller, error) {
	var specialties []string
	if err := json.Unmarshal([]byte(r.Specialties), &specialties); err != nil {
		return nil, domain.IntegrityError("seller "+r.ID, "specialties: "+err.Error())
	}
	if len(specialties) == 0 {
		specialties = nil
	}
	return &domain.Seller{
		ID:             r.ID,
		Name:           r.Name,
		Contact:        r.Contact,
		Location:       domain.Coordinate{Latitude: r.Latitude, Longitude: r.Longitude},
		Status:         domain.SellerStatus(r.Status),
		Kind:           domain.SellerKind(r.Kind),
		Rating:         r.Rating,
		RatingCount:    r.RatingCount,
		Specialties:    specialties,
		OperatingHours: r.OperatingHours,
		OnboardedAt:    fromNanos(r.OnboardedAt),
		LastActive:     fromNanos(r.LastActive),
	}, nil
}

// insertNew inserts row unless the id is taken. It reports whether a row was written.
func (s *sellerStore) insertNew(ctx context.Context, row sellerRow) (bool, error) {
	n, err := s.store.exec(ctx, `
		INSERT INTO sellers (id, position, name, contact, latitude, longitude, status, kind,
			rating, rating_count, specialties, operating_hours, onboarded_at, last_active, version)
		VALUES (?, `+nextPosition("sellers")+`, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)
		ON CONFLICT (id) DO NOTHING`,
		row.ID, row.Name, row.Contact, row.Latitude, row.Longitude, row.Status, row.Kind,
		row.Rating, row.RatingCount, row.Specialties, row.OperatingHours, row.OnboardedAt, row.LastActive)
	if err != nil {
		return false, fmt.Errorf("inserting seller: %w", err)
	}
	return n == 1, nil
}

// Insert builds a seller from the current count and stores it.
// A conflict caused by a concurrent insert is retried with the new count.
func (s *sellerStore) Insert(ctx context.Context, build func(total int) domain.Seller) (*domain.Seller, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		total, err := s.store.count(ctx, "sellers")
		if err != nil {
			return nil, err
		}
		seller := build(total)
		row, err := newSellerRow(seller)
		if err != nil {
			return nil, err
		}

		inserted, err := s.insertNew(ctx, row)
		if err != nil {
			return nil, err
		}
		if inserted {
			return &seller, nil
		}

		after, err := s.store.count(ctx, "sellers")
		if err != nil {
			return nil, err
		}
		if after == total {
			return nil, fmt.Errorf("seller %s: %w", seller.ID, domain.ErrAlreadyExists)
		}
	}
	return nil, fmt.Errorf("insert seller: %w", domain.ErrConflict)
}

// Update applies fn to the stored seller under a version check.
func (s *sellerStore) Update(ctx context.Context, id string, fn func(*domain.Seller) error) (*domain.Seller, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		row, err := s.getRow(ctx, id)
		if err != nil {
			return nil, err
		}
		seller, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		if err := fn(seller); err != nil {
			return nil, err
		}
		seller.ID = id

		next, err := newSellerRow(*seller)
		if err != nil {
			return nil, err
		}
		n, err := s.store.exec(ctx, `
			UPDATE sellers SET name = ?, contact = ?, latitude = ?, longitude = ?, status = ?, kind = ?,
				rating = ?, rating_count = ?, specialties = ?, operating_hours = ?, onboarded_at = ?,
				last_active = ?, version = version + 1
			WHERE id = ? AND version = ?`,
			next.Name, next.Contact, next.Latitude, next.Longitude, next.Status, next.Kind,
			next.Rating, next.RatingCount, next.Specialties, next.OperatingHours, next.OnboardedAt,
			next.LastActive, id, row.Version)
		if err != nil {
			return nil, fmt.Errorf("updating seller: %w", err)
		}
		if n == 1 {
			return seller, nil
		}
	}
	return nil, fmt.Errorf("update seller %s: %w", id, domain.ErrConflict)
}

// Get retrieves a seller by ID.
func (s *sellerStore) Get(ctx context.Context, id string) (*domain.Seller, error) {
	row, err := s.getRow(ctx, id)
	if err != nil {
		return nil, err
	}
	return row.toDomain()
}

func (s *sellerStore) getRow(ctx context.Context, id string) (*sellerRow, error) {
	var row sellerRow
	query := s.store.db.Rebind("SELECT " + sellerColumns + " FROM sellers WHERE id = ?")
	if err := s.store.db.GetContext(ctx, &row, query, id); err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("querying seller: %w", err)
	}
	return &row, nil
}

// List returns all sellers in insertion order.
func (s *sellerStore) List(ctx context.Context) ([]domain.Seller, error) {
	var rows []sellerRow
	if err := s.store.db.SelectContext(ctx, &rows, "SELECT "+sellerColumns+" FROM sellers ORDER BY position"); err != nil {
		return nil, fmt.Errorf("querying sellers: %w", err)
	}

	sellers := make([]domain.Seller, 0, len(rows))
	for _, row := range rows {
		seller, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		sellers = append(sellers, *seller)
	}
	return sellers, nil
}

// Put stores a seller, replacing any existing one in place.
func (s *sellerStore) Put(ctx context.Context, seller domain.Seller) error {
	row, err := newSellerRow(seller)
	if err != nil {
		return err
	}
	_, err = s.store.exec(ctx, `
		INSERT INTO sellers (id, position, name, contact, latitude, longitude, status, kind,
			rating, rating_count, specialties, operating_hours, onboarded_at, last_active, version)
		VALUES (?, `+nextPosition("sellers")+`, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			contact = excluded.contact,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			status = excluded.status,
			kind = excluded.kind,
			rating = excluded.rating,
			rating_count = excluded.rating_count,
			specialties = excluded.specialties,
			operating_hours = excluded.operating_hours,
			onboarded_at = excluded.onboarded_at,
			last_active = excluded.last_active,
			version = sellers.version + 1`,
		row.ID, row.Name, row.Contact, row.Latitude, row.Longitude, row.Status, row.Kind,
		row.Rating, row.RatingCount, row.Specialties, row.OperatingHours, row.OnboardedAt, row.LastActive)
	if err != nil {
		return fmt.Errorf("saving seller: %w", err)
	}
	return nil
}
