// Package catalog loads seller catalogs from TOML files and watches them
// for changes.
//
// A catalog file lists sellers with their stock inline:
//
//	[[sellers]]
//	id = "V001"
//	name = "Ravi's Fruit Cart"
//	kind = "mobile"
//	latitude = 12.9716
//	longitude = 77.5946
//	rating = 4.5
//
//	[[sellers.items]]
//	name = "banana"
//	quantity = "20 kg"
//	unit = "kg"
//	price = "40.00"
package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"

	"github.com/vendee/vendee/internal/core/domain"
	"github.com/vendee/vendee/internal/core/ports/driven"
)

// Ensure File implements the interface.
var _ driven.CatalogSource = (*File)(nil)

type catalogFile struct {
	Sellers []sellerEntry `toml:"sellers"`
}

type sellerEntry struct {
	ID             string      `toml:"id"`
	Name           string      `toml:"name"`
	Contact        string      `toml:"contact"`
	Kind           string      `toml:"kind"`
	Status         string      `toml:"status"`
	Latitude       *float64    `toml:"latitude"`
	Longitude      *float64    `toml:"longitude"`
	Rating         float64     `toml:"rating"`
	RatingCount    int         `toml:"rating_count"`
	Specialties    []string    `toml:"specialties"`
	OperatingHours string      `toml:"operating_hours"`
	ImageURL       string      `toml:"image_url"`
	Items          []itemEntry `toml:"items"`
}

type itemEntry struct {
	Name      string `toml:"name"`
	Quantity  string `toml:"quantity"`
	Unit      string `toml:"unit"`
	Price     any    `toml:"price"`
	Freshness string `toml:"freshness"`
}

// File is a catalog stored as a TOML file.
type File struct {
	path string
	now  func() time.Time
}

// NewFile creates a catalog source reading path.
func NewFile(path string) *File {
	return &File{path: path, now: time.Now}
}

// Path returns the catalog file path.
func (f *File) Path() string {
	return f.path
}

// Load reads and converts the catalog. Sellers without a status are active;
// sellers without items get no inventory.
func (f *File) Load(ctx context.Context) (*domain.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("catalog %s: %w", f.path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return Parse(data, f.now().UTC())
}

// Parse converts TOML catalog data, stamping inventories with updatedAt.
func Parse(data []byte, updatedAt time.Time) (*domain.Catalog, error) {
	var file catalogFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: parsing catalog: %v", domain.ErrInvalidInput, err)
	}

	catalog := &domain.Catalog{
		Sellers:     make([]domain.Seller, 0, len(file.Sellers)),
		Inventories: []domain.Inventory{},
	}
	for i, entry := range file.Sellers {
		seller, err := entry.toSeller(updatedAt)
		if err != nil {
			return nil, fmt.Errorf("seller %d (%s): %w", i+1, entry.ID, err)
		}
		catalog.Sellers = append(catalog.Sellers, seller)

		if len(entry.Items) == 0 {
			continue
		}
		inv := domain.Inventory{SellerID: seller.ID, LastUpdated: updatedAt, ImageURL: entry.ImageURL}
		for _, item := range entry.Items {
			converted, err := item.toItem()
			if err != nil {
				return nil, fmt.Errorf("seller %s: %w", seller.ID, err)
			}
			inv.Items = append(inv.Items, converted)
		}
		inv.Recompute()
		catalog.Inventories = append(catalog.Inventories, inv)
	}
	return catalog, nil
}

func (e sellerEntry) toSeller(now time.Time) (domain.Seller, error) {
	if strings.TrimSpace(e.ID) == "" {
		return domain.Seller{}, fmt.Errorf("%w: id is required", domain.ErrInvalidInput)
	}
	if e.Latitude == nil || e.Longitude == nil {
		return domain.Seller{}, fmt.Errorf("%w: latitude and longitude are required", domain.ErrInvalidLocation)
	}

	kind, err := domain.ParseSellerKind(e.Kind)
	if err != nil {
		return domain.Seller{}, fmt.Errorf("%w: kind %q", domain.ErrInvalidInput, e.Kind)
	}
	status := domain.SellerStatusActive
	if e.Status != "" {
		if status, err = domain.ParseSellerStatus(e.Status); err != nil {
			return domain.Seller{}, fmt.Errorf("%w: status %q", domain.ErrInvalidInput, e.Status)
		}
	}
	hours := e.OperatingHours
	if hours == "" {
		hours = domain.DefaultOperatingHours
	}

	return domain.Seller{
		ID:             strings.TrimSpace(e.ID),
		Name:           e.Name,
		Contact:        e.Contact,
		Location:       domain.Coordinate{Latitude: *e.Latitude, Longitude: *e.Longitude},
		Status:         status,
		Kind:           kind,
		Rating:         e.Rating,
		RatingCount:    e.RatingCount,
		Specialties:    e.Specialties,
		OperatingHours: hours,
		OnboardedAt:    now,
		LastActive:     now,
	}, nil
}

func (e itemEntry) toItem() (domain.InventoryItem, error) {
	price, err := parsePrice(e.Price)
	if err != nil {
		return domain.InventoryItem{}, fmt.Errorf("item %s: %w", e.Name, err)
	}
	unit := e.Unit
	if unit == "" {
		unit = "kg"
	}
	return domain.InventoryItem{
		Name:         strings.TrimSpace(e.Name),
		Quantity:     e.Quantity,
		Unit:         unit,
		PricePerUnit: price,
		Freshness:    e.Freshness,
	}, nil
}

// parsePrice accepts a TOML string, integer or float.
func parsePrice(v any) (decimal.Decimal, error) {
	switch p := v.(type) {
	case nil:
		return decimal.Zero, nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(p))
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: price %q", domain.ErrInvalidInput, p)
		}
		return d, nil
	case int64:
		return decimal.NewFromInt(p), nil
	case float64:
		return decimal.NewFromFloat(p), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: price %v", domain.ErrInvalidInput, v)
	}
}
