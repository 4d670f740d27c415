package domain

import (
	"strings"
	"time"
)

// SellerKind distinguishes stationary sellers from sellers who travel.
type SellerKind string

// Available seller kinds.
const (
	// SellerKindFixed is a stationary seller; customers travel to them.
	SellerKindFixed SellerKind = "fixed"

	// SellerKindMobile can travel to deliver and is eligible for dispatch.
	SellerKindMobile SellerKind = "mobile"
)

// IsValid returns true if the kind is recognised.
func (k SellerKind) IsValid() bool {
	return k == SellerKindFixed || k == SellerKindMobile
}

// String returns the string representation.
func (k SellerKind) String() string {
	return string(k)
}

// Description returns a human-readable description of the kind.
func (k SellerKind) Description() string {
	switch k {
	case SellerKindFixed:
		return "Fixed seller - visit their location"
	case SellerKindMobile:
		return "Mobile seller - can deliver to your location"
	default:
		return "Unknown"
	}
}

// ParseSellerKind parses a kind, accepting the legacy names
// "stationary" and "moving".
func ParseSellerKind(s string) (SellerKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fixed", "stationary":
		return SellerKindFixed, nil
	case "mobile", "moving":
		return SellerKindMobile, nil
	default:
		return "", ErrInvalidInput
	}
}

// SellerStatus marks whether a seller takes part in matching.
type SellerStatus string

// Available seller statuses.
const (
	SellerStatusActive   SellerStatus = "active"
	SellerStatusInactive SellerStatus = "inactive"
)

// IsValid returns true if the status is recognised.
func (s SellerStatus) IsValid() bool {
	return s == SellerStatusActive || s == SellerStatusInactive
}

// ParseSellerStatus parses a status, accepting "closed" for inactive.
func ParseSellerStatus(s string) (SellerStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active", "open":
		return SellerStatusActive, nil
	case "inactive", "closed":
		return SellerStatusInactive, nil
	default:
		return "", ErrInvalidInput
	}
}

// DefaultOperatingHours is assigned to newly onboarded sellers.
const DefaultOperatingHours = "06:00-20:00"

// Seller is a vendor of perishable goods.
type Seller struct {
	// ID is the unique identifier for the seller (e.g. "V001").
	ID string `json:"id"`

	// Name is the seller's display name.
	Name string `json:"name"`

	// Contact is the seller's phone number or other contact handle.
	Contact string `json:"contact"`

	// Location is where the seller currently is.
	Location Coordinate `json:"location"`

	// Status controls eligibility for matching.
	Status SellerStatus `json:"status"`

	// Kind is fixed or mobile.
	Kind SellerKind `json:"kind"`

	// Rating is the running average of buyer ratings in [0, 5].
	Rating float64 `json:"rating"`

	// RatingCount is the number of ratings received.
	RatingCount int `json:"rating_count"`

	// Specialties lists what the seller is known for.
	Specialties []string `json:"specialties,omitempty"`

	// OperatingHours is a free-form opening window (e.g. "06:00-20:00").
	OperatingHours string `json:"operating_hours"`

	// OnboardedAt is when the seller joined.
	OnboardedAt time.Time `json:"onboarded_at"`

	// LastActive is refreshed on every status update.
	LastActive time.Time `json:"last_active"`
}

// IsActive reports whether the seller is eligible for matching.
func (s *Seller) IsActive() bool {
	return s.Status == SellerStatusActive
}

// IsMobile reports whether the seller can be dispatched.
func (s *Seller) IsMobile() bool {
	return s.Kind == SellerKindMobile
}

// ApplyRating folds a new rating into the running average.
func (s *Seller) ApplyRating(rating float64) {
	s.Rating = (s.Rating*float64(s.RatingCount) + rating) / float64(s.RatingCount+1)
	s.RatingCount++
}

// Validate checks the stored fields are consistent.
func (s *Seller) Validate() error {
	if s.ID == "" {
		return IntegrityError("seller", "empty id")
	}
	if err := s.Location.Validate(); err != nil {
		return IntegrityError("seller "+s.ID, err.Error())
	}
	if !s.Kind.IsValid() {
		return IntegrityError("seller "+s.ID, "unknown kind "+string(s.Kind))
	}
	if !s.Status.IsValid() {
		return IntegrityError("seller "+s.ID, "unknown status "+string(s.Status))
	}
	if s.Rating < 0 || s.Rating > 5 || s.RatingCount < 0 {
		return IntegrityError("seller "+s.ID, "rating out of range")
	}
	return nil
}

// SellerUpdate carries the fields a status update may change.
// Nil fields are left untouched.
type SellerUpdate struct {
	Kind           *SellerKind
	Status         *SellerStatus
	Location       *Coordinate
	OperatingHours *string
}

// IsEmpty reports whether the update changes nothing.
func (u SellerUpdate) IsEmpty() bool {
	return u.Kind == nil && u.Status == nil && u.Location == nil && u.OperatingHours == nil
}

// SellerAnalytics summarises a seller's standing and stock.
type SellerAnalytics struct {
	SellerID    string       `json:"seller_id"`
	Name        string       `json:"name"`
	Rating      float64      `json:"rating"`
	RatingCount int          `json:"rating_count"`
	Kind        SellerKind   `json:"kind"`
	Status      SellerStatus `json:"status"`
	LastActive  time.Time    `json:"last_active"`

	// Inventory fields are zero when the seller has no inventory yet.
	HasInventory        bool      `json:"has_inventory"`
	CurrentItems        int       `json:"current_items"`
	EstimatedValue      string    `json:"estimated_value"`
	LastInventoryUpdate time.Time `json:"last_inventory_update"`
}

// DetectedItem is a label produced by an image classifier.
type DetectedItem struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Catalog is a bulk set of sellers and inventories.
type Catalog struct {
	Sellers     []Seller    `json:"sellers"`
	Inventories []Inventory `json:"inventories"`
}

// ImportSummary reports what a catalog import stored.
type ImportSummary struct {
	Sellers     int `json:"sellers"`
	Inventories int `json:"inventories"`
}
