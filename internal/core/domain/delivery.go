package domain

import "time"

// OfferStatus is the outcome of a delivery offer.
type OfferStatus string

// Offer outcomes. A request starts in "requested" and moves to one terminal state.
const (
	OfferRequested OfferStatus = "requested"
	OfferAccepted  OfferStatus = "accepted"
	OfferRejected  OfferStatus = "rejected"
)

// IsTerminal reports whether the status is accepted or rejected.
func (s OfferStatus) IsTerminal() bool {
	return s == OfferAccepted || s == OfferRejected
}

// DefaultMaxRetries is recorded on every persisted delivery request.
const DefaultMaxRetries = 3

// Offer is a delivery offer made to one mobile seller.
type Offer struct {
	SellerID   string      `json:"seller_id"`
	SellerName string      `json:"seller_name"`
	Status     OfferStatus `json:"status"`
	OfferedAt  time.Time   `json:"offered_at"`
	ETAMinutes int         `json:"eta_minutes"`
	DistanceKm float64     `json:"distance_km"`
}

// DeliveryRequest is an accepted delivery. Records are append-only.
type DeliveryRequest struct {
	ID              string       `json:"id"`
	RequesterID     string       `json:"requester_id"`
	Location        Coordinate   `json:"location"`
	ItemsRequested  []DemandItem `json:"items_requested"`
	Status          OfferStatus  `json:"status"`
	CreatedAt       time.Time    `json:"created_at"`
	Offers          []Offer      `json:"offers"`
	TotalOffersSent int          `json:"total_offers_sent"`
	MaxRetries      int          `json:"max_retries"`
}

// DispatchRequest asks one mobile seller to deliver.
type DispatchRequest struct {
	SellerID    string       `json:"seller_id"`
	RequesterID string       `json:"requester_id"`
	Items       []DemandItem `json:"items"`
	Location    Coordinate   `json:"location"`
}

// DispatchResult is the outcome of a dispatch.
type DispatchResult struct {
	Status OfferStatus `json:"status"`

	// RequestID is set only when the offer was accepted.
	RequestID string `json:"request_id,omitempty"`

	SellerID      string  `json:"seller_id"`
	SellerName    string  `json:"seller_name"`
	SellerContact string  `json:"seller_contact,omitempty"`
	ETAMinutes    int     `json:"eta_minutes"`
	DistanceKm    float64 `json:"distance_km"`
	Message       string  `json:"message"`
}

// Accepted reports whether the seller accepted.
func (r *DispatchResult) Accepted() bool {
	return r.Status == OfferAccepted
}

// DispatchEvent is published for every dispatch outcome.
type DispatchEvent struct {
	RequestID   string      `json:"request_id,omitempty"`
	SellerID    string      `json:"seller_id"`
	RequesterID string      `json:"requester_id"`
	Status      OfferStatus `json:"status"`
	ETAMinutes  int         `json:"eta_minutes"`
	DistanceKm  float64     `json:"distance_km"`
	ItemCount   int         `json:"item_count"`
	OccurredAt  time.Time   `json:"occurred_at"`
}

// UnmetDemandEvent is published when demand is recorded.
type UnmetDemandEvent struct {
	Items      []string   `json:"items"`
	Location   Coordinate `json:"location"`
	OccurredAt time.Time  `json:"occurred_at"`
}
