package domain

import (
	"strings"
	"time"
)

// Priority ranks unmet demand for sellers.
type Priority string

// Demand priorities.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValid returns true if the priority is recognised.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// ParsePriority parses a priority name.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", ErrInvalidInput
	}
	return p, nil
}

// DefaultAvgMaxPrice is the placeholder assigned to new demand records.
const DefaultAvgMaxPrice = 100.0

// LocationBucket counts requests at one (rounded) coordinate.
type LocationBucket struct {
	Location     Coordinate `json:"location"`
	RequestCount int        `json:"request_count"`
}

// DemandRecord aggregates unmet requests for one item name.
// Counts only grow.
type DemandRecord struct {
	ID            string           `json:"id"`
	ItemName      string           `json:"item_name"`
	TotalRequests int              `json:"total_requests"`
	LastRequested time.Time        `json:"last_requested"`
	Locations     []LocationBucket `json:"locations"`
	AvgMaxPrice   float64          `json:"avg_max_price"`
	Priority      Priority         `json:"priority"`
}

// AddRequest increments the total and the bucket matching loc, appending
// a new bucket when none matches.
func (r *DemandRecord) AddRequest(loc Coordinate, at time.Time) {
	r.TotalRequests++
	r.LastRequested = at
	for i := range r.Locations {
		if r.Locations[i].Location == loc {
			r.Locations[i].RequestCount++
			return
		}
	}
	r.Locations = append(r.Locations, LocationBucket{Location: loc, RequestCount: 1})
}
