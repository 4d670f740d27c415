package domain

import "time"

// StorageDriver selects the persistence backend.
type StorageDriver string

// Supported storage drivers.
const (
	StorageMemory   StorageDriver = "memory"
	StorageSQLite   StorageDriver = "sqlite"
	StoragePostgres StorageDriver = "postgres"
)

// IsValid returns true if the driver is recognised.
func (d StorageDriver) IsValid() bool {
	switch d {
	case StorageMemory, StorageSQLite, StoragePostgres:
		return true
	default:
		return false
	}
}

// MatchingSettings caps the match lists.
type MatchingSettings struct {
	TopMatches        int `json:"top_matches"`
	FixedCap          int `json:"fixed_cap"`
	MobileCapDelivery int `json:"mobile_cap_delivery"`
	MobileCapPickup   int `json:"mobile_cap_pickup"`
}

// EngineSettings holds every tunable of the engine.
type EngineSettings struct {
	Matching MatchingSettings `json:"matching"`

	RecommendLimit   int     `json:"recommend_limit"`
	SearchRadiusKm   float64 `json:"search_radius_km"`
	LeaderboardKm    float64 `json:"leaderboard_radius_km"`
	LeaderboardLimit int     `json:"leaderboard_limit"`

	MinutesPerKm float64 `json:"minutes_per_km"`
	MaxRetries   int     `json:"max_retries"`

	// BucketPrecision is the decimal places demand locations are rounded to.
	// Negative means exact-coordinate buckets.
	BucketPrecision int `json:"bucket_precision"`

	StorageDriver StorageDriver `json:"storage_driver"`
	StorageDSN    string        `json:"storage_dsn,omitempty"`

	EventBrokers []string `json:"event_brokers,omitempty"`
	EventTopic   string   `json:"event_topic,omitempty"`

	DetectionEndpoint string        `json:"detection_endpoint,omitempty"`
	DetectionToken    string        `json:"-"`
	DetectionRPS      float64       `json:"detection_requests_per_second"`
	DetectionTimeout  time.Duration `json:"detection_timeout"`
}

// DefaultEngineSettings returns the built-in defaults.
func DefaultEngineSettings() EngineSettings {
	return EngineSettings{
		Matching: MatchingSettings{
			TopMatches:        3,
			FixedCap:          2,
			MobileCapDelivery: 2,
			MobileCapPickup:   1,
		},
		RecommendLimit:   5,
		SearchRadiusKm:   2,
		LeaderboardKm:    5,
		LeaderboardLimit: 10,
		MinutesPerKm:     3,
		MaxRetries:       DefaultMaxRetries,
		BucketPrecision:  4,
		StorageDriver:    StorageSQLite,
		EventTopic:       "vendee.events",
		DetectionRPS:     2,
		DetectionTimeout: 30 * time.Second,
	}
}

// MobileCap returns the mobile list cap for the delivery flag.
func (m MatchingSettings) MobileCap(delivery bool) int {
	if delivery {
		return m.MobileCapDelivery
	}
	return m.MobileCapPickup
}
