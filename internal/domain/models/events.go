package models

import (
	"time"

	"github.com/Temutjin2k/delivery-fare/internal/domain/types"
)

// TripCompletedMessage is consumed from trip.completed.* once a delivery ends.
type TripCompletedMessage struct {
	TripID        string                 `json:"trip_id"`
	Model         types.PricingModelKind `json:"pricing_model"`
	City          types.City             `json:"city,omitempty"`
	Metrics       TripMetrics            `json:"metrics"`
	CompletedAt   time.Time              `json:"completed_at"`
	CorrelationID string                 `json:"correlation_id,omitempty"`
}

// FareCalculatedMessage is published to fare.calculated.{trip_id}.
type FareCalculatedMessage struct {
	TripID       string        `json:"trip_id"`
	Breakdown    FareBreakdown `json:"breakdown"`
	CalculatedAt time.Time     `json:"calculated_at"`
}

// SurgeUpdateMessage is sent by the surge-rule provider on surge.updated.*.
type SurgeUpdateMessage struct {
	RuleID     string    `json:"rule_id"`
	Name       string    `json:"name,omitempty"`
	Multiplier float64   `json:"multiplier"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ConfigChangedMessage announces a new pricing configuration version.
type ConfigChangedMessage struct {
	Kind      string    `json:"kind"` // ranges | city_rules | surge_rules
	Version   string    `json:"version"`
	ChangedBy string    `json:"changed_by,omitempty"`
	ChangedAt time.Time `json:"changed_at"`
}

// FareFeedMessage is pushed to admin websocket subscribers.
type FareFeedMessage struct {
	Type      string        `json:"type"`
	TripID    string        `json:"trip_id,omitempty"`
	Breakdown FareBreakdown `json:"breakdown"`
}
