package events

import (
	"time"

	"github.com/google/uuid"
)

// Topics this service produces to and consumes from.
const (
	TopicEstimateEvents = "estimate.events"
	TopicLeadEvents     = "lead.events"
)

// CloudEvent type identifiers.
const (
	EstimateComputed = "roofline.estimate.computed"
	LeadQualified    = "roofline.lead.qualified"
)

// EstimateComputedEvent is published after a roof estimate has been
// computed and persisted.
type EstimateComputedEvent struct {
	EstimateID       uuid.UUID `json:"estimate_id"`
	OrgID            uuid.UUID `json:"org_id"`
	LeadID           uuid.UUID `json:"lead_id"`
	TotalAreaSqFt    float64   `json:"total_area_sq_ft"`
	RoofSquares      float64   `json:"roof_squares"`
	EstimateDollars  int64     `json:"estimate_dollars"`
	PredominantPitch string    `json:"predominant_pitch"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// LeadQualifiedEvent is published by the lead service when a lead
// reaches the qualified stage. Coordinates are present only when the
// lead's address geocoded successfully.
type LeadQualifiedEvent struct {
	LeadID     uuid.UUID `json:"lead_id"`
	OrgID      uuid.UUID `json:"org_id"`
	Latitude   *float64  `json:"latitude,omitempty"`
	Longitude  *float64  `json:"longitude,omitempty"`
	Address    string    `json:"address,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
