package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roofline-saas/service-estimate/internal/clients/solar"
	"github.com/roofline-saas/service-estimate/internal/domain/roof"
	"github.com/roofline-saas/service-estimate/internal/events"
	"github.com/roofline-saas/service-estimate/internal/pkg/domain"
	"github.com/roofline-saas/service-estimate/internal/pkg/kafka"
)

// InsightsProvider fetches building imagery analysis for a coordinate.
type InsightsProvider interface {
	FindClosestBuilding(ctx context.Context, lat, lng float64) (*solar.BuildingInsights, error)
}

// EventPublisher publishes CloudEvents to the bus.
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, event kafka.CloudEvent) error
}

// CreateEstimateRequest holds the data needed to compute a new estimate.
type CreateEstimateRequest struct {
	LeadID         uuid.UUID `json:"lead_id" binding:"required"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	PricePerSquare *float64  `json:"price_per_square"`
}

// EstimateDTO is the response representation of a stored estimate.
type EstimateDTO struct {
	ID                     uuid.UUID           `json:"id"`
	OrgID                  uuid.UUID           `json:"org_id"`
	LeadID                 uuid.UUID           `json:"lead_id"`
	BuildingRef            string              `json:"building_ref,omitempty"`
	BuildingDistanceMeters float64             `json:"building_distance_meters"`
	TotalAreaSqFt          float64             `json:"total_area_sq_ft"`
	RoofSquares            float64             `json:"roof_squares"`
	PricePerSquare         float64             `json:"price_per_square"`
	EstimateDollars        int64               `json:"estimate_dollars"`
	PredominantPitch       roof.PitchCategory  `json:"predominant_pitch"`
	Outline                []roof.GeoPoint     `json:"outline"`
	Segments               []roof.PitchSegment `json:"pitch_segments"`
	CreatedAt              time.Time           `json:"created_at"`
}

// PaginatedEstimates is a page of estimates plus paging metadata.
type PaginatedEstimates struct {
	Items []EstimateDTO
	Total int64
	Page  int
	Limit int
}

// EstimateService is the application service orchestrating estimate use
// cases: fetch imagery data, run the roof engine, persist, publish.
type EstimateService struct {
	repo           roof.EstimateRepository
	provider       InsightsProvider
	producer       EventPublisher
	logger         *zap.Logger
	pricePerSquare float64
}

// NewEstimateService creates a new EstimateService.
func NewEstimateService(
	repo roof.EstimateRepository,
	provider InsightsProvider,
	producer EventPublisher,
	logger *zap.Logger,
	defaultPricePerSquare float64,
) *EstimateService {
	return &EstimateService{
		repo:           repo,
		provider:       provider,
		producer:       producer,
		logger:         logger,
		pricePerSquare: defaultPricePerSquare,
	}
}

// CreateEstimate computes, stores, and announces a roof estimate for the
// given lead location.
func (s *EstimateService) CreateEstimate(ctx context.Context, orgID uuid.UUID, req CreateEstimateRequest) (*EstimateDTO, error) {
	if orgID == uuid.Nil {
		return nil, domain.NewValidationError("org ID is required")
	}
	requested := roof.GeoPoint{Lat: req.Latitude, Lng: req.Longitude}
	if !requested.Valid() {
		return nil, domain.NewValidationError("latitude must be in [-90, 90] and longitude in [-180, 180]")
	}

	pricePerSquare := s.pricePerSquare
	if req.PricePerSquare != nil {
		if *req.PricePerSquare <= 0 {
			return nil, domain.NewValidationError("price per square must be positive")
		}
		pricePerSquare = *req.PricePerSquare
	}

	insights, err := s.provider.FindClosestBuilding(ctx, req.Latitude, req.Longitude)
	if err != nil {
		return nil, err
	}

	input := toEngineInput(insights, pricePerSquare)
	estimate, err := roof.BuildEstimate(input)
	if err != nil {
		return nil, err
	}

	center := roof.GeoPoint{Lat: insights.Center.Latitude, Lng: insights.Center.Longitude}
	record, err := roof.NewEstimateRecord(orgID, req.LeadID, insights.Name, requested, center, *estimate)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save estimate: %w", err)
	}

	s.publishEstimateComputed(ctx, record)

	result := toEstimateDTO(record)
	return &result, nil
}

// CreateEstimateForLead computes an estimate in response to a qualified
// lead event, using the default price-per-square rate.
func (s *EstimateService) CreateEstimateForLead(ctx context.Context, evt events.LeadQualifiedEvent) error {
	if evt.Latitude == nil || evt.Longitude == nil {
		return domain.NewValidationError("lead event carries no coordinates")
	}

	_, err := s.CreateEstimate(ctx, evt.OrgID, CreateEstimateRequest{
		LeadID:    evt.LeadID,
		Latitude:  *evt.Latitude,
		Longitude: *evt.Longitude,
	})
	if domain.IsNotFound(err) {
		// No imagery coverage for the lead's location; nothing to retry.
		s.logger.Info("no building insights for qualified lead",
			zap.String("lead_id", evt.LeadID.String()),
		)
		return nil
	}
	return err
}

// GetEstimate retrieves a stored estimate by ID within the org.
func (s *EstimateService) GetEstimate(ctx context.Context, orgID, id uuid.UUID) (*EstimateDTO, error) {
	record, err := s.repo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	result := toEstimateDTO(record)
	return &result, nil
}

// GetLeadEstimates retrieves the estimates computed for a lead, newest
// first.
func (s *EstimateService) GetLeadEstimates(ctx context.Context, orgID, leadID uuid.UUID, page, limit int) (*PaginatedEstimates, error) {
	records, total, err := s.repo.FindByLeadID(ctx, orgID, leadID, page, limit)
	if err != nil {
		return nil, err
	}

	items := make([]EstimateDTO, len(records))
	for i, record := range records {
		items[i] = toEstimateDTO(record)
	}

	return &PaginatedEstimates{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// publishEstimateComputed announces the new estimate. Publish failures
// are logged, not surfaced; the estimate is already durable.
func (s *EstimateService) publishEstimateComputed(ctx context.Context, record *roof.EstimateRecord) {
	evt := events.EstimateComputedEvent{
		EstimateID:       record.ID,
		OrgID:            record.OrgID,
		LeadID:           record.LeadID,
		TotalAreaSqFt:    record.Estimate.TotalAreaSqFt,
		RoofSquares:      record.Estimate.RoofSquares,
		EstimateDollars:  record.Estimate.EstimateDollars,
		PredominantPitch: string(record.Estimate.PredominantPitch),
		OccurredAt:       record.CreatedAt,
	}

	cloudEvent, err := kafka.NewCloudEvent("service-estimate", events.EstimateComputed, evt)
	if err != nil {
		s.logger.Error("failed to build EstimateComputedEvent", zap.Error(err))
		return
	}

	if err := s.producer.Publish(ctx, events.TopicEstimateEvents, record.LeadID.String(), cloudEvent); err != nil {
		s.logger.Error("failed to publish EstimateComputedEvent",
			zap.String("estimate_id", record.ID.String()),
			zap.Error(err),
		)
	}
}

// toEngineInput maps a provider response onto the engine's input value.
// Ground area is preferred over facet area so the engine's m²→ft²
// conversion matches what the provider measured against the ground
// plane; facet area is the fallback for older imagery payloads.
func toEngineInput(insights *solar.BuildingInsights, pricePerSquare float64) roof.EstimateInput {
	input := roof.EstimateInput{PricePerSquare: pricePerSquare}
	if insights.SolarPotential == nil {
		return input
	}

	potential := insights.SolarPotential
	if potential.WholeRoofStats != nil && potential.WholeRoofStats.GroundAreaMeters2 != nil {
		input.WholeRoofGroundAreaSqMeters = potential.WholeRoofStats.GroundAreaMeters2
	}

	input.Segments = make([]roof.RoofSegment, len(potential.RoofSegmentStats))
	for i, stat := range potential.RoofSegmentStats {
		segment := roof.RoofSegment{
			PitchDegrees:   stat.PitchDegrees,
			AzimuthDegrees: stat.AzimuthDegrees,
		}
		if stat.Stats.GroundAreaMeters2 != nil {
			segment.AreaSqMeters = stat.Stats.GroundAreaMeters2
		} else if stat.Stats.AreaMeters2 != nil {
			segment.AreaSqMeters = stat.Stats.AreaMeters2
		}
		if stat.BoundingBox != nil {
			box := &roof.BoundingBox{}
			if stat.BoundingBox.SW != nil {
				box.SW = &roof.GeoPoint{Lat: stat.BoundingBox.SW.Latitude, Lng: stat.BoundingBox.SW.Longitude}
			}
			if stat.BoundingBox.NE != nil {
				box.NE = &roof.GeoPoint{Lat: stat.BoundingBox.NE.Latitude, Lng: stat.BoundingBox.NE.Longitude}
			}
			segment.BoundingBox = box
		}
		input.Segments[i] = segment
	}

	return input
}

// toEstimateDTO converts a domain record to its response shape.
func toEstimateDTO(record *roof.EstimateRecord) EstimateDTO {
	return EstimateDTO{
		ID:                     record.ID,
		OrgID:                  record.OrgID,
		LeadID:                 record.LeadID,
		BuildingRef:            record.BuildingRef,
		BuildingDistanceMeters: record.BuildingDistanceMeters,
		TotalAreaSqFt:          record.Estimate.TotalAreaSqFt,
		RoofSquares:            record.Estimate.RoofSquares,
		PricePerSquare:         record.Estimate.PricePerSquare,
		EstimateDollars:        record.Estimate.EstimateDollars,
		PredominantPitch:       record.Estimate.PredominantPitch,
		Outline:                record.Estimate.Outline,
		Segments:               record.Estimate.Segments,
		CreatedAt:              record.CreatedAt,
	}
}
