package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/roofline-saas/service-estimate/internal/domain/roof"
	"github.com/roofline-saas/service-estimate/internal/pkg/domain"
)

// RoofEstimateModel is the GORM model for the roof_estimates table.
type RoofEstimateModel struct {
	ID                     uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrgID                  uuid.UUID       `gorm:"type:uuid;index;not null"`
	LeadID                 uuid.UUID       `gorm:"type:uuid;index;not null"`
	BuildingRef            string          `gorm:"size:120"`
	RequestedLat           float64         `gorm:"not null"`
	RequestedLng           float64         `gorm:"not null"`
	BuildingLat            float64         `gorm:"not null"`
	BuildingLng            float64         `gorm:"not null"`
	BuildingDistanceMeters float64         `gorm:"not null"`
	TotalAreaSqFt          float64         `gorm:"not null"`
	RoofSquares            float64         `gorm:"not null"`
	PricePerSquare         float64         `gorm:"not null"`
	EstimateDollars        int64           `gorm:"not null"`
	PredominantPitch       string          `gorm:"size:20;not null;index"`
	Outline                json.RawMessage `gorm:"type:jsonb;not null"`
	PitchSegments          json.RawMessage `gorm:"type:jsonb;not null"`
	CreatedAt              time.Time       `gorm:"not null;index"`
	UpdatedAt              time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (RoofEstimateModel) TableName() string {
	return "roof_estimates"
}

// GormEstimateRepository is the GORM-based implementation of
// roof.EstimateRepository.
type GormEstimateRepository struct {
	db *gorm.DB
}

// NewGormEstimateRepository creates a new GormEstimateRepository.
func NewGormEstimateRepository(db *gorm.DB) *GormEstimateRepository {
	return &GormEstimateRepository{db: db}
}

// Save persists a new estimate record.
func (r *GormEstimateRepository) Save(ctx context.Context, record *roof.EstimateRecord) error {
	model, err := toEstimateModel(record)
	if err != nil {
		return fmt.Errorf("failed to convert estimate to model: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save estimate: %w", err)
	}
	return nil
}

// FindByID retrieves an estimate by ID within the given org.
func (r *GormEstimateRepository) FindByID(ctx context.Context, orgID, id uuid.UUID) (*roof.EstimateRecord, error) {
	var model RoofEstimateModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND org_id = ?", id, orgID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Estimate", id.String())
		}
		return nil, fmt.Errorf("failed to find estimate by ID: %w", err)
	}
	return toEstimateRecord(&model)
}

// FindByLeadID retrieves estimates for a lead, newest first, paginated.
func (r *GormEstimateRepository) FindByLeadID(ctx context.Context, orgID, leadID uuid.UUID, page, limit int) ([]*roof.EstimateRecord, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&RoofEstimateModel{}).
		Where("org_id = ? AND lead_id = ?", orgID, leadID).
		Count(&total).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count lead estimates: %w", err)
	}

	var models []RoofEstimateModel
	offset := (page - 1) * limit
	err = r.db.WithContext(ctx).
		Where("org_id = ? AND lead_id = ?", orgID, leadID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find lead estimates: %w", err)
	}

	records := make([]*roof.EstimateRecord, len(models))
	for i, m := range models {
		record, err := toEstimateRecord(&m)
		if err != nil {
			return nil, 0, err
		}
		records[i] = record
	}

	return records, total, nil
}

// toEstimateModel converts a domain record to its GORM model.
func toEstimateModel(record *roof.EstimateRecord) (*RoofEstimateModel, error) {
	outline, err := json.Marshal(record.Estimate.Outline)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal outline: %w", err)
	}
	segments, err := json.Marshal(record.Estimate.Segments)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal pitch segments: %w", err)
	}

	return &RoofEstimateModel{
		ID:                     record.ID,
		OrgID:                  record.OrgID,
		LeadID:                 record.LeadID,
		BuildingRef:            record.BuildingRef,
		RequestedLat:           record.RequestedLocation.Lat,
		RequestedLng:           record.RequestedLocation.Lng,
		BuildingLat:            record.BuildingCenter.Lat,
		BuildingLng:            record.BuildingCenter.Lng,
		BuildingDistanceMeters: record.BuildingDistanceMeters,
		TotalAreaSqFt:          record.Estimate.TotalAreaSqFt,
		RoofSquares:            record.Estimate.RoofSquares,
		PricePerSquare:         record.Estimate.PricePerSquare,
		EstimateDollars:        record.Estimate.EstimateDollars,
		PredominantPitch:       string(record.Estimate.PredominantPitch),
		Outline:                outline,
		PitchSegments:          segments,
		CreatedAt:              record.CreatedAt,
		UpdatedAt:              record.CreatedAt,
	}, nil
}

// toEstimateRecord converts a GORM model back to the domain record.
func toEstimateRecord(model *RoofEstimateModel) (*roof.EstimateRecord, error) {
	var outline []roof.GeoPoint
	if err := json.Unmarshal(model.Outline, &outline); err != nil {
		return nil, fmt.Errorf("failed to unmarshal outline: %w", err)
	}
	var segments []roof.PitchSegment
	if err := json.Unmarshal(model.PitchSegments, &segments); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pitch segments: %w", err)
	}

	return &roof.EstimateRecord{
		ID:                     model.ID,
		OrgID:                  model.OrgID,
		LeadID:                 model.LeadID,
		BuildingRef:            model.BuildingRef,
		RequestedLocation:      roof.GeoPoint{Lat: model.RequestedLat, Lng: model.RequestedLng},
		BuildingCenter:         roof.GeoPoint{Lat: model.BuildingLat, Lng: model.BuildingLng},
		BuildingDistanceMeters: model.BuildingDistanceMeters,
		Estimate: roof.RoofEstimate{
			TotalAreaSqFt:    model.TotalAreaSqFt,
			RoofSquares:      model.RoofSquares,
			PricePerSquare:   model.PricePerSquare,
			EstimateDollars:  model.EstimateDollars,
			PredominantPitch: roof.PitchCategory(model.PredominantPitch),
			Outline:          outline,
			Segments:         segments,
		},
		CreatedAt: model.CreatedAt,
	}, nil
}
