package roof

import (
	"time"

	"github.com/google/uuid"

	"github.com/roofline-saas/service-estimate/internal/pkg/domain"
)

// EstimateRecord is a computed estimate with its identity and the
// context it was produced in. The engine itself never persists; records
// exist so collaborators can store and retrieve results.
type EstimateRecord struct {
	ID                     uuid.UUID
	OrgID                  uuid.UUID
	LeadID                 uuid.UUID
	BuildingRef            string
	RequestedLocation      GeoPoint
	BuildingCenter         GeoPoint
	BuildingDistanceMeters float64
	Estimate               RoofEstimate
	CreatedAt              time.Time
}

// NewEstimateRecord creates a record for a freshly computed estimate.
func NewEstimateRecord(
	orgID, leadID uuid.UUID,
	buildingRef string,
	requested, center GeoPoint,
	estimate RoofEstimate,
) (*EstimateRecord, error) {
	if orgID == uuid.Nil {
		return nil, domain.NewValidationError("org ID is required")
	}
	if leadID == uuid.Nil {
		return nil, domain.NewValidationError("lead ID is required")
	}
	if !requested.Valid() {
		return nil, domain.NewValidationError("requested location is out of range")
	}

	return &EstimateRecord{
		ID:                     uuid.New(),
		OrgID:                  orgID,
		LeadID:                 leadID,
		BuildingRef:            buildingRef,
		RequestedLocation:      requested,
		BuildingCenter:         center,
		BuildingDistanceMeters: HaversineDistanceMeters(requested, center),
		Estimate:               estimate,
		CreatedAt:              time.Now().UTC(),
	}, nil
}
