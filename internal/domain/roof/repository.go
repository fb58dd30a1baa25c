package roof

import (
	"context"

	"github.com/google/uuid"
)

// EstimateRepository persists computed estimates. All lookups are
// tenant-scoped by org ID.
type EstimateRepository interface {
	// Save persists a new estimate record.
	Save(ctx context.Context, record *EstimateRecord) error

	// FindByID retrieves an estimate by ID within the given org.
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*EstimateRecord, error)

	// FindByLeadID retrieves estimates for a lead, newest first, with
	// pagination. Returns the page and the total count.
	FindByLeadID(ctx context.Context, orgID, leadID uuid.UUID, page, limit int) ([]*EstimateRecord, int64, error)
}
