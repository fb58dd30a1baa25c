package application

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/roofline-saas/service-estimate/internal/clients/solar"
	"github.com/roofline-saas/service-estimate/internal/domain/roof"
	"github.com/roofline-saas/service-estimate/internal/events"
	"github.com/roofline-saas/service-estimate/internal/pkg/domain"
	"github.com/roofline-saas/service-estimate/internal/pkg/kafka"
)

type fakeRepo struct {
	saved   []*roof.EstimateRecord
	saveErr error
	byID    map[uuid.UUID]*roof.EstimateRecord
	byLead  []*roof.EstimateRecord
	total   int64
}

func (f *fakeRepo) Save(_ context.Context, record *roof.EstimateRecord) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, record)
	return nil
}

func (f *fakeRepo) FindByID(_ context.Context, orgID, id uuid.UUID) (*roof.EstimateRecord, error) {
	record, ok := f.byID[id]
	if !ok || record.OrgID != orgID {
		return nil, domain.NewNotFoundError("Estimate", id.String())
	}
	return record, nil
}

func (f *fakeRepo) FindByLeadID(_ context.Context, _, _ uuid.UUID, _, _ int) ([]*roof.EstimateRecord, int64, error) {
	return f.byLead, f.total, nil
}

type fakeProvider struct {
	insights *solar.BuildingInsights
	err      error
	lastLat  float64
	lastLng  float64
	calls    int
}

func (f *fakeProvider) FindClosestBuilding(_ context.Context, lat, lng float64) (*solar.BuildingInsights, error) {
	f.calls++
	f.lastLat = lat
	f.lastLng = lng
	if f.err != nil {
		return nil, f.err
	}
	return f.insights, nil
}

type fakePublisher struct {
	published []kafka.CloudEvent
	topics    []string
	keys      []string
	err       error
}

func (f *fakePublisher) Publish(_ context.Context, topic, key string, event kafka.CloudEvent) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, event)
	f.topics = append(f.topics, topic)
	f.keys = append(f.keys, key)
	return nil
}

func f64(v float64) *float64 {
	return &v
}

// gabledInsights is a single south-facing segment at 25 degrees pitch
// covering 50 m² of ground area.
func gabledInsights() *solar.BuildingInsights {
	return &solar.BuildingInsights{
		Name: "buildings/abc123",
		Center: solar.LatLng{Latitude: 39.744, Longitude: -105.02},
		SolarPotential: &solar.SolarPotential{
			RoofSegmentStats: []solar.RoofSegmentStat{
				{
					PitchDegrees:   25,
					AzimuthDegrees: 180,
					Stats:          solar.SizeAndSunshineStats{GroundAreaMeters2: f64(50)},
					BoundingBox: &solar.LatLngBox{
						SW: &solar.LatLng{Latitude: 39.7439, Longitude: -105.0201},
						NE: &solar.LatLng{Latitude: 39.7441, Longitude: -105.0199},
					},
				},
			},
		},
	}
}

func newTestService(repo *fakeRepo, provider *fakeProvider, publisher *fakePublisher) *EstimateService {
	return NewEstimateService(repo, provider, publisher, zap.NewNop(), 350)
}

func TestCreateEstimate(t *testing.T) {
	orgID := uuid.New()
	leadID := uuid.New()

	t.Run("computes, saves, and publishes", func(t *testing.T) {
		repo := &fakeRepo{}
		provider := &fakeProvider{insights: gabledInsights()}
		publisher := &fakePublisher{}
		service := newTestService(repo, provider, publisher)

		dto, err := service.CreateEstimate(context.Background(), orgID, CreateEstimateRequest{
			LeadID:    leadID,
			Latitude:  39.7445,
			Longitude: -105.0205,
		})
		require.NoError(t, err)

		assert.Equal(t, orgID, dto.OrgID)
		assert.Equal(t, leadID, dto.LeadID)
		assert.Equal(t, "buildings/abc123", dto.BuildingRef)
		assert.InDelta(t, 538.195, dto.TotalAreaSqFt, 0.001)
		assert.InDelta(t, 5.38195, dto.RoofSquares, 0.00001)
		assert.Equal(t, float64(350), dto.PricePerSquare)
		assert.Equal(t, int64(1884), dto.EstimateDollars)
		assert.Equal(t, roof.PitchNormal, dto.PredominantPitch)
		assert.Len(t, dto.Outline, 4)
		assert.Greater(t, dto.BuildingDistanceMeters, 0.0)

		require.Len(t, repo.saved, 1)
		assert.Equal(t, dto.ID, repo.saved[0].ID)

		require.Len(t, publisher.published, 1)
		assert.Equal(t, events.TopicEstimateEvents, publisher.topics[0])
		assert.Equal(t, leadID.String(), publisher.keys[0])
		assert.Equal(t, events.EstimateComputed, publisher.published[0].Type)

		var evt events.EstimateComputedEvent
		require.NoError(t, publisher.published[0].ParseData(&evt))
		assert.Equal(t, dto.ID, evt.EstimateID)
		assert.Equal(t, int64(1884), evt.EstimateDollars)
		assert.Equal(t, "NORMAL", evt.PredominantPitch)

		assert.Equal(t, 39.7445, provider.lastLat)
		assert.Equal(t, -105.0205, provider.lastLng)
	})

	t.Run("honors price per square override", func(t *testing.T) {
		repo := &fakeRepo{}
		provider := &fakeProvider{insights: gabledInsights()}
		service := newTestService(repo, provider, &fakePublisher{})

		dto, err := service.CreateEstimate(context.Background(), orgID, CreateEstimateRequest{
			LeadID:         leadID,
			Latitude:       39.7445,
			Longitude:      -105.0205,
			PricePerSquare: f64(500),
		})
		require.NoError(t, err)

		assert.Equal(t, float64(500), dto.PricePerSquare)
		assert.Equal(t, int64(2691), dto.EstimateDollars) // round(5.38195 * 500)
	})

	t.Run("rejects missing org", func(t *testing.T) {
		service := newTestService(&fakeRepo{}, &fakeProvider{insights: gabledInsights()}, &fakePublisher{})

		_, err := service.CreateEstimate(context.Background(), uuid.Nil, CreateEstimateRequest{
			LeadID:   leadID,
			Latitude: 39.7445, Longitude: -105.0205,
		})
		assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
	})

	t.Run("rejects out of range coordinates", func(t *testing.T) {
		provider := &fakeProvider{insights: gabledInsights()}
		service := newTestService(&fakeRepo{}, provider, &fakePublisher{})

		_, err := service.CreateEstimate(context.Background(), orgID, CreateEstimateRequest{
			LeadID:   leadID,
			Latitude: 91, Longitude: 0,
		})
		assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
		assert.Zero(t, provider.calls)
	})

	t.Run("rejects non-positive price override", func(t *testing.T) {
		service := newTestService(&fakeRepo{}, &fakeProvider{insights: gabledInsights()}, &fakePublisher{})

		_, err := service.CreateEstimate(context.Background(), orgID, CreateEstimateRequest{
			LeadID:   leadID,
			Latitude: 39.7445, Longitude: -105.0205,
			PricePerSquare: f64(0),
		})
		assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
	})

	t.Run("propagates provider not found", func(t *testing.T) {
		provider := &fakeProvider{err: domain.NewNotFoundError("Building", "39.7445,-105.0205")}
		service := newTestService(&fakeRepo{}, provider, &fakePublisher{})

		_, err := service.CreateEstimate(context.Background(), orgID, CreateEstimateRequest{
			LeadID:   leadID,
			Latitude: 39.7445, Longitude: -105.0205,
		})
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("surfaces save failure", func(t *testing.T) {
		repo := &fakeRepo{saveErr: errors.New("connection reset")}
		publisher := &fakePublisher{}
		service := newTestService(repo, &fakeProvider{insights: gabledInsights()}, publisher)

		_, err := service.CreateEstimate(context.Background(), orgID, CreateEstimateRequest{
			LeadID:   leadID,
			Latitude: 39.7445, Longitude: -105.0205,
		})
		require.Error(t, err)
		assert.Empty(t, publisher.published)
	})

	t.Run("publish failure does not fail the request", func(t *testing.T) {
		repo := &fakeRepo{}
		publisher := &fakePublisher{err: errors.New("broker down")}
		service := newTestService(repo, &fakeProvider{insights: gabledInsights()}, publisher)

		dto, err := service.CreateEstimate(context.Background(), orgID, CreateEstimateRequest{
			LeadID:   leadID,
			Latitude: 39.7445, Longitude: -105.0205,
		})
		require.NoError(t, err)
		assert.NotNil(t, dto)
		assert.Len(t, repo.saved, 1)
	})

	t.Run("building without solar potential yields empty estimate", func(t *testing.T) {
		insights := &solar.BuildingInsights{
			Name:   "buildings/bare",
			Center: solar.LatLng{Latitude: 39.744, Longitude: -105.02},
		}
		repo := &fakeRepo{}
		service := newTestService(repo, &fakeProvider{insights: insights}, &fakePublisher{})

		dto, err := service.CreateEstimate(context.Background(), orgID, CreateEstimateRequest{
			LeadID:   leadID,
			Latitude: 39.7445, Longitude: -105.0205,
		})
		require.NoError(t, err)

		assert.Zero(t, dto.TotalAreaSqFt)
		assert.Zero(t, dto.EstimateDollars)
		assert.Equal(t, roof.PitchUnknown, dto.PredominantPitch)
		assert.Empty(t, dto.Outline)
	})
}

func TestCreateEstimateForLead(t *testing.T) {
	orgID := uuid.New()
	leadID := uuid.New()

	t.Run("computes estimate at default rate", func(t *testing.T) {
		repo := &fakeRepo{}
		service := newTestService(repo, &fakeProvider{insights: gabledInsights()}, &fakePublisher{})

		err := service.CreateEstimateForLead(context.Background(), events.LeadQualifiedEvent{
			LeadID:    leadID,
			OrgID:     orgID,
			Latitude:  f64(39.7445),
			Longitude: f64(-105.0205),
		})
		require.NoError(t, err)

		require.Len(t, repo.saved, 1)
		assert.Equal(t, float64(350), repo.saved[0].Estimate.PricePerSquare)
	})

	t.Run("rejects event without coordinates", func(t *testing.T) {
		service := newTestService(&fakeRepo{}, &fakeProvider{insights: gabledInsights()}, &fakePublisher{})

		err := service.CreateEstimateForLead(context.Background(), events.LeadQualifiedEvent{
			LeadID: leadID,
			OrgID:  orgID,
		})
		assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
	})

	t.Run("swallows missing imagery coverage", func(t *testing.T) {
		provider := &fakeProvider{err: domain.NewNotFoundError("Building", "0,0")}
		service := newTestService(&fakeRepo{}, provider, &fakePublisher{})

		err := service.CreateEstimateForLead(context.Background(), events.LeadQualifiedEvent{
			LeadID:    leadID,
			OrgID:     orgID,
			Latitude:  f64(39.7445),
			Longitude: f64(-105.0205),
		})
		assert.NoError(t, err)
	})

	t.Run("returns upstream errors for retry", func(t *testing.T) {
		provider := &fakeProvider{err: domain.NewUnavailableError("solar API returned status 503", nil)}
		service := newTestService(&fakeRepo{}, provider, &fakePublisher{})

		err := service.CreateEstimateForLead(context.Background(), events.LeadQualifiedEvent{
			LeadID:    leadID,
			OrgID:     orgID,
			Latitude:  f64(39.7445),
			Longitude: f64(-105.0205),
		})
		assert.Equal(t, domain.CodeUnavailable, domain.CodeOf(err))
	})
}

func TestGetEstimate(t *testing.T) {
	orgID := uuid.New()
	otherOrg := uuid.New()
	record := &roof.EstimateRecord{
		ID:    uuid.New(),
		OrgID: orgID,
		Estimate: roof.RoofEstimate{
			TotalAreaSqFt:    538.195,
			PredominantPitch: roof.PitchNormal,
		},
	}
	repo := &fakeRepo{byID: map[uuid.UUID]*roof.EstimateRecord{record.ID: record}}
	service := newTestService(repo, &fakeProvider{}, &fakePublisher{})

	dto, err := service.GetEstimate(context.Background(), orgID, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, dto.ID)
	assert.InDelta(t, 538.195, dto.TotalAreaSqFt, 0.001)

	_, err = service.GetEstimate(context.Background(), otherOrg, record.ID)
	assert.True(t, domain.IsNotFound(err))
}

func TestGetLeadEstimates(t *testing.T) {
	orgID := uuid.New()
	leadID := uuid.New()
	repo := &fakeRepo{
		byLead: []*roof.EstimateRecord{
			{ID: uuid.New(), OrgID: orgID, LeadID: leadID},
			{ID: uuid.New(), OrgID: orgID, LeadID: leadID},
		},
		total: 7,
	}
	service := newTestService(repo, &fakeProvider{}, &fakePublisher{})

	page, err := service.GetLeadEstimates(context.Background(), orgID, leadID, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int64(7), page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.Limit)
}
