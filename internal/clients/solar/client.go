package solar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/roofline-saas/service-estimate/internal/pkg/domain"
)

// Client fetches building insights from the aerial-imagery provider.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a building-insights client.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// FindClosestBuilding returns the imagery analysis for the building
// closest to the given coordinate.
func (c *Client) FindClosestBuilding(ctx context.Context, lat, lng float64) (*BuildingInsights, error) {
	query := url.Values{}
	query.Set("location.latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("location.longitude", strconv.FormatFloat(lng, 'f', -1, 64))
	query.Set("key", c.apiKey)

	endpoint := c.baseURL + "/buildingInsights:findClosest?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create building insights request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewUnavailableError("imagery provider unreachable", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.NewNotFoundError("building insights for location",
			fmt.Sprintf("(%v, %v)", lat, lng))
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, domain.NewUnavailableError("imagery provider rate limit exceeded", nil)
	case resp.StatusCode >= 400:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Warn("building insights request failed",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body),
		)
		return nil, domain.NewUnavailableError(
			fmt.Sprintf("imagery provider returned status %d", resp.StatusCode), nil)
	}

	var insights BuildingInsights
	if err := json.NewDecoder(resp.Body).Decode(&insights); err != nil {
		return nil, domain.NewUnavailableError("failed to decode building insights response", err)
	}

	segments := 0
	if insights.SolarPotential != nil {
		segments = len(insights.SolarPotential.RoofSegmentStats)
	}
	c.logger.Debug("building insights fetched",
		zap.String("building", insights.Name),
		zap.Int("segments", segments),
	)
	return &insights, nil
}
