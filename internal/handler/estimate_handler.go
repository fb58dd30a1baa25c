package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roofline-saas/service-estimate/internal/application"
	"github.com/roofline-saas/service-estimate/internal/pkg/middleware"
	"github.com/roofline-saas/service-estimate/internal/pkg/response"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// EstimateHandler exposes the estimate API over HTTP.
type EstimateHandler struct {
	service *application.EstimateService
	logger  *zap.Logger
}

// NewEstimateHandler creates a new EstimateHandler.
func NewEstimateHandler(service *application.EstimateService, logger *zap.Logger) *EstimateHandler {
	return &EstimateHandler{service: service, logger: logger}
}

// RegisterRoutes registers the estimate routes on the router.
func (h *EstimateHandler) RegisterRoutes(r *gin.Engine) {
	v1 := r.Group("/api/v1")
	{
		v1.POST("/estimates", h.CreateEstimate)
		v1.GET("/estimates/:id", h.GetEstimate)
		v1.GET("/leads/:leadId/estimates", h.GetLeadEstimates)
	}
}

// CreateEstimate handles POST /api/v1/estimates.
func (h *EstimateHandler) CreateEstimate(c *gin.Context) {
	orgID, ok := middleware.GetOrgID(c)
	if !ok {
		response.BadRequest(c, "missing or invalid "+middleware.OrgIDHeader+" header")
		return
	}

	var req application.CreateEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	dto, err := h.service.CreateEstimate(c.Request.Context(), orgID, req)
	if err != nil {
		h.logger.Warn("create estimate failed",
			zap.String("lead_id", req.LeadID.String()),
			zap.Error(err),
		)
		response.Error(c, err)
		return
	}

	response.Created(c, dto)
}

// GetEstimate handles GET /api/v1/estimates/:id.
func (h *EstimateHandler) GetEstimate(c *gin.Context) {
	orgID, ok := middleware.GetOrgID(c)
	if !ok {
		response.BadRequest(c, "missing or invalid "+middleware.OrgIDHeader+" header")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid estimate ID")
		return
	}

	dto, err := h.service.GetEstimate(c.Request.Context(), orgID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto)
}

// GetLeadEstimates handles GET /api/v1/leads/:leadId/estimates.
func (h *EstimateHandler) GetLeadEstimates(c *gin.Context) {
	orgID, ok := middleware.GetOrgID(c)
	if !ok {
		response.BadRequest(c, "missing or invalid "+middleware.OrgIDHeader+" header")
		return
	}

	leadID, err := uuid.Parse(c.Param("leadId"))
	if err != nil {
		response.BadRequest(c, "invalid lead ID")
		return
	}

	page, limit := parsePagination(c)
	result, err := h.service.GetLeadEstimates(c.Request.Context(), orgID, leadID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// parsePagination reads page/limit query params with sane bounds.
func parsePagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageLimit)))
	if err != nil || limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}
