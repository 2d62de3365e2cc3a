package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/obras-hq/obras-backend/internal/service"
)

// InsightHandler handles AI insight requests
type InsightHandler struct {
	mirror         *service.MirrorService
	insightService *service.InsightService
}

// NewInsightHandler creates a new InsightHandler
func NewInsightHandler(mirror *service.MirrorService, insightService *service.InsightService) *InsightHandler {
	return &InsightHandler{mirror: mirror, insightService: insightService}
}

// InsightResponse represents the AI summary response
type InsightResponse struct {
	Insight string `json:"insight"`
}

// CreateInsight handles POST /api/v1/insights. It always answers 200:
// unconfigured, empty and failed analyses all come back as fixed text.
func (h *InsightHandler) CreateInsight(c echo.Context) error {
	expenses := h.mirror.Expenses(c.QueryParam("project"), c.QueryParam("category"))
	insight := h.insightService.Summarize(c.Request().Context(), expenses)
	return c.JSON(http.StatusOK, InsightResponse{Insight: insight})
}
