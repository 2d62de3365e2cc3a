package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/obras-hq/obras-backend/internal/domain"
	"github.com/obras-hq/obras-backend/internal/service"
)

// DashboardHandler serves the aggregate statistics backing the dashboard
// cards and charts. All figures are computed from the mirror on demand.
type DashboardHandler struct {
	mirror *service.MirrorService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(mirror *service.MirrorService) *DashboardHandler {
	return &DashboardHandler{mirror: mirror}
}

// SummaryResponse represents the headline metrics for the filtered view
type SummaryResponse struct {
	Total           string `json:"total"`
	Average         string `json:"average"`
	Count           int    `json:"count"`
	TopCategoryID   string `json:"topCategoryId"`
	TopCategoryName string `json:"topCategoryName"`
}

// BreakdownSlice represents one bucket of the per-category chart
type BreakdownSlice struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Color string `json:"color"`
}

// TimelinePoint represents one bucket of the spending-over-time chart
type TimelinePoint struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// GetSummary handles GET /api/v1/dashboard/summary
func (h *DashboardHandler) GetSummary(c echo.Context) error {
	expenses := h.mirror.Expenses(c.QueryParam("project"), c.QueryParam("category"))
	summary := service.ComputeSummary(expenses)

	topName := "None"
	if summary.TopCategoryID != "" {
		topName = domain.LookupCategory(h.mirror.Categories(), summary.TopCategoryID).Name
	}

	return c.JSON(http.StatusOK, SummaryResponse{
		Total:           summary.Total.StringFixed(2),
		Average:         summary.Average.StringFixed(2),
		Count:           summary.Count,
		TopCategoryID:   summary.TopCategoryID,
		TopCategoryName: topName,
	})
}

// GetBreakdown handles GET /api/v1/dashboard/breakdown
func (h *DashboardHandler) GetBreakdown(c echo.Context) error {
	expenses := h.mirror.Expenses(c.QueryParam("project"), c.QueryParam("category"))
	slices := service.ComputeCategoryBreakdown(expenses, h.mirror.Categories())

	response := make([]BreakdownSlice, len(slices))
	for i, s := range slices {
		response[i] = BreakdownSlice{
			Name:  s.Name,
			Value: s.Value.StringFixed(2),
			Color: s.Color,
		}
	}
	return c.JSON(http.StatusOK, response)
}

// GetTimeline handles GET /api/v1/dashboard/timeline
func (h *DashboardHandler) GetTimeline(c echo.Context) error {
	expenses := h.mirror.Expenses(c.QueryParam("project"), c.QueryParam("category"))
	points := service.ComputeTimeSeries(expenses)

	response := make([]TimelinePoint, len(points))
	for i, p := range points {
		response[i] = TimelinePoint{
			Label: p.Label,
			Value: p.Value.StringFixed(2),
		}
	}
	return c.JSON(http.StatusOK, response)
}
