package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/obras-hq/obras-backend/internal/domain"
	"github.com/obras-hq/obras-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// PreferenceHandler handles display preference requests
type PreferenceHandler struct {
	preferenceService *service.PreferenceService
}

// NewPreferenceHandler creates a new PreferenceHandler
func NewPreferenceHandler(preferenceService *service.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{preferenceService: preferenceService}
}

// ThemeResponse represents the persisted theme
type ThemeResponse struct {
	Theme string `json:"theme"`
}

// UpdateThemeRequest represents the theme update request body
type UpdateThemeRequest struct {
	Theme string `json:"theme"`
}

// GetTheme handles GET /api/v1/preferences/theme
func (h *PreferenceHandler) GetTheme(c echo.Context) error {
	theme, err := h.preferenceService.GetTheme(c.Request().Context())
	if err != nil {
		// Same silent-degrade policy as collection reads: fall back to the
		// default rather than failing the dashboard.
		log.Warn().Err(err).Msg("Failed to read theme preference")
		theme = domain.ThemeLight
	}
	return c.JSON(http.StatusOK, ThemeResponse{Theme: string(theme)})
}

// UpdateTheme handles PUT /api/v1/preferences/theme
func (h *PreferenceHandler) UpdateTheme(c echo.Context) error {
	var req UpdateThemeRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	theme, err := h.preferenceService.SetTheme(c.Request().Context(), req.Theme)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTheme) {
			return NewValidationError(c, "Invalid theme", []ValidationError{
				{Field: "theme", Message: "Theme must be light or dark"},
			})
		}
		log.Error().Err(err).Msg("Failed to persist theme preference")
		return NewStoreError(c, err.Error())
	}

	return c.JSON(http.StatusOK, ThemeResponse{Theme: string(theme)})
}
