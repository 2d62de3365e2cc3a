package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/obras-hq/obras-backend/internal/domain"
	"github.com/obras-hq/obras-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// ProjectHandler handles project HTTP requests
type ProjectHandler struct {
	mirror *service.MirrorService
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(mirror *service.MirrorService) *ProjectHandler {
	return &ProjectHandler{mirror: mirror}
}

// CreateProjectRequest represents the create project request body
type CreateProjectRequest struct {
	Name string `json:"name"`
}

// GetProjects handles GET /api/v1/projects
func (h *ProjectHandler) GetProjects(c echo.Context) error {
	return c.JSON(http.StatusOK, h.mirror.Projects())
}

// CreateProject handles POST /api/v1/projects
func (h *ProjectHandler) CreateProject(c echo.Context) error {
	var req CreateProjectRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	project, err := h.mirror.AddProject(c.Request().Context(), req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrNameRequired) {
			return NewValidationError(c, "Project name is required", []ValidationError{
				{Field: "name", Message: "Name cannot be empty"},
			})
		}
		if errors.Is(err, domain.ErrNameTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name must be 100 characters or less"},
			})
		}
		log.Error().Err(err).Msg("Failed to create project")
		return NewStoreError(c, err.Error())
	}

	log.Info().Str("project_id", project.ID).Str("name", project.Name).Msg("Project created")
	return c.JSON(http.StatusCreated, project)
}

// ToggleProjectStatus handles PATCH /api/v1/projects/:id/status
func (h *ProjectHandler) ToggleProjectStatus(c echo.Context) error {
	id := c.Param("id")
	project, err := h.mirror.ToggleProjectStatus(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			return NewNotFoundError(c, "Project not found")
		}
		log.Error().Err(err).Str("project_id", id).Msg("Failed to toggle project status")
		return NewStoreError(c, err.Error())
	}

	log.Info().Str("project_id", id).Str("status", string(project.Status)).Msg("Project status toggled")
	return c.JSON(http.StatusOK, project)
}

// DeleteProject handles DELETE /api/v1/projects/:id
func (h *ProjectHandler) DeleteProject(c echo.Context) error {
	if c.QueryParam("confirm") != "true" {
		return NewConfirmationRequiredError(c, "Deleting a project requires confirm=true")
	}

	id := c.Param("id")
	if err := h.mirror.RemoveProject(c.Request().Context(), id); err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			return NewNotFoundError(c, "Project not found")
		}
		log.Error().Err(err).Str("project_id", id).Msg("Failed to delete project")
		return NewStoreError(c, err.Error())
	}

	log.Info().Str("project_id", id).Msg("Project deleted")
	return c.NoContent(http.StatusNoContent)
}
