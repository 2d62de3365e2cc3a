package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/obras-hq/obras-backend/internal/domain"
	"github.com/obras-hq/obras-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// CategoryHandler handles category HTTP requests
type CategoryHandler struct {
	mirror *service.MirrorService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(mirror *service.MirrorService) *CategoryHandler {
	return &CategoryHandler{mirror: mirror}
}

// CreateCategoryRequest represents the create category request body
type CreateCategoryRequest struct {
	Name string `json:"name"`
}

// GetCategories handles GET /api/v1/categories
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, h.mirror.Categories())
}

// CreateCategory handles POST /api/v1/categories
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	category, err := h.mirror.AddCategory(c.Request().Context(), req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrNameRequired) {
			return NewValidationError(c, "Category name is required", []ValidationError{
				{Field: "name", Message: "Name cannot be empty"},
			})
		}
		if errors.Is(err, domain.ErrNameTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name must be 100 characters or less"},
			})
		}
		log.Error().Err(err).Msg("Failed to create category")
		return NewStoreError(c, err.Error())
	}

	log.Info().Str("category_id", category.ID).Str("name", category.Name).Msg("Category created")
	return c.JSON(http.StatusCreated, category)
}

// DeleteCategory handles DELETE /api/v1/categories/:id
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	if c.QueryParam("confirm") != "true" {
		return NewConfirmationRequiredError(c, "Deleting a category requires confirm=true")
	}

	id := c.Param("id")
	if err := h.mirror.RemoveCategory(c.Request().Context(), id); err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return NewNotFoundError(c, "Category not found")
		}
		log.Error().Err(err).Str("category_id", id).Msg("Failed to delete category")
		return NewStoreError(c, err.Error())
	}

	log.Info().Str("category_id", id).Msg("Category deleted")
	return c.NoContent(http.StatusNoContent)
}
