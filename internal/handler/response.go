package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation   = "https://obras.app/errors/validation"
	ErrorTypeNotFound     = "https://obras.app/errors/not-found"
	ErrorTypeConfirmation = "https://obras.app/errors/confirmation-required"
	ErrorTypeExtraction   = "https://obras.app/errors/receipt-extraction"
	ErrorTypeStore        = "https://obras.app/errors/store"
	ErrorTypeInternal     = "https://obras.app/errors/internal"
)

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return c.JSON(http.StatusBadRequest, ProblemDetails{
		Type:     ErrorTypeValidation,
		Title:    "Validation Error",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errors,
	})
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return c.JSON(http.StatusNotFound, ProblemDetails{
		Type:     ErrorTypeNotFound,
		Title:    "Not Found",
		Status:   http.StatusNotFound,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewConfirmationRequiredError rejects a destructive call issued without
// the explicit confirmation flag. No store call has been made.
func NewConfirmationRequiredError(c echo.Context, detail string) error {
	return c.JSON(http.StatusPreconditionRequired, ProblemDetails{
		Type:     ErrorTypeConfirmation,
		Title:    "Confirmation Required",
		Status:   http.StatusPreconditionRequired,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewExtractionError creates a receipt-extraction failure response. The
// client presents manual entry on this condition.
func NewExtractionError(c echo.Context, detail string) error {
	return c.JSON(http.StatusUnprocessableEntity, ProblemDetails{
		Type:     ErrorTypeExtraction,
		Title:    "Receipt Extraction Failed",
		Status:   http.StatusUnprocessableEntity,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewStoreError surfaces a failed remote write with the underlying
// message. Local state is unchanged when this is returned.
func NewStoreError(c echo.Context, detail string) error {
	return c.JSON(http.StatusBadGateway, ProblemDetails{
		Type:     ErrorTypeStore,
		Title:    "Store Write Failed",
		Status:   http.StatusBadGateway,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return c.JSON(http.StatusInternalServerError, ProblemDetails{
		Type:     ErrorTypeInternal,
		Title:    "Internal Server Error",
		Status:   http.StatusInternalServerError,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}
