package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/obras-hq/obras-backend/internal/domain"
	"github.com/obras-hq/obras-backend/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ExpenseHandler handles expense HTTP requests
type ExpenseHandler struct {
	mirror         *service.MirrorService
	receiptService *service.ReceiptService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(mirror *service.MirrorService, receiptService *service.ReceiptService) *ExpenseHandler {
	return &ExpenseHandler{mirror: mirror, receiptService: receiptService}
}

// CreateExpenseRequest represents the create expense request body
type CreateExpenseRequest struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	CategoryID  string          `json:"categoryId"`
	ProjectID   string          `json:"projectId"`
	Receipt     string          `json:"receipt,omitempty"` // optional data URI
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	CategoryID  string `json:"categoryId"`
	ProjectID   string `json:"projectId"`
	Receipt     string `json:"receipt,omitempty"`
}

// GetExpenses handles GET /api/v1/expenses
func (h *ExpenseHandler) GetExpenses(c echo.Context) error {
	expenses := h.mirror.Expenses(c.QueryParam("project"), c.QueryParam("category"))

	response := make([]ExpenseResponse, len(expenses))
	for i, e := range expenses {
		response[i] = toExpenseResponse(e)
	}
	return c.JSON(http.StatusOK, response)
}

// CreateExpense handles POST /api/v1/expenses
func (h *ExpenseHandler) CreateExpense(c echo.Context) error {
	var req CreateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	receipt := req.Receipt
	if receipt != "" {
		stored, err := h.receiptService.StoreReceipt(c.Request().Context(), receipt)
		if err != nil {
			if errors.Is(err, service.ErrReceiptTooLarge) || errors.Is(err, service.ErrInvalidReceiptFormat) || errors.Is(err, service.ErrInvalidReceiptData) {
				return NewValidationError(c, err.Error(), []ValidationError{
					{Field: "receipt", Message: err.Error()},
				})
			}
			log.Error().Err(err).Msg("Failed to store receipt")
			return NewInternalError(c, "Failed to store receipt")
		}
		receipt = stored
	}

	expense := &domain.Expense{
		Description: req.Description,
		Amount:      req.Amount,
		Date:        req.Date,
		CategoryID:  req.CategoryID,
		ProjectID:   req.ProjectID,
		Receipt:     receipt,
	}

	if err := h.mirror.AddExpense(c.Request().Context(), expense); err != nil {
		switch {
		case errors.Is(err, domain.ErrDescriptionRequired):
			return NewValidationError(c, "Description is required", []ValidationError{
				{Field: "description", Message: "Description cannot be empty"},
			})
		case errors.Is(err, domain.ErrNameTooLong):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "description", Message: "Description must be 255 characters or less"},
			})
		case errors.Is(err, domain.ErrNegativeAmount):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amount", Message: "Amount must not be negative"},
			})
		case errors.Is(err, domain.ErrInvalidDate):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "date", Message: "Date must be a valid YYYY-MM-DD calendar date"},
			})
		}
		log.Error().Err(err).Msg("Failed to create expense")
		return NewStoreError(c, err.Error())
	}

	log.Info().Str("description", expense.Description).Str("date", expense.Date).Msg("Expense created")
	return c.NoContent(http.StatusCreated)
}

// DeleteExpense handles DELETE /api/v1/expenses/:id
func (h *ExpenseHandler) DeleteExpense(c echo.Context) error {
	if c.QueryParam("confirm") != "true" {
		return NewConfirmationRequiredError(c, "Deleting an expense requires confirm=true")
	}

	id := c.Param("id")
	if err := h.mirror.RemoveExpense(c.Request().Context(), id); err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		log.Error().Err(err).Str("expense_id", id).Msg("Failed to delete expense")
		return NewStoreError(c, err.Error())
	}

	log.Info().Str("expense_id", id).Msg("Expense deleted")
	return c.NoContent(http.StatusNoContent)
}

// Helper function to convert domain.Expense to ExpenseResponse
func toExpenseResponse(e *domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount.StringFixed(2),
		Date:        e.Date,
		CategoryID:  e.CategoryID,
		ProjectID:   e.ProjectID,
		Receipt:     e.Receipt,
	}
}
