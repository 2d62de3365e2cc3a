package handler

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/obras-hq/obras-backend/internal/domain"
	"github.com/obras-hq/obras-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// ReceiptHandler handles receipt scanning requests
type ReceiptHandler struct {
	receiptService *service.ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler
func NewReceiptHandler(receiptService *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// ReceiptScanResponse represents the fields extracted from a receipt
type ReceiptScanResponse struct {
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

// extensionFormats maps upload extensions to image subtypes
var extensionFormats = map[string]string{
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".png":  "png",
	".webp": "webp",
}

// ScanReceipt handles POST /api/v1/receipts/scan. On extraction failure it
// answers 422 so the client falls back to manual entry.
func (h *ReceiptHandler) ScanReceipt(c echo.Context) error {
	file, err := c.FormFile("image")
	if err != nil {
		return NewValidationError(c, "No image provided", []ValidationError{
			{Field: "image", Message: "Image is required"},
		})
	}

	format, ok := extensionFormats[strings.ToLower(filepath.Ext(file.Filename))]
	if !ok {
		return NewValidationError(c, "Invalid image format", []ValidationError{
			{Field: "image", Message: "Supported formats: JPEG, PNG, WebP"},
		})
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded receipt")
		return NewInternalError(c, "Failed to process image")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read uploaded receipt")
		return NewInternalError(c, "Failed to process image")
	}

	fields, err := h.receiptService.ExtractFields(c.Request().Context(), format, data)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAIUnavailable):
			return NewExtractionError(c, "Receipt scanning is unavailable: no API key is configured")
		case errors.Is(err, service.ErrReceiptTooLarge):
			return NewValidationError(c, err.Error(), []ValidationError{
				{Field: "image", Message: err.Error()},
			})
		case errors.Is(err, domain.ErrExtractionUnparsable):
			return NewExtractionError(c, "The receipt could not be read; enter the fields manually")
		case errors.Is(err, domain.ErrExtractionIncomplete):
			return NewExtractionError(c, "The receipt was missing required fields; enter them manually")
		}
		log.Error().Err(err).Msg("Receipt scan failed")
		return NewExtractionError(c, "The receipt could not be analyzed; enter the fields manually")
	}

	return c.JSON(http.StatusOK, ReceiptScanResponse{
		Amount:      fields.Amount.StringFixed(2),
		Date:        fields.Date,
		Description: fields.Description,
	})
}
