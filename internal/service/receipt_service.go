package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/obras-hq/obras-backend/internal/ai"
	"github.com/obras-hq/obras-backend/internal/domain"
	"github.com/obras-hq/obras-backend/internal/repository/storage"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	// MaxReceiptSize bounds uploaded receipt images.
	MaxReceiptSize = 5 * 1024 * 1024 // 5MB
	// receiptDisplayWidth is the width stored receipts are resized to.
	receiptDisplayWidth = 1200
	receiptJPEGQuality  = 85
)

var (
	ErrReceiptTooLarge      = errors.New("receipt image too large. Maximum size is 5MB")
	ErrInvalidReceiptFormat = errors.New("invalid receipt format. Supported: JPEG, PNG, WebP")
	ErrInvalidReceiptData   = errors.New("invalid receipt image data")
	ErrAIUnavailable        = errors.New("AI extraction is not configured")
)

// AllowedReceiptFormats maps image subtypes accepted for scan and upload.
var AllowedReceiptFormats = map[string]bool{
	"jpeg": true,
	"png":  true,
	"webp": true,
}

// extractionPrompt instructs the vision model to answer with bare JSON.
const extractionPrompt = `Analyze this receipt/invoice. Extract:
1. The total value (amount) as a number.
2. The date (date) in YYYY-MM-DD format. If no year is present, assume the current year.
3. A short description (description) of what was bought (e.g. "Fuel", "Electrical supplies").

Return ONLY a JSON object in this format, without markdown:
{ "amount": 0.00, "date": "YYYY-MM-DD", "description": "Text" }`

// ReceiptService scans receipt images through the AI collaborator and
// stores receipt payloads in object storage when configured.
type ReceiptService struct {
	client ai.Client                 // nil when no API credential is configured
	store  storage.ReceiptRepository // nil when object storage is not configured
}

// NewReceiptService creates a ReceiptService. Either collaborator may be
// nil; the corresponding capability then degrades (extraction errors,
// receipts stored inline).
func NewReceiptService(client ai.Client, store storage.ReceiptRepository) *ReceiptService {
	return &ReceiptService{client: client, store: store}
}

// ExtractFields runs structured extraction over a receipt image. The AI
// response is stripped of fenced-code wrapping before parsing. A response
// that is not the expected JSON shape fails with
// domain.ErrExtractionUnparsable; one missing any required field (or with
// a negative amount or invalid date) fails with
// domain.ErrExtractionIncomplete. Callers present a manual-entry fallback
// on either.
func (s *ReceiptService) ExtractFields(ctx context.Context, imageFormat string, imageData []byte) (*domain.ReceiptFields, error) {
	if s.client == nil {
		return nil, ErrAIUnavailable
	}
	if !AllowedReceiptFormats[imageFormat] {
		return nil, ErrInvalidReceiptFormat
	}
	if len(imageData) > MaxReceiptSize {
		return nil, ErrReceiptTooLarge
	}

	raw, err := s.client.GenerateVision(ctx, extractionPrompt, imageFormat, imageData)
	if err != nil {
		return nil, err
	}

	fields, err := parseExtraction(raw)
	if err != nil {
		log.Warn().Err(err).Str("response", truncate(raw, 200)).Msg("Receipt extraction failed")
		return nil, err
	}
	return fields, nil
}

// parseExtraction strips formatting noise and validates the structured
// record.
func parseExtraction(raw string) (*domain.ReceiptFields, error) {
	clean := strings.ReplaceAll(raw, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")
	clean = strings.TrimSpace(clean)

	var parsed struct {
		Amount      *json.Number `json:"amount"`
		Date        *string      `json:"date"`
		Description *string      `json:"description"`
	}
	dec := json.NewDecoder(strings.NewReader(clean))
	dec.UseNumber()
	if err := dec.Decode(&parsed); err != nil {
		return nil, domain.ErrExtractionUnparsable
	}

	if parsed.Amount == nil || parsed.Date == nil || parsed.Description == nil {
		return nil, domain.ErrExtractionIncomplete
	}

	amount, err := decimal.NewFromString(parsed.Amount.String())
	if err != nil || amount.IsNegative() {
		return nil, domain.ErrExtractionIncomplete
	}

	date := strings.TrimSpace(*parsed.Date)
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		// Year omitted on the receipt: default to the current one.
		if day, err2 := time.Parse("01-02", date); err2 == nil {
			date = fmt.Sprintf("%04d-%s", time.Now().Year(), day.Format("01-02"))
		} else {
			return nil, domain.ErrExtractionIncomplete
		}
	}

	description := strings.TrimSpace(*parsed.Description)
	if description == "" {
		return nil, domain.ErrExtractionIncomplete
	}

	return &domain.ReceiptFields{
		Amount:      amount,
		Date:        date,
		Description: description,
	}, nil
}

// StoreReceipt persists a data-URI receipt payload. With object storage
// configured the image is validated, resized and uploaded, returning the
// object URL; otherwise the data URI is returned unchanged and stored
// inline on the expense row.
func (s *ReceiptService) StoreReceipt(ctx context.Context, dataURI string) (string, error) {
	if dataURI == "" {
		return "", nil
	}
	if s.store == nil {
		return dataURI, nil
	}

	_, data, err := decodeDataURI(dataURI)
	if err != nil {
		return "", err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", ErrInvalidReceiptData
	}

	// Stored copies are capped at display width; receipts photographed on
	// phones are far larger than the dashboard ever renders.
	if img.Bounds().Dx() > receiptDisplayWidth {
		img = imaging.Resize(img, receiptDisplayWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(receiptJPEGQuality)); err != nil {
		return "", fmt.Errorf("failed to encode receipt: %w", err)
	}

	objectPath := storage.GenerateObjectPath(".jpg")
	url, err := s.store.Upload(ctx, objectPath, &buf, "image/jpeg", int64(buf.Len()))
	if err != nil {
		return "", fmt.Errorf("failed to upload receipt: %w", err)
	}
	return url, nil
}

// decodeDataURI splits a data:image/...;base64 payload into its subtype
// and raw bytes.
func decodeDataURI(dataURI string) (string, []byte, error) {
	if !strings.HasPrefix(dataURI, "data:image/") {
		return "", nil, ErrInvalidReceiptData
	}
	rest := strings.TrimPrefix(dataURI, "data:image/")
	sep := strings.Index(rest, ";base64,")
	if sep < 0 {
		return "", nil, ErrInvalidReceiptData
	}

	format := rest[:sep]
	if !AllowedReceiptFormats[format] {
		return "", nil, ErrInvalidReceiptFormat
	}

	data, err := base64.StdEncoding.DecodeString(rest[sep+len(";base64,"):])
	if err != nil {
		return "", nil, ErrInvalidReceiptData
	}
	if len(data) > MaxReceiptSize {
		return "", nil, ErrReceiptTooLarge
	}
	return format, data, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
