package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/obras-hq/obras-backend/internal/service"
	"github.com/obras-hq/obras-backend/internal/testutil"
)

func receiptUpload(t *testing.T, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("Failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestScanReceipt_Success(t *testing.T) {
	e := echo.New()
	client := &testutil.MockAIClient{
		VisionResponse: "```json\n{\"amount\": 42.9, \"date\": \"2024-03-10\", \"description\": \"Fuel\"}\n```",
	}
	handler := NewReceiptHandler(service.NewReceiptService(client, nil))

	body, contentType := receiptUpload(t, "receipt.jpg", []byte("fake-jpeg-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/receipts/scan", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.ScanReceipt(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response ReceiptScanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Amount != "42.90" {
		t.Errorf("Expected amount 42.90, got %s", response.Amount)
	}
	if response.Date != "2024-03-10" {
		t.Errorf("Expected date 2024-03-10, got %s", response.Date)
	}
	if response.Description != "Fuel" {
		t.Errorf("Expected description Fuel, got %s", response.Description)
	}

	if client.LastImageFormat != "jpeg" {
		t.Errorf("Expected jpeg format passed through, got %s", client.LastImageFormat)
	}
}

func TestScanReceipt_MissingFile(t *testing.T) {
	e := echo.New()
	handler := NewReceiptHandler(service.NewReceiptService(&testutil.MockAIClient{}, nil))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/receipts/scan", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.ScanReceipt(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestScanReceipt_UnknownExtension(t *testing.T) {
	e := echo.New()
	handler := NewReceiptHandler(service.NewReceiptService(&testutil.MockAIClient{}, nil))

	body, contentType := receiptUpload(t, "receipt.gif", []byte("gif-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/receipts/scan", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.ScanReceipt(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestScanReceipt_NoAPIKey(t *testing.T) {
	e := echo.New()
	handler := NewReceiptHandler(service.NewReceiptService(nil, nil))

	body, contentType := receiptUpload(t, "receipt.png", []byte("png-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/receipts/scan", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.ScanReceipt(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected status 422, got %d", rec.Code)
	}
}

func TestScanReceipt_UnreadableReceipt(t *testing.T) {
	e := echo.New()
	client := &testutil.MockAIClient{VisionResponse: "I could not make out the numbers."}
	handler := NewReceiptHandler(service.NewReceiptService(client, nil))

	body, contentType := receiptUpload(t, "receipt.jpeg", []byte("jpeg-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/receipts/scan", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.ScanReceipt(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected status 422, got %d", rec.Code)
	}

	var problem ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if problem.Type != ErrorTypeExtraction {
		t.Errorf("Expected extraction problem type, got %s", problem.Type)
	}
}

func TestScanReceipt_IncompleteFields(t *testing.T) {
	e := echo.New()
	client := &testutil.MockAIClient{VisionResponse: `{"amount": 12.5, "description": "Fuel"}`}
	handler := NewReceiptHandler(service.NewReceiptService(client, nil))

	body, contentType := receiptUpload(t, "receipt.jpg", []byte("jpeg-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/receipts/scan", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.ScanReceipt(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected status 422, got %d", rec.Code)
	}
}
