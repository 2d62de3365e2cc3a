package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/obras-hq/obras-backend/internal/domain"
)

func TestGetCategories_ReturnsMirroredRows(t *testing.T) {
	e := echo.New()
	f := newMirrorFixture(t)
	f.categoryRepo.Categories = []*domain.Category{
		{ID: "cat-a", Name: "Materials", Color: "#009739"},
	}
	f.load(t)
	handler := NewCategoryHandler(f.mirror)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.GetCategories(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response []domain.Category
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response) != 1 || response[0].Name != "Materials" {
		t.Errorf("Unexpected categories: %v", response)
	}
}

func TestCreateCategory_Success(t *testing.T) {
	e := echo.New()
	f := newMirrorFixture(t)
	f.load(t)
	handler := NewCategoryHandler(f.mirror)

	reqBody := `{"name": "Labor"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/categories", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.CreateCategory(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rec.Code)
	}

	var response domain.Category
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.ID == "" {
		t.Error("Expected store-assigned id in the response")
	}
	if response.Name != "Labor" {
		t.Errorf("Expected name Labor, got %s", response.Name)
	}
	if response.Color == "" {
		t.Error("Expected an assigned palette color")
	}
}

func TestCreateCategory_EmptyName(t *testing.T) {
	e := echo.New()
	f := newMirrorFixture(t)
	f.load(t)
	handler := NewCategoryHandler(f.mirror)

	reqBody := `{"name": "   "}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/categories", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.CreateCategory(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestDeleteCategory_RequiresConfirmation(t *testing.T) {
	e := echo.New()
	f := newMirrorFixture(t)
	f.categoryRepo.Categories = []*domain.Category{
		{ID: "cat-a", Name: "Materials", Color: "#009739"},
	}
	f.load(t)
	handler := NewCategoryHandler(f.mirror)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/categories/cat-a", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("cat-a")

	if err := handler.DeleteCategory(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusPreconditionRequired {
		t.Errorf("Expected status 428, got %d", rec.Code)
	}
}

func TestDeleteCategory_Confirmed(t *testing.T) {
	e := echo.New()
	f := newMirrorFixture(t)
	f.categoryRepo.Categories = []*domain.Category{
		{ID: "cat-a", Name: "Materials", Color: "#009739"},
	}
	f.load(t)
	handler := NewCategoryHandler(f.mirror)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/categories/cat-a?confirm=true", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("cat-a")

	if err := handler.DeleteCategory(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rec.Code)
	}
	if len(f.categoryRepo.Categories) != 0 {
		t.Error("Expected category removed from the store")
	}
}
