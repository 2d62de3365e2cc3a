package service

import (
	"context"
	"errors"
	"testing"

	"github.com/obras-hq/obras-backend/internal/domain"
	"github.com/obras-hq/obras-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func TestLoad_PopulatesMirror(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	categoryRepo := testutil.NewMockCategoryRepository()
	projectRepo := testutil.NewMockProjectRepository()

	expenseRepo.Expenses = []*domain.Expense{
		expense("e1", "10", "2024-01-05", "cat-a", "proj-1"),
	}
	categoryRepo.Categories = []*domain.Category{
		{ID: "cat-a", Name: "Materials", Color: "#009739"},
	}
	projectRepo.Projects = []*domain.Project{
		{ID: "proj-1", Name: "North Site", Status: domain.ProjectStatusInProgress},
	}

	mirror := NewMirrorService(expenseRepo, categoryRepo, projectRepo, nil)
	mirror.Load(context.Background())

	if len(mirror.Expenses("", "")) != 1 {
		t.Errorf("Expected 1 mirrored expense, got %d", len(mirror.Expenses("", "")))
	}
	if len(mirror.Categories()) != 1 {
		t.Errorf("Expected 1 mirrored category, got %d", len(mirror.Categories()))
	}
	if len(mirror.Projects()) != 1 {
		t.Errorf("Expected 1 mirrored project, got %d", len(mirror.Projects()))
	}
}

func TestLoad_FetchFailuresAreIndependent(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	categoryRepo := testutil.NewMockCategoryRepository()
	projectRepo := testutil.NewMockProjectRepository()

	expenseRepo.GetAllFn = func(ctx context.Context) ([]*domain.Expense, error) {
		return nil, errors.New("store unreachable")
	}
	categoryRepo.Categories = []*domain.Category{
		{ID: "cat-a", Name: "Materials", Color: "#009739"},
	}
	projectRepo.Projects = []*domain.Project{
		{ID: "proj-1", Name: "North Site", Status: domain.ProjectStatusInProgress},
	}

	mirror := NewMirrorService(expenseRepo, categoryRepo, projectRepo, nil)
	mirror.Load(context.Background())

	if len(mirror.Expenses("", "")) != 0 {
		t.Errorf("Expected empty expenses after fetch failure, got %d", len(mirror.Expenses("", "")))
	}
	if len(mirror.Categories()) != 1 {
		t.Errorf("Expected categories to survive the expense failure, got %d", len(mirror.Categories()))
	}
	if len(mirror.Projects()) != 1 {
		t.Errorf("Expected projects to survive the expense failure, got %d", len(mirror.Projects()))
	}
}

func TestAddExpense_InsertsAndReloads(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	categoryRepo := testutil.NewMockCategoryRepository()
	projectRepo := testutil.NewMockProjectRepository()
	publisher := &testutil.CapturePublisher{}

	mirror := NewMirrorService(expenseRepo, categoryRepo, projectRepo, publisher)
	mirror.Load(context.Background())

	err := mirror.AddExpense(context.Background(), &domain.Expense{
		Description: "  Cement bags  ",
		Amount:      decimal.RequireFromString("120.50"),
		Date:        "2024-03-10",
		CategoryID:  "cat-a",
		ProjectID:   "proj-1",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	expenses := mirror.Expenses("", "")
	if len(expenses) != 1 {
		t.Fatalf("Expected 1 mirrored expense after reload, got %d", len(expenses))
	}
	if expenses[0].ID == "" {
		t.Error("Expected store-assigned id in the mirror")
	}
	if expenses[0].Description != "Cement bags" {
		t.Errorf("Expected trimmed description, got %q", expenses[0].Description)
	}

	events := publisher.Published()
	if len(events) != 1 || events[0].Type != "expense.created" {
		t.Errorf("Expected one expense.created event, got %v", events)
	}
}

func TestAddExpense_Validation(t *testing.T) {
	mirror := NewMirrorService(testutil.NewMockExpenseRepository(), testutil.NewMockCategoryRepository(), testutil.NewMockProjectRepository(), nil)

	tests := []struct {
		name    string
		expense *domain.Expense
		wantErr error
	}{
		{
			name:    "blank description",
			expense: &domain.Expense{Description: "   ", Amount: decimal.NewFromInt(10), Date: "2024-03-10"},
			wantErr: domain.ErrDescriptionRequired,
		},
		{
			name:    "negative amount",
			expense: &domain.Expense{Description: "Rebar", Amount: decimal.NewFromInt(-5), Date: "2024-03-10"},
			wantErr: domain.ErrNegativeAmount,
		},
		{
			name:    "bad date",
			expense: &domain.Expense{Description: "Rebar", Amount: decimal.NewFromInt(5), Date: "03/10/2024"},
			wantErr: domain.ErrInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mirror.AddExpense(context.Background(), tt.expense)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestAddExpense_StoreFailureLeavesMirrorUntouched(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	storeErr := errors.New("insert rejected")
	expenseRepo.InsertFn = func(ctx context.Context, e *domain.Expense) error {
		return storeErr
	}

	mirror := NewMirrorService(expenseRepo, testutil.NewMockCategoryRepository(), testutil.NewMockProjectRepository(), nil)
	mirror.Load(context.Background())

	err := mirror.AddExpense(context.Background(), &domain.Expense{
		Description: "Rebar",
		Amount:      decimal.NewFromInt(5),
		Date:        "2024-03-10",
	})
	if !errors.Is(err, storeErr) {
		t.Fatalf("Expected store error, got %v", err)
	}
	if len(mirror.Expenses("", "")) != 0 {
		t.Error("Expected mirror untouched after failed insert")
	}
}

func TestRemoveExpense_PatchesMirror(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	expenseRepo.Expenses = []*domain.Expense{
		expense("e1", "10", "2024-01-05", "cat-a", "proj-1"),
		expense("e2", "20", "2024-01-06", "cat-b", "proj-1"),
	}
	publisher := &testutil.CapturePublisher{}

	mirror := NewMirrorService(expenseRepo, testutil.NewMockCategoryRepository(), testutil.NewMockProjectRepository(), publisher)
	mirror.Load(context.Background())

	if err := mirror.RemoveExpense(context.Background(), "e1"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	expenses := mirror.Expenses("", "")
	if len(expenses) != 1 || expenses[0].ID != "e2" {
		t.Errorf("Expected only e2 to remain, got %d entries", len(expenses))
	}

	events := publisher.Published()
	if len(events) != 1 || events[0].Type != "expense.deleted" {
		t.Errorf("Expected one expense.deleted event, got %v", events)
	}
}

func TestAddCategory_AssignsPaletteColor(t *testing.T) {
	categoryRepo := testutil.NewMockCategoryRepository()

	mirror := NewMirrorService(testutil.NewMockExpenseRepository(), categoryRepo, testutil.NewMockProjectRepository(), nil)
	mirror.Load(context.Background())

	created, err := mirror.AddCategory(context.Background(), "Materials")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	inPalette := false
	for _, c := range domain.CategoryPalette {
		if created.Color == c {
			inPalette = true
			break
		}
	}
	if !inPalette {
		t.Errorf("Expected a palette color, got %s", created.Color)
	}

	categories := mirror.Categories()
	if len(categories) != 1 || categories[0].ID != created.ID {
		t.Errorf("Expected created category in the mirror, got %d entries", len(categories))
	}
}

func TestAddCategory_NameValidation(t *testing.T) {
	mirror := NewMirrorService(testutil.NewMockExpenseRepository(), testutil.NewMockCategoryRepository(), testutil.NewMockProjectRepository(), nil)

	if _, err := mirror.AddCategory(context.Background(), "   "); !errors.Is(err, domain.ErrNameRequired) {
		t.Errorf("Expected ErrNameRequired, got %v", err)
	}

	long := make([]byte, domain.MaxCategoryNameLength+1)
	for i := range long {
		long[i] = 'x'
	}
	if _, err := mirror.AddCategory(context.Background(), string(long)); !errors.Is(err, domain.ErrNameTooLong) {
		t.Errorf("Expected ErrNameTooLong, got %v", err)
	}
}

func TestAddProject_StartsInProgress(t *testing.T) {
	mirror := NewMirrorService(testutil.NewMockExpenseRepository(), testutil.NewMockCategoryRepository(), testutil.NewMockProjectRepository(), nil)
	mirror.Load(context.Background())

	created, err := mirror.AddProject(context.Background(), "South Site")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if created.Status != domain.ProjectStatusInProgress {
		t.Errorf("Expected status in_progress, got %s", created.Status)
	}
}

func TestToggleProjectStatus_Flips(t *testing.T) {
	projectRepo := testutil.NewMockProjectRepository()
	projectRepo.Projects = []*domain.Project{
		{ID: "proj-1", Name: "North Site", Status: domain.ProjectStatusInProgress},
	}
	publisher := &testutil.CapturePublisher{}

	mirror := NewMirrorService(testutil.NewMockExpenseRepository(), testutil.NewMockCategoryRepository(), projectRepo, publisher)
	mirror.Load(context.Background())

	updated, err := mirror.ToggleProjectStatus(context.Background(), "proj-1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.Status != domain.ProjectStatusCompleted {
		t.Errorf("Expected completed after first toggle, got %s", updated.Status)
	}

	updated, err = mirror.ToggleProjectStatus(context.Background(), "proj-1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.Status != domain.ProjectStatusInProgress {
		t.Errorf("Expected in_progress after second toggle, got %s", updated.Status)
	}

	events := publisher.Published()
	if len(events) != 2 || events[0].Type != "project.updated" {
		t.Errorf("Expected two project.updated events, got %v", events)
	}
}

func TestToggleProjectStatus_UnknownProject(t *testing.T) {
	mirror := NewMirrorService(testutil.NewMockExpenseRepository(), testutil.NewMockCategoryRepository(), testutil.NewMockProjectRepository(), nil)
	mirror.Load(context.Background())

	if _, err := mirror.ToggleProjectStatus(context.Background(), "missing"); !errors.Is(err, domain.ErrProjectNotFound) {
		t.Errorf("Expected ErrProjectNotFound, got %v", err)
	}
}

func TestRemoveCategory_LeavesDanglingExpenseReference(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	expenseRepo.Expenses = []*domain.Expense{
		expense("e1", "10", "2024-01-05", "cat-a", "proj-1"),
	}
	categoryRepo := testutil.NewMockCategoryRepository()
	categoryRepo.Categories = []*domain.Category{
		{ID: "cat-a", Name: "Materials", Color: "#009739"},
	}

	mirror := NewMirrorService(expenseRepo, categoryRepo, testutil.NewMockProjectRepository(), nil)
	mirror.Load(context.Background())

	if err := mirror.RemoveCategory(context.Background(), "cat-a"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// The expense keeps the dangling id; breakdowns resolve it via fallback
	expenses := mirror.Expenses("", "")
	if len(expenses) != 1 || expenses[0].CategoryID != "cat-a" {
		t.Fatal("Expected expense to keep the dangling category id")
	}

	slices := ComputeCategoryBreakdown(expenses, mirror.Categories())
	if len(slices) != 1 || slices[0].Name != domain.FallbackCategoryName {
		t.Errorf("Expected fallback category name in breakdown, got %v", slices)
	}
}

func TestExpenses_FilteredSnapshot(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	expenseRepo.Expenses = []*domain.Expense{
		expense("e1", "10", "2024-01-05", "cat-a", "proj-1"),
		expense("e2", "20", "2024-01-06", "cat-b", "proj-2"),
	}

	mirror := NewMirrorService(expenseRepo, testutil.NewMockCategoryRepository(), testutil.NewMockProjectRepository(), nil)
	mirror.Load(context.Background())

	filtered := mirror.Expenses("proj-2", "")
	if len(filtered) != 1 || filtered[0].ID != "e2" {
		t.Errorf("Expected only e2 for proj-2, got %d entries", len(filtered))
	}

	all := mirror.Expenses(domain.FilterAll, domain.FilterAll)
	if len(all) != 2 {
		t.Errorf("Expected wildcard to pass everything, got %d entries", len(all))
	}
}
