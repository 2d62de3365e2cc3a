package testutil

import (
	"context"
	"io"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/obras-hq/obras-backend/internal/domain"
	"github.com/obras-hq/obras-backend/internal/websocket"
)

// MockExpenseRepository is a mock implementation of domain.ExpenseRepository
type MockExpenseRepository struct {
	Expenses []*domain.Expense
	GetAllFn func(ctx context.Context) ([]*domain.Expense, error)
	InsertFn func(ctx context.Context, expense *domain.Expense) error
	DeleteFn func(ctx context.Context, id string) error
}

// NewMockExpenseRepository creates a new MockExpenseRepository
func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{}
}

// GetAll returns all expenses, newest-first by date
func (m *MockExpenseRepository) GetAll(ctx context.Context) ([]*domain.Expense, error) {
	if m.GetAllFn != nil {
		return m.GetAllFn(ctx)
	}
	out := make([]*domain.Expense, len(m.Expenses))
	copy(out, m.Expenses)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	return out, nil
}

// Insert stores the expense, assigning an id like the real store does
func (m *MockExpenseRepository) Insert(ctx context.Context, expense *domain.Expense) error {
	if m.InsertFn != nil {
		return m.InsertFn(ctx, expense)
	}
	stored := *expense
	stored.ID = uuid.New().String()
	m.Expenses = append(m.Expenses, &stored)
	return nil
}

// Delete removes the expense with the given id
func (m *MockExpenseRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	for i, e := range m.Expenses {
		if e.ID == id {
			m.Expenses = append(m.Expenses[:i], m.Expenses[i+1:]...)
			return nil
		}
	}
	return domain.ErrExpenseNotFound
}

// MockCategoryRepository is a mock implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	Categories []*domain.Category
	GetAllFn   func(ctx context.Context) ([]*domain.Category, error)
	InsertFn   func(ctx context.Context, name, color string) (*domain.Category, error)
	DeleteFn   func(ctx context.Context, id string) error
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{}
}

// GetAll returns all categories
func (m *MockCategoryRepository) GetAll(ctx context.Context) ([]*domain.Category, error) {
	if m.GetAllFn != nil {
		return m.GetAllFn(ctx)
	}
	out := make([]*domain.Category, len(m.Categories))
	copy(out, m.Categories)
	return out, nil
}

// Insert stores a new category and returns the created row
func (m *MockCategoryRepository) Insert(ctx context.Context, name, color string) (*domain.Category, error) {
	if m.InsertFn != nil {
		return m.InsertFn(ctx, name, color)
	}
	category := &domain.Category{ID: uuid.New().String(), Name: name, Color: color}
	m.Categories = append(m.Categories, category)
	return category, nil
}

// Delete removes the category with the given id
func (m *MockCategoryRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	for i, c := range m.Categories {
		if c.ID == id {
			m.Categories = append(m.Categories[:i], m.Categories[i+1:]...)
			return nil
		}
	}
	return domain.ErrCategoryNotFound
}

// MockProjectRepository is a mock implementation of domain.ProjectRepository
type MockProjectRepository struct {
	Projects       []*domain.Project
	GetAllFn       func(ctx context.Context) ([]*domain.Project, error)
	InsertFn       func(ctx context.Context, name string, status domain.ProjectStatus) (*domain.Project, error)
	UpdateStatusFn func(ctx context.Context, id string, status domain.ProjectStatus) (*domain.Project, error)
	DeleteFn       func(ctx context.Context, id string) error
}

// NewMockProjectRepository creates a new MockProjectRepository
func NewMockProjectRepository() *MockProjectRepository {
	return &MockProjectRepository{}
}

// GetAll returns all projects
func (m *MockProjectRepository) GetAll(ctx context.Context) ([]*domain.Project, error) {
	if m.GetAllFn != nil {
		return m.GetAllFn(ctx)
	}
	out := make([]*domain.Project, len(m.Projects))
	copy(out, m.Projects)
	return out, nil
}

// Insert stores a new project and returns the created row
func (m *MockProjectRepository) Insert(ctx context.Context, name string, status domain.ProjectStatus) (*domain.Project, error) {
	if m.InsertFn != nil {
		return m.InsertFn(ctx, name, status)
	}
	project := &domain.Project{ID: uuid.New().String(), Name: name, Status: status}
	m.Projects = append(m.Projects, project)
	return project, nil
}

// UpdateStatus changes a project's status and returns the updated row
func (m *MockProjectRepository) UpdateStatus(ctx context.Context, id string, status domain.ProjectStatus) (*domain.Project, error) {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, id, status)
	}
	for _, p := range m.Projects {
		if p.ID == id {
			p.Status = status
			return p, nil
		}
	}
	return nil, domain.ErrProjectNotFound
}

// Delete removes the project with the given id
func (m *MockProjectRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	for i, p := range m.Projects {
		if p.ID == id {
			m.Projects = append(m.Projects[:i], m.Projects[i+1:]...)
			return nil
		}
	}
	return domain.ErrProjectNotFound
}

// MockPreferenceRepository is a mock implementation of domain.PreferenceRepository
type MockPreferenceRepository struct {
	Values map[string]string
	GetFn  func(ctx context.Context, key string) (string, error)
	SetFn  func(ctx context.Context, key, value string) error
}

// NewMockPreferenceRepository creates a new MockPreferenceRepository
func NewMockPreferenceRepository() *MockPreferenceRepository {
	return &MockPreferenceRepository{Values: make(map[string]string)}
}

// Get retrieves a preference value by key
func (m *MockPreferenceRepository) Get(ctx context.Context, key string) (string, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, key)
	}
	if v, ok := m.Values[key]; ok {
		return v, nil
	}
	return "", domain.ErrPreferenceNotFound
}

// Set stores a preference value under the key
func (m *MockPreferenceRepository) Set(ctx context.Context, key, value string) error {
	if m.SetFn != nil {
		return m.SetFn(ctx, key, value)
	}
	m.Values[key] = value
	return nil
}

// MockAIClient is a mock implementation of ai.Client
type MockAIClient struct {
	TextResponse     string
	TextErr          error
	VisionResponse   string
	VisionErr        error
	LastTextPrompt   string
	LastVisionPrompt string
	LastImageFormat  string
	LastImage        []byte
}

// GenerateText returns the canned text response
func (m *MockAIClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	m.LastTextPrompt = prompt
	return m.TextResponse, m.TextErr
}

// GenerateVision returns the canned vision response
func (m *MockAIClient) GenerateVision(ctx context.Context, prompt string, imageFormat string, image []byte) (string, error) {
	m.LastVisionPrompt = prompt
	m.LastImageFormat = imageFormat
	m.LastImage = image
	return m.VisionResponse, m.VisionErr
}

// MockReceiptRepository is a mock implementation of storage.ReceiptRepository
type MockReceiptRepository struct {
	Uploads  map[string][]byte
	UploadFn func(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)
}

// NewMockReceiptRepository creates a new MockReceiptRepository
func NewMockReceiptRepository() *MockReceiptRepository {
	return &MockReceiptRepository{Uploads: make(map[string][]byte)}
}

// Upload records the object and returns its URL
func (m *MockReceiptRepository) Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error) {
	if m.UploadFn != nil {
		return m.UploadFn(ctx, objectPath, data, contentType, size)
	}
	body, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	m.Uploads[objectPath] = body
	return m.GenerateURL(objectPath), nil
}

// Delete removes a stored object
func (m *MockReceiptRepository) Delete(ctx context.Context, objectPath string) error {
	delete(m.Uploads, objectPath)
	return nil
}

// GenerateURL returns a deterministic URL for the object path
func (m *MockReceiptRepository) GenerateURL(objectPath string) string {
	return "https://receipts.test/" + objectPath
}

// CapturePublisher records published events for assertions
type CapturePublisher struct {
	mu     sync.Mutex
	Events []websocket.Event
}

// Publish appends the event to the captured list
func (p *CapturePublisher) Publish(event websocket.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, event)
}

// Published returns a snapshot of the captured events
func (p *CapturePublisher) Published() []websocket.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]websocket.Event, len(p.Events))
	copy(out, p.Events)
	return out
}
