package service

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/obras-hq/obras-backend/internal/domain"
	"github.com/obras-hq/obras-backend/internal/websocket"
	"github.com/rs/zerolog/log"
)

// StoreTimeout bounds every remote store call issued by the mirror.
const StoreTimeout = 10 * time.Second

// MirrorService owns the local mirror of the three remote collections and
// orchestrates refresh-after-mutation. Reads serve from the mirror;
// mutations write remotely first and only touch the mirror on success.
// Mutations are serialized so overlapping inserts cannot race their
// reloads.
type MirrorService struct {
	expenseRepo  domain.ExpenseRepository
	categoryRepo domain.CategoryRepository
	projectRepo  domain.ProjectRepository
	publisher    websocket.EventPublisher

	mu         sync.RWMutex // guards the three collections
	opMu       sync.Mutex   // serializes mutations end-to-end
	expenses   []*domain.Expense
	categories []*domain.Category
	projects   []*domain.Project
}

// NewMirrorService creates a new MirrorService. A nil publisher disables
// change events.
func NewMirrorService(
	expenseRepo domain.ExpenseRepository,
	categoryRepo domain.CategoryRepository,
	projectRepo domain.ProjectRepository,
	publisher websocket.EventPublisher,
) *MirrorService {
	if publisher == nil {
		publisher = &websocket.NoOpPublisher{}
	}
	return &MirrorService{
		expenseRepo:  expenseRepo,
		categoryRepo: categoryRepo,
		projectRepo:  projectRepo,
		publisher:    publisher,
	}
}

// Load replaces the mirror wholesale from the remote store. The three
// fetches are independent: a failure leaves that collection empty and is
// logged, without aborting the others.
func (s *MirrorService) Load(ctx context.Context) {
	expenses, err := s.fetchExpenses(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load expenses; collection left empty")
		expenses = nil
	}
	categories, err := s.fetchCategories(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load categories; collection left empty")
		categories = nil
	}
	projects, err := s.fetchProjects(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load projects; collection left empty")
		projects = nil
	}

	s.mu.Lock()
	s.expenses = expenses
	s.categories = categories
	s.projects = projects
	s.mu.Unlock()
}

func (s *MirrorService) fetchExpenses(ctx context.Context) ([]*domain.Expense, error) {
	ctx, cancel := context.WithTimeout(ctx, StoreTimeout)
	defer cancel()
	return s.expenseRepo.GetAll(ctx)
}

func (s *MirrorService) fetchCategories(ctx context.Context) ([]*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, StoreTimeout)
	defer cancel()
	return s.categoryRepo.GetAll(ctx)
}

func (s *MirrorService) fetchProjects(ctx context.Context) ([]*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, StoreTimeout)
	defer cancel()
	return s.projectRepo.GetAll(ctx)
}

// Expenses returns the mirrored expenses with the project and category
// filters applied (wildcard "all"/"" passes everything). The result is a
// copy; callers may not mutate mirror entries through it.
func (s *MirrorService) Expenses(projectFilter, categoryFilter string) []*domain.Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filtered := FilterExpenses(s.expenses, projectFilter, categoryFilter)
	out := make([]*domain.Expense, len(filtered))
	copy(out, filtered)
	return out
}

// Categories returns a copy of the mirrored categories.
func (s *MirrorService) Categories() []*domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

// Projects returns a copy of the mirrored projects.
func (s *MirrorService) Projects() []*domain.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Project, len(s.projects))
	copy(out, s.projects)
	return out
}

// AddExpense validates and inserts an expense, then reloads the mirror
// wholesale so server-assigned fields (id, defaults) land in it. On
// failure the mirror is untouched and the store error is returned.
func (s *MirrorService) AddExpense(ctx context.Context, expense *domain.Expense) error {
	expense.Description = strings.TrimSpace(expense.Description)
	if expense.Description == "" {
		return domain.ErrDescriptionRequired
	}
	if len(expense.Description) > domain.MaxExpenseDescriptionLength {
		return domain.ErrNameTooLong
	}
	if expense.Amount.IsNegative() {
		return domain.ErrNegativeAmount
	}
	if _, err := time.Parse(domain.DateLayout, expense.Date); err != nil {
		return domain.ErrInvalidDate
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	insertCtx, cancel := context.WithTimeout(ctx, StoreTimeout)
	defer cancel()
	if err := s.expenseRepo.Insert(insertCtx, expense); err != nil {
		return err
	}

	s.Load(ctx)
	s.publisher.Publish(websocket.ExpenseCreated(expense))
	return nil
}

// RemoveExpense deletes an expense remotely and patches the mirror
// directly (no reload).
func (s *MirrorService) RemoveExpense(ctx context.Context, id string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	deleteCtx, cancel := context.WithTimeout(ctx, StoreTimeout)
	defer cancel()
	if err := s.expenseRepo.Delete(deleteCtx, id); err != nil {
		return err
	}

	s.mu.Lock()
	s.expenses = removeExpenseByID(s.expenses, id)
	s.mu.Unlock()

	s.publisher.Publish(websocket.ExpenseDeleted(map[string]string{"id": id}))
	return nil
}

// AddCategory validates the name, assigns a random palette color, inserts
// remotely and appends the server-returned row to the mirror.
func (s *MirrorService) AddCategory(ctx context.Context, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxCategoryNameLength {
		return nil, domain.ErrNameTooLong
	}

	color := domain.CategoryPalette[rand.Intn(len(domain.CategoryPalette))]

	s.opMu.Lock()
	defer s.opMu.Unlock()

	insertCtx, cancel := context.WithTimeout(ctx, StoreTimeout)
	defer cancel()
	created, err := s.categoryRepo.Insert(insertCtx, name, color)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.categories = append(s.categories, created)
	s.mu.Unlock()

	s.publisher.Publish(websocket.CategoryCreated(created))
	return created, nil
}

// RemoveCategory deletes a category remotely and patches the mirror.
// Expenses referencing the id keep it; lookups fall back to the
// placeholder.
func (s *MirrorService) RemoveCategory(ctx context.Context, id string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	deleteCtx, cancel := context.WithTimeout(ctx, StoreTimeout)
	defer cancel()
	if err := s.categoryRepo.Delete(deleteCtx, id); err != nil {
		return err
	}

	s.mu.Lock()
	s.categories = removeCategoryByID(s.categories, id)
	s.mu.Unlock()

	s.publisher.Publish(websocket.CategoryDeleted(map[string]string{"id": id}))
	return nil
}

// AddProject validates the name and inserts a project with status
// in_progress, appending the server-returned row to the mirror.
func (s *MirrorService) AddProject(ctx context.Context, name string) (*domain.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxProjectNameLength {
		return nil, domain.ErrNameTooLong
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	insertCtx, cancel := context.WithTimeout(ctx, StoreTimeout)
	defer cancel()
	created, err := s.projectRepo.Insert(insertCtx, name, domain.ProjectStatusInProgress)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.projects = append(s.projects, created)
	s.mu.Unlock()

	s.publisher.Publish(websocket.ProjectCreated(created))
	return created, nil
}

// ToggleProjectStatus flips a project between in_progress and completed.
func (s *MirrorService) ToggleProjectStatus(ctx context.Context, id string) (*domain.Project, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.RLock()
	var current *domain.Project
	for _, p := range s.projects {
		if p.ID == id {
			current = p
			break
		}
	}
	s.mu.RUnlock()
	if current == nil {
		return nil, domain.ErrProjectNotFound
	}

	next := domain.ProjectStatusCompleted
	if current.Status == domain.ProjectStatusCompleted {
		next = domain.ProjectStatusInProgress
	}

	updateCtx, cancel := context.WithTimeout(ctx, StoreTimeout)
	defer cancel()
	updated, err := s.projectRepo.UpdateStatus(updateCtx, id, next)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	for i, p := range s.projects {
		if p.ID == id {
			s.projects[i] = updated
			break
		}
	}
	s.mu.Unlock()

	s.publisher.Publish(websocket.ProjectUpdated(updated))
	return updated, nil
}

// RemoveProject deletes a project remotely and patches the mirror.
func (s *MirrorService) RemoveProject(ctx context.Context, id string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	deleteCtx, cancel := context.WithTimeout(ctx, StoreTimeout)
	defer cancel()
	if err := s.projectRepo.Delete(deleteCtx, id); err != nil {
		return err
	}

	s.mu.Lock()
	s.projects = removeProjectByID(s.projects, id)
	s.mu.Unlock()

	s.publisher.Publish(websocket.ProjectDeleted(map[string]string{"id": id}))
	return nil
}

func removeExpenseByID(expenses []*domain.Expense, id string) []*domain.Expense {
	out := expenses[:0]
	for _, e := range expenses {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}

func removeCategoryByID(categories []*domain.Category, id string) []*domain.Category {
	out := categories[:0]
	for _, c := range categories {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}

func removeProjectByID(projects []*domain.Project, id string) []*domain.Project {
	out := projects[:0]
	for _, p := range projects {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}
