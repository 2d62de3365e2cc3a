package domain

import "context"

// Category tags expenses for breakdowns. Name uniqueness is by convention
// only; the store does not enforce it.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// CategoryPalette is the fixed set of display colors assigned to new
// categories by uniform-random choice.
var CategoryPalette = []string{
	"#009739", "#002776", "#FFDF00", "#ef4444",
	"#f59e0b", "#64748b", "#8b5cf6", "#ec4899",
}

// Fallback values for dangling category references.
const (
	FallbackCategoryName  = "Uncategorized"
	FallbackCategoryColor = "#cccccc"
)

// LookupCategory resolves a category id against the given collection.
// It is total: a miss returns a placeholder carrying the dangling id, so
// call sites never branch on absence.
func LookupCategory(categories []*Category, id string) *Category {
	for _, c := range categories {
		if c.ID == id {
			return c
		}
	}
	return &Category{ID: id, Name: FallbackCategoryName, Color: FallbackCategoryColor}
}

// CategoryRepository is the store contract for the categories table.
type CategoryRepository interface {
	GetAll(ctx context.Context) ([]*Category, error)
	Insert(ctx context.Context, name, color string) (*Category, error)
	Delete(ctx context.Context, id string) error
}
