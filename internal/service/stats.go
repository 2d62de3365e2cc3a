package service

import (
	"time"

	"github.com/obras-hq/obras-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// Aggregation over the expense mirror. All functions here are pure and
// decimal-exact; they never fault on empty input or dangling references.

// ComputeSummary returns total, exact average, count and the id of the
// category with the largest summed amount. Ties keep the category first
// encountered during the scan. An empty collection yields zeros and an
// empty top-category id.
func ComputeSummary(expenses []*domain.Expense) *domain.SpendingSummary {
	summary := &domain.SpendingSummary{
		Total:   decimal.Zero,
		Average: decimal.Zero,
		Count:   len(expenses),
	}
	if len(expenses) == 0 {
		return summary
	}

	totals := make(map[string]decimal.Decimal)
	var order []string
	for _, e := range expenses {
		summary.Total = summary.Total.Add(e.Amount)
		if _, seen := totals[e.CategoryID]; !seen {
			order = append(order, e.CategoryID)
		}
		totals[e.CategoryID] = totals[e.CategoryID].Add(e.Amount)
	}

	summary.Average = summary.Total.Div(decimal.NewFromInt(int64(summary.Count)))

	top := order[0]
	for _, id := range order[1:] {
		if totals[id].GreaterThan(totals[top]) {
			top = id
		}
	}
	summary.TopCategoryID = top

	return summary
}

// ComputeCategoryBreakdown groups amounts by category in first-seen order,
// resolving names and colors through the fallback lookup. The bucket
// values always partition the input total.
func ComputeCategoryBreakdown(expenses []*domain.Expense, categories []*domain.Category) []*domain.CategorySlice {
	buckets := make(map[string]*domain.CategorySlice)
	var slices []*domain.CategorySlice

	for _, e := range expenses {
		bucket, ok := buckets[e.CategoryID]
		if !ok {
			cat := domain.LookupCategory(categories, e.CategoryID)
			bucket = &domain.CategorySlice{
				Name:  cat.Name,
				Value: decimal.Zero,
				Color: cat.Color,
			}
			buckets[e.CategoryID] = bucket
			slices = append(slices, bucket)
		}
		bucket.Value = bucket.Value.Add(e.Amount)
	}

	return slices
}

// ComputeTimeSeries buckets amounts by date in chronological order, with an
// MM/DD display label per bucket. Entries with unparseable dates are
// skipped rather than faulting.
func ComputeTimeSeries(expenses []*domain.Expense) []*domain.TimePoint {
	sorted := make([]*domain.Expense, 0, len(expenses))
	for _, e := range expenses {
		if _, err := time.Parse(domain.DateLayout, e.Date); err != nil {
			continue
		}
		sorted = append(sorted, e)
	}
	// Stable insertion sort ascending by date; collections are dashboard
	// sized and the mirror arrives nearly sorted.
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].Date < sorted[j-1].Date; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}

	buckets := make(map[string]*domain.TimePoint)
	var points []*domain.TimePoint
	for _, e := range sorted {
		day, _ := time.Parse(domain.DateLayout, e.Date)
		label := day.Format("01/02")
		point, ok := buckets[label]
		if !ok {
			point = &domain.TimePoint{Label: label, Value: decimal.Zero}
			buckets[label] = point
			points = append(points, point)
		}
		point.Value = point.Value.Add(e.Amount)
	}

	return points
}

// FilterExpenses applies the project and category filters, ANDed. The
// wildcard ("all" or empty) always passes. Double wildcard returns the
// input slice unchanged.
func FilterExpenses(expenses []*domain.Expense, projectFilter, categoryFilter string) []*domain.Expense {
	if isWildcard(projectFilter) && isWildcard(categoryFilter) {
		return expenses
	}

	filtered := make([]*domain.Expense, 0, len(expenses))
	for _, e := range expenses {
		if !isWildcard(projectFilter) && e.ProjectID != projectFilter {
			continue
		}
		if !isWildcard(categoryFilter) && e.CategoryID != categoryFilter {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}

func isWildcard(filter string) bool {
	return filter == "" || filter == domain.FilterAll
}
