package domain

import "github.com/shopspring/decimal"

// SpendingSummary contains the headline dashboard metrics for a filtered
// expense view. TopCategoryID is empty when the view is empty.
type SpendingSummary struct {
	Total         decimal.Decimal `json:"total"`
	Average       decimal.Decimal `json:"average"`
	Count         int             `json:"count"`
	TopCategoryID string          `json:"topCategoryId"`
}

// CategorySlice is one bucket of the per-category breakdown chart.
type CategorySlice struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
	Color string          `json:"color"`
}

// TimePoint is one bucket of the chronological spending series. Label is
// the MM/DD display form of the bucket's date.
type TimePoint struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// FilterAll is the wildcard value for project/category filters. An empty
// filter string is treated the same way.
const FilterAll = "all"
