package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/obras-hq/obras-backend/internal/ai"
	"github.com/obras-hq/obras-backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// MaxInsightExpenses caps how many entries are sent to the AI collaborator.
const MaxInsightExpenses = 50

// Fixed user-facing strings. Summarize never propagates an error; it
// degrades to one of these instead.
const (
	InsightNoAPIKeyMessage   = "AI analysis is unavailable: no API key is configured."
	InsightNoExpensesMessage = "There are no expenses to analyze yet."
	InsightFailedMessage     = "The analysis could not be generated right now."
)

// insightEntry is the compact wire form sent to the AI text endpoint.
// Field names are abbreviated to keep the payload small.
type insightEntry struct {
	Description string  `json:"d"`
	Value       float64 `json:"v"`
	CategoryID  string  `json:"c"`
	ProjectID   string  `json:"p"`
	Date        string  `json:"dt"`
}

// InsightService produces natural-language spending summaries.
type InsightService struct {
	client ai.Client
}

// NewInsightService creates an InsightService. A nil client means no API
// credential is configured; Summarize then returns a fixed message without
// calling out.
func NewInsightService(client ai.Client) *InsightService {
	return &InsightService{client: client}
}

// Summarize asks the AI collaborator for a short summary of the given
// expenses, newest first, capped at MaxInsightExpenses. It never returns
// an error: unconfigured, empty and failed cases all map to fixed strings.
func (s *InsightService) Summarize(ctx context.Context, expenses []*domain.Expense) string {
	if s.client == nil {
		return InsightNoAPIKeyMessage
	}
	if len(expenses) == 0 {
		return InsightNoExpensesMessage
	}

	if len(expenses) > MaxInsightExpenses {
		expenses = expenses[:MaxInsightExpenses]
	}

	entries := make([]insightEntry, len(expenses))
	for i, e := range expenses {
		entries[i] = insightEntry{
			Description: e.Description,
			Value:       e.Amount.InexactFloat64(),
			CategoryID:  e.CategoryID,
			ProjectID:   e.ProjectID,
			Date:        e.Date,
		}
	}

	payload, err := json.Marshal(entries)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal insight payload")
		return InsightFailedMessage
	}

	prompt := fmt.Sprintf(
		"Analyze this data (simplified JSON: d=description, v=amount, c=category_id, p=project_id, dt=date): %s",
		payload,
	)

	text, err := s.client.GenerateText(ctx, prompt)
	if err != nil {
		log.Error().Err(err).Int("expenses", len(entries)).Msg("AI insight generation failed")
		return InsightFailedMessage
	}
	return text
}
