package service

import (
	"context"
	"errors"

	"github.com/obras-hq/obras-backend/internal/domain"
)

// PreferenceService handles the persisted display preferences.
type PreferenceService struct {
	preferenceRepo domain.PreferenceRepository
}

// NewPreferenceService creates a new PreferenceService
func NewPreferenceService(preferenceRepo domain.PreferenceRepository) *PreferenceService {
	return &PreferenceService{preferenceRepo: preferenceRepo}
}

// GetTheme returns the persisted theme, defaulting to light when absent.
func (s *PreferenceService) GetTheme(ctx context.Context) (domain.Theme, error) {
	value, err := s.preferenceRepo.Get(ctx, domain.ThemePreferenceKey)
	if err != nil {
		if errors.Is(err, domain.ErrPreferenceNotFound) {
			return domain.ThemeLight, nil
		}
		return "", err
	}
	if !domain.ValidTheme(value) {
		return domain.ThemeLight, nil
	}
	return domain.Theme(value), nil
}

// SetTheme persists the theme toggle.
func (s *PreferenceService) SetTheme(ctx context.Context, theme string) (domain.Theme, error) {
	if !domain.ValidTheme(theme) {
		return "", domain.ErrInvalidTheme
	}
	if err := s.preferenceRepo.Set(ctx, domain.ThemePreferenceKey, theme); err != nil {
		return "", err
	}
	return domain.Theme(theme), nil
}
