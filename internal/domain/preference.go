package domain

import "context"

// Theme is the persisted display preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ThemePreferenceKey is the namespaced key the theme toggle is stored under.
const ThemePreferenceKey = "obras.theme"

// ValidTheme reports whether s names a known theme.
func ValidTheme(s string) bool {
	return Theme(s) == ThemeLight || Theme(s) == ThemeDark
}

// PreferenceRepository is the store contract for the key/value
// preferences table. Get returns ErrPreferenceNotFound on a missing key.
type PreferenceRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
