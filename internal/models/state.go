package models

// Theme is the persisted display preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme maps a raw string to a Theme, defaulting to light.
func ParseTheme(s string) Theme {
	if Theme(s) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

// AppState is the per-profile view state that survives restarts: the active
// sort key and filter criteria. Favorites and theme are stored separately.
type AppState struct {
	SortBy  SortKey  `json:"sortBy"`
	Filters Criteria `json:"filters"`
}

// DefaultAppState returns the state used when nothing is persisted or the
// persisted blob is malformed.
func DefaultAppState() AppState {
	return AppState{SortBy: SortByRank}
}
