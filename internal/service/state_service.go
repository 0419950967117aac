package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/rakurank/rakurank_api/internal/cache"
	"github.com/rakurank/rakurank_api/internal/models"
)

// StateService wraps the profile state cache with the best-effort contract:
// storage failures degrade to defaults and are logged, never surfaced as a
// user-facing error. Writes do return errors so callers can report them.
type StateService struct {
	cache *cache.StateCache
}

// NewStateService constructs a StateService.
func NewStateService(stateCache *cache.StateCache) *StateService {
	return &StateService{cache: stateCache}
}

// Favorites returns the favorite identity set for a profile. On storage
// failure the set is empty, which makes favorites-only filters return nothing
// rather than fail.
func (s *StateService) Favorites(ctx context.Context, profileID string) FavoriteSet {
	members, err := s.cache.Favorites(ctx, profileID)
	if err != nil {
		log.Warn().Err(err).Str("profile_id", profileID).Msg("Failed to read favorites, using empty set")
		return FavoriteSet{}
	}
	set := make(FavoriteSet, len(members))
	for _, m := range members {
		set[m] = struct{}{}
	}
	return set
}

// ToggleFavorite flips the favorite flag for an item and reports whether the
// item is now a favorite.
func (s *StateService) ToggleFavorite(ctx context.Context, profileID, itemID string) (bool, error) {
	favs := s.Favorites(ctx, profileID)
	if _, ok := favs[itemID]; ok {
		return false, s.cache.RemoveFavorite(ctx, profileID, itemID)
	}
	return true, s.cache.AddFavorite(ctx, profileID, itemID)
}

// SaveState persists sort and filter selections for a profile.
func (s *StateService) SaveState(ctx context.Context, profileID string, state models.AppState) error {
	state.SortBy = models.ParseSortKey(string(state.SortBy))
	return s.cache.SaveState(ctx, profileID, state)
}

// RestoreState returns the persisted state, falling back to defaults on any
// read problem so a corrupt blob can never block a load.
func (s *StateService) RestoreState(ctx context.Context, profileID string) models.AppState {
	state, err := s.cache.GetState(ctx, profileID)
	if err != nil {
		log.Warn().Err(err).Str("profile_id", profileID).Msg("Failed to restore app state, using defaults")
		return models.DefaultAppState()
	}
	return state
}

// SaveTheme persists the theme preference.
func (s *StateService) SaveTheme(ctx context.Context, profileID string, theme models.Theme) error {
	return s.cache.SaveTheme(ctx, profileID, theme)
}

// Theme returns the persisted theme preference, defaulting to light.
func (s *StateService) Theme(ctx context.Context, profileID string) models.Theme {
	theme, err := s.cache.GetTheme(ctx, profileID)
	if err != nil {
		log.Warn().Err(err).Str("profile_id", profileID).Msg("Failed to read theme, using light")
		return models.ThemeLight
	}
	return theme
}
