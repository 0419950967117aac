package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rakurank/rakurank_api/internal/models"
)

// StateCache persists per-profile view state: filter/sort selections,
// favorites, compare selection and theme preference.
// Keys:
//
//	profile:{id}:state      JSON AppState blob
//	profile:{id}:favorites  set of product identity keys
//	profile:{id}:compare    set of product identity keys (capped by caller)
//	profile:{id}:theme      "light" | "dark"
//
// Blobs are stored without TTL: state survives until explicitly changed.
type StateCache struct {
	store Store
}

// NewStateCache creates a new StateCache.
func NewStateCache(store Store) *StateCache {
	return &StateCache{store: store}
}

func (c *StateCache) keyState(profileID string) string {
	return fmt.Sprintf("profile:%s:state", profileID)
}

func (c *StateCache) keyFavorites(profileID string) string {
	return fmt.Sprintf("profile:%s:favorites", profileID)
}

func (c *StateCache) keyCompare(profileID string) string {
	return fmt.Sprintf("profile:%s:compare", profileID)
}

func (c *StateCache) keyTheme(profileID string) string {
	return fmt.Sprintf("profile:%s:theme", profileID)
}

// SaveState stores the app state blob for a profile.
func (c *StateCache) SaveState(ctx context.Context, profileID string, state models.AppState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal app state: %w", err)
	}
	return c.store.Set(ctx, c.keyState(profileID), string(raw), 0)
}

// GetState restores the app state for a profile. A missing or malformed blob
// yields the default state, never an error.
func (c *StateCache) GetState(ctx context.Context, profileID string) (models.AppState, error) {
	raw, err := c.store.Get(ctx, c.keyState(profileID))
	if errors.Is(err, ErrNotFound) {
		return models.DefaultAppState(), nil
	}
	if err != nil {
		return models.DefaultAppState(), err
	}
	var state models.AppState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return models.DefaultAppState(), nil
	}
	state.SortBy = models.ParseSortKey(string(state.SortBy))
	return state, nil
}

// AddFavorite marks a product identity as a favorite.
func (c *StateCache) AddFavorite(ctx context.Context, profileID, itemID string) error {
	return c.store.SAdd(ctx, c.keyFavorites(profileID), itemID)
}

// RemoveFavorite unmarks a favorite.
func (c *StateCache) RemoveFavorite(ctx context.Context, profileID, itemID string) error {
	return c.store.SRem(ctx, c.keyFavorites(profileID), itemID)
}

// Favorites returns all favorite identities for a profile.
func (c *StateCache) Favorites(ctx context.Context, profileID string) ([]string, error) {
	return c.store.SMembers(ctx, c.keyFavorites(profileID))
}

// CompareItems returns the current compare selection.
func (c *StateCache) CompareItems(ctx context.Context, profileID string) ([]string, error) {
	return c.store.SMembers(ctx, c.keyCompare(profileID))
}

// CompareCount returns the size of the compare selection.
func (c *StateCache) CompareCount(ctx context.Context, profileID string) (int64, error) {
	return c.store.SCard(ctx, c.keyCompare(profileID))
}

// AddCompare adds a product identity to the compare selection.
func (c *StateCache) AddCompare(ctx context.Context, profileID, itemID string) error {
	return c.store.SAdd(ctx, c.keyCompare(profileID), itemID)
}

// RemoveCompare removes a product identity from the compare selection.
func (c *StateCache) RemoveCompare(ctx context.Context, profileID, itemID string) error {
	return c.store.SRem(ctx, c.keyCompare(profileID), itemID)
}

// ClearCompare empties the compare selection.
func (c *StateCache) ClearCompare(ctx context.Context, profileID string) error {
	return c.store.Delete(ctx, c.keyCompare(profileID))
}

// SaveTheme stores the theme preference.
func (c *StateCache) SaveTheme(ctx context.Context, profileID string, theme models.Theme) error {
	return c.store.Set(ctx, c.keyTheme(profileID), string(theme), 0)
}

// GetTheme restores the theme preference, defaulting to light.
func (c *StateCache) GetTheme(ctx context.Context, profileID string) (models.Theme, error) {
	raw, err := c.store.Get(ctx, c.keyTheme(profileID))
	if errors.Is(err, ErrNotFound) {
		return models.ThemeLight, nil
	}
	if err != nil {
		return models.ThemeLight, err
	}
	return models.ParseTheme(raw), nil
}
