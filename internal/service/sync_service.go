package service

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rakurank/rakurank_api/internal/catalog"
	"github.com/rakurank/rakurank_api/internal/models"
	"github.com/rakurank/rakurank_api/internal/repository"
	"github.com/rakurank/rakurank_api/pkg/rakuten"
)

// SyncService collects Ichiba genre rankings into the snapshot store and
// refreshes the in-memory catalog from it. A failed or empty refresh leaves
// the current catalog authoritative.
type SyncService struct {
	client    *rakuten.Client
	repo      *repository.RankingRepository
	store     *catalog.Store
	genreName string
	topN      int
	hits      int

	running  atomic.Bool
	lastSync atomic.Int64 // unix seconds
}

// NewSyncService constructs a SyncService.
func NewSyncService(client *rakuten.Client, repo *repository.RankingRepository, store *catalog.Store, genreName string, topN int) *SyncService {
	return &SyncService{
		client:    client,
		repo:      repo,
		store:     store,
		genreName: genreName,
		topN:      topN,
		hits:      30,
	}
}

// LastSync reports when the last successful ranking sync finished.
func (s *SyncService) LastSync() time.Time {
	sec := s.lastSync.Load()
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0)
}

// SyncRankings walks the top-level genres, collects each ranking and upserts
// the snapshots, then refreshes the catalog. Concurrent triggers coalesce:
// a run already in flight makes later calls a no-op.
func (s *SyncService) SyncRankings(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		log.Info().Msg("Ranking sync already in flight, skipping")
		return nil
	}
	defer s.running.Store(false)

	root, err := s.client.FetchGenre(ctx, 0)
	if err != nil {
		return err
	}

	fetchedAt := time.Now().UTC()
	for _, genre := range root.ChildGenres() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		ranking, err := s.client.FetchRanking(ctx, genre.GenreID, s.hits)
		if err != nil {
			// One bad genre must not sink the whole collection run.
			log.Warn().Err(err).Str("genre", genre.GenreName).Msg("Failed to fetch ranking")
			continue
		}
		for _, item := range ranking.Ranked() {
			row := snapshotFromItem(genre, item, fetchedAt)
			if err := s.repo.Upsert(&row); err != nil {
				log.Error().Err(err).Str("item_code", row.ItemCode).Msg("Failed to upsert ranking item")
			}
		}
	}

	s.lastSync.Store(time.Now().Unix())
	return s.RefreshCatalog(ctx)
}

// RefreshCatalog rebuilds the catalog from the configured genre's snapshots.
func (s *SyncService) RefreshCatalog(ctx context.Context) error {
	rows, err := s.repo.TopByGenreName(s.genreName, s.topN)
	if err != nil {
		return err
	}
	products := make([]models.Product, len(rows))
	for i := range rows {
		products[i] = rows[i].Product()
	}
	if err := s.store.Replace(products); err != nil {
		if errors.Is(err, catalog.ErrEmptyCatalog) {
			log.Warn().Str("genre", s.genreName).Msg("No snapshots for genre, keeping current catalog")
			return nil
		}
		return err
	}
	return nil
}

// RefreshStaleDetails re-fetches item details for snapshots whose text fields
// have not been refreshed since the cutoff, capped per run. Returns how many
// items were refreshed.
func (s *SyncService) RefreshStaleDetails(ctx context.Context, staleAfter time.Duration, max int) (int, error) {
	cutoff := time.Now().UTC().Add(-staleAfter)
	rows, err := s.repo.StaleItems(cutoff, max)
	if err != nil {
		return 0, err
	}

	refreshed := 0
	for _, row := range rows {
		if ctx.Err() != nil {
			return refreshed, ctx.Err()
		}
		resp, err := s.client.SearchByItemCode(ctx, row.ItemCode)
		if err != nil {
			var nr *rakuten.NonRetryableError
			if errors.As(err, &nr) {
				// Item gone from the marketplace; skip, keep snapshot as-is.
				log.Warn().Str("item_code", row.ItemCode).Str("reason", nr.Msg).Msg("Detail refresh rejected")
				continue
			}
			return refreshed, err
		}
		results := resp.Results()
		if len(results) == 0 {
			continue
		}
		item := results[0]
		if err := s.repo.UpdateDetails(row.ItemCode, item.Catchcopy, item.ItemCaption, time.Now().UTC()); err != nil {
			log.Error().Err(err).Str("item_code", row.ItemCode).Msg("Failed to update item details")
			continue
		}
		refreshed++
	}
	return refreshed, nil
}

// snapshotFromItem maps an API item onto a snapshot row.
func snapshotFromItem(genre rakuten.GenreChild, item rakuten.Item, fetchedAt time.Time) models.RankingItem {
	imageURL := ""
	if len(item.MediumImageURLs) > 0 {
		imageURL = item.MediumImageURLs[0].ImageURL
	}
	shopURL := item.ShopAffiliate
	if shopURL == "" {
		shopURL = item.ShopURL
	}
	return models.RankingItem{
		GenreID:       genre.GenreID,
		GenreName:     genre.GenreName,
		Rank:          item.Rank,
		ItemCode:      item.ItemCode,
		ItemName:      item.ItemName,
		ItemPrice:     rakuten.Float(item.ItemPrice),
		ReviewCount:   rakuten.Int(item.ReviewCount),
		ReviewAverage: rakuten.Float(item.ReviewAverage),
		PointRate:     rakuten.Int(item.PointRate),
		Catchcopy:     item.Catchcopy,
		Description:   item.ItemCaption,
		ImageURL:      imageURL,
		AffiliateURL:  item.AffiliateURL,
		ShopName:      item.ShopName,
		ShopURL:       shopURL,
		FetchedAt:     fetchedAt,
	}
}
