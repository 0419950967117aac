package repository

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/rakurank/rakurank_api/internal/models"
)

// RankingRepository handles data access for collected ranking snapshots.
type RankingRepository struct {
	db *sqlx.DB
}

// NewRankingRepository creates a new RankingRepository.
func NewRankingRepository(db *sqlx.DB) *RankingRepository {
	return &RankingRepository{db: db}
}

// Upsert inserts or updates a snapshot row keyed by (genre_id, item_code).
// Detail fields (catchcopy, description) are only overwritten when non-empty
// so a ranking pass never erases a previous detail refresh.
func (r *RankingRepository) Upsert(item *models.RankingItem) error {
	const q = `
        INSERT INTO ranking_items
            (genre_id, genre_name, rank, item_code, item_name, item_price,
             review_count, review_average, point_rate, catchcopy, description,
             image_url, affiliate_url, shop_name, shop_url, fetched_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
        ON CONFLICT (genre_id, item_code) DO UPDATE SET
            genre_name = EXCLUDED.genre_name,
            rank = EXCLUDED.rank,
            item_name = EXCLUDED.item_name,
            item_price = EXCLUDED.item_price,
            review_count = EXCLUDED.review_count,
            review_average = EXCLUDED.review_average,
            point_rate = EXCLUDED.point_rate,
            catchcopy = CASE WHEN EXCLUDED.catchcopy != '' THEN EXCLUDED.catchcopy ELSE ranking_items.catchcopy END,
            description = CASE WHEN EXCLUDED.description != '' THEN EXCLUDED.description ELSE ranking_items.description END,
            image_url = EXCLUDED.image_url,
            affiliate_url = EXCLUDED.affiliate_url,
            shop_name = EXCLUDED.shop_name,
            shop_url = EXCLUDED.shop_url,
            fetched_at = EXCLUDED.fetched_at,
            updated_at = NOW()`

	stmt, err := r.db.Preparex(q)
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.Exec(
		item.GenreID,
		item.GenreName,
		item.Rank,
		item.ItemCode,
		item.ItemName,
		item.ItemPrice,
		item.ReviewCount,
		item.ReviewAverage,
		item.PointRate,
		item.Catchcopy,
		item.Description,
		item.ImageURL,
		item.AffiliateURL,
		item.ShopName,
		item.ShopURL,
		item.FetchedAt,
	)
	return err
}

// TopByGenreName returns the best-ranked snapshot rows for a genre.
func (r *RankingRepository) TopByGenreName(genreName string, limit int) ([]models.RankingItem, error) {
	if limit <= 0 {
		limit = 10
	}
	const q = `
        SELECT * FROM ranking_items
        WHERE genre_name = $1
        ORDER BY rank ASC
        LIMIT $2`

	var items []models.RankingItem
	if err := r.db.Select(&items, q, genreName, limit); err != nil {
		return nil, err
	}
	return items, nil
}

// StaleItems returns rows whose details have not been refreshed since the
// cutoff, oldest first, capped.
func (r *RankingRepository) StaleItems(cutoff time.Time, limit int) ([]models.RankingItem, error) {
	if limit <= 0 {
		limit = 300
	}
	const q = `
        SELECT * FROM ranking_items
        WHERE fetched_at < $1
        ORDER BY fetched_at ASC
        LIMIT $2`

	var items []models.RankingItem
	if err := r.db.Select(&items, q, cutoff, limit); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateDetails refreshes the free-text fields of an item after a detail fetch.
func (r *RankingRepository) UpdateDetails(itemCode, catchcopy, description string, fetchedAt time.Time) error {
	const q = `
        UPDATE ranking_items
        SET catchcopy = $2, description = $3, fetched_at = $4, updated_at = NOW()
        WHERE item_code = $1`
	_, err := r.db.Exec(q, itemCode, catchcopy, description, fetchedAt)
	return err
}

// DistinctGenres returns all genre names present in the snapshots.
func (r *RankingRepository) DistinctGenres() ([]string, error) {
	const q = `SELECT DISTINCT genre_name FROM ranking_items WHERE genre_name != '' ORDER BY genre_name`
	var genres []string
	if err := r.db.Select(&genres, q); err != nil {
		return nil, err
	}
	return genres, nil
}
