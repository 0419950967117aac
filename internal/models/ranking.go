package models

import "time"

// RankingItem is a collected ranking snapshot row as stored in Postgres.
// Fields are tagged for DB scanning; the catalog-facing shape is Product.
type RankingItem struct {
	ID            int       `db:"id"`
	GenreID       int       `db:"genre_id"`
	GenreName     string    `db:"genre_name"`
	Rank          int       `db:"rank"`
	ItemCode      string    `db:"item_code"`
	ItemName      string    `db:"item_name"`
	ItemPrice     float64   `db:"item_price"`
	ReviewCount   int       `db:"review_count"`
	ReviewAverage float64   `db:"review_average"`
	PointRate     int       `db:"point_rate"`
	Catchcopy     string    `db:"catchcopy"`
	Description   string    `db:"description"`
	ImageURL      string    `db:"image_url"`
	AffiliateURL  string    `db:"affiliate_url"`
	ShopName      string    `db:"shop_name"`
	ShopURL       string    `db:"shop_url"`
	FetchedAt     time.Time `db:"fetched_at"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// Product converts a snapshot row into the catalog item shape.
func (r *RankingItem) Product() Product {
	return Product{
		Rank:          r.Rank,
		ItemCode:      r.ItemCode,
		ItemName:      r.ItemName,
		ItemPrice:     r.ItemPrice,
		ReviewAverage: r.ReviewAverage,
		ReviewCount:   r.ReviewCount,
		PointRate:     r.PointRate,
		Catchcopy:     r.Catchcopy,
		Description:   r.Description,
		ImageURL:      r.ImageURL,
		AffiliateURL:  r.AffiliateURL,
		ShopName:      r.ShopName,
	}
}
