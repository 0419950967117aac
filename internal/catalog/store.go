package catalog

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rakurank/rakurank_api/internal/models"
	"github.com/rakurank/rakurank_api/pkg/rakuten"
)

// ErrEmptyCatalog is returned when a replacement list is empty or yields no
// usable products. The current catalog stays authoritative in that case.
var ErrEmptyCatalog = errors.New("catalog replacement is empty")

// Store holds the in-memory product catalog. It is populated once at startup
// and only changes through Replace, which swaps the list wholesale and
// recomputes price bounds. Reads never observe a partially swapped list.
type Store struct {
	mu        sync.RWMutex
	products  []models.Product
	bounds    models.PriceBounds
	updatedAt time.Time
}

// NewStore creates an empty catalog store.
func NewStore() *Store {
	return &Store{}
}

// fileProduct mirrors models.Product with json.Number fields so collected
// payloads that carry numbers as strings still decode.
type fileProduct struct {
	Rank          json.Number `json:"rank"`
	ItemCode      string      `json:"itemCode"`
	ItemName      string      `json:"itemName"`
	ItemPrice     json.Number `json:"itemPrice"`
	ReviewAverage json.Number `json:"reviewAverage"`
	ReviewCount   json.Number `json:"reviewCount"`
	Catchcopy     string      `json:"catchcopy"`
	Description   string      `json:"description"`
	ImageURL      string      `json:"imageUrl"`
	AffiliateURL  string      `json:"affiliateUrl"`
	PointRate     json.Number `json:"pointRate"`
	ShopName      string      `json:"shopName"`
	Tags          []string    `json:"tags"`
}

// LoadFile reads a product list from a JSON file (daily ranking payload shape)
// and replaces the catalog with it. A missing or malformed file leaves the
// current catalog unchanged. Records are decoded one at a time; an unreadable
// record is skipped instead of aborting the whole file.
func (s *Store) LoadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return err
	}

	products := make([]models.Product, 0, len(records))
	skipped := 0
	for _, rec := range records {
		var fp fileProduct
		if err := json.Unmarshal(rec, &fp); err != nil {
			skipped++
			continue
		}
		products = append(products, models.Product{
			Rank:          rakuten.Int(fp.Rank),
			ItemCode:      fp.ItemCode,
			ItemName:      fp.ItemName,
			ItemPrice:     rakuten.Float(fp.ItemPrice),
			ReviewAverage: rakuten.Float(fp.ReviewAverage),
			ReviewCount:   rakuten.Int(fp.ReviewCount),
			Catchcopy:     fp.Catchcopy,
			Description:   fp.Description,
			ImageURL:      fp.ImageURL,
			AffiliateURL:  fp.AffiliateURL,
			PointRate:     rakuten.Int(fp.PointRate),
			ShopName:      fp.ShopName,
			Tags:          fp.Tags,
		})
	}
	if skipped > 0 {
		log.Warn().Int("skipped", skipped).Str("path", path).Msg("Skipped unreadable catalog records")
	}
	return s.Replace(products)
}

// Replace swaps the whole catalog. The incoming list is normalized and tagged
// once at ingestion; an empty list is rejected so a failed refresh can never
// wipe a working catalog.
func (s *Store) Replace(products []models.Product) error {
	ingested := Ingest(products)
	if len(ingested) == 0 {
		return ErrEmptyCatalog
	}

	s.mu.Lock()
	s.products = ingested
	s.bounds = ComputePriceBounds(ingested)
	s.updatedAt = time.Now()
	s.mu.Unlock()

	log.Info().Int("count", len(ingested)).Msg("Catalog replaced")
	return nil
}

// Products returns a copy of the current catalog in its original order.
func (s *Store) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Len returns the number of products currently held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

// PriceBounds returns the bounds computed at the last replace. Favorite and
// compare changes do not invalidate them.
func (s *Store) PriceBounds() models.PriceBounds {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bounds
}

// UpdatedAt reports when the catalog was last replaced.
func (s *Store) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

// Ingest applies the one-time coercion rules to a raw product list: malformed
// numerics become 0 and products without tags get inferred ones. Consumers
// downstream can rely on every field being usable.
func Ingest(products []models.Product) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.ItemName == "" && p.ItemCode == "" {
			continue
		}
		p.Normalize()
		if len(p.Tags) == 0 {
			p.Tags = InferTags(&p)
		}
		out = append(out, p)
	}
	return out
}

// ComputePriceBounds returns the min/max price over the list. Non-finite
// prices are excluded from the range; if nothing remains the bounds are {0,0}.
func ComputePriceBounds(products []models.Product) models.PriceBounds {
	minP := math.Inf(1)
	maxP := math.Inf(-1)
	found := false
	for _, p := range products {
		v := p.ItemPrice
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		found = true
		if v < minP {
			minP = v
		}
		if v > maxP {
			maxP = v
		}
	}
	if !found {
		return models.PriceBounds{}
	}
	return models.PriceBounds{Min: minP, Max: maxP}
}
