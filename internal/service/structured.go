package service

import (
	"regexp"
	"strings"

	"github.com/rakurank/rakurank_api/internal/catalog"
)

// StructuredDataService renders the catalog as schema.org JSON-LD payloads
// for search-engine consumption.
type StructuredDataService struct {
	store       *catalog.Store
	siteTitle   string
	siteDesc    string
	baseURL     string
	marketplace string
	category    string
}

// NewStructuredDataService constructs a StructuredDataService.
func NewStructuredDataService(store *catalog.Store, siteTitle, siteDesc, baseURL string) *StructuredDataService {
	return &StructuredDataService{
		store:       store,
		siteTitle:   siteTitle,
		siteDesc:    siteDesc,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		marketplace: "楽天市場",
		category:    "レディースファッション",
	}
}

var exParamRe = regexp.MustCompile(`_ex=\d+x\d+`)

// imageURLWithSize rewrites the Rakuten image size parameter, adding it when
// absent.
func imageURLWithSize(url string, size string) string {
	if url == "" {
		return url
	}
	param := "_ex=" + size + "x" + size
	if exParamRe.MatchString(url) {
		return exParamRe.ReplaceAllString(url, param)
	}
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + param
}

// ItemList builds the schema.org ItemList for the current catalog, one
// ListItem per product in catalog order.
func (s *StructuredDataService) ItemList() map[string]interface{} {
	products := s.store.Products()
	elements := make([]map[string]interface{}, len(products))
	for i, p := range products {
		elements[i] = map[string]interface{}{
			"@type":    "ListItem",
			"position": i + 1,
			"url":      p.AffiliateURL,
			"item": map[string]interface{}{
				"@type":       "Product",
				"name":        p.ItemName,
				"image":       []string{p.ImageURL, imageURLWithSize(p.ImageURL, "1200")},
				"description": firstNonEmpty(p.Description, p.Catchcopy),
				"brand":       map[string]interface{}{"@type": "Brand", "name": s.marketplace},
				"category":    s.category,
				"aggregateRating": map[string]interface{}{
					"@type":       "AggregateRating",
					"ratingValue": p.ReviewAverage,
					"reviewCount": p.ReviewCount,
					"bestRating":  5,
					"worstRating": 1,
				},
				"offers": map[string]interface{}{
					"@type":         "Offer",
					"priceCurrency": "JPY",
					"price":         p.ItemPrice,
					"url":           p.AffiliateURL,
					"availability":  "https://schema.org/InStock",
					"seller":        map[string]interface{}{"@type": "Organization", "name": s.marketplace},
				},
			},
		}
	}
	return map[string]interface{}{
		"@context":        "https://schema.org",
		"@type":           "ItemList",
		"name":            s.siteTitle,
		"description":     s.siteDesc,
		"numberOfItems":   len(products),
		"itemListOrder":   "https://schema.org/ItemListOrderAscending",
		"itemListElement": elements,
	}
}

// Breadcrumb builds the schema.org BreadcrumbList for the catalog page.
func (s *StructuredDataService) Breadcrumb() map[string]interface{} {
	return map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "BreadcrumbList",
		"itemListElement": []map[string]interface{}{
			{"@type": "ListItem", "position": 1, "name": "ホーム", "item": s.baseURL},
			{"@type": "ListItem", "position": 2, "name": "記事", "item": s.baseURL + "/article/"},
			{"@type": "ListItem", "position": 3, "name": s.siteTitle},
		},
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
