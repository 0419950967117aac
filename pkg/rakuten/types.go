package rakuten

import "encoding/json"

// apiError is the error body some Ichiba endpoints return with HTTP 200.
type apiError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// ImageRef is one entry of the image URL lists.
type ImageRef struct {
	ImageURL string `json:"imageUrl"`
}

// Item is a ranked or searched Ichiba item. Numeric fields arrive as either
// numbers or strings depending on endpoint version, hence json.Number.
type Item struct {
	Rank            int         `json:"rank,omitempty"`
	ItemCode        string      `json:"itemCode"`
	ItemName        string      `json:"itemName"`
	ItemPrice       json.Number `json:"itemPrice"`
	ItemCaption     string      `json:"itemCaption,omitempty"`
	Catchcopy       string      `json:"catchcopy,omitempty"`
	ReviewCount     json.Number `json:"reviewCount"`
	ReviewAverage   json.Number `json:"reviewAverage"`
	PointRate       json.Number `json:"pointRate"`
	AffiliateURL    string      `json:"affiliateUrl"`
	ItemURL         string      `json:"itemUrl"`
	MediumImageURLs []ImageRef  `json:"mediumImageUrls"`
	ShopName        string      `json:"shopName"`
	ShopURL         string      `json:"shopUrl"`
	ShopAffiliate   string      `json:"shopAffiliateUrl"`
	GenreID         json.Number `json:"genreId"`
}

// rankingEnvelope wraps each ranking entry.
type rankingEnvelope struct {
	Item Item `json:"Item"`
}

// RankingResponse is the IchibaItem/Ranking payload.
type RankingResponse struct {
	apiError
	Title         string            `json:"title"`
	LastBuildDate string            `json:"lastBuildDate"`
	Items         []rankingEnvelope `json:"Items"`
}

// Ranked returns the ranked items unwrapped.
func (r *RankingResponse) Ranked() []Item {
	items := make([]Item, len(r.Items))
	for i, e := range r.Items {
		items[i] = e.Item
	}
	return items
}

// GenreChild is one child genre of a genre node.
type GenreChild struct {
	GenreID   int    `json:"genreId"`
	GenreName string `json:"genreName"`
}

type genreChildEnvelope struct {
	Child GenreChild `json:"child"`
}

// GenreResponse is the IchibaGenre/Search payload.
type GenreResponse struct {
	apiError
	Children []genreChildEnvelope `json:"children"`
}

// ChildGenres returns the child genres unwrapped.
func (r *GenreResponse) ChildGenres() []GenreChild {
	out := make([]GenreChild, len(r.Children))
	for i, e := range r.Children {
		out[i] = e.Child
	}
	return out
}

type searchEnvelope struct {
	Item Item `json:"Item"`
}

// SearchResponse is the IchibaItem/Search payload.
type SearchResponse struct {
	apiError
	Count int              `json:"count"`
	Items []searchEnvelope `json:"Items"`
}

// Results returns the found items unwrapped.
func (r *SearchResponse) Results() []Item {
	items := make([]Item, len(r.Items))
	for i, e := range r.Items {
		items[i] = e.Item
	}
	return items
}

// Float converts a json.Number leniently: malformed values become 0.
func Float(n json.Number) float64 {
	f, err := n.Float64()
	if err != nil {
		return 0
	}
	return f
}

// Int converts a json.Number leniently: malformed values become 0.
func Int(n json.Number) int {
	f, err := n.Float64()
	if err != nil {
		return 0
	}
	return int(f)
}
