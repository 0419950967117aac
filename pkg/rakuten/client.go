package rakuten

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// RankingURL is the Ichiba item ranking endpoint.
	RankingURL = "https://app.rakuten.co.jp/services/api/IchibaItem/Ranking/20220601"
	// GenreURL is the Ichiba genre search endpoint.
	GenreURL = "https://app.rakuten.co.jp/services/api/IchibaGenre/Search/20120723"
	// SearchURL is the Ichiba item search endpoint.
	SearchURL = "https://app.rakuten.co.jp/services/api/IchibaItem/Search/20220601"
)

// NonRetryableError marks responses that will not improve on retry
// (HTTP 400 and in-band API errors).
type NonRetryableError struct {
	Msg string
}

func (e *NonRetryableError) Error() string {
	return e.Msg
}

// Config holds client construction parameters.
type Config struct {
	ApplicationID string
	AffiliateID   string
	// MinInterval is the minimum spacing between requests. The Ichiba API
	// allows roughly one request per second; the collector stays well under.
	MinInterval   time.Duration
	MaxRetries    int
	BackoffFactor float64
}

// Client is a rate-limited HTTP client for the Rakuten Ichiba APIs.
type Client struct {
	httpClient    *http.Client
	applicationID string
	affiliateID   string
	minInterval   time.Duration
	maxRetries    int
	backoffFactor float64
	debug         bool

	rankingURL string
	genreURL   string
	searchURL  string

	mu          sync.Mutex
	lastRequest time.Time
}

// NewClient constructs a new Ichiba client with sane defaults.
func NewClient(cfg Config) *Client {
	if cfg.MinInterval < time.Second {
		cfg.MinInterval = time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.BackoffFactor <= 0 {
		cfg.BackoffFactor = 2.0
	}
	return &Client{
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		applicationID: cfg.ApplicationID,
		affiliateID:   cfg.AffiliateID,
		minInterval:   cfg.MinInterval,
		maxRetries:    cfg.MaxRetries,
		backoffFactor: cfg.BackoffFactor,
		debug:         os.Getenv("ENV") == "development",
		rankingURL:    RankingURL,
		genreURL:      GenreURL,
		searchURL:     SearchURL,
	}
}

// FetchGenre returns a genre node with its children. Genre 0 is the root.
func (c *Client) FetchGenre(ctx context.Context, genreID int) (*GenreResponse, error) {
	params := url.Values{}
	params.Set("genreId", strconv.Itoa(genreID))
	var resp GenreResponse
	if err := c.doRequest(ctx, c.genreURL, params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FetchRanking returns the current ranking for a genre.
func (c *Client) FetchRanking(ctx context.Context, genreID, hits int) (*RankingResponse, error) {
	params := url.Values{}
	params.Set("genreId", strconv.Itoa(genreID))
	params.Set("hits", strconv.Itoa(hits))
	var resp RankingResponse
	if err := c.doRequest(ctx, c.rankingURL, params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SearchItems performs an item search with caller-supplied parameters.
func (c *Client) SearchItems(ctx context.Context, params url.Values) (*SearchResponse, error) {
	var resp SearchResponse
	if err := c.doRequest(ctx, c.searchURL, params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SearchByItemCode fetches full details for a single item.
func (c *Client) SearchByItemCode(ctx context.Context, itemCode string) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("itemCode", itemCode)
	return c.SearchItems(ctx, params)
}

// respectRateLimit blocks until the minimum spacing since the last request
// has elapsed, or the context is done.
func (c *Client) respectRateLimit(ctx context.Context) error {
	c.mu.Lock()
	wait := c.minInterval - time.Since(c.lastRequest)
	c.mu.Unlock()
	if wait <= 0 {
		return nil
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// doRequest performs a GET with credentials appended, retrying transient
// failures with exponential backoff. HTTP 400 and in-band API errors abort
// the retry loop immediately.
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	p := url.Values{}
	for k, vs := range params {
		for _, v := range vs {
			p.Add(k, v)
		}
	}
	p.Set("applicationId", c.applicationID)
	if c.affiliateID != "" {
		p.Set("affiliateId", c.affiliateID)
	}
	fullURL := endpoint + "?" + p.Encode()

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if err := c.respectRateLimit(ctx); err != nil {
			return err
		}
		lastErr = c.once(ctx, fullURL, result)
		if lastErr == nil {
			return nil
		}
		if _, ok := lastErr.(*NonRetryableError); ok {
			return lastErr
		}
		if attempt < c.maxRetries {
			c.backoff(ctx, attempt)
		}
	}
	return fmt.Errorf("rakuten request failed after %d attempts: %w", c.maxRetries, lastErr)
}

func (c *Client) once(ctx context.Context, fullURL string, result interface{}) error {
	if c.debug {
		log.Debug().Str("url", fullURL).Msg("[RAKUTEN] Outgoing request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	c.mu.Lock()
	c.lastRequest = time.Now()
	c.mu.Unlock()
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusBadRequest {
		return &NonRetryableError{Msg: fmt.Sprintf("400 Bad Request: %s", truncate(string(body), 120))}
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(string(body), 120))
	}

	var probe apiError
	if err := json.Unmarshal(body, &probe); err == nil && probe.Error != "" {
		msg := probe.ErrorDescription
		if msg == "" {
			msg = probe.Error
		}
		return &NonRetryableError{Msg: msg}
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// backoff sleeps minInterval * factor^(attempt-1), respecting the context.
func (c *Client) backoff(ctx context.Context, attempt int) {
	d := time.Duration(float64(c.minInterval) * pow(c.backoffFactor, attempt-1))
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

func pow(base float64, exp int) float64 {
	out := 1.0
	for i := 0; i < exp; i++ {
		out *= base
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
