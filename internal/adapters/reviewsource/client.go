// Package reviewsource reads the reviews a business profile page publishes as
// schema.org JSON-LD.
package reviewsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"electrosite/internal/adapters/observability"
)

const (
	maxBody   = 2 << 20 // 2 MiB
	userAgent = "electrosite/1.0 (+reviews)"
)

var (
	ErrNotFound     = errors.New("reviewsource: not found")
	ErrUnauthorized = errors.New("reviewsource: unauthorized")
	ErrForbidden    = errors.New("reviewsource: forbidden")
	ErrRateLimited  = errors.New("reviewsource: rate limited")
)

type Client struct {
	page string
	hc   *http.Client
	rl   *rate.Limiter
}

// New builds a client for one review page. rps caps outbound requests.
func New(pageURL string, rps int) (*Client, error) {
	u, err := url.Parse(pageURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid review page URL %q", pageURL)
	}
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		page: u.String(),
		hc:   &http.Client{Timeout: 20 * time.Second},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// FetchReviews downloads the page once and returns every review object found
// in its JSON-LD blocks. There are no retries; callers fall back on failure.
func (c *Client) FetchReviews(ctx context.Context) ([]map[string]any, error) {
	body, err := c.get(ctx)
	if err != nil {
		return nil, err
	}
	return ExtractReviews(body)
}

func (c *Client) get(ctx context.Context) ([]byte, error) {
	// client-side rate limiting
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.page, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("reviews", "page", 0, time.Since(start))
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("reviews", "page", resp.StatusCode, time.Since(start))

	switch resp.StatusCode {
	case http.StatusOK:
		return io.ReadAll(io.LimitReader(resp.Body, maxBody))
	case http.StatusNotFound:
		return nil, ErrNotFound
	case http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case http.StatusForbidden:
		return nil, ErrForbidden
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	default:
		// read a small error body for diagnostics
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
}
