package fetcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/SteamAutoCracks/Steam-auto-crack/internal/steamapp"
	"github.com/SteamAutoCracks/Steam-auto-crack/internal/telemetry"
)

const (
	// DefaultEndpoint is the Steam store app listing.
	DefaultEndpoint = "https://api.steampowered.com/IStoreService/GetAppList/v1/"

	DefaultMaxResults     = 50000
	DefaultMaxAttempts    = 3
	DefaultInitialBackoff = time.Second
	DefaultTimeout        = 60 * time.Second

	userAgent = "steamappcat/1.0"

	// maxErrorBody bounds how much of a failed response is kept in StatusError.
	maxErrorBody = 256
)

// Sleeper pauses between attempts. It must return early with ctx.Err() when ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Page is one decoded listing response.
type Page struct {
	Apps      []steamapp.App
	HaveMore  bool
	LastAppID uint32
}

// Client fetches the app listing over HTTP.
//
// Thread-safety: a Client is safe for concurrent use, but each FetchAll walk
// is sequential.
type Client struct {
	http           *resty.Client
	endpoint       string
	apiKey         string
	maxResults     int
	maxAttempts    int
	initialBackoff time.Duration
	limiter        *rate.Limiter
	sleep          Sleeper
	logger         *slog.Logger
	metrics        *telemetry.Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides the listing URL.
func WithEndpoint(url string) Option {
	return func(c *Client) { c.endpoint = url }
}

// WithMaxResults sets the max_results query parameter.
func WithMaxResults(n int) Option {
	return func(c *Client) { c.maxResults = n }
}

// WithMaxAttempts sets how many requests are made per page before giving up.
func WithMaxAttempts(n int) Option {
	return func(c *Client) { c.maxAttempts = n }
}

// WithInitialBackoff sets the delay after the first failed attempt.
// Each later delay doubles.
func WithInitialBackoff(d time.Duration) Option {
	return func(c *Client) { c.initialBackoff = d }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// WithRateLimit paces requests to rps per second. Zero or less is unlimited.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithHTTPClient swaps the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = newResty(resty.NewWithClient(hc))
	}
}

// WithSleeper replaces the backoff sleep (for tests).
func WithSleeper(s Sleeper) Option {
	return func(c *Client) { c.sleep = s }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics records page and attempt counts.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New creates a Client for the given API key.
// An empty key is allowed; every fetch then fails with ErrMissingAPIKey.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		http:           newResty(resty.New()).SetTimeout(DefaultTimeout),
		endpoint:       DefaultEndpoint,
		apiKey:         apiKey,
		maxResults:     DefaultMaxResults,
		maxAttempts:    DefaultMaxAttempts,
		initialBackoff: DefaultInitialBackoff,
		limiter:        rate.NewLimiter(rate.Inf, 0),
		sleep:          sleepContext,
		logger:         slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.maxAttempts < 1 {
		c.maxAttempts = 1
	}
	return c
}

func newResty(r *resty.Client) *resty.Client {
	return r.
		SetRetryCount(0).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json")
}

// HasAPIKey reports whether a key is configured.
func (c *Client) HasAPIKey() bool {
	return c.apiKey != ""
}

// FetchPage performs exactly one request for the page after cursor.
func (c *Client) FetchPage(ctx context.Context, cursor uint32) (Page, error) {
	if c.apiKey == "" {
		return Page{}, ErrMissingAPIKey
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return Page{}, fmt.Errorf("rate limit: %w", err)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"key":         c.apiKey,
			"max_results": strconv.Itoa(c.maxResults),
			"last_appid":  strconv.FormatUint(uint64(cursor), 10),
		}).
		Get(c.endpoint)
	if err != nil {
		return Page{}, fmt.Errorf("request page: %w", redact(err, c.apiKey))
	}

	if code := resp.StatusCode(); code < 200 || code > 299 {
		body := resp.String()
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return Page{}, &StatusError{Code: code, Body: body}
	}

	return decodePage(resp.Body())
}

// FetchAll walks every page starting after start and returns all apps.
// Any page exhausting its attempts aborts the walk; nothing is returned.
func (c *Client) FetchAll(ctx context.Context, start uint32) ([]steamapp.App, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	began := time.Now()
	var all []steamapp.App
	cursor := start

	for {
		c.logger.Debug("requesting app list page", "last_appid", cursor)

		page, err := c.fetchPageWithRetry(ctx, cursor)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Apps...)

		if !page.HaveMore {
			break
		}
		if page.LastAppID <= cursor {
			return nil, fmt.Errorf("%w: last_appid=%d after %d", ErrStalledCursor, page.LastAppID, cursor)
		}
		cursor = page.LastAppID
	}

	c.metrics.ObserveFetch(time.Since(began).Seconds())
	return all, nil
}

func (c *Client) fetchPageWithRetry(ctx context.Context, cursor uint32) (Page, error) {
	schedule := backoff.NewExponentialBackOff()
	schedule.InitialInterval = c.initialBackoff
	schedule.Multiplier = 2
	schedule.RandomizationFactor = 0
	schedule.Reset()

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		page, err := c.FetchPage(ctx, cursor)
		if err == nil {
			c.metrics.PageFetched(len(page.Apps))
			c.logger.Debug("fetched app list page", "last_appid", cursor, "count", len(page.Apps))
			return page, nil
		}

		// Cancellation and configuration errors are not transient.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Page{}, ctxErr
		}
		if errors.Is(err, ErrMissingAPIKey) {
			return Page{}, err
		}

		lastErr = err
		c.metrics.AttemptFailed()
		c.logger.Warn("failed to fetch app list page",
			"last_appid", cursor,
			"attempt", attempt,
			"max_attempts", c.maxAttempts,
			"error", err,
		)

		if attempt == c.maxAttempts {
			break
		}
		if err := c.sleep(ctx, schedule.NextBackOff()); err != nil {
			return Page{}, err
		}
	}

	c.logger.Error("exhausted retries fetching app list, aborting update",
		"last_appid", cursor,
		"attempts", c.maxAttempts,
		"error", lastErr,
	)
	return Page{}, &FetchError{Cursor: cursor, Attempts: c.maxAttempts, Err: lastErr}
}

type listResponse struct {
	Response *appList `json:"response"`
}

type appList struct {
	Apps            []steamapp.App `json:"apps"`
	HaveMoreResults bool           `json:"have_more_results"`
	LastAppID       uint32         `json:"last_appid"`
}

// decodePage maps a response body onto a Page. A well-formed body without a
// response object is an empty, final page.
func decodePage(body []byte) (Page, error) {
	var lr listResponse
	if err := json.Unmarshal(body, &lr); err != nil {
		return Page{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if lr.Response == nil {
		return Page{}, nil
	}
	return Page{
		Apps:      lr.Response.Apps,
		HaveMore:  lr.Response.HaveMoreResults,
		LastAppID: lr.Response.LastAppID,
	}, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
