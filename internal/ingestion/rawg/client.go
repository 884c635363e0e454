package rawg

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.rawg.io/api"

	// Rate limiting: stay well inside the RAWG free-tier allowance
	rateLimit = 4 // requests per second
	rateBurst = 8

	// Retry configuration
	maxRetries   = 5
	initialDelay = 1 * time.Second
	maxDelay     = 32 * time.Second

	dateLayout = "2006-01-02"
)

// Client issues paginated requests against the RAWG games API with rate
// limiting and retry/backoff.
type Client struct {
	baseURL     string
	apiKey      string
	pageSize    int
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

// NewClient creates a new RAWG API client. baseURL may be empty to use the
// public API endpoint.
func NewClient(baseURL, apiKey string, pageSize int) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if pageSize <= 0 || pageSize > 40 {
		pageSize = 40 // RAWG maximum
	}
	return &Client{
		baseURL:     baseURL,
		apiKey:      apiKey,
		pageSize:    pageSize,
		rateLimiter: rate.NewLimiter(rate.Limit(rateLimit), rateBurst),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// PageSize returns the page size the client requests.
func (c *Client) PageSize() int {
	return c.pageSize
}

// FetchGames fetches one page of the /games listing for the given query.
// Rate-limit responses and server errors are retried with exponential
// backoff; a 404 past the last page returns ErrNoMoreData; any other client
// error is fatal for the page and comes back as a bad_request FetchError
// without retrying.
func (c *Client) FetchGames(ctx context.Context, query GameQuery, page int) (*Page, error) {
	params := c.buildParams(query, page)
	fullURL := c.baseURL + "/games?" + params.Encode()

	var lastErr error
	delay := initialDelay

	for attempt := 1; attempt <= maxRetries; attempt++ {
		// Rate limit
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, &FetchError{Kind: FetchCanceled, Page: page, Err: err}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, &FetchError{Kind: FetchBadRequest, Page: page, Err: err}
		}
		req.Header.Set("User-Agent", "GameInsight/1.0")
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, &FetchError{Kind: FetchCanceled, Page: page, Err: ctx.Err()}
			}
			// Network-level fault: retryable
			lastErr = err
			log.Printf("[RAWG] Request failed (attempt %d/%d): %v",
				attempt, maxRetries, err)
		} else {
			decoded, retry, err := c.handleResponse(resp, page, attempt, &delay)
			if err == nil {
				return decoded, nil
			}
			if !retry {
				return nil, err
			}
			lastErr = err
		}

		if attempt == maxRetries {
			break
		}
		if err := c.sleep(ctx, delay); err != nil {
			return nil, &FetchError{Kind: FetchCanceled, Page: page, Err: err}
		}
		delay = minDuration(delay*2, maxDelay)
	}

	return nil, &FetchError{Kind: FetchExhausted, Page: page, Err: lastErr}
}

// handleResponse decodes the page or classifies the failure. retry=true means
// the caller should back off and try again.
func (c *Client) handleResponse(resp *http.Response, page, attempt int, delay *time.Duration) (*Page, bool, error) {
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		var decoded Page
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			// A truncated or garbled body on a 200 is as transient as a 502
			return nil, true, &FetchError{Kind: FetchTransient, Page: page,
				Err: fmt.Errorf("failed to parse response: %w", err)}
		}
		return &decoded, false, nil
	}

	bodyBytes, _ := io.ReadAll(resp.Body)
	bodyStr := string(bodyBytes)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		// RAWG answers 404 past the last page; end of data, not a failure.
		return nil, false, ErrNoMoreData

	case shouldRetry(resp.StatusCode):
		kind := FetchTransient
		if resp.StatusCode == http.StatusTooManyRequests {
			kind = FetchRateLimited
			// Honor Retry-After when the server provides one
			if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
				if retryDuration, err := time.ParseDuration(retryAfter + "s"); err == nil {
					*delay = retryDuration
				}
			}
		}
		log.Printf("[RAWG] HTTP %d (attempt %d/%d), retrying in %v...",
			resp.StatusCode, attempt+1, maxRetries, *delay)
		return nil, true, &FetchError{Kind: kind, Page: page,
			Err: fmt.Errorf("HTTP %d: %s", resp.StatusCode, bodyStr)}

	default:
		// Remaining 4xx mean the query itself is malformed; never retried.
		return nil, false, &FetchError{Kind: FetchBadRequest, Page: page,
			Err: fmt.Errorf("HTTP %d: %s", resp.StatusCode, bodyStr)}
	}
}

// sleep waits for the backoff delay, abandoning the wait promptly when the
// context is canceled.
func (c *Client) sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) buildParams(query GameQuery, page int) url.Values {
	params := url.Values{}
	if c.apiKey != "" {
		params.Add("key", c.apiKey)
	}
	params.Add("page", fmt.Sprintf("%d", page))
	params.Add("page_size", fmt.Sprintf("%d", c.pageSize))

	if !query.DatesStart.IsZero() && !query.DatesEnd.IsZero() {
		params.Add("dates", fmt.Sprintf("%s,%s",
			query.DatesStart.Format(dateLayout), query.DatesEnd.Format(dateLayout)))
	}
	if !query.UpdatedStart.IsZero() && !query.UpdatedEnd.IsZero() {
		params.Add("updated", fmt.Sprintf("%s,%s",
			query.UpdatedStart.Format(dateLayout), query.UpdatedEnd.Format(dateLayout)))
	}

	return params
}

// shouldRetry determines if an HTTP status code warrants a retry
func shouldRetry(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || // 429
		statusCode >= 500 // 500-504
}

// minDuration returns the smaller of two durations
func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
