package youtube

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/cenkalti/backoff/v5"
	"golang.org/x/time/rate"

	"github.com/gauthierbraillon/ytstreams/internal/initialdata"
	"github.com/gauthierbraillon/ytstreams/internal/metrics"
)

const (
	defaultBaseURL = "https://www.youtube.com"
	browsePath     = "/youtubei/v1/browse"

	webClientVersion = "2.20210408.08.00"
	userAgentChrome  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

	maxBodyBytes = 8 << 20

	// DefaultFirstPageAttempts covers the first try plus five retries.
	DefaultFirstPageAttempts = 6
)

// HTTPClient interface for making HTTP requests (allows injection for testing).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL sets a custom base URL (useful for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithRateLimiter paces outbound requests. Waiting honours the request context.
func WithRateLimiter(l *rate.Limiter) ClientOption {
	return func(c *Client) {
		c.limiter = l
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// WithMetrics records page, stream and error counters.
func WithMetrics(m *metrics.Metrics) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithFirstPageRetry sets how many times the streams page is fetched when it
// comes back without initial data, and the pause between attempts.
func WithFirstPageRetry(attempts int, interval time.Duration) ClientOption {
	return func(c *Client) {
		if attempts > 0 {
			c.firstPageAttempts = attempts
		}
		c.firstPageInterval = interval
	}
}

// WithLiveEarlyStop controls whether LiveStreams and UpcomingStreams stop at
// the first stream past their group. It relies on the channel listing streams
// as upcoming, then live, then past.
func WithLiveEarlyStop(enabled bool) ClientOption {
	return func(c *Client) {
		c.liveEarlyStop = enabled
	}
}

// Client lists channel streams by scraping YouTube's web surfaces.
type Client struct {
	baseURL           string
	httpClient        HTTPClient
	limiter           *rate.Limiter
	logger            *slog.Logger
	metrics           *metrics.Metrics
	firstPageAttempts int
	firstPageInterval time.Duration
	liveEarlyStop     bool
}

// NewClient creates a new YouTube client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:           defaultBaseURL,
		httpClient:        &http.Client{Timeout: 30 * time.Second},
		logger:            slog.Default(),
		firstPageAttempts: DefaultFirstPageAttempts,
		liveEarlyStop:     true,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// browseRequest is the continuation payload. Its client context is a fixed
// WEB profile and never depends on caller input.
type browseRequest struct {
	Continuation string        `json:"continuation"`
	Context      browseContext `json:"context"`
}

type browseContext struct {
	Client browseClient `json:"client"`
}

type browseClient struct {
	ClientName       string `json:"clientName"`
	ClientVersion    string `json:"clientVersion"`
	Hl               string `json:"hl"`
	Gl               string `json:"gl"`
	UTCOffsetMinutes int    `json:"utcOffsetMinutes"`
}

var webClientContext = browseContext{
	Client: browseClient{
		ClientName:       "WEB",
		ClientVersion:    webClientVersion,
		Hl:               "ko",
		Gl:               "KR",
		UTCOffsetMinutes: 0,
	},
}

// fetchFirstPage loads the channel's /streams page. A page without initial
// data is presumed transiently broken and fetched again; transport errors are
// returned at once.
func (c *Client) fetchFirstPage(ctx context.Context, channelID ChannelID) (*Response, error) {
	pageURL := fmt.Sprintf("%s/channel/%s/streams", c.baseURL, url.PathEscape(string(channelID)))

	op := func() (*Response, error) {
		raw, err := c.fetchText(ctx, pageURL)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		data, ok := initialdata.Extract(raw)
		if !ok {
			return nil, &ExtractionError{
				Field: "initial data",
				Msg:   "channel streams page is broken - please try again in a few minutes",
			}
		}
		c.metrics.PageFetched(metrics.PageInitial)
		return NewResponse(data), nil
	}

	resp, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewConstantBackOff(c.firstPageInterval)),
		backoff.WithMaxTries(uint(c.firstPageAttempts)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, wait time.Duration) {
			c.metrics.FirstPageRetried()
			c.logger.Debug("streams page without initial data, retrying",
				slog.String("channel", string(channelID)),
				slog.Duration("wait", wait),
				slog.Any("err", err))
		}),
	)
	if err != nil {
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			err = perm.Unwrap()
		}
		return nil, err
	}
	return resp, nil
}

// fetchContinuation loads the page identified by token.
func (c *Client) fetchContinuation(ctx context.Context, token string) (*Response, error) {
	body, err := c.postJSON(ctx, c.baseURL+browsePath, browseRequest{
		Continuation: token,
		Context:      webClientContext,
	})
	if err != nil {
		return nil, err
	}

	resp, err := ParseResponse(body)
	if err != nil {
		return nil, &ExtractionError{
			Field: "continuation response",
			Msg:   fmt.Sprintf("failed to parse continuation response: %v", err),
		}
	}
	c.metrics.PageFetched(metrics.PageContinuation)
	return resp, nil
}

// fetchText performs a GET and returns the body as text.
func (c *Client) fetchText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	body, err := c.doRequest(ctx, req)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// postJSON POSTs payload as JSON with WEB client headers.
func (c *Client) postJSON(ctx context.Context, url string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "*/*")
	req.Header.Set("X-Youtube-Client-Name", "1")
	req.Header.Set("X-Youtube-Client-Version", webClientVersion)
	req.Header.Set("Origin", c.baseURL)
	req.Header.Set("Referer", c.baseURL+"/")

	return c.doRequest(ctx, req)
}

func (c *Client) doRequest(ctx context.Context, req *http.Request) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, err
		}
	}

	req.Header.Set("User-Agent", userAgentChrome)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept-Encoding", "gzip, br")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.metrics.TransportFailed()
		return nil, &TransportError{URL: req.URL.String(), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.TransportFailed()
		return nil, &TransportError{URL: req.URL.String(), StatusCode: resp.StatusCode}
	}

	body, err := readBody(resp)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.metrics.TransportFailed()
		return nil, &TransportError{URL: req.URL.String(), Err: fmt.Errorf("failed to read response: %w", err)}
	}
	return body, nil
}

var errBodyTooLarge = fmt.Errorf("response body exceeds %d bytes", maxBodyBytes)

// readBody decodes gzip and brotli bodies, which arrive because we set
// Accept-Encoding ourselves. Decoded bodies over maxBodyBytes are rejected
// rather than cut short.
func readBody(resp *http.Response) ([]byte, error) {
	var r io.Reader = resp.Body
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "br":
		r = brotli.NewReader(resp.Body)
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer func() { _ = gz.Close() }()
		r = gz
	}
	body, err := io.ReadAll(io.LimitReader(r, maxBodyBytes+1))
	if err != nil {
		return nil, err
	}
	if len(body) > maxBodyBytes {
		return nil, errBodyTooLarge
	}
	return body, nil
}
