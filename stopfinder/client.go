package stopfinder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Endpoint styles
const (
	// StyleProxy targets the local pass-through (/api/stop-finder).
	StyleProxy = "proxy"
	// StyleDirect targets the Trip Planner stop_finder endpoint itself.
	StyleDirect = "direct"
)

const maxErrorBody = 64 << 10

// ClientOptions configures a Client
type ClientOptions struct {
	URL        string
	APIKey     string
	Style      string // proxy|direct
	TypeFilter string // defaults to "stop"
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client queries the stop finder. It is safe to reuse across calls but the
// compiler only ever has one request in flight.
type Client struct {
	endpoint   string
	apiKey     string
	style      string
	typeFilter string
	httpClient *http.Client
}

// NewClient creates a new stop finder client
func NewClient(opts ClientOptions) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	style := opts.Style
	if style == "" {
		style = StyleProxy
	}
	tf := opts.TypeFilter
	if tf == "" {
		tf = LocationStop
	}
	return &Client{
		endpoint:   opts.URL,
		apiKey:     opts.APIKey,
		style:      style,
		typeFilter: tf,
		httpClient: hc,
	}
}

// Search runs one stop finder query for text, asking for at most maxResults
// candidates. 429 yields *RateLimitError; other HTTP, network or decoding
// failures yield *MatchError. Context cancellation is returned unwrapped.
func (c *Client) Search(ctx context.Context, text string, maxResults int) (*Response, error) {
	u, err := c.buildURL(text, maxResults)
	if err != nil {
		return nil, &MatchError{StopID: text, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &MatchError{StopID: text, Err: err}
	}
	req.Header.Set("Authorization", "apikey "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &MatchError{StopID: text, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &RateLimitError{StopID: text}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &MatchError{
			StopID:  text,
			Status:  resp.StatusCode,
			Message: errorMessage(resp.Body),
		}
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &MatchError{StopID: text, Err: fmt.Errorf("decode response: %w", err)}
	}
	return &out, nil
}

func (c *Client) buildURL(text string, maxResults int) (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", err
	}
	q := u.Query()
	maxHits := strconv.Itoa(maxResults)
	switch c.style {
	case StyleDirect:
		q.Set("outputFormat", "rapidJSON")
		q.Set("coordOutputFormat", "EPSG:4326")
		q.Set("name_sf", text)
	default:
		q.Set("query", text)
	}
	q.Set("type_sf", c.typeFilter)
	q.Set("anyMaxSizeHitList", maxHits)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// errorMessage extracts ErrorDetails.Message from an error body, if any.
func errorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}
	var env struct {
		ErrorDetails *ErrorDetails `json:"ErrorDetails"`
	}
	if json.Unmarshal(data, &env) != nil || env.ErrorDetails == nil {
		return ""
	}
	return env.ErrorDetails.Message
}
