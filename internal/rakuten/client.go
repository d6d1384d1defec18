// Package rakuten queries the Rakuten Ichiba item search API.
package rakuten

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-faster/errors"
)

const (
	// DefaultEndpoint is the Ichiba item search API, version 2022-06-01.
	DefaultEndpoint = "https://app.rakuten.co.jp/services/api/IchibaItem/Search/20220601"
	// DefaultTimeout bounds every search request.
	DefaultTimeout = 10 * time.Second
	// DefaultSort orders results by ascending price.
	DefaultSort = "+itemPrice"

	hitsPerPage      = 30
	placeholderAppID = "your_app_id"
)

// ErrNotConfigured is returned when no usable application id is set.
var ErrNotConfigured = errors.New("楽天アプリケーションIDが設定されていません。.envファイルでRAKUTEN_APPLICATION_IDを設定してください。")

// SearchParams are the user-controlled parts of a search.
type SearchParams struct {
	Keyword  string
	GenreID  string
	MinPrice int
	MaxPrice int
	Sort     string
}

// Client performs item searches.
type Client struct {
	appID      string
	endpoint   string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides the API endpoint.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithHTTPClient replaces the HTTP client. Callers are responsible for
// giving it a timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a Client for the given application id.
func NewClient(appID string, opts ...Option) *Client {
	c := &Client{
		appID:      appID,
		endpoint:   DefaultEndpoint,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether the client has a real application id.
func (c *Client) Configured() error {
	if c.appID == "" || c.appID == placeholderAppID {
		return ErrNotConfigured
	}
	return nil
}

// Search runs one item search.
func (c *Client) Search(ctx context.Context, p SearchParams) (*SearchResponse, error) {
	if err := c.Configured(); err != nil {
		return nil, err
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "parse endpoint")
	}
	u.RawQuery = c.query(p).Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, apiError(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) {
			ue.URL = redact(u)
		}
		return nil, apiError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apiError(errors.Errorf("%d %s for url: %s", resp.StatusCode, http.StatusText(resp.StatusCode), redact(u)))
	}

	var out SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, apiError(errors.Wrap(err, "decode response"))
	}
	return &out, nil
}

func (c *Client) query(p SearchParams) url.Values {
	sort := p.Sort
	if sort == "" {
		sort = DefaultSort
	}

	q := url.Values{}
	q.Set("applicationId", c.appID)
	q.Set("keyword", p.Keyword)
	q.Set("format", "json")
	q.Set("hits", strconv.Itoa(hitsPerPage))
	q.Set("sort", sort)
	if p.GenreID != "" {
		q.Set("genreId", p.GenreID)
	}
	if p.MinPrice != 0 {
		q.Set("minPrice", strconv.Itoa(p.MinPrice))
	}
	if p.MaxPrice != 0 {
		q.Set("maxPrice", strconv.Itoa(p.MaxPrice))
	}
	return q
}

// redact drops the application id from a URL before it reaches an error
// message.
func redact(u *url.URL) string {
	q := u.Query()
	if q.Has("applicationId") {
		q.Set("applicationId", "REDACTED")
	}
	c := *u
	c.RawQuery = q.Encode()
	return c.String()
}

func apiError(err error) error {
	return errors.Errorf("APIリクエストエラー: %v", err)
}
