// Package api is the HTTP client for the metadata proxy.
package api

import (
	"bytes"
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

	"github.com/mmcdole/youhub/internal/domain"
)

const (
	// DefaultBasePath is the proxy path prefix for every operation
	DefaultBasePath = "youtubei/v1"

	defaultTimeout = 30 * time.Second
	userAgent      = "YouHub/1.0"
	previewLimit   = 500
)

// Config locates the proxy
type Config struct {
	Origin   string
	BasePath string
	Timeout  time.Duration
	Language string // hl, sent with every request when set
	Region   string // gl default for first feed pages
}

// StatusError is a non-2xx proxy response
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Request failed %d: %s", e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error {
	return domain.ErrRequestFailed
}

// Client implements domain.VideoSource over the proxy's POST/JSON API
type Client struct {
	baseURL    string
	language   string
	region     string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ domain.VideoSource = (*Client)(nil)

// NewClient creates a proxy client
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:  BaseURL(cfg.Origin, cfg.BasePath),
		language: cfg.Language,
		region:   cfg.Region,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// BaseURL joins origin and base path, trimming stray slashes
func BaseURL(origin, basePath string) string {
	origin = strings.TrimRight(origin, "/")
	basePath = strings.Trim(basePath, "/")
	if basePath == "" {
		basePath = DefaultBasePath
	}
	return origin + "/" + basePath + "/"
}

// post sends body to op and decodes the JSON answer into out
func (c *Client) post(ctx context.Context, op string, body any, gl string, out any) error {
	reqURL := c.baseURL + op
	query := url.Values{}
	if c.language != "" {
		query.Set("hl", c.language)
	}
	if gl != "" {
		query.Set("gl", gl)
	}
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	if body == nil {
		body = struct{}{}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("api request", "method", http.MethodPost, "url", reqURL, "payload", preview(payload))
	started := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("api request failed", "url", reqURL, "duration", time.Since(started), "error", err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("api response", "url", reqURL, "status", resp.StatusCode, "duration", time.Since(started), "body", string(data))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	c.logger.Debug("api response", "url", reqURL, "status", resp.StatusCode, "duration", time.Since(started))

	if err := json.Unmarshal(data, out); err != nil {
		c.logger.Error("JSON parse error", "op", op, "error", err, "bodyLen", len(data))
		return fmt.Errorf("failed to parse %s response: %w", op, err)
	}
	return nil
}

func preview(payload []byte) string {
	if len(payload) > previewLimit {
		return string(payload[:previewLimit-3]) + "..."
	}
	return string(payload)
}

// Feed returns one page of a browse feed. The region only applies to the
// first page; continuations carry their own.
func (c *Client) Feed(ctx context.Context, browseID string, opts domain.FeedOptions) (*domain.FeedPage, error) {
	var body any
	gl := ""
	if opts.Continuation != "" {
		body = map[string]string{"continuation": opts.Continuation}
	} else {
		body = map[string]string{"browseId": browseID}
		gl = opts.Region
		if gl == "" {
			gl = c.region
		}
	}

	var res browseResponse
	if err := c.post(ctx, "browse", body, gl, &res); err != nil {
		return nil, err
	}

	page := &domain.FeedPage{
		BrowseID:     res.BrowseID,
		Title:        res.Title,
		Items:        mapVideos(res.Items),
		Continuation: res.Continuation,
		Region:       opts.Region,
		Timestamp:    time.Now().UTC(),
	}
	if page.BrowseID == "" {
		page.BrowseID = browseID
	}
	return page, nil
}

// Trending returns the trending feed
func (c *Client) Trending(ctx context.Context, opts domain.FeedOptions) (*domain.FeedPage, error) {
	return c.Feed(ctx, domain.TrendingBrowseID, opts)
}

// Search runs a query. Playlist results are dropped.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]domain.SearchItem, error) {
	body := map[string]any{"query": query}
	if limit > 0 {
		body["limit"] = limit
	}

	var res searchResponse
	if err := c.post(ctx, "search", body, "", &res); err != nil {
		return nil, err
	}
	return mapSearchItems(res.Results), nil
}

// VideoDetails fetches the player and next payloads concurrently and
// merges them
func (c *Client) VideoDetails(ctx context.Context, videoID string) (*domain.VideoDetails, error) {
	player, next, err := c.fetchDetails(ctx, videoID)
	if err != nil {
		return nil, err
	}
	return mapDetails(videoID, player, next), nil
}

// Comments returns a page of comments. Without a token the first
// continuation is discovered through the next endpoint.
func (c *Client) Comments(ctx context.Context, videoID, pageToken string) (*domain.CommentsPage, error) {
	continuation := pageToken
	if continuation == "" {
		var bootstrap nextResponse
		if err := c.post(ctx, "next", map[string]string{"videoId": videoID}, "", &bootstrap); err != nil {
			return nil, err
		}
		continuation = bootstrap.Comments.Continuation
		if continuation == "" {
			return &domain.CommentsPage{Comments: []domain.Comment{}, HasMore: false}, nil
		}
	}

	var res commentsResponse
	if err := c.post(ctx, "next", map[string]string{"continuation": continuation}, "", &res); err != nil {
		return nil, err
	}
	return &domain.CommentsPage{
		Comments:      mapComments(res.Comments),
		NextPageToken: res.Continuation,
		HasMore:       res.Continuation != "",
	}, nil
}

// Channel returns a channel profile with up to limit videos from its
// first non-empty tab. A limit of 0 keeps every video.
func (c *Client) Channel(ctx context.Context, channelID string, limit int) (*domain.ChannelInfo, error) {
	var res channelResponse
	if err := c.post(ctx, "browse", map[string]string{"browseId": channelID}, "", &res); err != nil {
		return nil, err
	}
	return mapChannel(channelID, limit, res), nil
}

// IsStatus reports whether err is a proxy response with the given status
func IsStatus(err error, status int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == status
}
