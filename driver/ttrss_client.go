package driver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"feedsync/models"
	apperrors "feedsync/utils/errors"
)

const ttrssNotLoggedIn = "NOT_LOGGED_IN"

// errSessionExpired marks a NOT_LOGGED_IN response, the one auth failure
// recoverable by logging in again.
var errSessionExpired = errors.New("ttrss session expired")

// TTRSSClient speaks the Tiny Tiny RSS JSON API: every call is a POST of
// one JSON object carrying "op", the session id and op-specific fields.
// A stale session is re-established transparently, retrying the original
// call exactly once.
type TTRSSClient struct {
	endpoint   string
	username   string
	password   string
	httpClient *http.Client
	logger     *slog.Logger

	mu  sync.Mutex
	sid string
}

// NewTTRSSClient creates a client for the TTRSS instance at server (the
// instance base URL, with or without the /api/ suffix).
func NewTTRSSClient(server, username, password string, timeout time.Duration, logger *slog.Logger) *TTRSSClient {
	if logger == nil {
		logger = slog.Default()
	}
	endpoint := strings.TrimSuffix(server, "/")
	if !strings.HasSuffix(endpoint, "/api") {
		endpoint += "/api"
	}
	endpoint += "/"
	return &TTRSSClient{
		endpoint: endpoint,
		username: username,
		password: password,
		logger:   logger,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: timeout,
				IdleConnTimeout:       90 * time.Second,
				MaxIdleConns:          10,
				MaxIdleConnsPerHost:   2,
			},
		},
	}
}

func (c *TTRSSClient) session() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sid
}

func (c *TTRSSClient) setSession(sid string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sid = sid
}

func (c *TTRSSClient) login(ctx context.Context) error {
	content, err := c.post(ctx, map[string]any{
		"op":       "login",
		"user":     c.username,
		"password": c.password,
	})
	if err != nil {
		if apperrors.IsTransportError(err) {
			return err
		}
		return fmt.Errorf("%w: ttrss login: %v", apperrors.ErrAuth, err)
	}
	var login models.TTRSSLoginContent
	if err := json.Unmarshal(content, &login); err != nil {
		return fmt.Errorf("%w: decode login response: %v", apperrors.ErrTransport, err)
	}
	if login.SessionID == "" {
		return fmt.Errorf("%w: ttrss login returned no session", apperrors.ErrAuth)
	}
	c.setSession(login.SessionID)
	return nil
}

// call runs one API operation, logging in first when no session exists
// and once more when the server reports the session expired mid-flight.
func (c *TTRSSClient) call(ctx context.Context, op string, params map[string]any) (json.RawMessage, error) {
	if c.session() == "" {
		if err := c.login(ctx); err != nil {
			return nil, err
		}
	}

	content, err := c.postOp(ctx, op, params)
	if errors.Is(err, errSessionExpired) {
		c.logger.Info("ttrss session expired, re-authenticating", "op", op)
		c.setSession("")
		if err := c.login(ctx); err != nil {
			return nil, err
		}
		content, err = c.postOp(ctx, op, params)
	}
	return content, err
}

func (c *TTRSSClient) postOp(ctx context.Context, op string, params map[string]any) (json.RawMessage, error) {
	body := map[string]any{"op": op, "sid": c.session()}
	for key, value := range params {
		body[key] = value
	}
	return c.post(ctx, body)
}

func (c *TTRSSClient) post(ctx context.Context, body map[string]any) (json.RawMessage, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", apperrors.ErrTransport, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", apperrors.ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: ttrss call: %v", apperrors.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: ttrss call: HTTP %d", apperrors.ErrTransport, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", apperrors.ErrTransport, err)
	}

	var envelope models.TTRSSResponse
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", apperrors.ErrTransport, err)
	}
	if envelope.Status != 0 {
		var apiErr models.TTRSSErrorContent
		_ = json.Unmarshal(envelope.Content, &apiErr)
		if apiErr.Error == ttrssNotLoggedIn {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrAuth, errSessionExpired)
		}
		if apiErr.Error == "LOGIN_ERROR" {
			return nil, fmt.Errorf("%w: ttrss: %s", apperrors.ErrAuth, apiErr.Error)
		}
		return nil, fmt.Errorf("%w: ttrss: %s", apperrors.ErrTransport, apiErr.Error)
	}
	return envelope.Content, nil
}

// GetFeedTree returns the server-side category/feed hierarchy.
func (c *TTRSSClient) GetFeedTree(ctx context.Context) (*models.TTRSSTreeContent, error) {
	content, err := c.call(ctx, "getFeedTree", map[string]any{"include_empty": true})
	if err != nil {
		return nil, err
	}
	var tree models.TTRSSTreeContent
	if err := json.Unmarshal(content, &tree); err != nil {
		return nil, fmt.Errorf("%w: decode feed tree: %v", apperrors.ErrTransport, err)
	}
	return &tree, nil
}

// GetFeeds returns every subscription, with its XML URL.
func (c *TTRSSClient) GetFeeds(ctx context.Context) ([]models.TTRSSFeed, error) {
	content, err := c.call(ctx, "getFeeds", map[string]any{"cat_id": -3})
	if err != nil {
		return nil, err
	}
	var feeds []models.TTRSSFeed
	if err := json.Unmarshal(content, &feeds); err != nil {
		return nil, fmt.Errorf("%w: decode feeds: %v", apperrors.ErrTransport, err)
	}
	return feeds, nil
}

// GetHeadlines returns the headline batch for one feed, optionally
// restricted to unread articles.
func (c *TTRSSClient) GetHeadlines(ctx context.Context, feedID int64, limit int, unreadOnly bool) ([]models.TTRSSHeadline, error) {
	viewMode := "all_articles"
	if unreadOnly {
		viewMode = "unread"
	}
	content, err := c.call(ctx, "getHeadlines", map[string]any{
		"feed_id":   feedID,
		"limit":     limit,
		"view_mode": viewMode,
	})
	if err != nil {
		return nil, err
	}
	var headlines []models.TTRSSHeadline
	if err := json.Unmarshal(content, &headlines); err != nil {
		return nil, fmt.Errorf("%w: decode headlines: %v", apperrors.ErrTransport, err)
	}
	return headlines, nil
}

// GetArticle returns the full content of one article.
func (c *TTRSSClient) GetArticle(ctx context.Context, articleID int64) (*models.TTRSSArticle, error) {
	content, err := c.call(ctx, "getArticle", map[string]any{"article_id": articleID})
	if err != nil {
		return nil, err
	}
	var articles []models.TTRSSArticle
	if err := json.Unmarshal(content, &articles); err != nil {
		return nil, fmt.Errorf("%w: decode article: %v", apperrors.ErrTransport, err)
	}
	if len(articles) == 0 {
		return nil, fmt.Errorf("%w: article %d", apperrors.ErrNotFound, articleID)
	}
	return &articles[0], nil
}

// Subscribe adds a feed under the given category and returns the new
// server-side feed id.
func (c *TTRSSClient) Subscribe(ctx context.Context, feedURL string, categoryID int64) (int64, error) {
	content, err := c.call(ctx, "subscribeToFeed", map[string]any{
		"feed_url":    feedURL,
		"category_id": categoryID,
	})
	if err != nil {
		return 0, err
	}
	var result models.TTRSSSubscribeContent
	if err := json.Unmarshal(content, &result); err != nil {
		return 0, fmt.Errorf("%w: decode subscribe response: %v", apperrors.ErrTransport, err)
	}
	return result.Status.FeedID, nil
}

// Unsubscribe removes a subscription by server-side feed id.
func (c *TTRSSClient) Unsubscribe(ctx context.Context, feedID int64) error {
	_, err := c.call(ctx, "unsubscribeFeed", map[string]any{"feed_id": feedID})
	return err
}

// UpdateFeed asks the server to refresh one feed from its origin.
func (c *TTRSSClient) UpdateFeed(ctx context.Context, feedID int64) error {
	_, err := c.call(ctx, "updateFeed", map[string]any{"feed_id": feedID})
	return err
}

// UpdateArticles sets or clears one flag on a batch of articles. field is
// TTRSSFieldStarred or TTRSSFieldUnread; mode is TTRSSModeSet or
// TTRSSModeClear.
func (c *TTRSSClient) UpdateArticles(ctx context.Context, ids []int64, field, mode int) error {
	if len(ids) == 0 {
		return nil
	}
	joined := make([]string, len(ids))
	for i, id := range ids {
		joined[i] = fmt.Sprintf("%d", id)
	}
	_, err := c.call(ctx, "updateArticle", map[string]any{
		"article_ids": strings.Join(joined, ","),
		"field":       field,
		"mode":        mode,
	})
	return err
}
