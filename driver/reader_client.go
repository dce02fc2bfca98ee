package driver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"feedsync/models"
	apperrors "feedsync/utils/errors"
)

// TokenStore persists one account's OAuth2 token blob across runs.
type TokenStore interface {
	Load(ctx context.Context) (*models.OAuth2Token, error)
	Save(ctx context.Context, token *models.OAuth2Token) error
}

// Authorizer obtains a fresh authorization code interactively.
type Authorizer interface {
	Authorize(ctx context.Context) (code string, err error)
}

// ReaderClient speaks the google-reader-compatible Inoreader API: bearer
// token POSTs against reader/api/0/<cmd>, with OAuth2 token acquisition
// and refresh handled behind every call. A 401 clears the cached access
// token and retries the original call exactly once.
type ReaderClient struct {
	domain       string
	clientID     string
	clientSecret string
	tokens       TokenStore
	authorizer   Authorizer
	httpClient   *http.Client
	logger       *slog.Logger

	mu    sync.Mutex
	token *models.OAuth2Token
}

// NewReaderClient creates a client against the given API domain (for
// Inoreader this is www.inoreader.com unless the account overrides it).
func NewReaderClient(domain, clientID, clientSecret string, tokens TokenStore, authorizer Authorizer, timeout time.Duration, logger *slog.Logger) *ReaderClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReaderClient{
		domain:       strings.TrimSuffix(domain, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		tokens:       tokens,
		authorizer:   authorizer,
		logger:       logger,
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

func (c *ReaderClient) baseURL() string {
	if strings.HasPrefix(c.domain, "http://") || strings.HasPrefix(c.domain, "https://") {
		return c.domain
	}
	return "https://" + c.domain
}

// accessToken returns a usable access token, loading the persisted blob,
// refreshing an expired one, or running the interactive authorization
// flow when nothing usable exists.
func (c *ReaderClient) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token == nil {
		stored, err := c.tokens.Load(ctx)
		if err != nil {
			return "", err
		}
		c.token = stored
	}

	if c.token != nil && c.token.IsValid() {
		return c.token.AccessToken, nil
	}

	if c.token != nil && c.token.RefreshToken != "" {
		if err := c.refreshLocked(ctx); err == nil {
			return c.token.AccessToken, nil
		} else if !apperrors.IsAuthError(err) {
			return "", err
		}
		c.logger.Warn("stored refresh token rejected, re-authorizing")
	}

	if err := c.authorizeLocked(ctx); err != nil {
		return "", err
	}
	return c.token.AccessToken, nil
}

func (c *ReaderClient) authorizeLocked(ctx context.Context) error {
	code, err := c.authorizer.Authorize(ctx)
	if err != nil {
		return err
	}
	response, err := c.fetchToken(ctx, url.Values{
		"grant_type": {"authorization_code"},
		"code":       {code},
	})
	if err != nil {
		return err
	}
	c.token = models.NewOAuth2Token(code, response)
	return c.tokens.Save(ctx, c.token)
}

func (c *ReaderClient) refreshLocked(ctx context.Context) error {
	response, err := c.fetchToken(ctx, url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {c.token.RefreshToken},
	})
	if err != nil {
		return err
	}
	c.token.UpdateFromRefresh(response)
	return c.tokens.Save(ctx, c.token)
}

func (c *ReaderClient) fetchToken(ctx context.Context, form url.Values) (models.TokenResponse, error) {
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL()+"/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return models.TokenResponse{}, fmt.Errorf("%w: build token request: %v", apperrors.ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.TokenResponse{}, fmt.Errorf("%w: token request: %v", apperrors.ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.TokenResponse{}, fmt.Errorf("%w: read token response: %v", apperrors.ErrTransport, err)
	}

	var response models.TokenResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return models.TokenResponse{}, fmt.Errorf("%w: decode token response: %v", apperrors.ErrTransport, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusForbidden,
		response.Error == "invalid_grant":
		return models.TokenResponse{}, fmt.Errorf("%w: token grant rejected: %s %s", apperrors.ErrAuth, response.Error, response.ErrorDescription)
	case resp.StatusCode != http.StatusOK:
		return models.TokenResponse{}, fmt.Errorf("%w: token request: HTTP %d", apperrors.ErrTransport, resp.StatusCode)
	case response.AccessToken == "":
		return models.TokenResponse{}, fmt.Errorf("%w: token response carries no access token", apperrors.ErrAuth)
	}
	return response, nil
}

// Request runs one API command with the given form parameters and
// returns the raw response body.
func (c *ReaderClient) Request(ctx context.Context, cmd string, params url.Values) ([]byte, error) {
	body, status, err := c.requestOnce(ctx, cmd, params)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		c.logger.Info("access token rejected, re-acquiring", "cmd", cmd)
		c.invalidateToken(ctx)
		body, status, err = c.requestOnce(ctx, cmd, params)
		if err != nil {
			return nil, err
		}
	}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return nil, fmt.Errorf("%w: %s: HTTP %d", apperrors.ErrAuth, cmd, status)
	case status != http.StatusOK:
		return nil, fmt.Errorf("%w: %s: HTTP %d", apperrors.ErrTransport, cmd, status)
	}
	return body, nil
}

func (c *ReaderClient) requestOnce(ctx context.Context, cmd string, params url.Values) ([]byte, int, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL()+"/reader/api/0/"+cmd, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: build request for %s: %v", apperrors.ErrTransport, cmd, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s: %v", apperrors.ErrTransport, cmd, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: read response of %s: %v", apperrors.ErrTransport, cmd, err)
	}
	return body, resp.StatusCode, nil
}

// invalidateToken drops the cached access token but keeps the refresh
// token so the retry can renew instead of re-authorizing.
func (c *ReaderClient) invalidateToken(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token == nil {
		return
	}
	c.token.AccessToken = ""
	c.token.Expire = 0
	if err := c.tokens.Save(ctx, c.token); err != nil {
		c.logger.Warn("persist invalidated token failed", "error", err)
	}
}

// ListSubscriptions returns every subscription with its folder labels.
func (c *ReaderClient) ListSubscriptions(ctx context.Context) (*models.ReaderSubscriptionList, error) {
	body, err := c.Request(ctx, "subscription/list", url.Values{"output": {"json"}})
	if err != nil {
		return nil, err
	}
	var list models.ReaderSubscriptionList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("%w: decode subscription list: %v", apperrors.ErrTransport, err)
	}
	return &list, nil
}

// StreamContents returns one page of a stream's items. With unreadOnly
// set, items already marked read are excluded server-side.
func (c *ReaderClient) StreamContents(ctx context.Context, streamID string, limit int, unreadOnly bool, continuation string) (*models.ReaderStreamContents, error) {
	params := url.Values{
		"output": {"json"},
		"n":      {fmt.Sprintf("%d", limit)},
	}
	if unreadOnly {
		params.Set("xt", models.ReaderTagRead)
	}
	if continuation != "" {
		params.Set("c", continuation)
	}
	body, err := c.Request(ctx, "stream/contents/"+url.PathEscape(streamID), params)
	if err != nil {
		return nil, err
	}
	var contents models.ReaderStreamContents
	if err := json.Unmarshal(body, &contents); err != nil {
		return nil, fmt.Errorf("%w: decode stream contents: %v", apperrors.ErrTransport, err)
	}
	return &contents, nil
}

// EditTag adds and/or removes one state tag on a batch of items in a
// single call.
func (c *ReaderClient) EditTag(ctx context.Context, ids []string, addTag, removeTag string) error {
	if len(ids) == 0 {
		return nil
	}
	params := url.Values{}
	for _, id := range ids {
		params.Add("i", id)
	}
	if addTag != "" {
		params.Set("a", addTag)
	}
	if removeTag != "" {
		params.Set("r", removeTag)
	}
	_, err := c.Request(ctx, "edit-tag", params)
	return err
}

// QuickAdd subscribes to a feed URL and returns the new stream id.
func (c *ReaderClient) QuickAdd(ctx context.Context, feedURL string) (*models.ReaderQuickAddResult, error) {
	body, err := c.Request(ctx, "subscription/quickadd", url.Values{"quickadd": {feedURL}})
	if err != nil {
		return nil, err
	}
	var result models.ReaderQuickAddResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: decode quickadd response: %v", apperrors.ErrTransport, err)
	}
	if result.NumResults == 0 {
		return nil, fmt.Errorf("%w: quickadd matched no feed for %s", apperrors.ErrNotFound, feedURL)
	}
	return &result, nil
}

// Unsubscribe removes a subscription by stream id.
func (c *ReaderClient) Unsubscribe(ctx context.Context, streamID string) error {
	_, err := c.Request(ctx, "subscription/edit", url.Values{
		"ac": {"unsubscribe"},
		"s":  {streamID},
	})
	return err
}
