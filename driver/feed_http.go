// Package driver holds the outbound transports: plain feed HTTP fetches,
// the TTRSS JSON-RPC client and the google-reader-dialect OAuth2 client.
package driver

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	apperrors "feedsync/utils/errors"
)

const userAgent = "feedsync/1.0"

// FeedHTTPClient fetches raw feed documents over HTTP. It keeps an ETag
// per URL and issues conditional requests so unchanged feeds are skipped
// without downloading the body again.
type FeedHTTPClient struct {
	httpClient *http.Client
	logger     *slog.Logger
	attempts   int

	mu    sync.Mutex
	etags map[string]string
}

// NewFeedHTTPClient creates a feed fetcher with the given per-request
// timeout and retry attempt count.
func NewFeedHTTPClient(timeout time.Duration, attempts int, logger *slog.Logger) *FeedHTTPClient {
	if logger == nil {
		logger = slog.Default()
	}
	if attempts < 1 {
		attempts = 1
	}
	return &FeedHTTPClient{
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
		logger:   logger,
		attempts: attempts,
		etags:    make(map[string]string),
	}
}

// Fetch downloads the document at url. When the server answers 304 Not
// Modified against the cached ETag, notModified is true and the body is
// nil. Network and HTTP failures are retried up to the configured attempt
// count before surfacing ErrTransport.
func (c *FeedHTTPClient) Fetch(ctx context.Context, url string) (body []byte, notModified bool, err error) {
	for attempt := 1; attempt <= c.attempts; attempt++ {
		body, notModified, err = c.fetchOnce(ctx, url)
		if err == nil || ctx.Err() != nil {
			return body, notModified, err
		}
		c.logger.Warn("feed fetch failed",
			"url", url,
			"attempt", attempt,
			"error", err)
	}
	return nil, false, err
}

func (c *FeedHTTPClient) fetchOnce(ctx context.Context, url string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("%w: build request for %s: %v", apperrors.ErrTransport, url, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Encoding", "gzip")
	if etag := c.etag(url); etag != "" {
		req.Header.Set("If-None-Match", etag)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("%w: fetch %s: %v", apperrors.ErrTransport, url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotModified:
		return nil, true, nil
	case resp.StatusCode != http.StatusOK:
		return nil, false, fmt.Errorf("%w: fetch %s: HTTP %d", apperrors.ErrTransport, url, resp.StatusCode)
	}

	// Setting Accept-Encoding ourselves disables the transport's
	// transparent decompression.
	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, false, fmt.Errorf("%w: decompress %s: %v", apperrors.ErrTransport, url, err)
		}
		defer gz.Close()
		reader = gz
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, false, fmt.Errorf("%w: read body of %s: %v", apperrors.ErrTransport, url, err)
	}
	c.setETag(url, resp.Header.Get("ETag"))
	return data, false, nil
}

func (c *FeedHTTPClient) etag(url string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.etags[url]
}

func (c *FeedHTTPClient) setETag(url, etag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if etag == "" {
		delete(c.etags, url)
		return
	}
	c.etags[url] = etag
}

// ForgetETag drops the cached validator so the next fetch is
// unconditional. Used when a feed is re-added after removal.
func (c *FeedHTTPClient) ForgetETag(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.etags, url)
}
