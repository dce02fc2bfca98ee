package collection

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"feedsync/models"
	"feedsync/parser"
	apperrors "feedsync/utils/errors"
)

// fetchConcurrency caps how many feeds one account fetches in parallel.
const fetchConcurrency = 8

// LocalCollection fetches feeds directly over HTTP and parses them
// itself. The feed tree comes from the account's configuration and feed
// add/remove mutates that configuration.
type LocalCollection struct {
	base
	fetcher  FeedFetcher
	accounts AccountSaver
	lenient  bool
}

func newLocalCollection(account *models.Account, store *Store, deps Deps, logger *slog.Logger) *LocalCollection {
	return &LocalCollection{
		base:     base{account: account, store: store, purger: deps.Purger, logger: logger},
		fetcher:  deps.Fetcher,
		accounts: deps.Accounts,
		lenient:  deps.Lenient,
	}
}

func (c *LocalCollection) GetFeedList() models.FeedTree {
	return c.account.Feeds
}

// FetchOne downloads, parses and commits a single feed.
func (c *LocalCollection) FetchOne(ctx context.Context, feed string) error {
	if err := c.fetchFeed(ctx, feed); err != nil {
		return err
	}
	return c.store.Commit(ctx)
}

// fetchFeed downloads and parses a single feed. Known article ids are
// excluded at parse time, so only genuinely new entries are sanitized and
// written; a 304 against the cached ETag skips the feed entirely. Any
// failure flips the feed's ok flag and leaves stored articles untouched.
func (c *LocalCollection) fetchFeed(ctx context.Context, feed string) error {
	body, notModified, err := c.fetcher.Fetch(ctx, feed)
	if err != nil {
		c.markFailed(feed)
		return fmt.Errorf("fetch %s: %w", feed, err)
	}
	if notModified {
		c.logger.Debug("feed unchanged", "feed", feed)
		return nil
	}

	entries, meta, err := parser.Parse(body, c.store.CatelogSet(feed), parser.Options{Lenient: c.lenient})
	if err != nil {
		c.markFailed(feed)
		return fmt.Errorf("parse %s: %w", feed, err)
	}

	fresh := make([]*models.Abstract, 0, len(entries))
	for _, entry := range entries {
		if err := c.store.WriteContent(ctx, entry.ID, entry.Content); err != nil {
			return err
		}
		fresh = append(fresh, models.AbstractFromEntry(entry, feed))
	}

	summary := models.NewSummary(meta.Link, meta.Title)
	c.store.MergeFeed(feed, summary, fresh, models.AgedOutKeep)
	return nil
}

// FetchAll refreshes every configured feed concurrently and commits the
// batch. A failing feed is logged and marked not-ok without aborting its
// siblings. Feeds removed from the configured tree are dropped from
// storage first.
func (c *LocalCollection) FetchAll(ctx context.Context) error {
	tree := c.account.Feeds
	for _, stored := range c.store.Feeds() {
		if !tree.Contains(stored) {
			if err := c.store.RemoveSummary(ctx, stored); err != nil {
				c.logger.Warn("drop removed feed failed", "feed", stored, "error", err)
			}
		}
	}

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(fetchConcurrency)
	for _, feed := range tree.Feeds() {
		feed := feed
		group.Go(func() error {
			if err := c.fetchFeed(ctx, feed); err != nil {
				c.logger.Error("feed refresh failed", "feed", feed, "error", err)
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}
	return c.store.Commit(ctx)
}

func (c *LocalCollection) AddFeed(ctx context.Context, feed, category string) error {
	if c.account.Feeds.Contains(feed) {
		return nil
	}
	c.account.Feeds = c.account.Feeds.Append(feed, category)
	if err := c.saveAccount(ctx); err != nil {
		return err
	}
	return c.FetchOne(ctx, feed)
}

func (c *LocalCollection) DelFeed(ctx context.Context, feed string) error {
	if !c.account.Feeds.Contains(feed) {
		return fmt.Errorf("%w: feed %s", apperrors.ErrNotFound, feed)
	}
	c.account.Feeds = c.account.Feeds.Remove(feed)
	if err := c.saveAccount(ctx); err != nil {
		return err
	}
	if err := c.store.RemoveSummary(ctx, feed); err != nil {
		return err
	}
	return c.store.Commit(ctx)
}

func (c *LocalCollection) AddToFavorites(ctx context.Context, id string) error {
	if _, err := c.setStarred(id, true); err != nil {
		return err
	}
	return c.store.Commit(ctx)
}

func (c *LocalCollection) RemoveFromFavorites(ctx context.Context, id string) error {
	if _, err := c.setStarred(id, false); err != nil {
		return err
	}
	return c.store.Commit(ctx)
}

func (c *LocalCollection) saveAccount(ctx context.Context) error {
	if c.accounts == nil {
		return nil
	}
	return c.accounts.SaveAccount(ctx, c.account)
}

func (c *LocalCollection) markFailed(feed string) {
	link, title := feed, feed
	if summary := c.store.Summary(feed); summary != nil {
		link, title = summary.Link, summary.Title
	}
	c.store.MarkFeedFailed(feed, link, title)
}
