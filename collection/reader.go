package collection

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"feedsync/models"
	"feedsync/repository"
	apperrors "feedsync/utils/errors"
)

// ReaderCollection syncs against a google-reader-dialect service
// (Inoreader). Feeds are keyed by their stream id; article content
// arrives inline with stream/contents and is sanitized and stored at
// fetch time. Flag changes are pushed back with batched edit-tag calls.
type ReaderCollection struct {
	base
	api        ReaderAPI
	trees      repository.FeedTreeRepository
	tree       models.FeedTree
	limit      int
	unreadOnly bool
}

func newReaderCollection(account *models.Account, store *Store, api ReaderAPI, deps Deps, logger *slog.Logger) *ReaderCollection {
	return &ReaderCollection{
		base:       base{account: account, store: store, purger: deps.Purger, logger: logger},
		api:        api,
		trees:      deps.Trees,
		limit:      deps.FetchLimit,
		unreadOnly: deps.FetchUnreadOnly,
	}
}

func (c *ReaderCollection) Init(ctx context.Context) error {
	if err := c.base.Init(ctx); err != nil {
		return err
	}
	tree, err := c.trees.Load(ctx, c.account.Name)
	if err != nil {
		return err
	}
	c.tree = tree
	return nil
}

func (c *ReaderCollection) GetFeedList() models.FeedTree {
	return c.tree
}

// FetchAll mirrors the subscription list and its folder labels, drops
// feeds that disappeared server-side and refreshes every stream
// concurrently.
func (c *ReaderCollection) FetchAll(ctx context.Context) error {
	list, err := c.api.ListSubscriptions(ctx)
	if err != nil {
		return fmt.Errorf("fetch subscriptions: %w", err)
	}

	c.tree = mirrorReaderTree(list.Subscriptions)
	if err := c.trees.Save(ctx, c.account.Name, c.tree); err != nil {
		return err
	}

	for _, stored := range c.store.Feeds() {
		if !c.tree.Contains(stored) {
			if err := c.store.RemoveSummary(ctx, stored); err != nil {
				c.logger.Warn("drop removed feed failed", "feed", stored, "error", err)
			}
		}
	}

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(fetchConcurrency)
	for _, subscription := range list.Subscriptions {
		subscription := subscription
		group.Go(func() error {
			if err := c.fetchStream(ctx, subscription); err != nil {
				c.logger.Error("feed refresh failed", "feed", subscription.ID, "error", err)
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}
	return c.Commit(ctx)
}

// mirrorReaderTree groups subscriptions under their first folder label,
// unlabeled ones at the root.
func mirrorReaderTree(subscriptions []models.ReaderSubscription) models.FeedTree {
	var tree models.FeedTree
	folders := make(map[string]int)
	for _, subscription := range subscriptions {
		leaf := models.TreeNode{Feed: subscription.ID}
		if len(subscription.Categories) == 0 {
			tree = append(tree, leaf)
			continue
		}
		folder := subscription.Categories[0]
		index, seen := folders[folder.Label]
		if !seen {
			tree = append(tree, models.TreeNode{Name: folder.Label, BackendRef: folder.ID})
			index = len(tree) - 1
			folders[folder.Label] = index
		}
		tree[index].List = append(tree[index].List, leaf)
	}
	return tree
}

// FetchOne refreshes the single stream with the given id and commits.
func (c *ReaderCollection) FetchOne(ctx context.Context, feed string) error {
	list, err := c.api.ListSubscriptions(ctx)
	if err != nil {
		return fmt.Errorf("fetch subscriptions: %w", err)
	}
	for _, subscription := range list.Subscriptions {
		if subscription.ID == feed {
			if err := c.fetchStream(ctx, subscription); err != nil {
				return err
			}
			return c.Commit(ctx)
		}
	}
	return fmt.Errorf("%w: feed %s", apperrors.ErrNotFound, feed)
}

// fetchStream pages through stream/contents until the fetch limit is
// reached, writing sanitized content blobs as items arrive.
func (c *ReaderCollection) fetchStream(ctx context.Context, subscription models.ReaderSubscription) error {
	var fresh []*models.Abstract
	continuation := ""
	for {
		page, err := c.api.StreamContents(ctx, subscription.ID, c.limit, c.unreadOnly, continuation)
		if err != nil {
			c.store.MarkFeedFailed(subscription.ID, subscription.HTMLURL, subscription.Title)
			return fmt.Errorf("fetch stream %s: %w", subscription.ID, err)
		}
		for _, item := range page.Items {
			abstract := &models.Abstract{
				ID:         models.EntryID(subscription.ID, item.ShortID()),
				Title:      item.Title,
				Date:       item.Published * 1000,
				Link:       item.Link(),
				Read:       item.HasTag(models.ReaderTagRead),
				Feed:       subscription.ID,
				Starred:    item.HasTag(models.ReaderTagStarred),
				BackendRef: item.ShortID(),
			}
			content := sanitizer.Sanitize(item.Summary.Content, abstract.Link)
			if err := c.store.WriteContent(ctx, abstract.ID, content); err != nil {
				return err
			}
			fresh = append(fresh, abstract)
		}
		continuation = page.Continuation
		if continuation == "" || len(fresh) >= c.limit {
			break
		}
	}

	summary := models.NewSummary(subscription.HTMLURL, subscription.Title)
	summary.BackendRef = subscription.ID
	c.store.MergeFeed(subscription.ID, summary, fresh, c.account.AgedOutPolicyOrDefault())
	return nil
}

func (c *ReaderCollection) AddFeed(ctx context.Context, feed, category string) error {
	result, err := c.api.QuickAdd(ctx, feed)
	if err != nil {
		return err
	}
	c.tree = c.tree.Append(result.StreamID, category)
	if err := c.trees.Save(ctx, c.account.Name, c.tree); err != nil {
		return err
	}
	return c.FetchOne(ctx, result.StreamID)
}

func (c *ReaderCollection) DelFeed(ctx context.Context, feed string) error {
	if err := c.api.Unsubscribe(ctx, feed); err != nil {
		return err
	}
	c.tree = c.tree.Remove(feed)
	if err := c.trees.Save(ctx, c.account.Name, c.tree); err != nil {
		return err
	}
	if err := c.store.RemoveSummary(ctx, feed); err != nil {
		return err
	}
	return c.store.Commit(ctx)
}

func (c *ReaderCollection) AddToFavorites(ctx context.Context, id string) error {
	return c.pushStarred(ctx, id, true)
}

func (c *ReaderCollection) RemoveFromFavorites(ctx context.Context, id string) error {
	return c.pushStarred(ctx, id, false)
}

func (c *ReaderCollection) pushStarred(ctx context.Context, id string, starred bool) error {
	abstract, err := c.setStarred(id, starred)
	if err != nil {
		return err
	}
	if abstract.BackendRef != "" {
		add, remove := models.ReaderTagStarred, ""
		if !starred {
			add, remove = "", models.ReaderTagStarred
		}
		if err := c.api.EditTag(ctx, []string{abstract.BackendRef}, add, remove); err != nil {
			return err
		}
	}
	return c.store.Commit(ctx)
}

// Commit pushes queued read-state changes with one edit-tag call per
// direction, then persists dirty feeds. A failed push is logged and not
// re-queued.
func (c *ReaderCollection) Commit(ctx context.Context) error {
	var toRead, toUnread []string
	for _, abstract := range c.store.DrainDirtyAbstracts() {
		if abstract.BackendRef == "" {
			continue
		}
		if abstract.Read {
			toRead = append(toRead, abstract.BackendRef)
		} else {
			toUnread = append(toUnread, abstract.BackendRef)
		}
	}
	if len(toRead) > 0 {
		if err := c.api.EditTag(ctx, toRead, models.ReaderTagRead, ""); err != nil {
			c.logger.Error("push read flags failed", "count", len(toRead), "error", err)
		}
	}
	if len(toUnread) > 0 {
		if err := c.api.EditTag(ctx, toUnread, "", models.ReaderTagRead); err != nil {
			c.logger.Error("push unread flags failed", "count", len(toUnread), "error", err)
		}
	}
	return c.store.Commit(ctx)
}
