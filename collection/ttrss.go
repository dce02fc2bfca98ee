package collection

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"golang.org/x/sync/errgroup"

	"feedsync/models"
	"feedsync/repository"
	"feedsync/utils"
	apperrors "feedsync/utils/errors"
)

var sanitizer = utils.NewSanitizer()

// TTRSSCollection syncs against a Tiny Tiny RSS server. The server owns
// the subscriptions; the collection mirrors its category tree, merges
// headline batches into local state and pushes flag changes back at
// commit. Article content is fetched lazily, on first read.
type TTRSSCollection struct {
	base
	api        TTRSSAPI
	trees      repository.FeedTreeRepository
	tree       models.FeedTree
	limit      int
	unreadOnly bool
}

func newTTRSSCollection(account *models.Account, store *Store, api TTRSSAPI, deps Deps, logger *slog.Logger) *TTRSSCollection {
	return &TTRSSCollection{
		base:       base{account: account, store: store, purger: deps.Purger, logger: logger},
		api:        api,
		trees:      deps.Trees,
		limit:      deps.FetchLimit,
		unreadOnly: deps.FetchUnreadOnly,
	}
}

func (c *TTRSSCollection) Init(ctx context.Context) error {
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

func (c *TTRSSCollection) GetFeedList() models.FeedTree {
	return c.tree
}

// FetchAll mirrors the server's category tree, drops feeds the server no
// longer has and refreshes every remaining feed concurrently.
func (c *TTRSSCollection) FetchAll(ctx context.Context) error {
	remoteTree, err := c.api.GetFeedTree(ctx)
	if err != nil {
		return fmt.Errorf("fetch feed tree: %w", err)
	}
	subscriptions, err := c.api.GetFeeds(ctx)
	if err != nil {
		return fmt.Errorf("fetch subscriptions: %w", err)
	}

	byID := make(map[int64]models.TTRSSFeed, len(subscriptions))
	for _, feed := range subscriptions {
		byID[feed.ID] = feed
	}

	c.tree = mirrorTTRSSTree(remoteTree.Categories.Items, byID)
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
	for _, feed := range subscriptions {
		feed := feed
		group.Go(func() error {
			if err := c.fetchFeed(ctx, feed); err != nil {
				c.logger.Error("feed refresh failed", "feed", feed.FeedURL, "error", err)
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}
	return c.Commit(ctx)
}

// mirrorTTRSSTree rebuilds a FeedTree from the server's getFeedTree
// hierarchy. Virtual feeds (non-positive bare ids) are skipped; feed
// leaves carry the subscription's XML URL as their key.
func mirrorTTRSSTree(nodes []models.TTRSSTreeNode, byID map[int64]models.TTRSSFeed) models.FeedTree {
	var tree models.FeedTree
	for _, node := range nodes {
		if len(node.Items) > 0 || node.Type == "category" {
			if node.BareID < 0 {
				continue
			}
			tree = append(tree, models.TreeNode{
				Name:       node.Name,
				List:       mirrorTTRSSTree(node.Items, byID),
				BackendRef: strconv.FormatInt(node.BareID, 10),
			})
			continue
		}
		feed, ok := byID[node.BareID]
		if !ok || node.BareID <= 0 {
			continue
		}
		tree = append(tree, models.TreeNode{Feed: feed.FeedURL})
	}
	return tree
}

// FetchOne refreshes the single feed with the given XML URL and commits.
func (c *TTRSSCollection) FetchOne(ctx context.Context, feed string) error {
	subscriptions, err := c.api.GetFeeds(ctx)
	if err != nil {
		return fmt.Errorf("fetch subscriptions: %w", err)
	}
	for _, subscription := range subscriptions {
		if subscription.FeedURL == feed {
			if err := c.fetchFeed(ctx, subscription); err != nil {
				return err
			}
			return c.Commit(ctx)
		}
	}
	return fmt.Errorf("%w: feed %s", apperrors.ErrNotFound, feed)
}

func (c *TTRSSCollection) fetchFeed(ctx context.Context, feed models.TTRSSFeed) error {
	headlines, err := c.api.GetHeadlines(ctx, feed.ID, c.limit, c.unreadOnly)
	if err != nil {
		c.store.MarkFeedFailed(feed.FeedURL, feed.FeedURL, feed.Title)
		return fmt.Errorf("fetch headlines of %s: %w", feed.FeedURL, err)
	}

	fresh := make([]*models.Abstract, 0, len(headlines))
	for _, headline := range headlines {
		fresh = append(fresh, &models.Abstract{
			ID:         models.EntryID(feed.FeedURL, strconv.FormatInt(headline.ID, 10)),
			Title:      headline.Title,
			Date:       headline.Updated * 1000,
			Link:       headline.Link,
			Read:       !headline.Unread,
			Feed:       feed.FeedURL,
			Starred:    headline.Marked,
			BackendRef: strconv.FormatInt(headline.ID, 10),
		})
	}

	summary := models.NewSummary(feed.FeedURL, feed.Title)
	summary.BackendRef = strconv.FormatInt(feed.ID, 10)
	c.store.MergeFeed(feed.FeedURL, summary, fresh, c.account.AgedOutPolicyOrDefault())
	return nil
}

// GetContent serves the stored blob when present and otherwise pulls the
// article from the server, sanitizes it and caches it.
func (c *TTRSSCollection) GetContent(ctx context.Context, id string) (string, error) {
	content, err := c.store.Content(ctx, id)
	if err == nil {
		return content, nil
	}
	if !apperrors.IsNotFound(err) {
		return "", err
	}

	abstract := c.store.Abstract(id)
	if abstract == nil {
		return "", fmt.Errorf("%w: article %s", apperrors.ErrNotFound, id)
	}
	articleID, err := strconv.ParseInt(abstract.BackendRef, 10, 64)
	if err != nil {
		return "", fmt.Errorf("%w: article %s has no server id", apperrors.ErrNotFound, id)
	}
	article, err := c.api.GetArticle(ctx, articleID)
	if err != nil {
		return "", err
	}
	content = sanitizer.Sanitize(article.Content, abstract.Link)
	if err := c.store.WriteContent(ctx, id, content); err != nil {
		return "", err
	}
	return content, nil
}

// AddFeed subscribes on the server under the named category, forces a
// server-side refresh of the new feed and re-mirrors.
func (c *TTRSSCollection) AddFeed(ctx context.Context, feed, category string) error {
	feedID, err := c.api.Subscribe(ctx, feed, c.categoryID(category))
	if err != nil {
		return err
	}
	if err := c.api.UpdateFeed(ctx, feedID); err != nil {
		c.logger.Warn("server-side feed update failed", "feed", feed, "error", err)
	}
	return c.FetchAll(ctx)
}

func (c *TTRSSCollection) categoryID(category string) int64 {
	if category == "" {
		return 0
	}
	for _, node := range c.tree {
		if node.IsCategory() && node.Name == category {
			if id, err := strconv.ParseInt(node.BackendRef, 10, 64); err == nil {
				return id
			}
		}
	}
	return 0
}

func (c *TTRSSCollection) DelFeed(ctx context.Context, feed string) error {
	summary := c.store.Summary(feed)
	if summary == nil {
		return fmt.Errorf("%w: feed %s", apperrors.ErrNotFound, feed)
	}
	feedID, err := strconv.ParseInt(summary.BackendRef, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: feed %s has no server id", apperrors.ErrNotFound, feed)
	}
	if err := c.api.Unsubscribe(ctx, feedID); err != nil {
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

func (c *TTRSSCollection) AddToFavorites(ctx context.Context, id string) error {
	return c.pushStarred(ctx, id, true)
}

func (c *TTRSSCollection) RemoveFromFavorites(ctx context.Context, id string) error {
	return c.pushStarred(ctx, id, false)
}

func (c *TTRSSCollection) pushStarred(ctx context.Context, id string, starred bool) error {
	abstract, err := c.setStarred(id, starred)
	if err != nil {
		return err
	}
	if articleID, perr := strconv.ParseInt(abstract.BackendRef, 10, 64); perr == nil {
		mode := models.TTRSSModeClear
		if starred {
			mode = models.TTRSSModeSet
		}
		if err := c.api.UpdateArticles(ctx, []int64{articleID}, models.TTRSSFieldStarred, mode); err != nil {
			return err
		}
	}
	return c.store.Commit(ctx)
}

// Commit pushes queued read-state changes in two batched calls, one per
// direction, then persists dirty feeds. A failed push is logged and not
// re-queued.
func (c *TTRSSCollection) Commit(ctx context.Context) error {
	var toRead, toUnread []int64
	for _, abstract := range c.store.DrainDirtyAbstracts() {
		articleID, err := strconv.ParseInt(abstract.BackendRef, 10, 64)
		if err != nil {
			continue
		}
		if abstract.Read {
			toRead = append(toRead, articleID)
		} else {
			toUnread = append(toUnread, articleID)
		}
	}
	if len(toRead) > 0 {
		if err := c.api.UpdateArticles(ctx, toRead, models.TTRSSFieldUnread, models.TTRSSModeClear); err != nil {
			c.logger.Error("push read flags failed", "count", len(toRead), "error", err)
		}
	}
	if len(toUnread) > 0 {
		if err := c.api.UpdateArticles(ctx, toUnread, models.TTRSSFieldUnread, models.TTRSSModeSet); err != nil {
			c.logger.Error("push unread flags failed", "count", len(toUnread), "error", err)
		}
	}
	return c.store.Commit(ctx)
}
