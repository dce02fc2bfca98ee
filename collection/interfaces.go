package collection

import (
	"context"

	"feedsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/collection_mocks.go -package=mocks

// FeedFetcher downloads raw feed documents. Satisfied by
// driver.FeedHTTPClient.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) (body []byte, notModified bool, err error)
}

// TTRSSAPI is the slice of the TTRSS JSON API the collection consumes.
// Satisfied by driver.TTRSSClient.
type TTRSSAPI interface {
	GetFeedTree(ctx context.Context) (*models.TTRSSTreeContent, error)
	GetFeeds(ctx context.Context) ([]models.TTRSSFeed, error)
	GetHeadlines(ctx context.Context, feedID int64, limit int, unreadOnly bool) ([]models.TTRSSHeadline, error)
	GetArticle(ctx context.Context, articleID int64) (*models.TTRSSArticle, error)
	Subscribe(ctx context.Context, feedURL string, categoryID int64) (int64, error)
	Unsubscribe(ctx context.Context, feedID int64) error
	UpdateFeed(ctx context.Context, feedID int64) error
	UpdateArticles(ctx context.Context, ids []int64, field, mode int) error
}

// ReaderAPI is the slice of the google-reader-dialect API the collection
// consumes. Satisfied by driver.ReaderClient.
type ReaderAPI interface {
	ListSubscriptions(ctx context.Context) (*models.ReaderSubscriptionList, error)
	StreamContents(ctx context.Context, streamID string, limit int, unreadOnly bool, continuation string) (*models.ReaderStreamContents, error)
	EditTag(ctx context.Context, ids []string, addTag, removeTag string) error
	QuickAdd(ctx context.Context, feedURL string) (*models.ReaderQuickAddResult, error)
	Unsubscribe(ctx context.Context, streamID string) error
}

// AccountSaver persists configuration changes made at runtime, such as
// feeds added to or removed from a local account.
type AccountSaver interface {
	SaveAccount(ctx context.Context, account *models.Account) error
}
