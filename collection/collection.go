// Package collection implements the per-account synchronization unit: an
// in-memory Summary/Abstract index over durable per-feed records, with one
// backend flavor per account type behind a single Collection interface.
package collection

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"feedsync/driver"
	"feedsync/models"
	"feedsync/repository"
	apperrors "feedsync/utils/errors"
)

// UnreadFeed is the pseudo-feed key selecting every unread article across
// the account.
const UnreadFeed = "<unread>"

// Collection is one account's view of its feeds and articles. Exactly one
// Collection exists per configured account for the process lifetime.
// Mutating operations change the in-memory index immediately; Commit
// persists dirty feeds and pushes queued flag changes to remote backends.
type Collection interface {
	Name() string
	Type() models.AccountType

	// Init loads the persisted index. Called once before anything else.
	Init(ctx context.Context) error

	GetSummary(feed string) *models.Summary
	GetAbstract(id string) *models.Abstract
	GetFeedList() models.FeedTree
	// GetArticles accepts a feed key or the UnreadFeed pseudo-key.
	GetArticles(feed string) []*models.Abstract
	GetFavorites() []*models.Abstract
	GetContent(ctx context.Context, id string) (string, error)

	// UpdateAbstract and UpdateSummary replace the stored value; passing
	// nil deletes it.
	UpdateAbstract(id string, abstract *models.Abstract)
	UpdateSummary(feed string, summary *models.Summary)

	AddFeed(ctx context.Context, feed, category string) error
	DelFeed(ctx context.Context, feed string) error
	AddToFavorites(ctx context.Context, id string) error
	RemoveFromFavorites(ctx context.Context, id string) error

	FetchOne(ctx context.Context, feed string) error
	FetchAll(ctx context.Context) error

	Commit(ctx context.Context) error
	// Clean destroys every durable trace of the account.
	Clean(ctx context.Context) error
}

// Deps carries everything a collection needs besides its account. The
// backend API fields are optional; when nil the real driver client is
// built from the account's credentials.
type Deps struct {
	Logger   *slog.Logger
	Records  repository.FeedRecordRepository
	Contents repository.ContentRepository
	Trees    repository.FeedTreeRepository
	Tokens   repository.TokenRepository
	Purger   repository.AccountPurger
	Accounts AccountSaver

	Fetcher FeedFetcher
	TTRSS   TTRSSAPI
	Reader  ReaderAPI

	Timeout         time.Duration
	FetchLimit      int
	FetchUnreadOnly bool
	Lenient         bool
	// Retention prunes read, unstarred articles older than the window at
	// commit; zero keeps them forever.
	Retention time.Duration
}

const defaultFetchLimit = 100

// New builds the collection flavor matching the account type.
func New(account *models.Account, deps Deps) (Collection, error) {
	if err := account.Validate(); err != nil {
		return nil, err
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.FetchLimit <= 0 {
		deps.FetchLimit = defaultFetchLimit
	}
	logger := deps.Logger.With("account", account.Name, "type", string(account.Type))
	store := NewStore(account.Name, deps.Records, deps.Contents, logger)
	store.retention = deps.Retention

	switch account.Type {
	case models.AccountLocal:
		return newLocalCollection(account, store, deps, logger), nil
	case models.AccountTTRSS:
		api := deps.TTRSS
		if api == nil {
			api = driver.NewTTRSSClient(account.Server, account.Username, account.Password, deps.Timeout, logger)
		}
		return newTTRSSCollection(account, store, api, deps, logger), nil
	case models.AccountReader:
		api := deps.Reader
		if api == nil {
			tokens := &accountTokens{repo: deps.Tokens, account: account.Name}
			authorizer := driver.NewLoopbackAuthorizer(account.ReaderDomain(), account.AppID, nil, logger)
			api = driver.NewReaderClient(account.ReaderDomain(), account.AppID, account.AppKey, tokens, authorizer, deps.Timeout, logger)
		}
		return newReaderCollection(account, store, api, deps, logger), nil
	default:
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrConfig, account.Type)
	}
}

// accountTokens binds the account-keyed token repository to the
// single-account TokenStore the driver expects.
type accountTokens struct {
	repo    repository.TokenRepository
	account string
}

func (t *accountTokens) Load(ctx context.Context) (*models.OAuth2Token, error) {
	return t.repo.Load(ctx, t.account)
}

func (t *accountTokens) Save(ctx context.Context, token *models.OAuth2Token) error {
	return t.repo.Save(ctx, t.account, token)
}

// base carries the store-backed behavior every collection flavor shares.
type base struct {
	account *models.Account
	store   *Store
	purger  repository.AccountPurger
	logger  *slog.Logger
}

func (b *base) Name() string             { return b.account.Name }
func (b *base) Type() models.AccountType { return b.account.Type }

func (b *base) Init(ctx context.Context) error { return b.store.Init(ctx) }

func (b *base) GetSummary(feed string) *models.Summary  { return b.store.Summary(feed) }
func (b *base) GetAbstract(id string) *models.Abstract  { return b.store.Abstract(id) }
func (b *base) GetArticles(feed string) []*models.Abstract {
	return b.store.Articles(feed)
}
func (b *base) GetFavorites() []*models.Abstract { return b.store.Favorites() }

func (b *base) UpdateAbstract(id string, abstract *models.Abstract) {
	b.store.UpdateAbstract(id, abstract)
}
func (b *base) UpdateSummary(feed string, summary *models.Summary) {
	b.store.UpdateSummary(feed, summary)
}

func (b *base) GetContent(ctx context.Context, id string) (string, error) {
	return b.store.Content(ctx, id)
}

func (b *base) Commit(ctx context.Context) error { return b.store.Commit(ctx) }

func (b *base) Clean(ctx context.Context) error {
	if b.purger == nil {
		return nil
	}
	return b.purger.Purge(ctx, b.account.Name)
}

// setStarred flips the starred flag in the index and returns the
// abstract, or ErrNotFound when the article is unknown.
func (b *base) setStarred(id string, starred bool) (*models.Abstract, error) {
	abstract := b.store.SetStarred(id, starred)
	if abstract == nil {
		return nil, fmt.Errorf("%w: article %s", apperrors.ErrNotFound, id)
	}
	return abstract, nil
}
