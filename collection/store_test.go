package collection

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedsync/models"
	"feedsync/repository"
	apperrors "feedsync/utils/errors"
)

// countingRecords wraps a record repository and counts saves.
type countingRecords struct {
	repository.FeedRecordRepository
	mu    sync.Mutex
	saves int
	fail  bool
}

func (c *countingRecords) Save(ctx context.Context, account string, record *models.FeedRecord) error {
	c.mu.Lock()
	c.saves++
	fail := c.fail
	c.mu.Unlock()
	if fail {
		return errors.New("disk full")
	}
	return c.FeedRecordRepository.Save(ctx, account, record)
}

func TestStore_UnreadPseudoFeed(t *testing.T) {
	store := newTestStore(t)
	store.MergeFeed(testFeed, models.NewSummary("http://example.com/", "Feed"), []*models.Abstract{
		abstractFixture("read1", 300, true, false),
		abstractFixture("unread1", 200, false, false),
		abstractFixture("unread2", 100, false, false),
	}, models.AgedOutKeep)

	unread := store.Articles(UnreadFeed)
	require.Len(t, unread, 2)
	assert.Equal(t, "unread1", unread[0].ID)
	assert.Equal(t, "unread2", unread[1].ID)
}

func TestStore_Favorites(t *testing.T) {
	store := newTestStore(t)
	store.MergeFeed(testFeed, models.NewSummary("http://example.com/", "Feed"), []*models.Abstract{
		abstractFixture("plain", 300, false, false),
		abstractFixture("starred1", 200, false, true),
		abstractFixture("starred2", 100, true, true),
	}, models.AgedOutKeep)

	favorites := store.Favorites()
	require.Len(t, favorites, 2)
	assert.Equal(t, "starred1", favorites[0].ID)
	assert.Equal(t, "starred2", favorites[1].ID)
}

func TestStore_ArticlesUnknownFeed(t *testing.T) {
	store := newTestStore(t)
	assert.Nil(t, store.Articles("http://unknown.test/rss"))
}

func TestStore_CommitOnlyWritesDirtyFeeds(t *testing.T) {
	ctx := context.Background()
	fs := repository.NewFileStore(t.TempDir())
	records := &countingRecords{FeedRecordRepository: fs.Records}
	store := NewStore("main", records, fs.Contents, nil)

	store.MergeFeed(testFeed, models.NewSummary("http://example.com/", "Feed"), []*models.Abstract{
		abstractFixture("a1", 100, false, false),
	}, models.AgedOutKeep)

	require.NoError(t, store.Commit(ctx))
	assert.Equal(t, 1, records.saves)

	// Nothing changed: the second commit writes nothing.
	require.NoError(t, store.Commit(ctx))
	assert.Equal(t, 1, records.saves)

	// A flag change dirties the feed again.
	abstract := store.Abstract("a1")
	abstract.Read = true
	store.UpdateAbstract(abstract.ID, abstract)
	require.NoError(t, store.Commit(ctx))
	assert.Equal(t, 2, records.saves)
}

func TestStore_CommitClearsDirtyBeforeWriting(t *testing.T) {
	ctx := context.Background()
	fs := repository.NewFileStore(t.TempDir())
	records := &countingRecords{FeedRecordRepository: fs.Records, fail: true}
	store := NewStore("main", records, fs.Contents, nil)

	store.MergeFeed(testFeed, models.NewSummary("http://example.com/", "Feed"), []*models.Abstract{
		abstractFixture("a1", 100, false, false),
	}, models.AgedOutKeep)

	require.Error(t, store.Commit(ctx))
	assert.Equal(t, 1, records.saves)

	// The failed feed is not re-queued: the next commit is a no-op.
	records.fail = false
	require.NoError(t, store.Commit(ctx))
	assert.Equal(t, 1, records.saves)
}

func TestStore_DrainDirtyAbstracts(t *testing.T) {
	store := newTestStore(t)
	store.MergeFeed(testFeed, models.NewSummary("http://example.com/", "Feed"), []*models.Abstract{
		abstractFixture("a1", 100, false, false),
		abstractFixture("a2", 200, false, false),
	}, models.AgedOutKeep)

	// Only explicit updates queue a push; merged batches do not.
	assert.Empty(t, store.DrainDirtyAbstracts())

	abstract := store.Abstract("a1")
	abstract.Read = true
	store.UpdateAbstract(abstract.ID, abstract)

	drained := store.DrainDirtyAbstracts()
	require.Len(t, drained, 1)
	assert.Equal(t, "a1", drained[0].ID)

	// Draining clears the queue.
	assert.Empty(t, store.DrainDirtyAbstracts())
}

func TestStore_RemoveSummaryDeletesContent(t *testing.T) {
	ctx := context.Background()
	fs := repository.NewFileStore(t.TempDir())
	store := NewStore("main", fs.Records, fs.Contents, nil)

	store.MergeFeed(testFeed, models.NewSummary("http://example.com/", "Feed"), []*models.Abstract{
		abstractFixture("a1", 100, false, false),
	}, models.AgedOutKeep)
	require.NoError(t, store.WriteContent(ctx, "a1", "<p>body</p>"))
	require.NoError(t, store.Commit(ctx))

	require.NoError(t, store.RemoveSummary(ctx, testFeed))

	assert.Nil(t, store.Summary(testFeed))
	assert.Nil(t, store.Abstract("a1"))
	_, err := store.Content(ctx, "a1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	records, err := fs.Records.List(ctx, "main")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStore_SetStarred(t *testing.T) {
	store := newTestStore(t)
	store.MergeFeed(testFeed, models.NewSummary("http://example.com/", "Feed"), []*models.Abstract{
		abstractFixture("a1", 100, false, false),
	}, models.AgedOutKeep)

	abstract := store.SetStarred("a1", true)
	require.NotNil(t, abstract)
	assert.True(t, abstract.Starred)

	drained := store.DrainDirtyAbstracts()
	require.Len(t, drained, 1)
	assert.Equal(t, "a1", drained[0].ID)

	assert.Nil(t, store.SetStarred("missing", true))
}

func TestStore_NilAbstractDeletesArticle(t *testing.T) {
	store := newTestStore(t)
	store.MergeFeed(testFeed, models.NewSummary("http://example.com/", "Feed"), []*models.Abstract{
		abstractFixture("a1", 200, false, false),
		abstractFixture("a2", 100, false, false),
	}, models.AgedOutKeep)

	store.UpdateAbstract("a1", nil)

	assert.Nil(t, store.Abstract("a1"))
	articles := store.Articles(testFeed)
	require.Len(t, articles, 1)
	assert.Equal(t, "a2", articles[0].ID)
}

func TestStore_NilSummaryDeletesFeedRecord(t *testing.T) {
	ctx := context.Background()
	fs := repository.NewFileStore(t.TempDir())
	store := NewStore("main", fs.Records, fs.Contents, nil)

	store.MergeFeed(testFeed, models.NewSummary("http://example.com/", "Feed"), []*models.Abstract{
		abstractFixture("a1", 100, false, false),
	}, models.AgedOutKeep)
	require.NoError(t, store.Commit(ctx))

	store.UpdateSummary(testFeed, nil)
	assert.Nil(t, store.Summary(testFeed))
	assert.Nil(t, store.Abstract("a1"))

	require.NoError(t, store.Commit(ctx))
	records, err := fs.Records.List(ctx, "main")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStore_RetentionPrunesOldReadArticles(t *testing.T) {
	ctx := context.Background()
	fs := repository.NewFileStore(t.TempDir())
	store := NewStore("main", fs.Records, fs.Contents, nil)
	store.retention = 24 * time.Hour

	now := time.Now().UnixMilli()
	old := time.Now().Add(-48 * time.Hour).UnixMilli()
	store.MergeFeed(testFeed, models.NewSummary("http://example.com/", "Feed"), []*models.Abstract{
		abstractFixture("fresh", now, true, false),
		abstractFixture("oldread", old, true, false),
		abstractFixture("oldunread", old, false, false),
		abstractFixture("oldstarred", old, true, true),
	}, models.AgedOutKeep)
	require.NoError(t, store.WriteContent(ctx, "oldread", "<p>body</p>"))

	require.NoError(t, store.Commit(ctx))

	assert.Nil(t, store.Abstract("oldread"))
	assert.NotContains(t, store.Summary(testFeed).Catelog, "oldread")
	_, err := store.Content(ctx, "oldread")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// Unread, starred and in-window articles survive the prune.
	for _, id := range []string{"fresh", "oldunread", "oldstarred"} {
		assert.NotNil(t, store.Abstract(id), id)
		assert.Contains(t, store.Summary(testFeed).Catelog, id)
	}
}

func TestStore_CatelogSet(t *testing.T) {
	store := newTestStore(t)
	store.MergeFeed(testFeed, models.NewSummary("http://example.com/", "Feed"), []*models.Abstract{
		abstractFixture("a1", 100, false, false),
	}, models.AgedOutKeep)

	set := store.CatelogSet(testFeed)
	assert.Contains(t, set, "a1")
	assert.Nil(t, store.CatelogSet("http://unknown.test/rss"))
}
