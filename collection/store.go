package collection

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"feedsync/models"
	"feedsync/repository"
)

// Store is the per-account in-memory index over summaries and abstracts,
// with dirty tracking so Commit only rewrites feeds that changed. All
// methods are safe for concurrent use.
type Store struct {
	account  string
	logger   *slog.Logger
	records  repository.FeedRecordRepository
	contents repository.ContentRepository

	// retention is how long read, unstarred articles are kept; zero keeps
	// them forever. Aged articles are pruned at commit.
	retention time.Duration

	mu             sync.RWMutex
	summaries      map[string]*models.Summary
	abstracts      map[string]*models.Abstract
	dirtySummaries map[string]struct{}
	dirtyAbstracts map[string]struct{}
}

// NewStore creates an empty store for one account.
func NewStore(account string, records repository.FeedRecordRepository, contents repository.ContentRepository, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		account:        account,
		logger:         logger,
		records:        records,
		contents:       contents,
		summaries:      make(map[string]*models.Summary),
		abstracts:      make(map[string]*models.Abstract),
		dirtySummaries: make(map[string]struct{}),
		dirtyAbstracts: make(map[string]struct{}),
	}
}

// Init loads every persisted feed record into the index. Nothing is dirty
// after a load.
func (s *Store) Init(ctx context.Context) error {
	records, err := s.records.List(ctx, s.account)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range records {
		summary, abstracts := record.ToSummary()
		s.summaries[record.Feed] = summary
		for _, abstract := range abstracts {
			s.abstracts[abstract.ID] = abstract
		}
	}
	return nil
}

// Summary returns the feed's summary, or nil when unknown.
func (s *Store) Summary(feed string) *models.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summaries[feed]
}

// Abstract returns the article's abstract, or nil when unknown.
func (s *Store) Abstract(id string) *models.Abstract {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.abstracts[id]
}

// Feeds returns the keys of every known feed.
func (s *Store) Feeds() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	feeds := make([]string, 0, len(s.summaries))
	for feed := range s.summaries {
		feeds = append(feeds, feed)
	}
	return feeds
}

// Articles returns the feed's catelog in stored order. The UnreadFeed
// pseudo-key returns every unread article across feeds, newest first.
func (s *Store) Articles(feed string) []*models.Abstract {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if feed == UnreadFeed {
		var unread []*models.Abstract
		for _, abstract := range s.abstracts {
			if !abstract.Read {
				unread = append(unread, abstract)
			}
		}
		models.SortAbstracts(unread)
		return unread
	}
	summary := s.summaries[feed]
	if summary == nil {
		return nil
	}
	articles := make([]*models.Abstract, 0, len(summary.Catelog))
	for _, id := range summary.Catelog {
		if abstract := s.abstracts[id]; abstract != nil {
			articles = append(articles, abstract)
		}
	}
	return articles
}

// Favorites returns every starred article, newest first.
func (s *Store) Favorites() []*models.Abstract {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var starred []*models.Abstract
	for _, abstract := range s.abstracts {
		if abstract.Starred {
			starred = append(starred, abstract)
		}
	}
	models.SortAbstracts(starred)
	return starred
}

// UpdateAbstract stores the abstract under id and marks it, and its feed,
// dirty. A nil abstract deletes the article from the index.
func (s *Store) UpdateAbstract(id string, abstract *models.Abstract) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if abstract == nil {
		if old := s.abstracts[id]; old != nil && old.Feed != "" {
			s.dirtySummaries[old.Feed] = struct{}{}
		}
		delete(s.abstracts, id)
		delete(s.dirtyAbstracts, id)
		return
	}
	s.abstracts[id] = abstract
	s.dirtyAbstracts[id] = struct{}{}
	if abstract.Feed != "" {
		s.dirtySummaries[abstract.Feed] = struct{}{}
	}
}

// UpdateSummary stores the summary and marks the feed dirty. A nil
// summary deletes the feed and its articles from the index; the next
// Commit removes the durable record.
func (s *Store) UpdateSummary(feed string, summary *models.Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if summary == nil {
		if old := s.summaries[feed]; old != nil {
			for _, id := range old.Catelog {
				delete(s.abstracts, id)
				delete(s.dirtyAbstracts, id)
			}
		}
		delete(s.summaries, feed)
		s.dirtySummaries[feed] = struct{}{}
		return
	}
	s.summaries[feed] = summary
	s.dirtySummaries[feed] = struct{}{}
}

// SetStarred flips the starred flag under the store lock and queues the
// article for a flag push. Returns nil when the article is unknown.
func (s *Store) SetStarred(id string, starred bool) *models.Abstract {
	s.mu.Lock()
	defer s.mu.Unlock()
	abstract := s.abstracts[id]
	if abstract == nil {
		return nil
	}
	abstract.Starred = starred
	s.dirtyAbstracts[id] = struct{}{}
	if abstract.Feed != "" {
		s.dirtySummaries[abstract.Feed] = struct{}{}
	}
	return abstract
}

// RemoveSummary drops the feed, its abstracts and their content blobs from
// memory and durable storage.
func (s *Store) RemoveSummary(ctx context.Context, feed string) error {
	s.mu.Lock()
	summary := s.summaries[feed]
	var ids []string
	if summary != nil {
		ids = append(ids, summary.Catelog...)
		for _, id := range ids {
			delete(s.abstracts, id)
			delete(s.dirtyAbstracts, id)
		}
	}
	delete(s.summaries, feed)
	delete(s.dirtySummaries, feed)
	s.mu.Unlock()

	if summary == nil {
		return nil
	}
	for _, id := range ids {
		if err := s.contents.Delete(ctx, s.account, id); err != nil {
			s.logger.Warn("delete content blob failed", "account", s.account, "id", id, "error", err)
		}
	}
	return s.records.Delete(ctx, s.account, feed)
}

// DrainDirtyAbstracts returns the abstracts whose flags changed since the
// last drain and clears the set. The caller pushes them to the backend; a
// failed push is not re-queued.
func (s *Store) DrainDirtyAbstracts() []*models.Abstract {
	s.mu.Lock()
	defer s.mu.Unlock()
	drained := make([]*models.Abstract, 0, len(s.dirtyAbstracts))
	for id := range s.dirtyAbstracts {
		if abstract := s.abstracts[id]; abstract != nil {
			drained = append(drained, abstract)
		}
	}
	s.dirtyAbstracts = make(map[string]struct{})
	return drained
}

// Commit writes every dirty feed's record back to storage. Feeds whose
// summary was deleted have their record removed instead. The dirty set
// is cleared up front, so a feed failing to persist is retried only when
// it changes again. When a retention window is configured, aged articles
// are pruned first.
func (s *Store) Commit(ctx context.Context) error {
	s.mu.Lock()
	var pruned []string
	if s.retention > 0 {
		pruned = s.pruneAgedLocked(time.Now().Add(-s.retention).UnixMilli())
	}
	dirty := make([]string, 0, len(s.dirtySummaries))
	for feed := range s.dirtySummaries {
		dirty = append(dirty, feed)
	}
	s.dirtySummaries = make(map[string]struct{})

	records := make([]*models.FeedRecord, 0, len(dirty))
	var removals []string
	for _, feed := range dirty {
		summary := s.summaries[feed]
		if summary == nil {
			removals = append(removals, feed)
			continue
		}
		records = append(records, models.NewFeedRecord(feed, summary, func(id string) *models.Abstract {
			return s.abstracts[id]
		}))
	}
	s.mu.Unlock()

	for _, id := range pruned {
		if err := s.contents.Delete(ctx, s.account, id); err != nil {
			s.logger.Warn("delete content blob failed", "account", s.account, "id", id, "error", err)
		}
	}

	var firstErr error
	for _, feed := range removals {
		if err := s.records.Delete(ctx, s.account, feed); err != nil {
			s.logger.Error("remove feed record failed", "account", s.account, "feed", feed, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("commit %s: %w", feed, err)
			}
		}
	}
	for _, record := range records {
		if err := s.records.Save(ctx, s.account, record); err != nil {
			s.logger.Error("persist feed record failed", "account", s.account, "feed", record.Feed, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("commit %s: %w", record.Feed, err)
			}
		}
	}
	return firstErr
}

// pruneAgedLocked drops read, unstarred articles dated before cutoff from
// every catelog, marking affected feeds dirty, and returns the dropped
// ids so their content blobs can be removed.
func (s *Store) pruneAgedLocked(cutoff int64) []string {
	var pruned []string
	for feed, summary := range s.summaries {
		kept := make([]string, 0, len(summary.Catelog))
		for _, id := range summary.Catelog {
			abstract := s.abstracts[id]
			if abstract != nil && abstract.Read && !abstract.Starred && abstract.Date < cutoff {
				delete(s.abstracts, id)
				delete(s.dirtyAbstracts, id)
				pruned = append(pruned, id)
				continue
			}
			kept = append(kept, id)
		}
		if len(kept) != len(summary.Catelog) {
			summary.Catelog = kept
			s.dirtySummaries[feed] = struct{}{}
		}
	}
	return pruned
}

// Content returns the article's stored content blob.
func (s *Store) Content(ctx context.Context, id string) (string, error) {
	return s.contents.Read(ctx, s.account, id)
}

// WriteContent stores the article's content blob.
func (s *Store) WriteContent(ctx context.Context, id, content string) error {
	return s.contents.Write(ctx, s.account, id, content)
}

// HasContent reports whether a content blob exists for the article.
func (s *Store) HasContent(ctx context.Context, id string) (bool, error) {
	return s.contents.Exists(ctx, s.account, id)
}

// CatelogSet returns the feed's known article ids as a set, for excluding
// already-stored entries at parse time.
func (s *Store) CatelogSet(feed string) map[string]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summary := s.summaries[feed]
	if summary == nil {
		return nil
	}
	set := make(map[string]struct{}, len(summary.Catelog))
	for _, id := range summary.Catelog {
		set[id] = struct{}{}
	}
	return set
}
