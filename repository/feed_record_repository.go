package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"feedsync/models"
	apperrors "feedsync/utils/errors"
)

const feedsDir = "feeds"

// FileFeedRecords persists one JSON record per subscribed feed.
type FileFeedRecords struct {
	fileStore
}

// List loads every per-feed record of the account. A missing directory is
// an empty store; an unreadable or undecodable record is storage
// corruption and fails loudly.
func (s *FileFeedRecords) List(ctx context.Context, account string) ([]*models.FeedRecord, error) {
	dir := s.path(account, feedsDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: list %s: %v", apperrors.ErrStorage, dir, err)
	}

	records := make([]*models.FeedRecord, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := s.read(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		var record models.FeedRecord
		if err := json.Unmarshal(data, &record); err != nil {
			return nil, fmt.Errorf("%w: corrupt feed record %s: %v", apperrors.ErrStorage, entry.Name(), err)
		}
		records = append(records, &record)
	}
	return records, nil
}

// Save writes the record as one JSON blob keyed by its feed.
func (s *FileFeedRecords) Save(ctx context.Context, account string, record *models.FeedRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("%w: encode feed record %s: %v", apperrors.ErrStorage, record.Feed, err)
	}
	return s.write(s.path(account, feedsDir, escapeKey(record.Feed)), data)
}

// Delete removes the feed's record. Deleting an absent record is a no-op.
func (s *FileFeedRecords) Delete(ctx context.Context, account, feed string) error {
	return s.remove(s.path(account, feedsDir, escapeKey(feed)))
}
