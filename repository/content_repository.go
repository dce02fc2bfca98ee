package repository

import (
	"context"
	"fmt"
	"os"

	apperrors "feedsync/utils/errors"
)

const articlesDir = "articles"

// FileContents persists article content blobs keyed by article id.
type FileContents struct {
	fileStore
}

// Read returns the article's content blob, or ErrNotFound.
func (s *FileContents) Read(ctx context.Context, account, id string) (string, error) {
	data, err := s.read(s.path(account, articlesDir, escapeKey(id)))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Write stores the article's content blob, content-addressed by id.
func (s *FileContents) Write(ctx context.Context, account, id, content string) error {
	return s.write(s.path(account, articlesDir, escapeKey(id)), []byte(content))
}

// Delete removes the article's content blob, tolerating absence.
func (s *FileContents) Delete(ctx context.Context, account, id string) error {
	return s.remove(s.path(account, articlesDir, escapeKey(id)))
}

// Exists reports whether a content blob is stored for the article.
func (s *FileContents) Exists(ctx context.Context, account, id string) (bool, error) {
	_, err := os.Stat(s.path(account, articlesDir, escapeKey(id)))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("%w: stat article %s: %v", apperrors.ErrStorage, id, err)
	}
	return true, nil
}
