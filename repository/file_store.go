package repository

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	apperrors "feedsync/utils/errors"
)

// fileStore is the shared filesystem layout under one root directory:
//
//	<root>/<account>/feeds/<escaped feed key>   per-feed JSON record
//	<root>/<account>/articles/<article id>      content blob
//	<root>/<account>/feed_list                  mirrored feed tree
//	<root>/<account>/auth_code                  OAuth2 token blob
type fileStore struct {
	root string
}

func (f fileStore) path(account string, parts ...string) string {
	return filepath.Join(append([]string{f.root, escapeKey(account)}, parts...)...)
}

// escapeKey makes arbitrary keys (feed URLs in particular) filename-safe.
func escapeKey(key string) string {
	return url.PathEscape(key)
}

func (f fileStore) write(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %v", apperrors.ErrStorage, filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("%w: write %s: %v", apperrors.ErrStorage, path, err)
	}
	return nil
}

// read returns ErrNotFound for missing files and ErrStorage for anything
// else.
func (f fileStore) read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: read %s: %v", apperrors.ErrStorage, path, err)
	}
	return data, nil
}

func (f fileStore) remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: remove %s: %v", apperrors.ErrStorage, path, err)
	}
	return nil
}

// FileStore bundles the filesystem-backed repositories sharing one root
// directory.
type FileStore struct {
	fileStore
	Records  *FileFeedRecords
	Contents *FileContents
	Trees    *FileFeedTrees
	Tokens   *FileTokens
}

// NewFileStore creates the filesystem-backed store rooted at dir.
func NewFileStore(dir string) *FileStore {
	fs := fileStore{root: dir}
	return &FileStore{
		fileStore: fs,
		Records:   &FileFeedRecords{fs},
		Contents:  &FileContents{fs},
		Trees:     &FileFeedTrees{fs},
		Tokens:    &FileTokens{fs},
	}
}

// Purge removes the whole per-account directory.
func (s *FileStore) Purge(_ context.Context, account string) error {
	if err := os.RemoveAll(s.path(account)); err != nil {
		return fmt.Errorf("%w: purge account %s: %v", apperrors.ErrStorage, account, err)
	}
	return nil
}
