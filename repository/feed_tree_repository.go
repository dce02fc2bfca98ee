package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"feedsync/models"
	apperrors "feedsync/utils/errors"
)

const feedListBlob = "feed_list"

// FileFeedTrees persists the mirrored feed tree of managed accounts.
type FileFeedTrees struct {
	fileStore
}

// Load reads the account's mirrored feed tree. No stored tree is an empty
// tree, not an error.
func (s *FileFeedTrees) Load(ctx context.Context, account string) (models.FeedTree, error) {
	data, err := s.read(s.path(account, feedListBlob))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	var tree models.FeedTree
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("%w: corrupt feed tree for %s: %v", apperrors.ErrStorage, account, err)
	}
	return tree, nil
}

// Save persists the account's mirrored feed tree.
func (s *FileFeedTrees) Save(ctx context.Context, account string, tree models.FeedTree) error {
	data, err := json.Marshal(tree)
	if err != nil {
		return fmt.Errorf("%w: encode feed tree for %s: %v", apperrors.ErrStorage, account, err)
	}
	return s.write(s.path(account, feedListBlob), data)
}
