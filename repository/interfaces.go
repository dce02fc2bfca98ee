// Package repository provides the durable key/value blob contracts behind
// each account's collection, plus the filesystem drivers implementing them.
package repository

import (
	"context"

	"feedsync/models"
)

// FeedRecordRepository stores one durable record per feed per account: the
// feed's Summary folded together with its Abstracts.
type FeedRecordRepository interface {
	// List loads every stored record for the account. A missing store
	// reads as empty.
	List(ctx context.Context, account string) ([]*models.FeedRecord, error)
	Save(ctx context.Context, account string, record *models.FeedRecord) error
	Delete(ctx context.Context, account, feed string) error
}

// ContentRepository stores one opaque text blob per article, addressed by
// the article's hashed id, independent of the per-feed record.
type ContentRepository interface {
	Read(ctx context.Context, account, id string) (string, error)
	Write(ctx context.Context, account, id, content string) error
	Delete(ctx context.Context, account, id string) error
	Exists(ctx context.Context, account, id string) (bool, error)
}

// FeedTreeRepository stores the mirrored folder structure of a remote
// account.
type FeedTreeRepository interface {
	Load(ctx context.Context, account string) (models.FeedTree, error)
	Save(ctx context.Context, account string, tree models.FeedTree) error
}

// TokenRepository stores the OAuth2 token blob of an OAuth-backed account.
type TokenRepository interface {
	Load(ctx context.Context, account string) (*models.OAuth2Token, error)
	Save(ctx context.Context, account string, token *models.OAuth2Token) error
}

// AccountPurger removes every durable trace of an account. Implemented by
// the store driver and used when an account is destroyed.
type AccountPurger interface {
	Purge(ctx context.Context, account string) error
}
