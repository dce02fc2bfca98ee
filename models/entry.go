// Package models defines the domain and wire types shared across feedsync.
package models

import (
	"crypto/sha256"
	"encoding/hex"
)

// FeedMeta carries the feed-level metadata produced by the parser: the feed
// title and the base link every relative URL in the feed resolves against.
type FeedMeta struct {
	Title string
	Link  string
}

// Entry is the parser's normalized article representation. It is ephemeral:
// entries are consumed into Abstracts immediately and never persisted.
type Entry struct {
	ID      string
	Title   string
	Content string // sanitized HTML
	Date    int64  // epoch milliseconds
	Link    string // absolute URL, may be empty
	Read    bool
}

// EntryID derives the persisted article id: a hex SHA-256 of the feed base
// link concatenated with the entry's own id source (guid/id, else link).
// Prefixing with the feed link namespaces ids per feed, so identical guids
// from different feeds never collide, and the digest is key-safe.
func EntryID(feedBaseLink, rawID string) string {
	sum := sha256.Sum256([]byte(feedBaseLink + rawID))
	return hex.EncodeToString(sum[:])
}
