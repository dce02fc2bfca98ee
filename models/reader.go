package models

import "strings"

// Google-reader-compatible stream tags used by the Inoreader API dialect.
const (
	ReaderTagRead    = "user/-/state/com.google/read"
	ReaderTagStarred = "user/-/state/com.google/starred"
)

// ReaderSubscriptionList is the subscription/list response.
type ReaderSubscriptionList struct {
	Subscriptions []ReaderSubscription `json:"subscriptions"`
}

// ReaderSubscription is a single subscribed feed.
type ReaderSubscription struct {
	ID         string           `json:"id"` // stream id, e.g. "feed/http://example.com/rss"
	Title      string           `json:"title"`
	URL        string           `json:"url"` // XML feed URL
	HTMLURL    string           `json:"htmlUrl"`
	Categories []ReaderCategory `json:"categories"`
}

// ReaderCategory is a folder/label a subscription belongs to.
type ReaderCategory struct {
	ID    string `json:"id"` // e.g. "user/1234/label/News"
	Label string `json:"label"`
}

// ReaderStreamContents is the stream/contents response.
type ReaderStreamContents struct {
	ID           string       `json:"id"`
	Items        []ReaderItem `json:"items"`
	Continuation string       `json:"continuation,omitempty"`
}

// ReaderItem is one article from stream/contents.
type ReaderItem struct {
	ID         string        `json:"id"` // long form, e.g. "tag:google.com,2005:reader/item/00000000f8d2fca3"
	Title      string        `json:"title"`
	Published  int64         `json:"published"` // epoch seconds
	Categories []string      `json:"categories"`
	Canonical  []ReaderLink  `json:"canonical"`
	Summary    ReaderContent `json:"summary"`
}

// ReaderLink is an href carrier in reader API responses.
type ReaderLink struct {
	Href string `json:"href"`
}

// ReaderContent is an article body in reader API responses.
type ReaderContent struct {
	Content string `json:"content"`
}

// ReaderQuickAddResult is the subscription/quickadd response.
type ReaderQuickAddResult struct {
	NumResults int    `json:"numResults"`
	StreamID   string `json:"streamId"`
}

// ShortID returns the trailing segment of the item's long-form id, the
// compact form the edit-tag endpoint accepts.
func (i ReaderItem) ShortID() string {
	idx := strings.LastIndexByte(i.ID, '/')
	if idx < 0 {
		return i.ID
	}
	return i.ID[idx+1:]
}

// HasTag reports whether one of the item's category tags ends with the
// given state suffix (tags carry a user-specific prefix).
func (i ReaderItem) HasTag(suffix string) bool {
	for _, tag := range i.Categories {
		if strings.HasSuffix(tag, suffix) {
			return true
		}
	}
	return false
}

// Link returns the first canonical URL, or empty when absent.
func (i ReaderItem) Link() string {
	if len(i.Canonical) > 0 {
		return i.Canonical[0].Href
	}
	return ""
}
