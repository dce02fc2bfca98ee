package models

import "encoding/json"

// TTRSS updateArticle field and mode values.
const (
	TTRSSFieldStarred = 0
	TTRSSFieldUnread  = 2

	TTRSSModeClear = 0
	TTRSSModeSet   = 1
)

// TTRSSResponse is the envelope every TTRSS API call returns. Content is
// decoded per operation once the status has been checked.
type TTRSSResponse struct {
	Status  int             `json:"status"`
	Content json.RawMessage `json:"content"`
}

// TTRSSErrorContent is the content payload of a failed call.
type TTRSSErrorContent struct {
	Error string `json:"error"`
}

// TTRSSLoginContent is the content payload of a successful login.
type TTRSSLoginContent struct {
	SessionID string `json:"session_id"`
}

// TTRSSHeadline is one article headline from getHeadlines.
type TTRSSHeadline struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Link    string `json:"link"`
	Updated int64  `json:"updated"` // epoch seconds
	Unread  bool   `json:"unread"`
	Marked  bool   `json:"marked"`
}

// TTRSSFeed is one subscription from getFeeds.
type TTRSSFeed struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	FeedURL string `json:"feed_url"`
}

// TTRSSTreeNode is one node of the getFeedTree response. Categories nest
// through Items; feed leaves reference subscriptions by BareID.
type TTRSSTreeNode struct {
	Type   string          `json:"type"`
	BareID int64           `json:"bare_id"`
	Name   string          `json:"name"`
	Error  string          `json:"error"`
	Items  []TTRSSTreeNode `json:"items"`
}

// TTRSSTreeContent is the content payload of getFeedTree.
type TTRSSTreeContent struct {
	Categories struct {
		Items []TTRSSTreeNode `json:"items"`
	} `json:"categories"`
}

// TTRSSSubscribeContent is the content payload of subscribeToFeed.
type TTRSSSubscribeContent struct {
	Status struct {
		FeedID int64 `json:"feed_id"`
	} `json:"status"`
}

// TTRSSArticle is one element of the getArticle content payload.
type TTRSSArticle struct {
	Content string `json:"content"`
}
