package models

import "sort"

// Abstract is the persisted per-article record: metadata plus the mutable
// read/starred flags, distinct from the article's content blob.
type Abstract struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Date       int64  `json:"date"` // epoch milliseconds
	Link       string `json:"link,omitempty"`
	Read       bool   `json:"read"`
	Feed       string `json:"feed"`
	Starred    bool   `json:"starred"`
	BackendRef string `json:"backend_ref,omitempty"` // backend correlation token, e.g. a remote article id
}

// AbstractFromEntry converts a freshly parsed entry into the persisted form.
func AbstractFromEntry(entry Entry, feed string) *Abstract {
	return &Abstract{
		ID:    entry.ID,
		Title: entry.Title,
		Date:  entry.Date,
		Link:  entry.Link,
		Read:  entry.Read,
		Feed:  feed,
	}
}

// Summary is the persisted per-feed record: display metadata plus the
// ordered article catelog (newest first).
type Summary struct {
	Link       string   `json:"link"`
	Title      string   `json:"title"`
	Catelog    []string `json:"catelog"`
	OK         bool     `json:"ok"`
	BackendRef string   `json:"backend_ref,omitempty"` // e.g. remote feed id or stream id
}

// NewSummary creates a summary with an empty catelog.
func NewSummary(link, title string) *Summary {
	return &Summary{Link: link, Title: title, Catelog: []string{}, OK: true}
}

// SortAbstracts orders abstracts by date descending, newest first.
func SortAbstracts(list []*Abstract) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Date > list[j].Date
	})
}

// FeedRecord is the durable representation of one feed: the Summary and its
// Abstracts folded into a single JSON blob, keyed by feed per account.
type FeedRecord struct {
	Feed       string      `json:"feed"`
	Link       string      `json:"link"`
	Title      string      `json:"title"`
	Abstracts  []*Abstract `json:"abstracts"`
	OK         bool        `json:"ok"`
	BackendRef string      `json:"backend_ref,omitempty"`
}

// NewFeedRecord folds a summary and its resolvable abstracts into the
// storage form. Catelog ids without a loaded abstract are dropped, which
// keeps the record's invariant: every listed id has an abstract.
func NewFeedRecord(feed string, summary *Summary, lookup func(id string) *Abstract) *FeedRecord {
	record := &FeedRecord{
		Feed:       feed,
		Link:       summary.Link,
		Title:      summary.Title,
		Abstracts:  make([]*Abstract, 0, len(summary.Catelog)),
		OK:         summary.OK,
		BackendRef: summary.BackendRef,
	}
	for _, id := range summary.Catelog {
		if abstract := lookup(id); abstract != nil {
			record.Abstracts = append(record.Abstracts, abstract)
		}
	}
	return record
}

// ToSummary re-derives the in-memory Summary and Abstract set from the
// durable record.
func (r *FeedRecord) ToSummary() (*Summary, []*Abstract) {
	summary := &Summary{
		Link:       r.Link,
		Title:      r.Title,
		Catelog:    make([]string, 0, len(r.Abstracts)),
		OK:         r.OK,
		BackendRef: r.BackendRef,
	}
	for _, abstract := range r.Abstracts {
		summary.Catelog = append(summary.Catelog, abstract.ID)
	}
	return summary, r.Abstracts
}
