// Package parser turns raw feed bytes into canonical entries. It is a pure
// function of its input: no I/O, no mutable state. Three XML dialects are
// understood (RSS 2.0, RDF/RSS 1.0, Atom), detected once from the root
// element and handled exhaustively.
package parser

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"feedsync/models"
	"feedsync/utils"
	apperrors "feedsync/utils/errors"
)

// Options controls how forgiving the parser is about feed-level metadata.
type Options struct {
	// Lenient substitutes a fallback for a missing feed title instead of
	// failing the whole feed. A missing base link is always fatal: nothing
	// in the feed can be resolved without it.
	Lenient bool
}

const fallbackTitle = "Untitled"

var sanitizer = utils.NewSanitizer()

type dialect int

const (
	dialectRSS2 dialect = iota
	dialectRDF
	dialectAtom
)

// Parse decodes raw feed bytes into entries plus feed metadata. Entries
// whose derived id appears in exclude are dropped before sanitization.
// Entry order is preserved as encountered; callers re-sort.
func Parse(raw []byte, exclude map[string]struct{}, opts Options) ([]models.Entry, models.FeedMeta, error) {
	dia, err := detectDialect(raw)
	if err != nil {
		return nil, models.FeedMeta{}, err
	}

	switch dia {
	case dialectRSS2:
		var doc rssDocument
		if err := decodeDocument(raw, &doc); err != nil {
			return nil, models.FeedMeta{}, err
		}
		return assemble(doc.Channel, doc.Channel.Items, exclude, opts)
	case dialectRDF:
		var doc rdfDocument
		if err := decodeDocument(raw, &doc); err != nil {
			return nil, models.FeedMeta{}, err
		}
		// RDF places items beside the channel, but some producers nest
		// them inside it.
		items := append(doc.Items, doc.Channel.Items...)
		return assemble(doc.Channel, items, exclude, opts)
	default:
		var doc atomDocument
		if err := decodeDocument(raw, &doc); err != nil {
			return nil, models.FeedMeta{}, err
		}
		return assemble(doc.channel(), doc.entrySources(), exclude, opts)
	}
}

// detectDialect reads tokens up to the first start element and classifies
// the document by the root's local name.
func detectDialect(raw []byte) (dialect, error) {
	decoder := newDecoder(raw)
	for {
		token, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				return 0, fmt.Errorf("%w: no root element", apperrors.ErrUnsupportedFormat)
			}
			return 0, fmt.Errorf("%w: %v", apperrors.ErrParse, err)
		}
		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "rss", "channel":
			return dialectRSS2, nil
		case "RDF":
			return dialectRDF, nil
		case "feed":
			return dialectAtom, nil
		default:
			return 0, fmt.Errorf("%w: root element %q", apperrors.ErrUnsupportedFormat, start.Name.Local)
		}
	}
}

// newDecoder builds an XML decoder that honors the document's declared
// encoding and tolerates the HTML entities feeds habitually embed.
func newDecoder(raw []byte) *xml.Decoder {
	decoder := xml.NewDecoder(bytes.NewReader(raw))
	decoder.CharsetReader = charset.NewReaderLabel
	decoder.Strict = false
	decoder.Entity = xml.HTMLEntity
	return decoder
}

func decodeDocument(raw []byte, v any) error {
	if err := newDecoder(raw).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrParse, err)
	}
	return nil
}

// assemble extracts feed metadata, then builds one entry per item,
// degrading gracefully inside items: one bad item never aborts the feed.
func assemble(ch rssChannel, items []rssItem, exclude map[string]struct{}, opts Options) ([]models.Entry, models.FeedMeta, error) {
	meta, err := feedMeta(ch, opts)
	if err != nil {
		return nil, models.FeedMeta{}, err
	}

	entries := make([]models.Entry, 0, len(items))
	for _, item := range items {
		if entry, ok := buildEntry(item, meta.Link, exclude); ok {
			entries = append(entries, entry)
		}
	}
	return entries, meta, nil
}

func feedMeta(ch rssChannel, opts Options) (models.FeedMeta, error) {
	title := strings.TrimSpace(html.UnescapeString(ch.Title.value()))
	if title == "" {
		if !opts.Lenient {
			return models.FeedMeta{}, fmt.Errorf("%w: feed title", apperrors.ErrMissingField)
		}
		title = fallbackTitle
	}

	link := selectLink(ch.Links)
	if link == "" {
		return models.FeedMeta{}, fmt.Errorf("%w: feed link", apperrors.ErrMissingField)
	}
	return models.FeedMeta{Title: title, Link: utils.EnsureScheme(link)}, nil
}

// buildEntry derives the entry id, applies the exclusion filter, then
// decodes and sanitizes content. Returns false for items that are excluded
// or carry no identity at all (no id source and no link).
func buildEntry(item rssItem, base string, exclude map[string]struct{}) (models.Entry, bool) {
	link := selectLink(item.Links)
	if link != "" {
		link = utils.ResolveURL(base, link)
	}

	rawID := strings.TrimSpace(item.idSource())
	if rawID == "" {
		rawID = link
	}
	if rawID == "" {
		return models.Entry{}, false
	}
	id := models.EntryID(base, rawID)
	if _, excluded := exclude[id]; excluded {
		return models.Entry{}, false
	}

	content := sanitizer.Sanitize(html.UnescapeString(item.contentSource()), base)

	title := strings.TrimSpace(html.UnescapeString(item.Title.value()))
	if title == "" {
		title = titleFromContent(content)
	}

	date, ok := parseDate(item.dateSources())
	if !ok {
		date = time.Now().UnixMilli()
	}

	return models.Entry{
		ID:      id,
		Title:   title,
		Content: content,
		Date:    date,
		Link:    link,
		Read:    false,
	}, true
}

// titleFromContent falls back to the truncated text of the entry body.
func titleFromContent(content string) string {
	text := strings.Join(strings.Fields(utils.StripTags(content)), " ")
	runes := []rune(text)
	if len(runes) > 60 {
		text = string(runes[:60]) + "..."
	}
	if text == "" {
		return fallbackTitle
	}
	return text
}

// dateLayouts covers the formats seen across RSS pubDate, Atom
// published/updated and dc:date in the wild.
var dateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseDate tries each candidate string against the known layouts and
// returns the first match as epoch milliseconds.
func parseDate(candidates []string) (int64, bool) {
	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, candidate); err == nil {
				return t.UnixMilli(), true
			}
		}
	}
	return 0, false
}
