package parser

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "feedsync/utils/errors"
)

const rss2Doc = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/">
  <channel>
    <title>Example Blog</title>
    <link>http://example.com/</link>
    <item>
      <title>First post</title>
      <link>/posts/first</link>
      <guid>abc</guid>
      <description>&lt;p&gt;Hello &lt;a href="/about"&gt;there&lt;/a&gt;&lt;/p&gt;</description>
      <pubDate>Mon, 02 Jan 2006 15:04:05 -0700</pubDate>
    </item>
    <item>
      <title>Second post</title>
      <link>http://example.com/posts/second</link>
      <content:encoded>&lt;p&gt;Body&lt;/p&gt;</content:encoded>
    </item>
  </channel>
</rss>`

const atomDoc = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Atom Feed</title>
  <link rel="self" href="http://example.org/feed.xml"/>
  <link rel="alternate" href="http://example.org/"/>
  <entry>
    <id>urn:entry:1</id>
    <title>Entry one</title>
    <link rel="enclosure" href="http://example.org/audio.mp3"/>
    <link rel="alternate" href="http://example.org/one"/>
    <updated>2023-05-01T10:00:00Z</updated>
    <summary>plain text summary</summary>
  </entry>
</feed>`

const rdfDoc = `<?xml version="1.0" encoding="UTF-8"?>
<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"
         xmlns="http://purl.org/rss/1.0/"
         xmlns:dc="http://purl.org/dc/elements/1.1/">
  <channel rdf:about="http://example.net/">
    <title>RDF Feed</title>
    <link>http://example.net/</link>
  </channel>
  <item rdf:about="http://example.net/item1">
    <title>RDF item</title>
    <link>http://example.net/item1</link>
    <description>text</description>
    <dc:date>2022-11-05T08:15:30Z</dc:date>
  </item>
</rdf:RDF>`

func entryID(base, raw string) string {
	sum := sha256.Sum256([]byte(base + raw))
	return hex.EncodeToString(sum[:])
}

func TestParse_RSS2(t *testing.T) {
	entries, meta, err := Parse([]byte(rss2Doc), nil, Options{})
	require.NoError(t, err)

	assert.Equal(t, "Example Blog", meta.Title)
	assert.Equal(t, "http://example.com/", meta.Link)
	require.Len(t, entries, 2)

	first := entries[0]
	assert.Equal(t, entryID("http://example.com/", "abc"), first.ID)
	assert.Equal(t, "First post", first.Title)
	assert.Equal(t, "http://example.com/posts/first", first.Link)
	assert.Contains(t, first.Content, `href="http://example.com/about"`)

	want := time.Date(2006, 1, 2, 15, 4, 5, 0, time.FixedZone("", -7*3600))
	assert.Equal(t, want.UnixMilli(), first.Date)

	// No guid: the resolved link doubles as the id source.
	second := entries[1]
	assert.Equal(t, entryID("http://example.com/", "http://example.com/posts/second"), second.ID)
	assert.Contains(t, second.Content, "<p>Body</p>")
}

func TestParse_Atom(t *testing.T) {
	entries, meta, err := Parse([]byte(atomDoc), nil, Options{})
	require.NoError(t, err)

	assert.Equal(t, "Atom Feed", meta.Title)
	// rel="alternate" wins over rel="self".
	assert.Equal(t, "http://example.org/", meta.Link)

	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, entryID("http://example.org/", "urn:entry:1"), entry.ID)
	assert.Equal(t, "http://example.org/one", entry.Link)
	assert.Equal(t, time.Date(2023, 5, 1, 10, 0, 0, 0, time.UTC).UnixMilli(), entry.Date)
}

func TestParse_RDF(t *testing.T) {
	entries, meta, err := Parse([]byte(rdfDoc), nil, Options{})
	require.NoError(t, err)

	assert.Equal(t, "RDF Feed", meta.Title)
	assert.Equal(t, "http://example.net/", meta.Link)
	require.Len(t, entries, 1)
	assert.Equal(t, time.Date(2022, 11, 5, 8, 15, 30, 0, time.UTC).UnixMilli(), entries[0].Date)
}

func TestParse_UnsupportedFormat(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "html document", doc: `<html><body>nope</body></html>`},
		{name: "opml document", doc: `<?xml version="1.0"?><opml version="2.0"><body/></opml>`},
		{name: "empty input", doc: ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse([]byte(tt.doc), nil, Options{})
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrUnsupportedFormat)
		})
	}
}

func TestParse_ExcludeSkipsKnownEntries(t *testing.T) {
	exclude := map[string]struct{}{
		entryID("http://example.com/", "abc"): {},
	}
	entries, _, err := Parse([]byte(rss2Doc), exclude, Options{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Second post", entries[0].Title)
}

func TestParse_IDStableAcrossRuns(t *testing.T) {
	first, _, err := Parse([]byte(rss2Doc), nil, Options{})
	require.NoError(t, err)
	second, _, err := Parse([]byte(rss2Doc), nil, Options{})
	require.NoError(t, err)
	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
}

func TestParse_MissingFeedTitle(t *testing.T) {
	doc := `<rss version="2.0"><channel><link>http://x.test/</link></channel></rss>`

	t.Run("strict", func(t *testing.T) {
		_, _, err := Parse([]byte(doc), nil, Options{})
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrMissingField)
	})

	t.Run("lenient substitutes a title", func(t *testing.T) {
		_, meta, err := Parse([]byte(doc), nil, Options{Lenient: true})
		require.NoError(t, err)
		assert.Equal(t, "Untitled", meta.Title)
	})
}

func TestParse_MissingFeedLinkAlwaysFatal(t *testing.T) {
	doc := `<rss version="2.0"><channel><title>No link</title></channel></rss>`
	for _, lenient := range []bool{false, true} {
		_, _, err := Parse([]byte(doc), nil, Options{Lenient: lenient})
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrMissingField)
	}
}

func TestParse_EntryWithoutIDSourceIsSkipped(t *testing.T) {
	doc := `<rss version="2.0"><channel>
	  <title>T</title><link>http://x.test/</link>
	  <item><title>no id no link</title><description>x</description></item>
	  <item><title>ok</title><link>http://x.test/a</link></item>
	</channel></rss>`
	entries, _, err := Parse([]byte(doc), nil, Options{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ok", entries[0].Title)
}

func TestParse_TitleFallsBackToContent(t *testing.T) {
	doc := `<rss version="2.0"><channel>
	  <title>T</title><link>http://x.test/</link>
	  <item><link>http://x.test/a</link><description>&lt;p&gt;Some body text&lt;/p&gt;</description></item>
	</channel></rss>`
	entries, _, err := Parse([]byte(doc), nil, Options{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Some body text", entries[0].Title)
}

func TestParse_MissingDateFallsBackToNow(t *testing.T) {
	doc := `<rss version="2.0"><channel>
	  <title>T</title><link>http://x.test/</link>
	  <item><title>a</title><link>http://x.test/a</link></item>
	</channel></rss>`
	before := time.Now().UnixMilli()
	entries, _, err := Parse([]byte(doc), nil, Options{})
	after := time.Now().UnixMilli()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.GreaterOrEqual(t, entries[0].Date, before)
	assert.LessOrEqual(t, entries[0].Date, after)
}

func TestParse_SchemelessFeedLinkCoerced(t *testing.T) {
	doc := `<rss version="2.0"><channel>
	  <title>T</title><link>//cdn.x.test/</link>
	</channel></rss>`
	_, meta, err := Parse([]byte(doc), nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, "http://cdn.x.test/", meta.Link)
}

func TestParseDate_Layouts(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{name: "rfc1123z", value: "Mon, 02 Jan 2006 15:04:05 -0700"},
		{name: "rfc1123", value: "Mon, 02 Jan 2006 15:04:05 MST"},
		{name: "single digit day", value: "Mon, 2 Jan 2006 15:04:05 -0700"},
		{name: "rfc3339", value: "2006-01-02T15:04:05Z"},
		{name: "no timezone colon", value: "2006-01-02T15:04:05+0900"},
		{name: "sql style", value: "2006-01-02 15:04:05"},
		{name: "date only", value: "2006-01-02"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms, ok := parseDate([]string{tt.value})
			assert.True(t, ok)
			assert.NotZero(t, ms)
		})
	}

	_, ok := parseDate([]string{"not a date"})
	assert.False(t, ok)
}
