package parser

import "strings"

// The three dialects disagree on where everything lives, but their items
// decode into one shared shape: element names are matched by local name
// only, which makes the structs namespace-blind the way real-world feeds
// require (content:encoded, dc:date and friends are frequently declared
// under ad-hoc prefixes).

// xmlLink decodes both forms of a link: RSS's <link>text</link> and
// Atom's <link rel="..." href="..."/>.
type xmlLink struct {
	Rel  string `xml:"rel,attr"`
	Href string `xml:"href,attr"`
	Text string `xml:",chardata"`
}

func (l xmlLink) value() string {
	if l.Href != "" {
		return l.Href
	}
	return strings.TrimSpace(l.Text)
}

// selectLink picks the best candidate among sibling link elements:
// rel="alternate" wins, then links without a rel, then anything else
// (self, hub, ...). The first candidate wins ties.
func selectLink(links []xmlLink) string {
	best := -1
	var chosen string
	for _, link := range links {
		v := link.value()
		if v == "" {
			continue
		}
		if score := linkScore(link.Rel); score > best {
			best = score
			chosen = v
		}
	}
	return chosen
}

func linkScore(rel string) int {
	switch rel {
	case "alternate":
		return 2
	case "":
		return 1
	default:
		return 0
	}
}

// xmlText decodes a text construct: plain chardata and CDATA land in Body;
// Atom type="xhtml" bodies are element content and land in Inner.
type xmlText struct {
	Type  string `xml:"type,attr"`
	Body  string `xml:",chardata"`
	Inner string `xml:",innerxml"`
}

func (t xmlText) value() string {
	if body := strings.TrimSpace(t.Body); body != "" {
		return body
	}
	if t.Type == "xhtml" {
		return strings.TrimSpace(t.Inner)
	}
	return ""
}

type rssDocument struct {
	Channel rssChannel `xml:"channel"`
}

type rdfDocument struct {
	Channel rssChannel `xml:"channel"`
	Items   []rssItem  `xml:"item"`
}

type atomDocument struct {
	Title   xmlText   `xml:"title"`
	Links   []xmlLink `xml:"link"`
	Entries []rssItem `xml:"entry"`
}

// channel presents the Atom feed level in the shared channel shape.
func (d atomDocument) channel() rssChannel {
	return rssChannel{Title: d.Title, Links: d.Links}
}

func (d atomDocument) entrySources() []rssItem {
	return d.Entries
}

type rssChannel struct {
	Title xmlText   `xml:"title"`
	Links []xmlLink `xml:"link"`
	Items []rssItem `xml:"item"`
}

// rssItem is the shared item/entry shape across all three dialects.
type rssItem struct {
	Title  xmlText   `xml:"title"`
	Links  []xmlLink `xml:"link"`
	GUID   string    `xml:"guid"`
	AtomID string    `xml:"id"`

	Content     xmlText `xml:"content"`
	Encoded     xmlText `xml:"encoded"` // content:encoded
	Description xmlText `xml:"description"`
	Summary     xmlText `xml:"summary"`

	Published string `xml:"published"`
	PubDate   string `xml:"pubDate"`
	Updated   string `xml:"updated"`
	DCDate    string `xml:"date"` // dc:date
}

// idSource returns the entry's own identifier, if it has one.
func (i rssItem) idSource() string {
	if i.GUID != "" {
		return i.GUID
	}
	return i.AtomID
}

// contentSource picks the entry body by field priority.
func (i rssItem) contentSource() string {
	for _, t := range []xmlText{i.Content, i.Encoded, i.Description, i.Summary} {
		if v := t.value(); v != "" {
			return v
		}
	}
	return ""
}

// dateSources lists the date candidates in priority order.
func (i rssItem) dateSources() []string {
	return []string{i.Published, i.PubDate, i.Updated, i.DCDate}
}
