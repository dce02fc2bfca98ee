package utils

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer rewrites article HTML into a safe, self-contained form: every
// href/src is resolved against the owning feed's base URL and active content
// is stripped. Sanitizing already-sanitized content is a no-op.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer creates a sanitizer with a configured policy.
func NewSanitizer() *Sanitizer {
	// UGCPolicy allows the standard structural and inline tags (p, a, img,
	// blockquote, pre, ...) while stripping script, iframe, object and
	// event handlers.
	policy := bluemonday.UGCPolicy()

	// Feeds regularly carry media enclosures inline.
	policy.AllowElements("audio", "video", "source", "figure", "figcaption")
	policy.AllowAttrs("src", "controls", "poster").OnElements("audio", "video")
	policy.AllowAttrs("src", "type").OnElements("source")

	return &Sanitizer{policy: policy}
}

var stripPolicy = bluemonday.StrictPolicy()

// StripTags reduces HTML to its text content.
func StripTags(content string) string {
	return strings.TrimSpace(stripPolicy.Sanitize(content))
}

// attributes rewritten to absolute URLs, per element.
var urlAttrs = []struct {
	selector string
	attr     string
}{
	{"a", "href"},
	{"img", "src"},
	{"audio", "src"},
	{"video", "src"},
	{"video", "poster"},
	{"source", "src"},
}

// Sanitize resolves relative hyperlink and media URLs against base and
// strips active content. Malformed URLs are left untouched.
func (s *Sanitizer) Sanitize(content, base string) string {
	if content == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		// Unparsable markup still goes through the policy so nothing
		// active survives.
		return s.policy.Sanitize(content)
	}

	for _, rule := range urlAttrs {
		doc.Find(rule.selector).Each(func(_ int, sel *goquery.Selection) {
			val, ok := sel.Attr(rule.attr)
			if !ok || val == "" {
				return
			}
			sel.SetAttr(rule.attr, ResolveURL(base, val))
		})
	}
	doc.Find("script").Remove()

	html, err := doc.Find("body").Html()
	if err != nil {
		return s.policy.Sanitize(content)
	}
	return s.policy.Sanitize(html)
}
