// Package utils provides shared URL and HTML helpers for feedsync.
package utils

import (
	"net/url"
	"strings"
)

// ResolveURL resolves ref against base and returns the absolute form.
// Malformed input is returned unchanged rather than dropped: a broken link
// in one entry must never fail the surrounding feed.
func ResolveURL(base, ref string) string {
	if ref == "" {
		return ref
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

// EnsureScheme coerces schemeless feed links ("//example.com/", "example.com")
// into http URLs. Feed publishers routinely omit the scheme on channel links.
func EnsureScheme(link string) string {
	if strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
		return link
	}
	if strings.HasPrefix(link, "//") {
		return "http:" + link
	}
	return "http://" + link
}
