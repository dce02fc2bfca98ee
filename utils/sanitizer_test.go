package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize_RemovesActiveContent(t *testing.T) {
	s := NewSanitizer()

	tests := []struct {
		name    string
		input   string
		keep    []string
		dropped []string
	}{
		{
			name:    "script tag",
			input:   `<p>hello</p><script>alert(1)</script>`,
			keep:    []string{"<p>hello</p>"},
			dropped: []string{"script", "alert"},
		},
		{
			name:    "event handler",
			input:   `<p onclick="steal()">text</p>`,
			keep:    []string{"text"},
			dropped: []string{"onclick"},
		},
		{
			name:    "iframe",
			input:   `<p>ok</p><iframe src="http://evil.test/"></iframe>`,
			keep:    []string{"<p>ok</p>"},
			dropped: []string{"iframe"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := s.Sanitize(tt.input, "http://example.com/")
			for _, fragment := range tt.keep {
				assert.Contains(t, out, fragment)
			}
			for _, fragment := range tt.dropped {
				assert.NotContains(t, out, fragment)
			}
		})
	}
}

func TestSanitize_ResolvesRelativeURLs(t *testing.T) {
	s := NewSanitizer()

	out := s.Sanitize(`<a href="/about">about</a><img src="img/pic.png">`, "http://example.com/posts/")
	assert.Contains(t, out, `href="http://example.com/about"`)
	assert.Contains(t, out, `src="http://example.com/posts/img/pic.png"`)
}

func TestSanitize_Idempotent(t *testing.T) {
	s := NewSanitizer()

	input := `<p>text <a href="/x">link</a></p><img src="/y.png"><script>bad()</script>`
	once := s.Sanitize(input, "http://example.com/")
	twice := s.Sanitize(once, "http://example.com/")
	assert.Equal(t, once, twice)
}

func TestSanitize_Empty(t *testing.T) {
	s := NewSanitizer()
	assert.Equal(t, "", s.Sanitize("", "http://example.com/"))
}

func TestStripTags(t *testing.T) {
	assert.Equal(t, "plain text", StripTags(`<p>plain <b>text</b></p>`))
	assert.Equal(t, "", StripTags(`<script>x()</script>`))
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		ref  string
		want string
	}{
		{name: "relative path", base: "http://example.com/a/", ref: "b.html", want: "http://example.com/a/b.html"},
		{name: "absolute path", base: "http://example.com/a/", ref: "/b.html", want: "http://example.com/b.html"},
		{name: "already absolute", base: "http://example.com/", ref: "https://other.test/x", want: "https://other.test/x"},
		{name: "protocol relative", base: "https://example.com/", ref: "//cdn.test/x.png", want: "https://cdn.test/x.png"},
		{name: "unparsable base keeps ref", base: "::::", ref: "/x", want: "/x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveURL(tt.base, tt.ref))
		})
	}
}

func TestEnsureScheme(t *testing.T) {
	assert.Equal(t, "http://example.com/", EnsureScheme("example.com/"))
	assert.Equal(t, "http://example.com/", EnsureScheme("//example.com/"))
	assert.Equal(t, "https://example.com/", EnsureScheme("https://example.com/"))
}
