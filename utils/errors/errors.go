// Package errors defines the sentinel error taxonomy shared across feedsync.
// Base errors are meant to be wrapped with fmt.Errorf("...: %w", err) and
// checked with errors.Is().
package errors

import "errors"

var (
	// ErrParse covers malformed feed documents. A parse failure is fatal
	// for that feed's fetch only; previously stored state is preserved.
	ErrParse = errors.New("feed parse error")

	// ErrUnsupportedFormat is raised when the XML root element is none of
	// rss/rdf:RDF/feed.
	ErrUnsupportedFormat = errors.New("unsupported feed format")

	// ErrMissingField is raised when a required feed-level field (title,
	// base link) is absent in strict mode.
	ErrMissingField = errors.New("missing required feed field")

	// ErrTransport covers network, timeout and non-2xx HTTP failures.
	ErrTransport = errors.New("transport error")

	// ErrAuth covers expired or invalid sessions and tokens. A single
	// transparent re-login/refresh is attempted before this surfaces.
	ErrAuth = errors.New("authentication failed")

	// ErrStorage covers durable read/write failures.
	ErrStorage = errors.New("storage error")

	// ErrConfig covers unknown or invalid account configuration.
	ErrConfig = errors.New("invalid configuration")

	// ErrNotFound is returned for lookups of feeds, articles or tokens
	// that are not present in the store.
	ErrNotFound = errors.New("not found")

	// ErrBusy is returned when a refresh is requested while another
	// refresh scope is already in flight.
	ErrBusy = errors.New("refresh already in progress")
)

// IsParseError reports whether err is a feed parsing failure, including the
// unsupported-format and missing-field cases.
func IsParseError(err error) bool {
	return errors.Is(err, ErrParse) ||
		errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrMissingField)
}

// IsTransportError reports whether err is a network-level failure.
func IsTransportError(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsAuthError reports whether err is an authentication failure.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrAuth)
}

// IsStorageError reports whether err is a durable storage failure.
func IsStorageError(err error) bool {
	return errors.Is(err, ErrStorage)
}

// IsNotFound reports whether err represents a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsFetchError reports whether err should mark a feed as not-ok while
// leaving its previous catelog untouched.
func IsFetchError(err error) bool {
	return IsParseError(err) || IsTransportError(err)
}
