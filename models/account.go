package models

import (
	"fmt"

	apperrors "feedsync/utils/errors"
)

// AccountType discriminates the backend a collection talks to.
type AccountType string

const (
	AccountLocal  AccountType = "local"
	AccountTTRSS  AccountType = "ttrss"
	AccountReader AccountType = "inoreader"
)

// AgedOutPolicy decides what happens to an article the remote backend no
// longer returns in its headline window: keep it untouched, or force it
// read on the theory that it aged out of the active window.
type AgedOutPolicy string

const (
	AgedOutKeep     AgedOutPolicy = "keep"
	AgedOutMarkRead AgedOutPolicy = "mark-read"
)

// Account is one configured account. Exactly one Collection exists per
// account for the process lifetime.
type Account struct {
	Name    string        `yaml:"name"`
	Type    AccountType   `yaml:"type"`
	AgedOut AgedOutPolicy `yaml:"aged_out,omitempty"`

	// Local accounts: the configured feed tree.
	Feeds FeedTree `yaml:"feeds,omitempty"`

	// TTRSS accounts.
	Server   string `yaml:"server,omitempty"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`

	// OAuth reader accounts.
	AppID  string `yaml:"appid,omitempty"`
	AppKey string `yaml:"appkey,omitempty"`
	Domain string `yaml:"domain,omitempty"`
}

// Validate checks the fields required by the account's type.
func (a *Account) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("%w: account name is required", apperrors.ErrConfig)
	}
	switch a.Type {
	case AccountLocal:
	case AccountTTRSS:
		if a.Server == "" || a.Username == "" {
			return fmt.Errorf("%w: ttrss account %q needs server and username", apperrors.ErrConfig, a.Name)
		}
	case AccountReader:
		if a.AppID == "" || a.AppKey == "" {
			return fmt.Errorf("%w: inoreader account %q needs appid and appkey", apperrors.ErrConfig, a.Name)
		}
	default:
		return fmt.Errorf("%w: unknown account type %q", apperrors.ErrConfig, a.Type)
	}
	return nil
}

// AgedOutPolicyOrDefault returns the configured policy, defaulting to
// mark-read: both remote backends treat an article that fell out of the
// server's headline window as read. Local feeds never age out (known ids
// are excluded at parse time).
func (a *Account) AgedOutPolicyOrDefault() AgedOutPolicy {
	if a.AgedOut != "" {
		return a.AgedOut
	}
	return AgedOutMarkRead
}

// ReaderDomain returns the configured service domain, defaulting to
// Inoreader's.
func (a *Account) ReaderDomain() string {
	if a.Domain != "" {
		return a.Domain
	}
	return "www.inoreader.com"
}
