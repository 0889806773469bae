// Package auth stores API tokens in the OS keychain, one per API host.
package auth

import (
	"errors"
	"net/url"

	"nathanbeddoewebdev/deployctl/internal/util"
)

const ServiceName = "deployctl"

var ErrTokenNotFound = errors.New("auth token not found")

// Store persists tokens keyed by account (the API host).
type Store interface {
	SetToken(account string, token string) error
	GetToken(account string) (string, error)
	DeleteToken(account string) error
}

// DefaultStore returns the standard auth store backed by the OS keychain.
func DefaultStore() Store {
	return NewKeyringStore(ServiceName)
}

// AccountFor derives the keychain account from an API base URL, so that
// tokens for different endpoints do not collide. Unparseable input is
// used as-is after normalization.
func AccountFor(apiURL string) string {
	if u, err := url.Parse(apiURL); err == nil && u.Host != "" {
		return util.NormalizeKey(u.Host)
	}
	return util.NormalizeKey(apiURL)
}
