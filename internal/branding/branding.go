// Package branding holds the static product identity consumed by the CLI
// and by storage key helpers. No behavior lives here beyond key matching.
package branding

import "strings"

const (
	// Name is the product display name.
	Name = "BaseKit"

	// Slug is the lowercase machine name (binary name, env prefix base).
	Slug = "basekit"

	// DisplayName is the long-form name used in user-facing output.
	DisplayName = "BaseKit Starter"

	// EnvPrefix prefixes all environment variables read by the client.
	EnvPrefix = "BASEKIT_"

	// keyPrefix prefixes every key this client writes to local storage.
	keyPrefix = "bk-"

	// authTokenMarker is the substring identifying persisted auth tokens.
	// Sign-out cleanup removes every key containing it.
	authTokenMarker = "-auth-token"
)

// AuthTokenKey returns the storage key under which the session for the
// given project ref is persisted, e.g. "bk-myproject-auth-token".
func AuthTokenKey(projectRef string) string {
	return keyPrefix + projectRef + authTokenMarker
}

// IsAuthTokenKey reports whether key holds a persisted auth token and is
// therefore subject to sign-out cleanup.
func IsAuthTokenKey(key string) bool {
	return strings.HasPrefix(key, keyPrefix) && strings.Contains(key, authTokenMarker)
}
