package analysis

import (
	"errors"
	"strings"
)

var (
	// ErrConfig marks missing or unusable backend configuration. Fatal,
	// never retried.
	ErrConfig = errors.New("analysis backend configuration error")

	// ErrIdentityMismatch marks a credential whose principal does not
	// match the allow-listed one. Fatal and security-relevant, never
	// downgraded to a degraded payload.
	ErrIdentityMismatch = errors.New("credential principal mismatch")
)

// IsFatal reports whether err must surface as a hard failure rather
// than a degraded response.
func IsFatal(err error) bool {
	return errors.Is(err, ErrConfig) || errors.Is(err, ErrIdentityMismatch)
}

// defaultTransientSignature is used when no signature is configured.
const defaultTransientSignature = "PERMISSION_DENIED"

// isTransientCredential string-matches a backend error against the
// known stale-credential shape: a 403 carrying the configured
// signature. This is a documented fallback; provider SDK errors carry
// no stable code we can branch on across vendors.
func isTransientCredential(err error, signature string) bool {
	if err == nil {
		return false
	}
	if signature == "" {
		signature = defaultTransientSignature
	}
	msg := err.Error()
	return strings.Contains(msg, "403") && strings.Contains(msg, signature)
}
