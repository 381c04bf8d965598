// Package common defines shared constants and sentinel errors used across
// whoopsync components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Credential lifecycle errors. ErrAuthMissing means no token has been
	// stored yet and the authorization flow must be run first.
	ErrAuthMissing = errors.New("not authenticated with WHOOP")

	// Encryption-at-rest errors.
	ErrEncryptionConfig        = errors.New("encryption secret is not configured")
	ErrInvalidEncryptedPayload = errors.New("invalid encrypted payload")
)
