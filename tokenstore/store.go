// Package tokenstore persists session tokens on the device running the app.
//
// Stores are deliberately non-failing: a read that cannot be served returns
// the empty string, and writes and deletes absorb their errors after logging
// them. Callers treat a missing token as "signed out" rather than as a fault.
package tokenstore

import (
	"context"

	"github.com/rs/zerolog/log"
)

// SessionTokenKey is the key under which the active session token is stored.
const SessionTokenKey = "budgetwise_jwt_token"

// Store is a key-value store for session tokens.
type Store interface {
	// Get returns the stored value for key, or "" if absent or unreadable.
	Get(ctx context.Context, key string) string
	// Save stores value under key. Failures are logged and swallowed.
	Save(ctx context.Context, key, value string)
	// Delete removes key. Deleting an absent key is a no-op.
	Delete(ctx context.Context, key string)
}

// Open returns the most capable store available on this device: an encrypted
// file-backed store when a user config directory exists, otherwise an
// in-memory store that lasts for the process lifetime.
func Open() Store {
	fs, err := NewFileStore()
	if err != nil {
		log.Warn().Err(err).Msg("file token store unavailable, falling back to in-memory store")
		return NewMemoryStore()
	}
	return fs
}
