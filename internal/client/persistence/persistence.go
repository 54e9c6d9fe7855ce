// Package persistence stores the credential snapshot (bearer token and the
// serialized user profile) that survives process restarts.
//
// Every backend stores the snapshot as two cookies, auth_token and auth_user,
// scoped to path "/" and expiring after a fixed window (7 days by default).
// An expired cookie reads as absent. A malformed user cookie reads as a nil
// user, never as an error.
//
// Backends:
//   - CookieStore: local SQLite database (default for the CLI).
//   - RedisStore:  shared Redis, cookies become keys with a native TTL.
//   - MemoryStore: process-local, nothing survives a restart.
package persistence

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/venuebook/internal/client/models"
)

// Credentials is the persisted snapshot. An empty Token means "no token".
type Credentials struct {
	Token string
	User  *models.UserProfile
}

// Empty reports whether nothing is persisted.
func (c Credentials) Empty() bool {
	return c.Token == "" && c.User == nil
}

// Store is the single persistence contract the session store writes through.
type Store interface {
	// Load returns the current snapshot. Absent or expired cookies yield zero
	// values; only storage failures are returned as errors.
	Load(ctx context.Context) (Credentials, error)

	// Save writes both cookies with a fresh expiry. An empty token or nil user
	// removes the corresponding cookie.
	Save(ctx context.Context, c Credentials) error

	// Clear removes both cookies.
	Clear(ctx context.Context) error
}

func encodeUser(u *models.UserProfile) (string, error) {
	b, err := json.Marshal(u)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodeUser degrades to nil on malformed input.
func decodeUser(raw string) *models.UserProfile {
	if raw == "" {
		return nil
	}
	var u models.UserProfile
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil
	}
	return &u
}
