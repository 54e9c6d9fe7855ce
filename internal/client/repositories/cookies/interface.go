// Package cookies persists named, path-scoped, expiring values in the local
// SQLite store. It is the storage behind the credential cookies.
package cookies

import (
	"context"
	"time"
)

// Cookie is one stored record. ExpiresAt is kept with second precision.
type Cookie struct {
	Name      string
	Path      string
	Value     string
	ExpiresAt time.Time
}

// Expired reports whether the cookie is past its expiry at now.
func (c Cookie) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

type Repository interface {
	Get(ctx context.Context, name, path string) (*Cookie, error)
	Set(ctx context.Context, c Cookie) error
	Delete(ctx context.Context, name, path string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	List(ctx context.Context) ([]Cookie, error)
	Clear(ctx context.Context) error
}
