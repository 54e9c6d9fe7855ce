package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/venuebook/internal/client/models"
	"github.com/dmitrijs2005/venuebook/internal/client/repositories/cookies"
	"github.com/dmitrijs2005/venuebook/internal/common"
	"github.com/dmitrijs2005/venuebook/internal/dbx"
)

// CookieStore keeps the credential cookies in the local SQLite database.
type CookieStore struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

func NewCookieStore(db *sql.DB, ttl time.Duration) *CookieStore {
	if ttl <= 0 {
		ttl = common.DefaultCredentialTTL
	}
	return &CookieStore{db: db, ttl: ttl, now: time.Now}
}

func (s *CookieStore) repo(db dbx.DBTX) cookies.Repository {
	return cookies.NewSQLiteRepository(db)
}

func (s *CookieStore) get(ctx context.Context, db dbx.DBTX, name string) (string, error) {
	c, err := s.repo(db).Get(ctx, name, common.CookiePath)
	if err != nil {
		return "", err
	}
	if c == nil || c.Expired(s.now()) {
		return "", nil
	}
	return c.Value, nil
}

func (s *CookieStore) set(ctx context.Context, db dbx.DBTX, name, value string, ttl time.Duration) error {
	return s.repo(db).Set(ctx, cookies.Cookie{
		Name:      name,
		Path:      common.CookiePath,
		Value:     value,
		ExpiresAt: s.now().Add(ttl),
	})
}

// Token returns the stored token, or "" when absent or expired.
func (s *CookieStore) Token(ctx context.Context) (string, error) {
	return s.get(ctx, s.db, common.TokenCookieName)
}

func (s *CookieStore) SetToken(ctx context.Context, token string, ttl time.Duration) error {
	return s.set(ctx, s.db, common.TokenCookieName, token, ttl)
}

func (s *CookieStore) RemoveToken(ctx context.Context) error {
	return s.repo(s.db).Delete(ctx, common.TokenCookieName, common.CookiePath)
}

// User returns the stored profile; absent, expired or malformed cookies give nil.
func (s *CookieStore) User(ctx context.Context) (*models.UserProfile, error) {
	raw, err := s.get(ctx, s.db, common.UserCookieName)
	if err != nil {
		return nil, err
	}
	return decodeUser(raw), nil
}

func (s *CookieStore) SetUser(ctx context.Context, u *models.UserProfile) error {
	raw, err := encodeUser(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	return s.set(ctx, s.db, common.UserCookieName, raw, s.ttl)
}

func (s *CookieStore) RemoveUser(ctx context.Context) error {
	return s.repo(s.db).Delete(ctx, common.UserCookieName, common.CookiePath)
}

func (s *CookieStore) Load(ctx context.Context) (Credentials, error) {
	token, err := s.Token(ctx)
	if err != nil {
		return Credentials{}, err
	}
	user, err := s.User(ctx)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{Token: token, User: user}, nil
}

func (s *CookieStore) Save(ctx context.Context, c Credentials) error {
	var rawUser string
	if c.User != nil {
		var err error
		if rawUser, err = encodeUser(c.User); err != nil {
			return fmt.Errorf("encode user: %w", err)
		}
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		if _, err := repo.DeleteExpired(ctx, s.now()); err != nil {
			return err
		}

		if c.Token == "" {
			if err := repo.Delete(ctx, common.TokenCookieName, common.CookiePath); err != nil {
				return err
			}
		} else if err := s.set(ctx, tx, common.TokenCookieName, c.Token, s.ttl); err != nil {
			return err
		}

		if c.User == nil {
			return repo.Delete(ctx, common.UserCookieName, common.CookiePath)
		}
		return s.set(ctx, tx, common.UserCookieName, rawUser, s.ttl)
	})
}

func (s *CookieStore) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		if err := repo.Delete(ctx, common.TokenCookieName, common.CookiePath); err != nil {
			return err
		}
		return repo.Delete(ctx, common.UserCookieName, common.CookiePath)
	})
}
