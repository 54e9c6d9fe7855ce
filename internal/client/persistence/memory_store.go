package persistence

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/venuebook/internal/common"
)

type memoryCookie struct {
	value     string
	expiresAt time.Time
}

// MemoryStore keeps the credential cookies in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	cookies map[string]memoryCookie
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = common.DefaultCredentialTTL
	}
	return &MemoryStore{ttl: ttl, now: time.Now, cookies: make(map[string]memoryCookie)}
}

func (m *MemoryStore) getLocked(name string) string {
	c, ok := m.cookies[name]
	if !ok || !m.now().Before(c.expiresAt) {
		delete(m.cookies, name)
		return ""
	}
	return c.value
}

func (m *MemoryStore) Load(ctx context.Context) (Credentials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Credentials{
		Token: m.getLocked(common.TokenCookieName),
		User:  decodeUser(m.getLocked(common.UserCookieName)),
	}, nil
}

func (m *MemoryStore) Save(ctx context.Context, c Credentials) error {
	var rawUser string
	if c.User != nil {
		var err error
		if rawUser, err = encodeUser(c.User); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	exp := m.now().Add(m.ttl)
	if c.Token == "" {
		delete(m.cookies, common.TokenCookieName)
	} else {
		m.cookies[common.TokenCookieName] = memoryCookie{value: c.Token, expiresAt: exp}
	}
	if c.User == nil {
		delete(m.cookies, common.UserCookieName)
	} else {
		m.cookies[common.UserCookieName] = memoryCookie{value: rawUser, expiresAt: exp}
	}
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.cookies, common.TokenCookieName)
	delete(m.cookies, common.UserCookieName)
	return nil
}

// Expire drops a cookie as if its expiry window had elapsed out of band.
func (m *MemoryStore) Expire(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cookies, name)
}
