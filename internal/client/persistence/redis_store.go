package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/venuebook/internal/common"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the credential cookies as Redis keys whose TTL is the
// cookie expiry window. Several clients pointed at the same prefix share one
// session.
type RedisStore struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

func NewRedisStore(client redis.Cmdable, prefix string, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = common.DefaultCredentialTTL
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisStore) key(name string) string {
	return r.prefix + name
}

func (r *RedisStore) get(ctx context.Context, name string) (string, error) {
	val, err := r.client.Get(ctx, r.key(name)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", name, err)
	}
	return val, nil
}

func (r *RedisStore) Load(ctx context.Context) (Credentials, error) {
	token, err := r.get(ctx, common.TokenCookieName)
	if err != nil {
		return Credentials{}, err
	}
	rawUser, err := r.get(ctx, common.UserCookieName)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{Token: token, User: decodeUser(rawUser)}, nil
}

func (r *RedisStore) Save(ctx context.Context, c Credentials) error {
	var rawUser string
	if c.User != nil {
		var err error
		if rawUser, err = encodeUser(c.User); err != nil {
			return fmt.Errorf("encode user: %w", err)
		}
	}

	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		if c.Token == "" {
			p.Del(ctx, r.key(common.TokenCookieName))
		} else {
			p.Set(ctx, r.key(common.TokenCookieName), c.Token, r.ttl)
		}
		if c.User == nil {
			p.Del(ctx, r.key(common.UserCookieName))
		} else {
			p.Set(ctx, r.key(common.UserCookieName), rawUser, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save credentials: %w", err)
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context) error {
	err := r.client.Del(ctx, r.key(common.TokenCookieName), r.key(common.UserCookieName)).Err()
	if err != nil {
		return fmt.Errorf("redis clear credentials: %w", err)
	}
	return nil
}
