// Package api declares every remote operation once, with the cache tags it
// provides or invalidates and its effect on the session, and runs them
// through the transport and the query cache.
package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"sync"

	"github.com/dmitrijs2005/venuebook/internal/client/client"
	"github.com/dmitrijs2005/venuebook/internal/client/querycache"
	"github.com/dmitrijs2005/venuebook/internal/client/session"
	"github.com/dmitrijs2005/venuebook/internal/logging"
)

// None is the argument of operations that take none.
type None struct{}

// Ack is the body of operations that answer with a bare message.
type Ack struct {
	Message string `json:"message"`
}

// Query is a read operation whose result is cached under (Name, argument).
type Query[A, T any] struct {
	Name     string
	Path     func(A) string
	Params   func(A) url.Values
	Provides func(A, T) []querycache.Tag
	// OnError runs for every failed fetch, including background re-fetches.
	OnError func(ctx context.Context, c *Client, err error)
}

// Mutation is a write operation. On success the tags it invalidates are
// re-fetched (when subscribed) or dropped.
type Mutation[A, T any] struct {
	Name        string
	Method      string
	Path        func(A) string
	Body        func(A) any
	Invalidates func(A, T) []querycache.Tag
	OnSuccess   func(ctx context.Context, c *Client, arg A, res T)
	// OnSettled runs after success and failure alike.
	OnSettled func(ctx context.Context, c *Client, err error)
}

type Client struct {
	transport client.Transport
	cache     *querycache.Cache
	session   *session.Store
	logger    logging.Logger

	mu          sync.Mutex
	lastToken   string
	unsubscribe func()
}

// New wires the registry to its collaborators. Every change of the session
// token (login, registration, logout, forced logout) resets the cache, so no
// data fetched for one identity is ever served to another.
func New(transport client.Transport, cache *querycache.Cache, sess *session.Store, logger logging.Logger) *Client {
	c := &Client{
		transport: transport,
		cache:     cache,
		session:   sess,
		logger:    logger.With("component", "api"),
		lastToken: sess.Token(),
	}
	c.unsubscribe = sess.Subscribe(c.onSession)
	return c
}

func (c *Client) Session() *session.Store { return c.session }

func (c *Client) Cache() *querycache.Cache { return c.cache }

// Close detaches the client from the session.
func (c *Client) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
}

func (c *Client) onSession(st session.State) {
	c.mu.Lock()
	changed := st.Token != c.lastToken
	c.lastToken = st.Token
	c.mu.Unlock()

	if changed {
		c.cache.Reset()
	}
}

// precheck validates struct arguments before any request is issued.
func precheck(arg any) error {
	v := reflect.ValueOf(arg)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}
	return client.Validate(arg)
}

func (q Query[A, T]) fetcher(c *Client, arg A) querycache.Fetcher {
	return func(ctx context.Context) (any, []querycache.Tag, error) {
		req := client.Request{Method: http.MethodGet, Path: q.Path(arg)}
		if q.Params != nil {
			req.Query = q.Params(arg)
		}

		var out T
		if err := c.transport.Do(ctx, req, &out); err != nil {
			if q.OnError != nil {
				q.OnError(ctx, c, err)
			}
			return nil, nil, err
		}

		var tags []querycache.Tag
		if q.Provides != nil {
			tags = q.Provides(arg, out)
		}
		return out, tags, nil
	}
}

func (q Query[A, T]) key(arg A) querycache.Key {
	return querycache.NewKey(q.Name, arg)
}

// RunQuery returns the cached result of q for arg, fetching it when absent
// or stale.
func RunQuery[A, T any](ctx context.Context, c *Client, q Query[A, T], arg A) (T, error) {
	if err := precheck(arg); err != nil {
		var zero T
		return zero, err
	}
	return querycache.Get[T](ctx, c.cache, q.key(arg), q.fetcher(c, arg))
}

// Watch subscribes fn to q for arg: it receives the current result and every
// re-fetch caused by invalidation until the subscription is closed.
func Watch[A, T any](c *Client, q Query[A, T], arg A, fn func(T, error)) *querycache.Subscription {
	return c.cache.Subscribe(q.key(arg), q.fetcher(c, arg), func(v any, err error) {
		if err != nil {
			var zero T
			fn(zero, err)
			return
		}
		t, ok := v.(T)
		if !ok {
			var zero T
			fn(zero, fmt.Errorf("%s: unexpected result type %T", q.Name, v))
			return
		}
		fn(t, nil)
	})
}

// RunMutation issues m for arg. Session side effects run before it returns.
func RunMutation[A, T any](ctx context.Context, c *Client, m Mutation[A, T], arg A) (res T, err error) {
	if m.OnSettled != nil {
		defer func() { m.OnSettled(ctx, c, err) }()
	}

	if err = precheck(arg); err != nil {
		return res, err
	}

	req := client.Request{Method: m.Method, Path: m.Path(arg)}
	if m.Body != nil {
		req.Body = m.Body(arg)
	}
	if err = c.transport.Do(ctx, req, &res); err != nil {
		c.logger.Debug(ctx, "mutation failed", "op", m.Name, "error", err)
		return res, err
	}

	if m.OnSuccess != nil {
		m.OnSuccess(ctx, c, arg, res)
	}
	if m.Invalidates != nil {
		if tags := m.Invalidates(arg, res); len(tags) > 0 {
			c.cache.Invalidate(tags...)
		}
	}
	return res, nil
}
