// Package querycache caches query results keyed by operation and argument,
// labels them with tags, and keeps them in sync through tag invalidation.
//
// Concurrent fetches of the same key share one in-flight request. Entries
// with active subscribers are re-fetched in the background when one of their
// tags is invalidated and the new result is pushed to every subscriber.
// Entries without subscribers are dropped and fetched lazily on next use.
package querycache

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/venuebook/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Fetcher performs the network request for one key and reports the tags the
// result provides.
type Fetcher func(ctx context.Context) (value any, tags []Tag, err error)

// Listener receives every result (or error) for a subscribed key.
type Listener func(value any, err error)

type entry struct {
	value    any
	err      error
	hasValue bool
	stale    bool
	tags     []Tag
	fetcher  Fetcher
	subs     map[string]*Subscription
}

// flight tracks invalidations that arrive while a fetch is in progress.
type flight struct {
	epoch       uint64
	oldTags     []Tag
	invalidated map[Tag]struct{}
}

type Stats struct {
	Entries     int
	InFlight    int
	Subscribers int
}

type Cache struct {
	mu      sync.Mutex
	entries map[Key]*entry
	index   map[Tag]map[Key]struct{}
	flights map[Key]*flight
	// epoch changes on Reset; results of fetches started before are discarded.
	epoch uint64

	group  singleflight.Group
	ctx    context.Context
	logger logging.Logger
}

// New creates a cache. Background re-fetches run under ctx.
func New(ctx context.Context, logger logging.Logger) *Cache {
	return &Cache{
		entries: make(map[Key]*entry),
		index:   make(map[Tag]map[Key]struct{}),
		flights: make(map[Key]*flight),
		ctx:     ctx,
		logger:  logger.With("component", "querycache"),
	}
}

// Fetch returns the cached value for key when it is fresh and fetches it
// otherwise. Errors are never cached.
func (c *Cache) Fetch(ctx context.Context, key Key, fetcher Fetcher) (any, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && e.hasValue && !e.stale {
		v := e.value
		c.mu.Unlock()
		c.logger.Debug(ctx, "cache hit", "key", key.String())
		return v, nil
	}
	c.mu.Unlock()

	return c.do(ctx, key, fetcher)
}

// Peek returns the cached value without fetching.
func (c *Cache) Peek(key Key) (value any, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, found := c.entries[key]
	if !found || !e.hasValue {
		return nil, false
	}
	return e.value, true
}

func (c *Cache) do(ctx context.Context, key Key, fetcher Fetcher) (any, error) {
	c.mu.Lock()
	epoch := c.epoch
	c.mu.Unlock()

	// Requests started before a Reset are never joined after it.
	flightKey := fmt.Sprintf("%d|%s", epoch, key.String())
	v, err, shared := c.group.Do(flightKey, func() (any, error) {
		f := c.beginFlight(key, epoch)
		c.logger.Debug(ctx, "fetching", "key", key.String())
		// One caller cancelling must not fail the others sharing this request.
		value, tags, err := fetcher(context.WithoutCancel(ctx))
		c.finishFlight(key, f, fetcher, value, tags, err)
		return value, err
	})
	if shared {
		c.logger.Debug(ctx, "joined in-flight request", "key", key.String())
	}
	return v, err
}

func (c *Cache) beginFlight(key Key, epoch uint64) *flight {
	c.mu.Lock()
	defer c.mu.Unlock()

	f := &flight{epoch: epoch, invalidated: make(map[Tag]struct{})}
	if epoch != c.epoch {
		return f
	}
	if e, ok := c.entries[key]; ok {
		f.oldTags = e.tags
	}
	c.flights[key] = f
	return f
}

func (c *Cache) finishFlight(key Key, f *flight, fetcher Fetcher, value any, tags []Tag, err error) {
	c.mu.Lock()
	if c.flights[key] == f {
		delete(c.flights, key)
	}
	if f.epoch != c.epoch {
		c.mu.Unlock()
		c.logger.Debug(c.ctx, "discarding result fetched before reset", "key", key.String())
		return
	}

	e, ok := c.entries[key]
	if !ok {
		e = &entry{subs: make(map[string]*Subscription)}
		c.entries[key] = e
	}
	if e.fetcher == nil {
		e.fetcher = fetcher
	}

	if err != nil {
		e.err = err
		subs := e.subscribers()
		c.mu.Unlock()
		deliver(subs, nil, err)
		return
	}

	c.unindexLocked(key, e.tags)
	e.value, e.err, e.hasValue = value, nil, true
	e.tags = tags
	e.stale = f.touched(tags) || f.touched(f.oldTags)
	c.indexLocked(key, tags)

	subs := e.subscribers()
	refetch := e.stale && len(subs) > 0
	c.mu.Unlock()

	deliver(subs, value, nil)
	if refetch {
		c.logger.Debug(c.ctx, "result invalidated in flight, re-fetching", "key", key.String())
		go c.refetch(key)
	}
}

func (f *flight) touched(tags []Tag) bool {
	for _, t := range tags {
		if _, ok := f.invalidated[t]; ok {
			return true
		}
	}
	return false
}

// Subscribe registers listener as an active consumer of key. The current
// value is delivered immediately when fresh; otherwise a fetch starts in the
// background.
func (c *Cache) Subscribe(key Key, fetcher Fetcher, listener Listener) *Subscription {
	s := &Subscription{id: uuid.NewString(), key: key, cache: c, listener: listener, done: make(chan struct{})}

	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		e = &entry{subs: make(map[string]*Subscription)}
		c.entries[key] = e
	}
	e.fetcher = fetcher
	e.subs[s.id] = s
	s.epoch = c.epoch
	fresh := e.hasValue && !e.stale
	value := e.value
	c.mu.Unlock()

	if fresh {
		s.deliver(value, nil)
		return s
	}
	go c.refetch(key)
	return s
}

func (c *Cache) refetch(key Key) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok || len(e.subs) == 0 || e.fetcher == nil || (e.hasValue && !e.stale) {
		c.mu.Unlock()
		return
	}
	fetcher := e.fetcher
	c.mu.Unlock()

	if _, err := c.do(c.ctx, key, fetcher); err != nil {
		c.logger.Debug(c.ctx, "background fetch failed", "key", key.String(), "error", err)
	}
}

// Invalidate marks every entry carrying any of tags as out of date.
// Subscribed entries are re-fetched in the background; the rest are dropped.
func (c *Cache) Invalidate(tags ...Tag) {
	c.mu.Lock()
	for _, f := range c.flights {
		for _, t := range tags {
			f.invalidated[t] = struct{}{}
		}
	}

	affected := make(map[Key]struct{})
	for _, t := range tags {
		for k := range c.index[t] {
			affected[k] = struct{}{}
		}
	}

	var refetch []Key
	for k := range affected {
		e := c.entries[k]
		if e == nil {
			continue
		}
		if len(e.subs) > 0 {
			e.stale = true
			refetch = append(refetch, k)
			continue
		}
		c.dropLocked(k)
	}
	c.mu.Unlock()

	c.logger.Debug(c.ctx, "invalidated", "tags", fmt.Sprint(tags), "entries", len(affected))
	for _, k := range refetch {
		go c.refetch(k)
	}
}

// Reset drops every entry and detaches every subscription. Results of
// requests still in flight are discarded.
func (c *Cache) Reset() {
	c.mu.Lock()
	var subs []*Subscription
	for _, e := range c.entries {
		subs = append(subs, e.subscribers()...)
	}
	c.entries = make(map[Key]*entry)
	c.index = make(map[Tag]map[Key]struct{})
	c.flights = make(map[Key]*flight)
	c.epoch++
	c.mu.Unlock()

	for _, s := range subs {
		s.detach()
	}
	c.logger.Debug(c.ctx, "cache reset", "detached", len(subs))
}

func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := Stats{Entries: len(c.entries), InFlight: len(c.flights)}
	for _, e := range c.entries {
		st.Subscribers += len(e.subs)
	}
	return st
}

// Tagged lists the keys currently associated with t.
func (c *Cache) Tagged(t Tag) []Key {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]Key, 0, len(c.index[t]))
	for k := range c.index[t] {
		keys = append(keys, k)
	}
	return keys
}

func (c *Cache) unsubscribe(s *Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s.epoch != c.epoch {
		return
	}
	e, ok := c.entries[s.key]
	if !ok {
		return
	}
	delete(e.subs, s.id)
	if len(e.subs) == 0 && (e.stale || !e.hasValue) {
		c.dropLocked(s.key)
	}
}

func (c *Cache) dropLocked(key Key) {
	if e, ok := c.entries[key]; ok {
		c.unindexLocked(key, e.tags)
		delete(c.entries, key)
	}
}

func (c *Cache) indexLocked(key Key, tags []Tag) {
	for _, t := range tags {
		keys, ok := c.index[t]
		if !ok {
			keys = make(map[Key]struct{})
			c.index[t] = keys
		}
		keys[key] = struct{}{}
	}
}

func (c *Cache) unindexLocked(key Key, tags []Tag) {
	for _, t := range tags {
		if keys, ok := c.index[t]; ok {
			delete(keys, key)
			if len(keys) == 0 {
				delete(c.index, t)
			}
		}
	}
}

func (e *entry) subscribers() []*Subscription {
	subs := make([]*Subscription, 0, len(e.subs))
	for _, s := range e.subs {
		subs = append(subs, s)
	}
	return subs
}

func deliver(subs []*Subscription, value any, err error) {
	for _, s := range subs {
		s.deliver(value, err)
	}
}

// Get is the typed form of Cache.Fetch.
func Get[T any](ctx context.Context, c *Cache, key Key, fetcher Fetcher) (T, error) {
	var zero T
	v, err := c.Fetch(ctx, key, fetcher)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("cached value for %s has type %T", key, v)
	}
	return t, nil
}
