package querycache

import "sync"

// Subscription is one active consumer of a cached key.
type Subscription struct {
	id       string
	key      Key
	epoch    uint64
	cache    *Cache
	listener Listener

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

func (s *Subscription) ID() string { return s.id }

func (s *Subscription) Key() Key { return s.key }

// Close stops deliveries. It is safe to call more than once.
func (s *Subscription) Close() {
	if s.detach() {
		s.cache.unsubscribe(s)
	}
}

// Done is closed once the subscription is closed or detached by Reset.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Closed reports whether the subscription was closed or detached by Reset.
func (s *Subscription) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Subscription) detach() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.closed = true
	close(s.done)
	return true
}

func (s *Subscription) deliver(value any, err error) {
	if s.Closed() || s.listener == nil {
		return
	}
	s.listener(value, err)
}
