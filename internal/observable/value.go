// Package observable provides a single-value holder with explicit
// subscriptions. Every subscriber first receives the current value and then
// each later value. Slow subscribers only ever see the newest pending value:
// intermediate values may be skipped, the latest one never is.
package observable

import "sync"

// Value holds the latest T and fans it out to subscribers.
// The zero Value is not usable; create one with NewValue.
type Value[T any] struct {
	mu      sync.Mutex
	current T
	subs    map[uint64]chan T
	nextID  uint64
	closed  bool
}

// Subscription is a live view on a Value. C is closed after Unsubscribe or
// after the Value is closed.
type Subscription[T any] struct {
	C <-chan T

	v    *Value[T]
	id   uint64
	once sync.Once
}

func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{current: initial, subs: make(map[uint64]chan T)}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Set replaces the current value and notifies every subscriber. Set never
// blocks on a subscriber. Calls after Close are ignored.
func (v *Value[T]) Set(x T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.current = x
	for _, ch := range v.subs {
		offer(ch, x)
	}
}

// Subscribe registers a new subscriber; its channel already holds the
// current value.
func (v *Value[T]) Subscribe() *Subscription[T] {
	v.mu.Lock()
	defer v.mu.Unlock()

	ch := make(chan T, 1)
	ch <- v.current

	if v.closed {
		close(ch)
		return &Subscription[T]{C: ch}
	}

	id := v.nextID
	v.nextID++
	v.subs[id] = ch
	return &Subscription[T]{C: ch, v: v, id: id}
}

// Close completes all subscriptions. It is safe to call more than once.
func (v *Value[T]) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.closed = true
	for id, ch := range v.subs {
		close(ch)
		delete(v.subs, id)
	}
}

// Subscribers reports the number of live subscriptions.
func (v *Value[T]) Subscribers() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.subs)
}

// Unsubscribe detaches the subscription and closes C. Idempotent.
func (s *Subscription[T]) Unsubscribe() {
	s.once.Do(func() {
		if s.v == nil {
			return
		}
		s.v.mu.Lock()
		defer s.v.mu.Unlock()
		if ch, ok := s.v.subs[s.id]; ok {
			close(ch)
			delete(s.v.subs, s.id)
		}
	})
}

// offer puts x into a 1-slot channel, dropping a stale pending value.
// Callers hold the Value lock, so no other sender can race in between.
func offer[T any](ch chan T, x T) {
	select {
	case <-ch:
	default:
	}
	ch <- x
}
