// Package observe provides a small synchronous publish/subscribe value.
//
// A Value holds the latest published state. Subscribers are replayed the
// current value immediately on Subscribe so they start from a consistent
// snapshot, and every later Publish notifies them synchronously in
// subscription order. Subscribe returns the function that removes the
// subscription.
package observe

import "sync"

// Value is a publish/subscribe cell. The zero value is ready to use and holds
// the zero T.
type Value[T any] struct {
	mu      sync.Mutex
	current T
	nextID  int
	subs    []subscriber[T]
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

// NewValue returns a Value seeded with initial.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{current: initial}
}

// Get returns the latest published value.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Publish stores next and notifies subscribers. Callbacks run outside the
// lock, so they may call Get or Subscribe.
func (v *Value[T]) Publish(next T) {
	v.mu.Lock()
	v.current = next
	subs := make([]subscriber[T], len(v.subs))
	copy(subs, v.subs)
	v.mu.Unlock()

	for _, s := range subs {
		s.fn(next)
	}
}

// Subscribe registers fn, calls it with the current value, and returns an
// idempotent unsubscribe function.
func (v *Value[T]) Subscribe(fn func(T)) func() {
	if fn == nil {
		return func() {}
	}
	v.mu.Lock()
	v.nextID++
	id := v.nextID
	v.subs = append(v.subs, subscriber[T]{id: id, fn: fn})
	current := v.current
	v.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			defer v.mu.Unlock()
			for i, s := range v.subs {
				if s.id == id {
					v.subs = append(v.subs[:i], v.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Len reports the number of active subscribers.
func (v *Value[T]) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.subs)
}
