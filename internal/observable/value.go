// Package observable provides a small thread-safe observable value: one
// owner mutates it, any number of readers get snapshots or change
// notifications through a read-only view.
package observable

import (
	"context"
	"sync"
)

// ReadOnly is the consumer view of a Value. It has no setter.
type ReadOnly[T any] interface {
	// Get returns the current value.
	Get() T
	// Watch delivers the current value and then every subsequent change
	// until ctx is done. Slow watchers only see the latest value.
	Watch(ctx context.Context) <-chan T
}

// Value holds a T and notifies watchers on every Set.
type Value[T any] struct {
	mu       sync.RWMutex
	v        T
	clone    func(T) T
	watchers map[chan T]struct{}
}

// New returns a Value initialised with v.
func New[T any](v T) *Value[T] {
	return NewCloned(v, nil)
}

// NewCloned returns a Value that passes every value it stores or hands out
// through clone, so no caller shares memory with the held value. Use it
// when T carries pointers.
func NewCloned[T any](v T, clone func(T) T) *Value[T] {
	o := &Value[T]{clone: clone, watchers: make(map[chan T]struct{})}
	o.v = o.copy(v)
	return o
}

func (o *Value[T]) copy(v T) T {
	if o.clone == nil {
		return v
	}
	return o.clone(v)
}

func (o *Value[T]) Get() T {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.copy(o.v)
}

// Set replaces the value and notifies watchers.
func (o *Value[T]) Set(v T) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.v = o.copy(v)
	for ch := range o.watchers {
		push(ch, o.copy(o.v))
	}
}

// ReadOnly returns the read-only view of o. The view cannot be converted
// back into o.
func (o *Value[T]) ReadOnly() ReadOnly[T] {
	return readOnly[T]{o: o}
}

type readOnly[T any] struct {
	o *Value[T]
}

func (r readOnly[T]) Get() T                             { return r.o.Get() }
func (r readOnly[T]) Watch(ctx context.Context) <-chan T { return r.o.Watch(ctx) }

func (o *Value[T]) Watch(ctx context.Context) <-chan T {
	ch := make(chan T, 1)

	o.mu.Lock()
	ch <- o.copy(o.v)
	o.watchers[ch] = struct{}{}
	o.mu.Unlock()

	go func() {
		<-ctx.Done()
		o.mu.Lock()
		delete(o.watchers, ch)
		close(ch)
		o.mu.Unlock()
	}()

	return ch
}

// push replaces any undelivered value in the single-slot channel so the
// watcher always ends up with the latest one. Callers hold o.mu.
func push[T any](ch chan T, v T) {
	select {
	case ch <- v:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	ch <- v
}
