package bouncer

import (
	"sync"
	"time"
)

// Safe wraps a Bouncer with a mutex held across the elapsed check, the
// timestamp update and the call itself, so concurrent callers never get more
// runs than the delay allows.
type Safe[T any] struct {
	mu sync.Mutex
	b  *Bouncer[T]
}

func NewSafe[T any](delay time.Duration, opts ...Option) *Safe[T] {
	return &Safe[T]{b: New[T](delay, opts...)}
}

func (s *Safe[T]) Delay() time.Duration {
	return s.b.Delay()
}

func (s *Safe[T]) Debounce(fn func() T) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.b.Debounce(fn)
}

func (s *Safe[T]) DebounceErr(fn func() (T, error)) (T, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.b.DebounceErr(fn)
}

func (s *Safe[T]) WithFunc(fn func() T) *Safe[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.b.WithFunc(fn)
	return s
}

func (s *Safe[T]) Execute() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.b.Execute()
}

func (s *Safe[T]) Result() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.b.Result()
}

func (s *Safe[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.b.Reset()
}

func (s *Safe[T]) LastRun() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.b.LastRun()
}

func (s *Safe[T]) Restore(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.b.Restore(t)
}

func (s *Safe[T]) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.b.Ready()
}

func (s *Safe[T]) Remaining() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.b.Remaining()
}
