// Package bouncer gates calls to a function so that it runs at most once per
// configured delay.
//
// A Bouncer runs the first call it sees and remembers when it did so. Later
// calls run only once strictly more than the delay has elapsed since the last
// run; calls that arrive too early are dropped and reported as not run.
package bouncer

import "time"

// Bouncer is not safe for concurrent use. Two goroutines calling Debounce at
// the same time can both pass the elapsed check and both run. Use Safe when
// callers share an instance.
type Bouncer[T any] struct {
	delay time.Duration
	clock Clock

	lastRun time.Time
	armed   bool

	bound     func() T
	result    T
	hasResult bool
}

type Option func(*options)

type options struct {
	clock Clock
}

func WithClock(clock Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// New returns an idle Bouncer. A negative delay is treated as zero, which
// lets every call through.
func New[T any](delay time.Duration, opts ...Option) *Bouncer[T] {
	o := options{clock: SystemClock{}}
	for _, opt := range opts {
		opt(&o)
	}

	if delay < 0 {
		delay = 0
	}

	return &Bouncer[T]{
		delay: delay,
		clock: o.clock,
	}
}

func (b *Bouncer[T]) Delay() time.Duration {
	return b.delay
}

// Debounce calls fn and returns its result with true if the bouncer is idle
// or the delay has been exceeded. Otherwise fn is not called and Debounce
// returns the zero value and false.
func (b *Bouncer[T]) Debounce(fn func() T) (T, bool) {
	if !b.admit() {
		var zero T
		return zero, false
	}
	return fn(), true
}

// DebounceErr is Debounce for operations that can fail. A failed run still
// counts as a run: the delay restarts and the error is returned as is.
func (b *Bouncer[T]) DebounceErr(fn func() (T, error)) (T, bool, error) {
	if !b.admit() {
		var zero T
		return zero, false, nil
	}
	v, err := fn()
	return v, true, err
}

// admit records a run and reports true when a call may proceed. The same
// clock reading is used for the comparison and the stored timestamp.
func (b *Bouncer[T]) admit() bool {
	now := b.clock.Now()
	if b.armed && now.Sub(b.lastRun) <= b.delay {
		return false
	}
	b.lastRun = now
	b.armed = true
	return true
}

// WithFunc binds fn so that Execute can run it later. Binding again replaces
// the previous function.
func (b *Bouncer[T]) WithFunc(fn func() T) *Bouncer[T] {
	b.bound = fn
	return b
}

// Execute runs the bound function through Debounce and keeps its result. A
// suppressed call leaves the previously stored result untouched. Execute
// returns false without doing anything when no function is bound.
func (b *Bouncer[T]) Execute() bool {
	if b.bound == nil {
		return false
	}

	v, ok := b.Debounce(b.bound)
	if ok {
		b.result = v
		b.hasResult = true
	}
	return ok
}

// Result returns the value stored by the last Execute that actually ran.
func (b *Bouncer[T]) Result() (T, bool) {
	return b.result, b.hasResult
}

// Reset forgets the last run. The delay, the bound function and the stored
// result are kept.
func (b *Bouncer[T]) Reset() {
	b.lastRun = time.Time{}
	b.armed = false
}

func (b *Bouncer[T]) LastRun() (time.Time, bool) {
	return b.lastRun, b.armed
}

// Restore arms the bouncer as if its last run happened at t.
func (b *Bouncer[T]) Restore(t time.Time) {
	b.lastRun = t
	b.armed = true
}

// Ready reports whether the next call would run.
func (b *Bouncer[T]) Ready() bool {
	if !b.armed {
		return true
	}
	return b.clock.Now().Sub(b.lastRun) > b.delay
}

// Remaining is the time left until the delay has elapsed, or zero.
func (b *Bouncer[T]) Remaining() time.Duration {
	if !b.armed {
		return 0
	}
	left := b.delay - b.clock.Now().Sub(b.lastRun)
	if left < 0 {
		return 0
	}
	return left
}
