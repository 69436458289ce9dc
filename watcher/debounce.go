package watcher

import (
	"time"

	"github.com/vcnkl/bounce/bouncer"
)

// gate lets the first event through and drops the rest until the delay has
// passed since the last event it let through.
type gate struct {
	b *bouncer.Safe[struct{}]
}

func newGate(delay time.Duration, opts ...bouncer.Option) *gate {
	return &gate{b: bouncer.NewSafe[struct{}](delay, opts...)}
}

func (g *gate) Pass(fn func()) bool {
	_, ok := g.b.Debounce(func() struct{} {
		fn()
		return struct{}{}
	})
	return ok
}
