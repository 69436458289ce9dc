package actions

import (
	"context"

	"github.com/vcnkl/bounce/bouncer"
	"github.com/vcnkl/bounce/config"
	rbexec "github.com/vcnkl/bounce/exec"
	"github.com/vcnkl/bounce/logger"
	"github.com/vcnkl/bounce/models"
	"github.com/vcnkl/bounce/stores/runs"
)

type Options struct {
	Jobs  int
	Force bool
	Clock bouncer.Clock
}

func (o Options) clock() bouncer.Clock {
	if o.Clock == nil {
		return bouncer.SystemClock{}
	}
	return o.Clock
}

// newBouncer builds the gate for one action, armed from its recorded last
// run when there is one.
func newBouncer(action *models.Action, store *runs.Store, clock bouncer.Clock) *bouncer.Bouncer[struct{}] {
	b := bouncer.New[struct{}](action.Delay, bouncer.WithClock(clock))
	if entry, ok := store.Get(action.Name); ok {
		b.Restore(entry.LastRun)
	}
	return b
}

func runCommand(ctx context.Context, cfg *config.Config, action *models.Action, log logger.Logger) error {
	return rbexec.RunCommand(ctx, action.Cmd, &rbexec.ShellOptions{
		WorkDir: action.WorkDir,
		Env:     rbexec.ComposeEnv(cfg.Dir(), cfg.Env(), action),
		Shell:   cfg.Shell(),
		Stdout:  log.Writer(),
		Stderr:  log.Writer(),
		Timeout: action.Timeout,
	})
}
