package actions

import (
	"time"

	"github.com/vcnkl/bounce/config"
	"github.com/vcnkl/bounce/stores/runs"
)

type ActionStatus struct {
	Name      string        `json:"name"`
	Delay     time.Duration `json:"delay"`
	LastRun   *time.Time    `json:"last_run,omitempty"`
	Success   bool          `json:"success"`
	Ready     bool          `json:"ready"`
	Remaining time.Duration `json:"remaining"`
}

type StatusAction struct {
	config *config.Config
	store  *runs.Store
	opts   Options
}

func NewStatusAction(cfg *config.Config, store *runs.Store, opts Options) *StatusAction {
	return &StatusAction{
		config: cfg,
		store:  store,
		opts:   opts,
	}
}

// Execute reports, per action, whether `bounce run` would run it now.
func (a *StatusAction) Execute(names []string) ([]ActionStatus, error) {
	selected, err := a.config.Select(names)
	if err != nil {
		return nil, err
	}

	clock := a.opts.clock()
	statuses := make([]ActionStatus, 0, len(selected))
	for _, action := range selected {
		b := newBouncer(action, a.store, clock)

		status := ActionStatus{
			Name:      action.Name,
			Delay:     action.Delay,
			Ready:     b.Ready(),
			Remaining: b.Remaining(),
		}
		if lastRun, ok := b.LastRun(); ok {
			status.LastRun = &lastRun
		}
		if entry, ok := a.store.Get(action.Name); ok {
			status.Success = entry.Success
		}

		statuses = append(statuses, status)
	}

	return statuses, nil
}
