package actions

import (
	"context"
	"sync"
	"time"

	"github.com/vcnkl/bounce/config"
	rbexec "github.com/vcnkl/bounce/exec"
	"github.com/vcnkl/bounce/logger"
	"github.com/vcnkl/bounce/models"
	"github.com/vcnkl/bounce/stores/runs"
)

type RunAction struct {
	config *config.Config
	store  *runs.Store
	log    logger.Logger
	opts   Options
}

func NewRunAction(cfg *config.Config, store *runs.Store, log logger.Logger, opts Options) *RunAction {
	return &RunAction{
		config: cfg,
		store:  store,
		log:    log,
		opts:   opts,
	}
}

// Execute runs each named action whose delay has passed since its recorded
// last run and records the new run. Actions still cooling down are reported
// as suppressed.
func (a *RunAction) Execute(ctx context.Context, names []string) (*models.Result, error) {
	clock := a.opts.clock()
	start := clock.Now()
	result := &models.Result{}

	selected, err := a.config.Select(names)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*models.Action, len(selected))
	order := make([]string, 0, len(selected))
	for _, action := range selected {
		if _, dup := byName[action.Name]; dup {
			continue
		}
		byName[action.Name] = action
		order = append(order, action.Name)
	}

	var mu sync.Mutex
	ran := make(map[string]bool, len(order))
	suppressed := make(map[string]models.SuppressedAction)

	errs := rbexec.NewPool(a.opts.Jobs).Run(ctx, order, func(ctx context.Context, name string) error {
		ok, remaining, err := a.runOne(ctx, byName[name])

		mu.Lock()
		defer mu.Unlock()
		if ok {
			ran[name] = true
		} else {
			suppressed[name] = models.SuppressedAction{Name: name, Remaining: remaining}
		}
		return err
	})

	for _, name := range order {
		if err = errs[name]; err != nil {
			result.Failed = append(result.Failed, models.FailedAction{Name: name, Error: err})
			continue
		}
		if ran[name] {
			result.Executed = append(result.Executed, name)
		} else if s, ok := suppressed[name]; ok {
			result.Suppressed = append(result.Suppressed, s)
		}
	}

	if err = a.store.Save(); err != nil {
		return nil, err
	}

	result.Duration = clock.Now().Sub(start)
	return result, nil
}

func (a *RunAction) runOne(ctx context.Context, action *models.Action) (bool, time.Duration, error) {
	clock := a.opts.clock()
	actionLog := a.log.WithPrefix(action.Name)

	b := newBouncer(action, a.store, clock)
	if a.opts.Force {
		b.Reset()
	}

	start := clock.Now()
	_, ran, err := b.DebounceErr(func() (struct{}, error) {
		actionLog.Info("running...")
		return struct{}{}, runCommand(ctx, a.config, action, actionLog)
	})

	if !ran {
		actionLog.Info("suppressed", logger.Duration("remaining", b.Remaining()))
		return false, b.Remaining(), nil
	}

	lastRun, _ := b.LastRun()
	a.store.Set(action.Name, &runs.Entry{
		LastRun:    lastRun,
		DurationMs: clock.Now().Sub(start).Milliseconds(),
		Success:    err == nil,
	})

	if err != nil {
		actionLog.Error("failed", logger.Err(err))
		return true, 0, err
	}

	actionLog.Info("completed")
	return true, 0, nil
}
