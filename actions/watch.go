package actions

import (
	"context"
	"sync"

	"github.com/vcnkl/bounce/bouncer"
	"github.com/vcnkl/bounce/config"
	"github.com/vcnkl/bounce/logger"
	"github.com/vcnkl/bounce/models"
	"github.com/vcnkl/bounce/stores/runs"
	"github.com/vcnkl/bounce/watcher"
)

type WatchOptions struct {
	Options
	NoInitial bool
}

type WatchAction struct {
	config *config.Config
	store  *runs.Store
	log    logger.Logger
	opts   WatchOptions

	saveMu sync.Mutex
	mu     sync.Mutex
	result *models.Result
}

func NewWatchAction(cfg *config.Config, store *runs.Store, log logger.Logger, opts WatchOptions) *WatchAction {
	return &WatchAction{
		config: cfg,
		store:  store,
		log:    log,
		opts:   opts,
	}
}

// Targets picks the actions to watch: the named ones, or every action that
// declares watch paths. Named actions without watch paths watch the config
// directory.
func (a *WatchAction) Targets(names []string) ([]*models.Action, error) {
	selected, err := a.config.Select(names)
	if err != nil {
		return nil, err
	}

	var targets []*models.Action
	for _, action := range selected {
		if action.Watches() {
			targets = append(targets, action)
			continue
		}
		if len(names) > 0 {
			copied := *action
			copied.Watch = []string{a.config.Dir()}
			targets = append(targets, &copied)
		}
	}
	return targets, nil
}

// Execute watches every target until ctx is done. Each action runs once at
// start unless NoInitial is set, then again on file changes, at most once
// per its delay.
func (a *WatchAction) Execute(ctx context.Context, names []string) (*models.Result, error) {
	start := a.opts.clock().Now()
	a.result = &models.Result{}

	targets, err := a.Targets(names)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		a.log.Warn("no actions to watch")
		return a.result, nil
	}

	watchers := make([]*watcher.Watcher, 0, len(targets))
	defer func() {
		for _, w := range watchers {
			w.Stop()
		}
	}()

	for _, action := range targets {
		w, err := a.newWatcher(ctx, action)
		if err != nil {
			return nil, err
		}
		watchers = append(watchers, w)
	}

	var wg sync.WaitGroup
	errCh := make(chan error, len(watchers))
	for i, w := range watchers {
		wg.Add(1)
		go func(w *watcher.Watcher, action *models.Action) {
			defer wg.Done()
			if !a.opts.NoInitial {
				w.Trigger(action.Name)
			}
			if err := w.Start(ctx); err != nil {
				errCh <- err
			}
		}(w, targets[i])
	}

	wg.Wait()
	close(errCh)

	a.mu.Lock()
	defer a.mu.Unlock()
	if err, ok := <-errCh; ok {
		return a.result, err
	}

	a.result.Duration = a.opts.clock().Now().Sub(start)
	return a.result, nil
}

func (a *WatchAction) newWatcher(ctx context.Context, action *models.Action) (*watcher.Watcher, error) {
	actionLog := a.log.WithPrefix(action.Name)

	w, err := watcher.NewWatcher(action.Watch, action.Ignore, action.Delay, bouncer.WithClock(a.opts.clock()))
	if err != nil {
		return nil, err
	}

	w.OnError(func(err error) {
		actionLog.Warn("watch error", logger.Err(err))
	})

	w.OnChange(func(path string) {
		if path == action.Name {
			actionLog.Info("running...")
		} else {
			actionLog.Info("file changed, running...", logger.String("path", path))
		}
		a.run(ctx, action, actionLog)
	})

	actionLog.Info("watching", logger.Strings("paths", action.Watch), logger.Duration("delay", action.Delay))
	return w, nil
}

func (a *WatchAction) run(ctx context.Context, action *models.Action, actionLog logger.Logger) {
	clock := a.opts.clock()
	start := clock.Now()

	err := runCommand(ctx, a.config, action, actionLog)

	a.store.Set(action.Name, &runs.Entry{
		LastRun:    start,
		DurationMs: clock.Now().Sub(start).Milliseconds(),
		Success:    err == nil,
	})

	a.saveMu.Lock()
	if saveErr := a.store.Save(); saveErr != nil {
		actionLog.Warn("failed to save state", logger.Err(saveErr))
	}
	a.saveMu.Unlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	if err != nil {
		if ctx.Err() == nil {
			actionLog.Error("failed", logger.Err(err))
		}
		a.result.Failed = append(a.result.Failed, models.FailedAction{Name: action.Name, Error: err})
		return
	}

	actionLog.Info("completed")
	a.result.Executed = append(a.result.Executed, action.Name)
}
