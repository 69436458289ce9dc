package actions

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcnkl/bounce/config"
	"github.com/vcnkl/bounce/logger"
	"github.com/vcnkl/bounce/stores/runs"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

const testConfig = `
shell: /bin/sh
actions:
  - name: count
    cmd: echo run >> count.txt
    delay: 10s
  - name: fail
    cmd: exit 4
    delay: 10s
  - name: free
    cmd: echo run >> free.txt
  - name: watched
    cmd: echo run >> watched.txt
    delay: 1h
    watch: [src]
`

type fixture struct {
	dir   string
	cfg   *config.Config
	store *runs.Store
	log   logger.Logger
	clock *fakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(testConfig), 0644))

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)

	store := runs.NewStore(cfg.StatePath())
	require.NoError(t, store.Load())

	return &fixture{
		dir:   dir,
		cfg:   cfg,
		store: store,
		log:   logger.NewWithWriter(&bytes.Buffer{}, logger.DebugLevel),
		clock: newFakeClock(),
	}
}

func (f *fixture) runs(t *testing.T, file string) int {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(f.dir, file))
	if os.IsNotExist(err) {
		return 0
	}
	require.NoError(t, err)
	return strings.Count(string(data), "run\n")
}

func (f *fixture) run(t *testing.T, force bool, names ...string) *runSummary {
	t.Helper()
	action := NewRunAction(f.cfg, f.store, f.log, Options{Jobs: 2, Force: force, Clock: f.clock})
	result, err := action.Execute(context.Background(), names)
	require.NoError(t, err)
	return &runSummary{Executed: result.Executed, Suppressed: len(result.Suppressed), Failed: len(result.Failed)}
}

type runSummary struct {
	Executed   []string
	Suppressed int
	Failed     int
}

func TestRunAction_GatesByDelay(t *testing.T) {
	f := newFixture(t)

	result := f.run(t, false, "count")
	assert.Equal(t, []string{"count"}, result.Executed)
	assert.Equal(t, 1, f.runs(t, "count.txt"))

	f.clock.Advance(5 * time.Second)
	result = f.run(t, false, "count")
	assert.Empty(t, result.Executed)
	assert.Equal(t, 1, result.Suppressed)
	assert.Equal(t, 1, f.runs(t, "count.txt"))

	f.clock.Advance(5 * time.Second)
	result = f.run(t, false, "count")
	assert.Equal(t, 1, result.Suppressed, "exactly the delay is still too early")

	f.clock.Advance(time.Millisecond)
	result = f.run(t, false, "count")
	assert.Equal(t, []string{"count"}, result.Executed)
	assert.Equal(t, 2, f.runs(t, "count.txt"))
}

func TestRunAction_ReportsRemaining(t *testing.T) {
	f := newFixture(t)
	f.run(t, false, "count")
	f.clock.Advance(4 * time.Second)

	action := NewRunAction(f.cfg, f.store, f.log, Options{Clock: f.clock})
	result, err := action.Execute(context.Background(), []string{"count"})
	require.NoError(t, err)

	require.Len(t, result.Suppressed, 1)
	assert.Equal(t, "count", result.Suppressed[0].Name)
	assert.Equal(t, 6*time.Second, result.Suppressed[0].Remaining)
}

func TestRunAction_PersistsAcrossStores(t *testing.T) {
	f := newFixture(t)
	f.run(t, false, "count")

	reloaded := runs.NewStore(f.cfg.StatePath())
	require.NoError(t, reloaded.Load())
	entry, ok := reloaded.Get("count")
	require.True(t, ok)
	assert.True(t, entry.Success)
	assert.True(t, f.clock.Now().Equal(entry.LastRun))

	f.store = reloaded
	result := f.run(t, false, "count")
	assert.Equal(t, 1, result.Suppressed)
}

func TestRunAction_Force(t *testing.T) {
	f := newFixture(t)
	f.run(t, false, "count")

	result := f.run(t, true, "count")
	assert.Equal(t, []string{"count"}, result.Executed)
	assert.Equal(t, 2, f.runs(t, "count.txt"))
}

func TestRunAction_ZeroDelay(t *testing.T) {
	f := newFixture(t)

	f.run(t, false, "free")
	f.clock.Advance(time.Nanosecond)
	result := f.run(t, false, "free")

	assert.Equal(t, []string{"free"}, result.Executed)
	assert.Equal(t, 2, f.runs(t, "free.txt"))
}

func TestRunAction_FailureStillCounts(t *testing.T) {
	f := newFixture(t)

	action := NewRunAction(f.cfg, f.store, f.log, Options{Clock: f.clock})
	result, err := action.Execute(context.Background(), []string{"fail"})
	require.NoError(t, err)

	require.Len(t, result.Failed, 1)
	assert.Equal(t, "fail", result.Failed[0].Name)
	assert.Contains(t, result.Failed[0].Error.Error(), "status 4")
	assert.False(t, result.Ok())

	entry, ok := f.store.Get("fail")
	require.True(t, ok)
	assert.False(t, entry.Success)

	again := f.run(t, false, "fail")
	assert.Equal(t, 1, again.Suppressed)
	assert.Zero(t, again.Failed)
}

func TestRunAction_AllActionsAndOrder(t *testing.T) {
	f := newFixture(t)

	action := NewRunAction(f.cfg, f.store, f.log, Options{Jobs: 4, Clock: f.clock})
	result, err := action.Execute(context.Background(), []string{"free", "count", "free"})
	require.NoError(t, err)

	assert.Equal(t, []string{"free", "count"}, result.Executed)
	assert.Equal(t, 1, f.runs(t, "free.txt"))
}

func TestRunAction_UnknownAction(t *testing.T) {
	f := newFixture(t)

	action := NewRunAction(f.cfg, f.store, f.log, Options{Clock: f.clock})
	_, err := action.Execute(context.Background(), []string{"deploy"})

	var notFound *config.ActionNotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestStatusAction(t *testing.T) {
	f := newFixture(t)
	f.run(t, false, "count")
	f.clock.Advance(3 * time.Second)

	statuses, err := NewStatusAction(f.cfg, f.store, Options{Clock: f.clock}).Execute([]string{"count", "free"})
	require.NoError(t, err)
	require.Len(t, statuses, 2)

	count := statuses[0]
	assert.Equal(t, "count", count.Name)
	assert.Equal(t, 10*time.Second, count.Delay)
	require.NotNil(t, count.LastRun)
	assert.False(t, count.Ready)
	assert.Equal(t, 7*time.Second, count.Remaining)
	assert.True(t, count.Success)

	free := statuses[1]
	assert.Nil(t, free.LastRun)
	assert.True(t, free.Ready)
	assert.Equal(t, time.Duration(0), free.Remaining)
}

func TestResetAction(t *testing.T) {
	tests := []struct {
		name     string
		names    []string
		cleared  []string
		remained []string
	}{
		{
			name:     "reset named action",
			names:    []string{"count"},
			cleared:  []string{"count"},
			remained: []string{"free"},
		},
		{
			name:     "reset everything",
			names:    nil,
			cleared:  []string{"count", "free"},
			remained: []string{},
		},
		{
			name:     "unknown name is ignored",
			names:    []string{"nothing"},
			cleared:  nil,
			remained: []string{"count", "free"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.run(t, false, "count", "free")

			cleared, err := NewResetAction(f.store, f.log).Execute(tt.names)
			require.NoError(t, err)
			assert.Equal(t, tt.cleared, cleared)

			reloaded := runs.NewStore(f.cfg.StatePath())
			require.NoError(t, reloaded.Load())
			assert.Equal(t, tt.remained, reloaded.Names())
		})
	}
}

func TestResetAction_RunsImmediatelyAfterwards(t *testing.T) {
	f := newFixture(t)
	f.run(t, false, "count")

	_, err := NewResetAction(f.store, f.log).Execute([]string{"count"})
	require.NoError(t, err)

	result := f.run(t, false, "count")
	assert.Equal(t, []string{"count"}, result.Executed)
}

func TestInitAction(t *testing.T) {
	dir := t.TempDir()
	log := logger.NewWithWriter(&bytes.Buffer{}, logger.InfoLevel)

	path, err := NewInitAction(dir, log, false).Execute()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, config.FileName), path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	hello, err := cfg.Action("hello")
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, hello.Delay)

	_, err = NewInitAction(dir, log, false).Execute()
	assert.Error(t, err)

	_, err = NewInitAction(dir, log, true).Execute()
	assert.NoError(t, err)
}

func TestWatchAction_Targets(t *testing.T) {
	f := newFixture(t)
	action := NewWatchAction(f.cfg, f.store, f.log, WatchOptions{})

	targets, err := action.Targets(nil)
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, "watched", targets[0].Name)
	assert.Equal(t, []string{filepath.Join(f.dir, "src")}, targets[0].Watch)

	targets, err = action.Targets([]string{"count"})
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, []string{f.dir}, targets[0].Watch)

	original, _ := f.cfg.Action("count")
	assert.Empty(t, original.Watch, "configured action must not be modified")
}

func TestWatchAction_InitialRunThenGatedChanges(t *testing.T) {
	f := newFixture(t)
	action := NewWatchAction(f.cfg, f.store, f.log, WatchOptions{Options: Options{Clock: f.clock}})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		result, err := action.Execute(ctx, []string{"watched"})
		assert.NoError(t, err)
		assert.Equal(t, []string{"watched"}, result.Executed)
	}()

	require.Eventually(t, func() bool {
		return f.runs(t, "watched.txt") == 1
	}, 5*time.Second, 20*time.Millisecond)

	// within the one hour delay, so the change is dropped
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, "src", "main.go"), []byte("package main"), 0644))
	time.Sleep(300 * time.Millisecond)

	cancel()
	<-done

	assert.Equal(t, 1, f.runs(t, "watched.txt"))
	_, ok := f.store.Get("watched")
	assert.True(t, ok)
}

func TestWatchAction_GateFollowsClock(t *testing.T) {
	f := newFixture(t)
	action := NewWatchAction(f.cfg, f.store, f.log, WatchOptions{Options: Options{Clock: f.clock}})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := action.Execute(ctx, []string{"watched"})
		assert.NoError(t, err)
	}()

	require.Eventually(t, func() bool {
		return f.runs(t, "watched.txt") == 1
	}, 5*time.Second, 20*time.Millisecond)

	f.clock.Advance(time.Hour + time.Millisecond)

	// the watch may still be registering, so keep touching the file; every
	// change after the first one that passes lands inside the delay
	require.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join(f.dir, "src", "main.go"), []byte("package main"), 0644)
		return f.runs(t, "watched.txt") == 2
	}, 5*time.Second, 50*time.Millisecond)

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 2, f.runs(t, "watched.txt"))

	cancel()
	<-done

	entry, ok := f.store.Get("watched")
	require.True(t, ok)
	assert.True(t, f.clock.Now().Equal(entry.LastRun))
}

func TestWatchAction_NothingToWatch(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, config.FileName), []byte("actions:\n  - name: a\n    cmd: 'true'\n"), 0644))
	cfg, err := config.Load(filepath.Join(f.dir, config.FileName))
	require.NoError(t, err)

	result, err := NewWatchAction(cfg, f.store, f.log, WatchOptions{}).Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Executed)
}
