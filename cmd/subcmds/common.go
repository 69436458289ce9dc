package subcmds

import (
	"github.com/vcnkl/bounce/config"
	"github.com/vcnkl/bounce/logger"
	"github.com/vcnkl/bounce/stores/runs"

	"github.com/urfave/cli/v2"
)

// setup loads bounce.yml, the run state and a logger at the configured
// level, or debug when --debug is set.
func setup(ctx *cli.Context) (*config.Config, *runs.Store, logger.Logger, error) {
	cfg, err := config.LoadOrDiscover(ctx.String("config"))
	if err != nil {
		return nil, nil, nil, cli.Exit("error: "+err.Error(), 1)
	}

	level, err := logger.ParseLevel(cfg.LogLevel())
	if err != nil {
		return nil, nil, nil, cli.Exit("error: "+err.Error(), 1)
	}
	if ctx.Bool("debug") {
		level = logger.DebugLevel
	}
	log := logger.New(level)

	store := runs.NewStore(cfg.StatePath())
	if err = store.Load(); err != nil {
		return nil, nil, nil, cli.Exit("error: "+err.Error(), 1)
	}

	log.Debug("loaded config",
		logger.String("path", cfg.Path()),
		logger.String("state", cfg.StatePath()),
		logger.Int("actions", len(cfg.Actions())))

	return cfg, store, log, nil
}
