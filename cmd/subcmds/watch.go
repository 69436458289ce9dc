package subcmds

import (
	"github.com/vcnkl/bounce/actions"
	"github.com/vcnkl/bounce/logger"

	"github.com/urfave/cli/v2"
)

func WatchCmd() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Run actions on file changes, at most once per delay",
		ArgsUsage: "[actions...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-initial",
				Usage: "Wait for the first change instead of running at start",
			},
		},
		Action: func(ctx *cli.Context) error {
			cfg, store, log, err := setup(ctx)
			if err != nil {
				return err
			}

			action := actions.NewWatchAction(cfg, store, log, actions.WatchOptions{
				NoInitial: ctx.Bool("no-initial"),
			})
			result, err := action.Execute(ctx.Context, ctx.Args().Slice())
			if err != nil {
				return cli.Exit("error: "+err.Error(), 1)
			}

			log.Info("watch stopped",
				logger.Int("runs", len(result.Executed)),
				logger.Int("failed", len(result.Failed)),
				logger.Duration("duration", result.Duration))

			return nil
		},
	}
}
