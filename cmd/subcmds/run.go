package subcmds

import (
	"github.com/vcnkl/bounce/actions"
	"github.com/vcnkl/bounce/logger"

	"github.com/urfave/cli/v2"
)

func RunCmd() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Run actions whose delay has passed since their last run (all if none given)",
		ArgsUsage: "[actions...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "Ignore the last recorded run",
			},
			&cli.BoolFlag{
				Name:  "fail-suppressed",
				Usage: "Exit with status 2 when any action was suppressed",
			},
		},
		Action: func(ctx *cli.Context) error {
			cfg, store, log, err := setup(ctx)
			if err != nil {
				return err
			}

			action := actions.NewRunAction(cfg, store, log, actions.Options{
				Jobs:  ctx.Int("jobs"),
				Force: ctx.Bool("force"),
			})
			result, err := action.Execute(ctx.Context, ctx.Args().Slice())
			if err != nil {
				return cli.Exit("error: "+err.Error(), 1)
			}

			log.Info("run completed",
				logger.Int("executed", len(result.Executed)),
				logger.Int("suppressed", len(result.Suppressed)),
				logger.Int("failed", len(result.Failed)),
				logger.Duration("duration", result.Duration))

			if !result.Ok() {
				return cli.Exit("run failed", 1)
			}
			if ctx.Bool("fail-suppressed") && len(result.Suppressed) > 0 {
				return cli.Exit("suppressed", 2)
			}

			return nil
		},
	}
}
