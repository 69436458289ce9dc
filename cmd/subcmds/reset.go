package subcmds

import (
	"github.com/vcnkl/bounce/actions"
	"github.com/vcnkl/bounce/logger"

	"github.com/urfave/cli/v2"
)

func ResetCmd() *cli.Command {
	return &cli.Command{
		Name:      "reset",
		Usage:     "Forget recorded runs so the next run goes through (all if none given)",
		ArgsUsage: "[actions...]",
		Action: func(ctx *cli.Context) error {
			_, store, log, err := setup(ctx)
			if err != nil {
				return err
			}

			cleared, err := actions.NewResetAction(store, log).Execute(ctx.Args().Slice())
			if err != nil {
				return cli.Exit("error: "+err.Error(), 1)
			}

			log.Info("reset completed", logger.Strings("actions", cleared))
			return nil
		},
	}
}
