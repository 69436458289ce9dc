package subcmds

import (
	"os"

	"github.com/vcnkl/bounce/actions"
	"github.com/vcnkl/bounce/logger"

	"github.com/urfave/cli/v2"
)

func InitCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Write a starter bounce.yml in the current directory",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "Overwrite an existing bounce.yml",
			},
		},
		Action: func(ctx *cli.Context) error {
			level := logger.InfoLevel
			if ctx.Bool("debug") {
				level = logger.DebugLevel
			}
			log := logger.New(level)

			cwd, err := os.Getwd()
			if err != nil {
				return cli.Exit("error: "+err.Error(), 1)
			}

			if _, err = actions.NewInitAction(cwd, log, ctx.Bool("force")).Execute(); err != nil {
				return cli.Exit("error: "+err.Error(), 1)
			}

			return nil
		},
	}
}
