package cmd

import (
	"runtime"

	"github.com/vcnkl/bounce/cmd/subcmds"

	"github.com/urfave/cli/v2"
)

func NewApp() *cli.App {
	return &cli.App{
		Name:    "bounce",
		Usage:   "Run commands at most once per configured delay",
		Version: "0.3.0",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "Enable debug logging",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to bounce.yml (default: ./bounce.yml, then the git root)",
				EnvVars: []string{"BOUNCE_CONFIG"},
			},
			&cli.IntFlag{
				Name:    "jobs",
				Aliases: []string{"j"},
				Value:   runtime.NumCPU(),
				Usage:   "Max actions run in parallel",
			},
		},
		Commands: []*cli.Command{
			subcmds.InitCmd(),
			subcmds.RunCmd(),
			subcmds.WatchCmd(),
			subcmds.StatusCmd(),
			subcmds.ResetCmd(),
		},
	}
}
