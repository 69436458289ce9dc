package subcmds

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/vcnkl/bounce/actions"

	"github.com/urfave/cli/v2"
)

func StatusCmd() *cli.Command {
	return &cli.Command{
		Name:      "status",
		Usage:     "Show last run and remaining delay per action",
		ArgsUsage: "[actions...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Value: "text",
				Usage: "Output format: text (default), json",
			},
		},
		Action: func(ctx *cli.Context) error {
			cfg, store, _, err := setup(ctx)
			if err != nil {
				return err
			}

			statuses, err := actions.NewStatusAction(cfg, store, actions.Options{}).Execute(ctx.Args().Slice())
			if err != nil {
				return cli.Exit("error: "+err.Error(), 1)
			}

			switch ctx.String("format") {
			case "json":
				return printStatusJSON(os.Stdout, statuses)
			case "text":
				return printStatusText(os.Stdout, statuses)
			default:
				return cli.Exit("error: unknown format: "+ctx.String("format"), 1)
			}
		},
	}
}

func printStatusText(w io.Writer, statuses []actions.ActionStatus) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ACTION\tDELAY\tLAST RUN\tRESULT\tREADY\tREMAINING")

	for _, s := range statuses {
		lastRun, outcome := "never", "-"
		if s.LastRun != nil {
			lastRun = s.LastRun.Local().Format(time.RFC3339)
			outcome = "failed"
			if s.Success {
				outcome = "ok"
			}
		}

		remaining := "-"
		if !s.Ready {
			remaining = s.Remaining.Round(time.Millisecond).String()
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\t%s\n", s.Name, s.Delay, lastRun, outcome, s.Ready, remaining)
	}

	return tw.Flush()
}

func printStatusJSON(w io.Writer, statuses []actions.ActionStatus) error {
	data, err := json.MarshalIndent(statuses, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))
	return err
}
