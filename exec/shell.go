package exec

import (
	"context"
	"fmt"
	"io"
	"os"
	osexec "os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// killGrace bounds how long Wait blocks on output pipes held open by
// processes that outlived the kill.
const killGrace = 2 * time.Second

type ShellOptions struct {
	WorkDir string
	Env     []string
	Shell   string
	Stdout  io.Writer
	Stderr  io.Writer
	Timeout time.Duration
}

type ExitStatusError struct {
	Status int
}

func (e *ExitStatusError) Error() string {
	return fmt.Sprintf("command exited with status %d", e.Status)
}

// RunCommand runs cmdStr through the configured shell and waits for it to
// exit. A non-zero exit status is an *ExitStatusError. When ctx is done or
// the timeout fires, the shell and everything it started are killed and
// ctx.Err() is returned.
func RunCommand(ctx context.Context, cmdStr string, opts *ShellOptions) error {
	if opts.Shell == "" {
		opts.Shell = "/bin/sh"
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	args := shellArgs(opts.Shell, cmdStr)
	cmd := osexec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = opts.WorkDir
	if len(opts.Env) > 0 {
		cmd.Env = opts.Env
	}
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr
	cmd.WaitDelay = killGrace
	setProcessGroup(cmd)

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err == nil {
		return nil
	}

	var exitErr *osexec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitStatusError{Status: exitErr.ExitCode()}
	}
	return errors.Wrap(err, "failed to run command")
}

func shellArgs(shell, cmdStr string) []string {
	args := strings.Fields(shell)
	if len(args) == 0 {
		args = []string{"/bin/sh"}
	}
	return append(args, "-c", cmdStr)
}

// ShellQuote wraps s in single quotes for a POSIX shell command line.
func ShellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "'\"'\"'") + "'"
}
