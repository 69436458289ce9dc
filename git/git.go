package git

import (
	"io"
	"strings"

	"github.com/bitfield/script"
	"github.com/pkg/errors"

	"github.com/vcnkl/bounce/exec"
)

// Root returns the top level of the git work tree containing dir.
func Root(dir string) (string, error) {
	pipe := script.NewPipe().
		WithStderr(io.Discard).
		Exec("git -C " + exec.ShellQuote(dir) + " rev-parse --show-toplevel")
	output, err := pipe.String()
	if err != nil {
		if pipe.ExitStatus() != 0 {
			return "", errors.Errorf("%s is not inside a git repository", dir)
		}
		return "", errors.Wrap(err, "failed to run git")
	}
	return strings.TrimSpace(output), nil
}
