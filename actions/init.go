package actions

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vcnkl/bounce/config"
	"github.com/vcnkl/bounce/logger"
)

const starterConfig = `# bounce.yml
# Each action runs at most once per delay. "bounce run <name>" skips the
# command if it last ran less than delay ago; "bounce watch" reruns it on
# file changes, dropping changes that arrive within delay of the last run.
shell: /bin/sh
state: .bounce/state.json

actions:
  - name: hello
    cmd: echo "hello from $BOUNCE_ACTION"
    delay: 10s
    watch: ["."]
    ignore: ["*.tmp", ".bounce"]
`

type InitAction struct {
	dir   string
	log   logger.Logger
	force bool
}

func NewInitAction(dir string, log logger.Logger, force bool) *InitAction {
	return &InitAction{
		dir:   dir,
		log:   log,
		force: force,
	}
}

func (a *InitAction) Execute() (string, error) {
	path := filepath.Join(a.dir, config.FileName)

	if _, err := os.Stat(path); err == nil && !a.force {
		return "", fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := os.WriteFile(path, []byte(starterConfig), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	a.log.Info("created config", logger.String("path", path))
	return path, nil
}
