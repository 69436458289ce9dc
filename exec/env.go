package exec

import (
	"os"
	"sort"

	"github.com/vcnkl/bounce/models"
)

// ComposeEnv layers the process environment, the global env from bounce.yml
// and the action env, then adds BOUNCE_ACTION and BOUNCE_CONFIG_DIR. Later
// entries win when the shell resolves duplicates.
func ComposeEnv(configDir string, global map[string]string, action *models.Action) []string {
	env := os.Environ()
	env = appendSorted(env, global)
	env = appendSorted(env, action.Env)
	env = append(env,
		"BOUNCE_ACTION="+action.Name,
		"BOUNCE_CONFIG_DIR="+configDir,
	)
	return env
}

func appendSorted(env []string, vars map[string]string) []string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		env = append(env, k+"="+vars[k])
	}
	return env
}
