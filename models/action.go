package models

import "time"

// Action is the resolved, runtime view of an action declared in bounce.yml.
type Action struct {
	Name    string
	Cmd     string
	Delay   time.Duration
	Timeout time.Duration
	WorkDir string
	Watch   []string
	Ignore  []string
	Env     map[string]string
}

func (a *Action) Watches() bool {
	return len(a.Watch) > 0
}
