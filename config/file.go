package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	FileName         = "bounce.yml"
	DefaultShell     = "/bin/sh"
	DefaultStatePath = ".bounce/state.json"
)

type FileConfig struct {
	Shell    string            `koanf:"shell"`
	State    string            `koanf:"state"`
	LogLevel string            `koanf:"log_level"`
	Env      map[string]string `koanf:"env"`
	Actions  []ActionConfig    `koanf:"actions"`
}

type ActionConfig struct {
	Name    string            `koanf:"name"`
	Cmd     interface{}       `koanf:"cmd"`
	Delay   time.Duration     `koanf:"delay"`
	Timeout time.Duration     `koanf:"timeout"`
	WorkDir string            `koanf:"work_dir"`
	Watch   []string          `koanf:"watch"`
	Ignore  []string          `koanf:"ignore"`
	Env     map[string]string `koanf:"env"`
}

func (f *FileConfig) SetDefaults() {
	if f.Shell == "" {
		f.Shell = DefaultShell
	}
	if f.State == "" {
		f.State = DefaultStatePath
	}
	if f.LogLevel == "" {
		f.LogLevel = "info"
	}
	if f.Env == nil {
		f.Env = make(map[string]string)
	}
	for i := range f.Actions {
		f.Actions[i].SetDefaults()
	}
}

func (f *FileConfig) Validate() error {
	seen := make(map[string]bool, len(f.Actions))
	for i, a := range f.Actions {
		if a.Name == "" {
			return errors.Errorf("action #%d: name is required", i+1)
		}
		if seen[a.Name] {
			return errors.Errorf("action %s: duplicate name", a.Name)
		}
		seen[a.Name] = true

		if strings.TrimSpace(a.GetCmd()) == "" {
			return errors.Errorf("action %s: cmd is required", a.Name)
		}
		if a.Delay < 0 {
			return errors.Errorf("action %s: delay must not be negative", a.Name)
		}
		if a.Timeout < 0 {
			return errors.Errorf("action %s: timeout must not be negative", a.Name)
		}
	}
	return nil
}

func (a *ActionConfig) SetDefaults() {
	if a.Env == nil {
		a.Env = make(map[string]string)
	}
	if a.Watch == nil {
		a.Watch = []string{}
	}
	if a.Ignore == nil {
		a.Ignore = []string{}
	}
}

// GetCmd accepts either a single command string or a list of lines.
func (a *ActionConfig) GetCmd() string {
	switch v := a.Cmd.(type) {
	case string:
		return v
	case []interface{}:
		var cmds []string
		for _, c := range v {
			if s, ok := c.(string); ok {
				cmds = append(cmds, s)
			}
		}
		return strings.Join(cmds, "\n")
	case []string:
		return strings.Join(v, "\n")
	}
	return ""
}
