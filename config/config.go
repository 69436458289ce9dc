package config

import (
	"path/filepath"

	"github.com/vcnkl/bounce/models"
)

type Config struct {
	path    string
	dir     string
	file    *FileConfig
	actions map[string]*models.Action
	order   []string
}

func newConfig(path string, fc *FileConfig) *Config {
	cfg := &Config{
		path:    path,
		dir:     filepath.Dir(path),
		file:    fc,
		actions: make(map[string]*models.Action, len(fc.Actions)),
	}

	for _, ac := range fc.Actions {
		cfg.actions[ac.Name] = cfg.resolveAction(ac)
		cfg.order = append(cfg.order, ac.Name)
	}

	return cfg
}

func (c *Config) resolveAction(ac ActionConfig) *models.Action {
	watch := make([]string, 0, len(ac.Watch))
	for _, w := range ac.Watch {
		watch = append(watch, c.resolvePath(w))
	}

	return &models.Action{
		Name:    ac.Name,
		Cmd:     ac.GetCmd(),
		Delay:   ac.Delay,
		Timeout: ac.Timeout,
		WorkDir: c.resolvePath(ac.WorkDir),
		Watch:   watch,
		Ignore:  ac.Ignore,
		Env:     ac.Env,
	}
}

func (c *Config) resolvePath(p string) string {
	if p == "" {
		return c.dir
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.dir, p)
}

func (c *Config) Path() string {
	return c.path
}

func (c *Config) Dir() string {
	return c.dir
}

func (c *Config) Shell() string {
	return c.file.Shell
}

func (c *Config) StatePath() string {
	return c.resolvePath(c.file.State)
}

func (c *Config) LogLevel() string {
	return c.file.LogLevel
}

func (c *Config) Env() map[string]string {
	return c.file.Env
}

// Actions returns every action in file order.
func (c *Config) Actions() []*models.Action {
	actions := make([]*models.Action, 0, len(c.order))
	for _, name := range c.order {
		actions = append(actions, c.actions[name])
	}
	return actions
}

func (c *Config) Action(name string) (*models.Action, error) {
	action, ok := c.actions[name]
	if !ok {
		return nil, &ActionNotFoundError{Name: name}
	}
	return action, nil
}

// Select resolves names in the given order. No names selects every action.
func (c *Config) Select(names []string) ([]*models.Action, error) {
	if len(names) == 0 {
		return c.Actions(), nil
	}

	actions := make([]*models.Action, 0, len(names))
	for _, name := range names {
		action, err := c.Action(name)
		if err != nil {
			return nil, err
		}
		actions = append(actions, action)
	}
	return actions, nil
}

type ActionNotFoundError struct {
	Name string
}

func (e *ActionNotFoundError) Error() string {
	return "action not found: " + e.Name
}
