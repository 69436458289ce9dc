package config

import (
	"os"
	"path/filepath"

	"github.com/vcnkl/bounce/git"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

// Discover looks for bounce.yml in dir, then at the root of the git
// repository containing dir.
func Discover(dir string) (string, error) {
	candidates := []string{filepath.Join(dir, FileName)}
	if root, err := git.Root(dir); err == nil && root != dir {
		candidates = append(candidates, filepath.Join(root, FileName))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", errors.Errorf("no %s found in %s or its repository root", FileName, dir)
}

func Load(path string) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve %s", path)
	}

	k := koanf.New(".")
	if err = k.Load(file.Provider(abs), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", abs)
	}

	var fc FileConfig
	if err = k.Unmarshal("", &fc); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", abs)
	}

	fc.SetDefaults()
	if err = fc.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid %s", abs)
	}

	return newConfig(abs, &fc), nil
}

// LoadOrDiscover loads path when set and otherwise discovers the file from
// the working directory.
func LoadOrDiscover(path string) (*Config, error) {
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get working directory")
		}
		if path, err = Discover(cwd); err != nil {
			return nil, err
		}
	}
	return Load(path)
}
