// Package config resolves the environment-variable fallbacks layered
// beneath explicit CLI flags: API tokens and the default install directory.
package config

import (
	"path/filepath"

	"github.com/caarlos0/env/v11"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
)

// Env holds every environment variable ubi consults when a corresponding
// flag was left unset.
type Env struct {
	GitHubToken string `env:"GITHUB_TOKEN"`
	GitLabToken string `env:"GITLAB_TOKEN"`
	GitLabJob   string `env:"CI_JOB_TOKEN"`
	InstallDir  string `env:"UBI_INSTALL_DIR"`
}

// Load reads Env from the process environment.
func Load() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, errors.Wrap(err, "reading environment configuration")
	}
	return e, nil
}

// ResolveInstallDir expands a user-supplied install directory (honoring a
// leading "~"), falling back to envDir when dir is empty, and finally to
// "./bin" relative to the current working directory when neither is set.
func ResolveInstallDir(dir, envDir string) (string, error) {
	if dir == "" {
		dir = envDir
	}
	if dir == "" {
		dir = "./bin"
	}

	expanded, err := homedir.Expand(dir)
	if err != nil {
		return "", errors.Wrapf(err, "expanding install directory %q", dir)
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", errors.Wrapf(err, "resolving install directory %q", dir)
	}
	return abs, nil
}
