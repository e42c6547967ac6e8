// Package forge abstracts over the release-asset REST APIs of the code
// forges UBI knows how to talk to: GitHub, GitLab, and Forgejo/Codeberg.
package forge

import (
	"context"
	"os"
)

// Asset is a single downloadable file attached to a forge release.
type Asset struct {
	Name string
	URL  string
}

// Type names a forge implementation.
type Type string

const (
	GitHub  Type = "github"
	GitLab  Type = "gitlab"
	Forgejo Type = "forgejo"
)

// Forge fetches the list of release assets for a project at a given tag
// (or the latest release when tag is empty).
type Forge interface {
	FetchAssets(ctx context.Context, project Identity, tag string) ([]Asset, error)
	Name() Type
}

// envVarNames lists, in precedence order, the environment variables each
// forge checks for a bearer token when none is supplied explicitly.
func envVarNames(t Type) []string {
	switch t {
	case GitHub, Forgejo:
		return []string{"GITHUB_TOKEN"}
	case GitLab:
		return []string{"CI_JOB_TOKEN", "GITLAB_TOKEN"}
	default:
		return nil
	}
}

// Token resolves the bearer token to use for t: explicit takes precedence
// over the forge's env var list, first-set wins within that list.
func Token(t Type, explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range envVarNames(t) {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}
