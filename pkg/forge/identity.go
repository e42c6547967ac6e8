package forge

import (
	"fmt"
	"net/url"
	"strings"
)

// Identity is a parsed project reference: which forge it lives on, its
// project path in Owner ("owner/repo" for GitHub/Forgejo, a possibly deeply
// nested `/`-joined group path ending in the project for GitLab), and an
// optional tag.
type Identity struct {
	Forge Type
	Owner string
	Tag   string
}

// ParseIdentity accepts either an `owner/repo` shorthand or an arbitrary
// URL to the project, its releases page, issues, or any other subpage, and
// returns the parsed Identity. When forgeHint is non-empty it overrides
// hostname-based inference.
func ParseIdentity(project, tag string, forgeHint Type) (Identity, error) {
	if !strings.Contains(project, "://") {
		return Identity{Forge: resolveForge(forgeHint, ""), Owner: project, Tag: tag}, nil
	}

	u, err := url.Parse(project)
	if err != nil {
		return Identity{}, fmt.Errorf("could not parse project url %q: %w", project, err)
	}

	forgeType := resolveForge(forgeHint, u.Hostname())

	var owner string
	switch forgeType {
	case GitLab:
		owner, err = parseGitLabPath(u.Path)
	default:
		owner, err = parseGitHubLikePath(u.Path)
	}
	if err != nil {
		return Identity{}, err
	}

	return Identity{Forge: forgeType, Owner: owner, Tag: tag}, nil
}

func resolveForge(hint Type, host string) Type {
	if hint != "" {
		return hint
	}
	switch {
	case strings.Contains(host, "gitlab"):
		return GitLab
	case strings.Contains(host, "codeberg"):
		return Forgejo
	default:
		return GitHub
	}
}

// parseGitHubLikePath extracts "owner/repo" from a GitHub or Forgejo URL
// path, erroring if fewer than two non-empty segments are present.
func parseGitHubLikePath(path string) (string, error) {
	parts := nonEmptySegments(path)
	if len(parts) < 2 {
		return "", fmt.Errorf("could not parse project from %s", path)
	}
	owner, repo := parts[0], parts[1]
	if owner == "" || repo == "" {
		return "", fmt.Errorf("could not parse org and repo name from %s", path)
	}
	return owner + "/" + repo, nil
}

// parseGitLabPath extracts a (possibly deeply nested) GitLab group/project
// path, truncating at the first "-" routing-separator segment (GitLab uses
// `/-/` to separate the project path from sub-resources like `/-/issues`).
func parseGitLabPath(path string) (string, error) {
	parts := nonEmptySegments(path)

	var kept []string
	for _, p := range parts {
		if p == "-" {
			break
		}
		kept = append(kept, p)
	}

	if len(kept) < 2 {
		return "", fmt.Errorf("could not parse project from %s", path)
	}
	for _, p := range kept {
		if p == "" {
			return "", fmt.Errorf("could not parse org and repo name from %s", path)
		}
	}
	return strings.Join(kept, "/"), nil
}

func nonEmptySegments(path string) []string {
	var out []string
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
