package forge

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v70/github"
)

// GitHubForge talks to the GitHub REST API (or a GitHub Enterprise instance
// when BaseURL is set).
type GitHubForge struct {
	Token   string
	BaseURL string
	HTTP    *http.Client
}

func (g *GitHubForge) Name() Type { return GitHub }

func (g *GitHubForge) client() (*github.Client, error) {
	c := github.NewClient(g.HTTP)
	if g.Token != "" {
		c = c.WithAuthToken(g.Token)
	}
	if g.BaseURL != "" {
		base := strings.TrimSuffix(g.BaseURL, "/") + "/"
		var err error
		c, err = c.WithEnterpriseURLs(base, base)
		if err != nil {
			return nil, fmt.Errorf("invalid github api base url %q: %w", g.BaseURL, err)
		}
	}
	return c, nil
}

// FetchAssets fetches the assets of project's release at tag, or the
// latest release when tag is empty.
func (g *GitHubForge) FetchAssets(ctx context.Context, project Identity, tag string) ([]Asset, error) {
	owner, repo, err := splitOwnerRepo(project.Owner)
	if err != nil {
		return nil, err
	}

	client, err := g.client()
	if err != nil {
		return nil, err
	}

	var release *github.RepositoryRelease
	if tag == "" {
		release, _, err = client.Repositories.GetLatestRelease(ctx, owner, repo)
		if err != nil {
			release, err = g.latestByListing(ctx, client, owner, repo)
		}
	} else {
		release, _, err = client.Repositories.GetReleaseByTag(ctx, owner, repo, tag)
	}
	if err != nil {
		return nil, fmt.Errorf("forge: fetching github release for %s/%s: %w", owner, repo, err)
	}

	assets := make([]Asset, 0, len(release.Assets))
	for _, a := range release.Assets {
		assets = append(assets, Asset{Name: a.GetName(), URL: a.GetBrowserDownloadURL()})
	}
	return assets, nil
}

// latestByListing falls back to listing releases and picking the highest
// semantic version when GetLatestRelease fails, which GitHub does for repos
// whose only releases are marked prerelease or draft.
func (g *GitHubForge) latestByListing(ctx context.Context, client *github.Client, owner, repo string) (*github.RepositoryRelease, error) {
	releases, _, err := client.Repositories.ListReleases(ctx, owner, repo, &github.ListOptions{PerPage: 100})
	if err != nil {
		return nil, fmt.Errorf("listing releases: %w", err)
	}
	byTag := make(map[string]*github.RepositoryRelease, len(releases))
	tags := make([]string, 0, len(releases))
	for _, r := range releases {
		byTag[r.GetTagName()] = r
		tags = append(tags, r.GetTagName())
	}
	best := latestByVersion(tags)
	if best == "" {
		return nil, fmt.Errorf("no releases with a parseable version tag")
	}
	return byTag[best], nil
}

func splitOwnerRepo(owner string) (string, string, error) {
	parts := strings.SplitN(owner, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("could not parse org and repo name from %q", owner)
	}
	return parts[0], parts[1], nil
}
