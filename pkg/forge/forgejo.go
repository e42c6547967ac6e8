package forge

import (
	"context"
	"fmt"
	"net/http"

	"code.gitea.io/sdk/gitea"
)

// DefaultForgejoURL is Codeberg's public instance, used when BaseURL is
// unset. Forgejo's REST API is Gitea-compatible, so self-hosted Forgejo and
// Gitea instances work identically by overriding BaseURL.
const DefaultForgejoURL = "https://codeberg.org"

// ForgejoForge talks to a Forgejo (or Gitea) instance's release API.
type ForgejoForge struct {
	Token   string
	BaseURL string
	HTTP    *http.Client
}

func (g *ForgejoForge) Name() Type { return Forgejo }

func (g *ForgejoForge) client() (*gitea.Client, error) {
	base := g.BaseURL
	if base == "" {
		base = DefaultForgejoURL
	}
	opts := []gitea.ClientOption{}
	if g.Token != "" {
		opts = append(opts, gitea.SetToken(g.Token))
	}
	if g.HTTP != nil {
		opts = append(opts, gitea.SetHTTPClient(g.HTTP))
	}
	return gitea.NewClient(base, opts...)
}

// FetchAssets fetches the release attachments of project at tag, or the
// newest release when tag is empty.
func (g *ForgejoForge) FetchAssets(ctx context.Context, project Identity, tag string) ([]Asset, error) {
	owner, repo, err := splitOwnerRepo(project.Owner)
	if err != nil {
		return nil, err
	}

	client, err := g.client()
	if err != nil {
		return nil, fmt.Errorf("forge: building forgejo client: %w", err)
	}
	client.SetContext(ctx)

	var release *gitea.Release
	if tag != "" {
		release, _, err = client.GetReleaseByTag(owner, repo, tag)
	} else {
		releases, _, listErr := client.ListReleases(owner, repo, gitea.ListReleasesOptions{
			ListOptions: gitea.ListOptions{Page: 1, PageSize: 1},
		})
		if listErr != nil {
			return nil, fmt.Errorf("forge: listing forgejo releases for %s/%s: %w", owner, repo, listErr)
		}
		if len(releases) == 0 {
			return nil, fmt.Errorf("forge: project %s/%s has no releases", owner, repo)
		}
		release = releases[0]
	}
	if err != nil {
		return nil, fmt.Errorf("forge: fetching forgejo release for %s/%s: %w", owner, repo, err)
	}

	assets := make([]Asset, 0, len(release.Attachments))
	for _, a := range release.Attachments {
		assets = append(assets, Asset{Name: a.Name, URL: a.DownloadURL})
	}
	return assets, nil
}
