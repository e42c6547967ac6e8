package forge

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// GitLabForge talks to the GitLab Releases API (gitlab.com or a
// self-hosted instance when BaseURL is set).
type GitLabForge struct {
	Token   string
	BaseURL string
	HTTP    *http.Client
}

func (g *GitLabForge) Name() Type { return GitLab }

func (g *GitLabForge) client() (*gitlab.Client, error) {
	opts := []gitlab.ClientOptionFunc{}
	if g.BaseURL != "" {
		opts = append(opts, gitlab.WithBaseURL(g.BaseURL))
	}
	if g.HTTP != nil {
		opts = append(opts, gitlab.WithHTTPClient(g.HTTP))
	}
	if g.Token != "" {
		return gitlab.NewJobClient(g.Token, opts...)
	}
	return gitlab.NewClient("", opts...)
}

// FetchAssets fetches the release links for project at tag, or the most
// recently published release when tag is empty (GitLab's API has no
// single "latest" verb the way GitHub does, so this lists releases, sorts
// them by ReleasedAt, newest first, and picks the first).
func (g *GitLabForge) FetchAssets(ctx context.Context, project Identity, tag string) ([]Asset, error) {
	client, err := g.client()
	if err != nil {
		return nil, fmt.Errorf("forge: building gitlab client: %w", err)
	}

	var release *gitlab.Release
	if tag != "" {
		release, _, err = client.Releases.GetRelease(project.Owner, tag, gitlab.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("forge: fetching gitlab release %s for %s: %w", tag, project.Owner, err)
		}
	} else {
		releases, _, err := client.Releases.ListReleases(project.Owner, &gitlab.ListReleasesOptions{}, gitlab.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("forge: listing gitlab releases for %s: %w", project.Owner, err)
		}
		if len(releases) == 0 {
			return nil, fmt.Errorf("forge: project %s has no releases", project.Owner)
		}
		sort.Slice(releases, func(i, j int) bool {
			return releases[i].ReleasedAt.After(*releases[j].ReleasedAt)
		})
		release = releases[0]
	}

	if release.Assets == nil {
		return nil, nil
	}
	assets := make([]Asset, 0, len(release.Assets.Links))
	for _, link := range release.Assets.Links {
		assets = append(assets, Asset{Name: link.Name, URL: link.URL})
	}
	return assets, nil
}
