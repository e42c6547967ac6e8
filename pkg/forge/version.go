package forge

import (
	hcversion "github.com/hashicorp/go-version"
)

// latestByVersion returns the tag with the highest semantic version among
// tags, ignoring any that don't parse as a version at all (e.g. a
// "nightly" tag alongside real releases). Among equal versions the first in
// tags wins; an input with no parseable tag (or no tags) returns "".
//
// This mirrors the teacher's resolve.go fallback of listing releases and
// picking one client-side when the forge's own "latest" endpoint 404s
// (GitHub marks prereleases and drafts as ineligible for GetLatestRelease,
// so some projects with only prereleases need this fallback).
func latestByVersion(tags []string) string {
	var best string
	var bestVersion *hcversion.Version
	for _, t := range tags {
		v, err := hcversion.NewVersion(t)
		if err != nil {
			continue
		}
		if bestVersion == nil || v.GreaterThan(bestVersion) {
			bestVersion = v
			best = t
		}
	}
	return best
}
