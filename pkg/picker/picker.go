// Package picker implements the asset-selection pipeline: given a release's
// full list of asset names and a host platform, choose exactly one.
package picker

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/apex/log"

	"github.com/binary-install/ubi/pkg/extension"
	"github.com/binary-install/ubi/pkg/forge"
	"github.com/binary-install/ubi/pkg/patterns"
	"github.com/binary-install/ubi/pkg/platform"
)

// SelectionError means a filter stage emptied the candidate set. It names
// the stage and the asset list the pipeline started from, per spec.md §7.
type SelectionError struct {
	Stage        string
	Platform     platform.Platform
	AllNames     []string
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("could not find a release asset %s from %s", e.Stage, strings.Join(e.AllNames, ", "))
}

// Options carries the optional user hints that disambiguate the pipeline.
type Options struct {
	MatchingRegex *regexp.Regexp
	Matching      string
	ArchiveOnly   bool
}

// Pick runs the full ordered pipeline and returns exactly one asset or a
// typed error. Every stage logs its surviving set at debug level so the
// pipeline can be reconstructed from logs in the field.
func Pick(assets []forge.Asset, p platform.Platform, opts Options) (forge.Asset, error) {
	names := assetNames(assets)

	candidates, err := filterExtension(assets, p, opts)
	if err != nil {
		return forge.Asset{}, err
	}
	trace("after extension filter", candidates)

	if opts.MatchingRegex != nil {
		candidates, err = filterByRegex(candidates, opts.MatchingRegex)
		if err != nil {
			return forge.Asset{}, selectionErr("matching the user-supplied regex", p, names, err)
		}
		trace("after user regex filter", candidates)
	}

	if len(candidates) == 1 {
		return candidates[0], nil
	}

	candidates = filterOS(candidates, p)
	if len(candidates) == 0 {
		return forge.Asset{}, &SelectionError{Stage: fmt.Sprintf("for this OS (%s)", p.OS), Platform: p, AllNames: names}
	}
	trace("after OS filter", candidates)

	candidates, ok := filterArch(candidates, p)
	if !ok {
		return forge.Asset{}, &SelectionError{Stage: fmt.Sprintf("for this OS (%s) and architecture (%s)", p.OS, p.Arch), Platform: p, AllNames: names}
	}
	trace("after architecture filter", candidates)

	if p.OS == platform.Linux && p.IsMusl {
		candidates = filterLibc(candidates)
		if len(candidates) == 0 {
			return forge.Asset{}, &SelectionError{Stage: fmt.Sprintf("for this OS (%s), architecture (%s), and libc (musl)", p.OS, p.Arch), Platform: p, AllNames: names}
		}
		trace("after libc filter", candidates)
	}

	if opts.Matching != "" && len(candidates) > 1 {
		matched := filterBySubstring(candidates, opts.Matching)
		if len(matched) == 0 {
			return forge.Asset{}, &SelectionError{Stage: fmt.Sprintf("containing the --matching string %q", opts.Matching), Platform: p, AllNames: names}
		}
		candidates = matched
		trace("after --matching substring filter", candidates)
	}

	if p.OS == platform.MacOS && p.Arch == platform.AArch64 && len(candidates) > 1 {
		if pick, ok := preferMacArm(candidates); ok {
			return pick, nil
		}
	}

	if p.Is64Bit() && len(candidates) > 1 {
		candidates = preferSixtyFourBit(candidates)
		trace("after 64-bit preference", candidates)
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Name < candidates[j].Name })
	return candidates[0], nil
}

func selectionErr(stage string, p platform.Platform, names []string, cause error) error {
	return &SelectionError{Stage: fmt.Sprintf("%s (%v)", stage, cause), Platform: p, AllNames: names}
}

func assetNames(assets []forge.Asset) []string {
	names := make([]string, len(assets))
	for i, a := range assets {
		names[i] = a.Name
	}
	return names
}

func trace(stage string, candidates []forge.Asset) {
	log.Debugf("picker: %s -> %s", stage, strings.Join(assetNames(candidates), ", "))
}

// filterExtension drops assets with an unknown or platform-incompatible
// extension. Bare binaries (no recognized extension) always pass.
func filterExtension(assets []forge.Asset, p platform.Platform, opts Options) ([]forge.Asset, error) {
	goos := string(p.OS)
	if p.OS == platform.MacOS {
		goos = "darwin"
	}

	var out []forge.Asset
	for _, a := range assets {
		ext, has, err := extension.Classify(a.Name)
		if err != nil {
			log.Debugf("picker: skipping %s, unrecognized extension: %v", a.Name, err)
			continue
		}
		if !has {
			out = append(out, a)
			continue
		}
		if opts.ArchiveOnly && !extension.IsArchive(ext) {
			log.Debugf("picker: skipping %s, not an archive format and --extract-all was requested", a.Name)
			continue
		}
		if !extension.CompatibleWithOS(ext, goos) {
			log.Debugf("picker: skipping %s, extension %s is not valid on %s", a.Name, ext, goos)
			continue
		}
		out = append(out, a)
	}
	if len(out) == 0 {
		return nil, &SelectionError{Stage: "after filtering by extension", Platform: p, AllNames: assetNames(assets)}
	}
	return out, nil
}

func filterByRegex(assets []forge.Asset, re *regexp.Regexp) ([]forge.Asset, error) {
	var out []forge.Asset
	for _, a := range assets {
		if re.MatchString(a.Name) {
			out = append(out, a)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no asset names matched the supplied --matching-regex %q", re.String())
	}
	return out, nil
}

func filterOS(assets []forge.Asset, p platform.Platform) []forge.Asset {
	re := osRegex(p.OS)
	var out []forge.Asset
	for _, a := range assets {
		if re != nil && !re.MatchString(a.Name) {
			continue
		}
		if p.OS != platform.Android && patterns.Android.MatchString(a.Name) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func osRegex(o platform.OS) *regexp.Regexp {
	switch o {
	case platform.Linux:
		return patterns.Linux
	case platform.MacOS:
		return patterns.MacOS
	case platform.Windows:
		return patterns.Windows
	case platform.FreeBSD:
		return patterns.FreeBSD
	case platform.NetBSD:
		return patterns.NetBSD
	case platform.Solaris:
		return patterns.Solaris
	case platform.Illumos:
		return patterns.Illumos
	case platform.Fuchsia:
		return patterns.Fuchsia
	case platform.Android:
		return patterns.Android
	default:
		return nil
	}
}

// filterArch implements the branching rule of spec.md §4.3 step 5. The
// returned bool is false when the filter empties the set entirely (a
// selection failure); true with a possibly-unchanged set otherwise.
func filterArch(assets []forge.Asset, p platform.Platform) ([]forge.Asset, bool) {
	archRe := patterns.ForArch(string(p.Arch))

	if len(assets) == 1 {
		a := assets[0]
		if archRe != nil && archRe.MatchString(a.Name) {
			return assets, true
		}
		if patterns.AllArches.MatchString(a.Name) {
			if p.OS == platform.MacOS && p.Arch == platform.AArch64 && patterns.X86_64.MatchString(a.Name) {
				log.Debug("picker: no native aarch64 asset, falling back to x86_64 for Rosetta translation")
				return assets, true
			}
			return nil, false
		}
		return assets, true
	}

	var matched []forge.Asset
	for _, a := range assets {
		if archRe != nil && archRe.MatchString(a.Name) {
			matched = append(matched, a)
		}
	}
	if len(matched) > 0 {
		return matched, true
	}

	var osOnly []forge.Asset
	for _, a := range assets {
		if !patterns.AllArches.MatchString(a.Name) {
			osOnly = append(osOnly, a)
		}
	}
	if len(osOnly) > 0 {
		return osOnly, true
	}

	if p.OS == platform.MacOS && p.Arch == platform.AArch64 {
		var x8664 []forge.Asset
		for _, a := range assets {
			if patterns.X86_64.MatchString(a.Name) {
				x8664 = append(x8664, a)
			}
		}
		if len(x8664) > 0 {
			log.Debug("picker: no native aarch64 asset, falling back to x86_64 for Rosetta translation")
			return x8664, true
		}
	}

	return nil, false
}

func filterLibc(assets []forge.Asset) []forge.Asset {
	var out []forge.Asset
	for _, a := range assets {
		lower := strings.ToLower(a.Name)
		if strings.Contains(lower, "-gnu") || strings.Contains(lower, "-glibc") {
			continue
		}
		out = append(out, a)
	}
	return out
}

func filterBySubstring(assets []forge.Asset, substr string) []forge.Asset {
	var out []forge.Asset
	for _, a := range assets {
		if strings.Contains(a.Name, substr) {
			out = append(out, a)
		}
	}
	return out
}

// preferMacArm returns the lexicographically first candidate that matches an
// aarch64-only token (not also x86_64), per spec.md §4.3 step 8.
func preferMacArm(assets []forge.Asset) (forge.Asset, bool) {
	var aarch64Only []forge.Asset
	for _, a := range assets {
		if patterns.MacOSAarch64.MatchString(a.Name) && !patterns.X86_64.MatchString(a.Name) {
			aarch64Only = append(aarch64Only, a)
		}
	}
	if len(aarch64Only) == 0 {
		return forge.Asset{}, false
	}
	sort.Slice(aarch64Only, func(i, j int) bool { return aarch64Only[i].Name < aarch64Only[j].Name })
	return aarch64Only[0], true
}

func preferSixtyFourBit(assets []forge.Asset) []forge.Asset {
	var with64 []forge.Asset
	for _, a := range assets {
		if strings.Contains(a.Name, "64") {
			with64 = append(with64, a)
		}
	}
	if len(with64) > 0 {
		return with64
	}
	return assets
}
