// Package orchestrator wires identity parsing, forge lookup, asset
// selection, download, checksum verification, and extraction into the
// single end-to-end install operation the CLI exposes.
package orchestrator

import (
	"context"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/apex/log"
	"github.com/pkg/errors"

	"github.com/binary-install/ubi/pkg/archive"
	"github.com/binary-install/ubi/pkg/checksums"
	"github.com/binary-install/ubi/pkg/extension"
	"github.com/binary-install/ubi/pkg/fetch"
	"github.com/binary-install/ubi/pkg/forge"
	"github.com/binary-install/ubi/pkg/httpclient"
	"github.com/binary-install/ubi/pkg/picker"
	"github.com/binary-install/ubi/pkg/platform"
	"github.com/binary-install/ubi/pkg/ubierrors"
)

// Options captures the install command's resolved flags.
type Options struct {
	Project       string
	URL           string
	Tag           string
	InstallDir    string
	Exe           string
	RenameExe     string
	ExtractAll    bool
	Matching      string
	MatchingRegex string
	Forge         forge.Type
	APIBaseURL    string
	GitHubToken   string
	GitLabToken   string
	ShowProgress  bool
}

// Result describes a completed install.
type Result struct {
	InstalledPath string
	AssetName     string
	Tag           string
}

// Run performs the full install: locate the project's release, pick the
// best-matching asset for the host platform, download it, verify its
// checksum when a companion file is published, extract it if needed, and
// install the resulting executable with the executable bit set.
func Run(ctx context.Context, opts Options) (*Result, error) {
	host, err := platform.Host()
	if err != nil {
		return nil, errors.Wrap(err, "detecting host platform")
	}

	var (
		assetName string
		assetURL  string
		tag       = opts.Tag
	)

	if opts.URL != "" {
		assetName, assetURL = filepath.Base(mustPath(opts.URL)), opts.URL
	} else {
		id, err := forge.ParseIdentity(opts.Project, opts.Tag, opts.Forge)
		if err != nil {
			return nil, ubierrors.NewArgumentError(err.Error())
		}
		opts.Forge = id.Forge

		f := newForge(id.Forge, opts)
		assets, err := f.FetchAssets(ctx, id, id.Tag)
		if err != nil {
			return nil, errors.Wrap(err, "fetching release assets")
		}
		if len(assets) == 0 {
			return nil, errors.Errorf("release has no assets")
		}

		pickerOpts, err := buildPickerOptions(opts)
		if err != nil {
			return nil, ubierrors.NewArgumentError(err.Error())
		}

		chosen, err := picker.Pick(assets, host, pickerOpts)
		if err != nil {
			return nil, err
		}
		assetName, assetURL = chosen.Name, chosen.URL
		tag = id.Tag

		if companion, generalFile, ok := checksums.FindChecksumAsset(assetName, assetNames(assets)); ok {
			if err := verifyDownload(ctx, f, id, tag, assetName, assetURL, companion, generalFile, opts); err != nil {
				return nil, &ubierrors.ChecksumError{Message: err.Error(), Cause: err}
			}
		} else {
			log.Debugf("no checksum companion found for %s, skipping verification", assetName)
		}
	}

	client := httpclient.New(httpclient.TokenFor(opts.Forge, tokenFor(opts)))
	dl, err := fetch.Fetch(ctx, client, assetURL, assetName, fetch.Options{ShowProgress: opts.ShowProgress})
	if err != nil {
		return nil, errors.Wrap(err, "downloading release asset")
	}
	defer dl.Close()

	installed, err := extractAndInstall(dl.Path, assetName, opts)
	if err != nil {
		return nil, err
	}

	return &Result{InstalledPath: installed, AssetName: assetName, Tag: tag}, nil
}

func mustPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Path
}

func assetNames(assets []forge.Asset) []string {
	names := make([]string, len(assets))
	for i, a := range assets {
		names[i] = a.Name
	}
	return names
}

func newForge(t forge.Type, opts Options) forge.Forge {
	client := httpclient.New(httpclient.TokenFor(t, tokenFor(opts)))
	switch t {
	case forge.GitLab:
		return &forge.GitLabForge{Token: tokenFor(opts), BaseURL: opts.APIBaseURL, HTTP: client}
	case forge.Forgejo:
		return &forge.ForgejoForge{Token: tokenFor(opts), BaseURL: opts.APIBaseURL, HTTP: client}
	default:
		return &forge.GitHubForge{Token: tokenFor(opts), BaseURL: opts.APIBaseURL, HTTP: client}
	}
}

func tokenFor(opts Options) string {
	if opts.Forge == forge.GitLab && opts.GitLabToken != "" {
		return opts.GitLabToken
	}
	return opts.GitHubToken
}

func buildPickerOptions(opts Options) (picker.Options, error) {
	var (
		re  *regexp.Regexp
		err error
	)
	if opts.MatchingRegex != "" {
		re, err = regexp.Compile(opts.MatchingRegex)
		if err != nil {
			return picker.Options{}, errors.Wrapf(err, "invalid --matching-regex %q", opts.MatchingRegex)
		}
	}
	return picker.Options{
		MatchingRegex: re,
		Matching:      opts.Matching,
		ArchiveOnly:   opts.ExtractAll,
	}, nil
}

func verifyDownload(ctx context.Context, f forge.Forge, id forge.Identity, tag, assetName, assetURL, checksumAssetName string, general bool, opts Options) error {
	var checksumURL string
	assets, err := f.FetchAssets(ctx, id, tag)
	if err != nil {
		return errors.Wrap(err, "re-fetching assets to locate checksum file")
	}
	for _, a := range assets {
		if a.Name == checksumAssetName {
			checksumURL = a.URL
			break
		}
	}
	if checksumURL == "" {
		return errors.Errorf("could not find download URL for checksum asset %s", checksumAssetName)
	}

	client := httpclient.New(httpclient.TokenFor(opts.Forge, tokenFor(opts)))
	checksumDl, err := fetch.Fetch(ctx, client, checksumURL, checksumAssetName, fetch.Options{})
	if err != nil {
		return errors.Wrap(err, "downloading checksum file")
	}
	defer checksumDl.Close()

	assetDl, err := fetch.Fetch(ctx, client, assetURL, assetName, fetch.Options{})
	if err != nil {
		return errors.Wrap(err, "downloading asset to verify checksum")
	}
	defer assetDl.Close()

	if general {
		log.Debugf("%s holds checksums for multiple assets, searching it for %s", checksumAssetName, assetName)
	}
	return checksums.Verify(assetDl.Path, assetName, checksumDl.Path)
}

func extractAndInstall(downloadedPath, assetName string, opts Options) (string, error) {
	wanted := opts.Exe
	if wanted == "" {
		wanted = projectExeName(opts)
	}

	ext, isExt, err := extension.Classify(assetName)
	if err != nil {
		return "", &ubierrors.ExtractionError{Message: err.Error(), Cause: err}
	}

	outputName := opts.RenameExe
	if outputName == "" {
		outputName = wanted
	}
	if runtime.GOOS == "windows" && opts.RenameExe == "" && !strings.HasSuffix(strings.ToLower(outputName), ".exe") {
		outputName += ".exe"
	}

	destDir, err := resolveInstallDir(opts.InstallDir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", errors.Wrap(err, "creating install directory")
	}

	singleStream := ext == extension.Gz || ext == extension.Bz || ext == extension.Bz2 || ext == extension.Xz
	if !isExt || !(extension.IsArchive(ext) || singleStream) {
		return installFile(downloadedPath, filepath.Join(destDir, outputName))
	}

	extractDir, err := os.MkdirTemp("", "ubi-extract-*")
	if err != nil {
		return "", errors.Wrap(err, "creating extraction directory")
	}
	defer os.RemoveAll(extractDir)

	if err := archive.Extract(downloadedPath, extractDir, ext, archive.ExtractOptions{ExtractAll: opts.ExtractAll}); err != nil {
		return "", &ubierrors.ExtractionError{Message: err.Error(), Cause: err}
	}

	if singleStream {
		base := filepath.Base(downloadedPath)
		return installFile(filepath.Join(extractDir, strings.TrimSuffix(base, filepath.Ext(base))), filepath.Join(destDir, outputName))
	}

	if opts.ExtractAll {
		return installTree(extractDir, destDir)
	}

	found, err := archive.FindExecutable(extractDir, wanted)
	if err != nil {
		return "", &ubierrors.ExtractionError{Message: err.Error(), Cause: err}
	}
	return installFile(found, filepath.Join(destDir, outputName))
}

func projectExeName(opts Options) string {
	name := opts.Project
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}

func resolveInstallDir(dir string) (string, error) {
	if dir == "" {
		dir = "./bin"
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrapf(err, "resolving install directory %q", dir)
	}
	return abs, nil
}

// installFile atomically copies src to dest and sets the executable bit,
// writing through a sibling temp file first so a partial write never
// clobbers a working install.
func installFile(src, dest string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", errors.Wrap(err, "opening extracted executable")
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+"-*")
	if err != nil {
		return "", errors.Wrap(err, "creating temporary install file")
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		return "", errors.Wrap(err, "writing install file")
	}
	if err := tmp.Chmod(0o755); err != nil {
		tmp.Close()
		return "", errors.Wrap(err, "setting executable permission")
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return "", errors.Wrap(err, "syncing install file")
	}
	if err := tmp.Close(); err != nil {
		return "", errors.Wrap(err, "closing install file")
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		return "", errors.Wrap(err, "installing executable")
	}
	success = true
	return dest, nil
}

// installTree copies every regular file under extractDir into destDir,
// preserving relative paths, for --extract-all installs. When extractDir
// holds exactly one top-level entry and it is a directory, that directory's
// name is stripped from every installed path.
func installTree(extractDir, destDir string) (string, error) {
	root := extractDir
	if entries, err := os.ReadDir(extractDir); err == nil && len(entries) == 1 && entries[0].IsDir() {
		root = filepath.Join(extractDir, entries[0].Name())
	}
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		target := filepath.Join(destDir, rel)
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if _, err := installFile(path, target); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return "", errors.Wrap(err, "installing extracted files")
	}
	return destDir, nil
}
