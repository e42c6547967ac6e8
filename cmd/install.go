package cmd

import (
	"fmt"

	"github.com/apex/log"
	"github.com/spf13/cobra"

	"github.com/binary-install/ubi/pkg/config"
	"github.com/binary-install/ubi/pkg/forge"
	"github.com/binary-install/ubi/pkg/orchestrator"
	"github.com/binary-install/ubi/pkg/ubierrors"
)

var installFlags struct {
	project       string
	url           string
	tag           string
	in            string
	exe           string
	renameExe     string
	extractAll    bool
	matching      string
	matchingRegex string
	forgeName     string
	apiBaseURL    string
	githubToken   string
	gitlabToken   string
	selfUpgrade   bool
}

func registerInstallFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&installFlags.project, "project", "", "project identity: \"owner/repo\" or a URL to its forge page")
	f.StringVar(&installFlags.url, "url", "", "direct URL to a release asset, bypassing forge lookup and asset selection")
	f.StringVar(&installFlags.tag, "tag", "", "release tag to install (default: latest)")
	f.StringVar(&installFlags.in, "in", "", "installation directory (default: ./bin)")
	f.StringVar(&installFlags.exe, "exe", "", "name of the executable to find inside the asset (default: the project's repo name)")
	f.StringVar(&installFlags.renameExe, "rename-exe", "", "name to give the installed executable (default: --exe's value)")
	f.BoolVar(&installFlags.extractAll, "extract-all", false, "extract every file from the archive into the install directory instead of finding one executable")
	f.StringVar(&installFlags.matching, "matching", "", "prefer assets whose name contains this substring")
	f.StringVar(&installFlags.matchingRegex, "matching-regex", "", "prefer assets whose name matches this regular expression")
	f.StringVar(&installFlags.forgeName, "forge", "", "force the forge adapter instead of inferring it from the project URL (github, gitlab, forgejo)")
	f.StringVar(&installFlags.apiBaseURL, "api-base-url", "", "base URL for a self-hosted GitHub Enterprise, GitLab, or Forgejo/Gitea instance")
	f.StringVar(&installFlags.githubToken, "github-token", "", "GitHub bearer token (default: $GITHUB_TOKEN)")
	f.StringVar(&installFlags.gitlabToken, "gitlab-token", "", "GitLab bearer token (default: $CI_JOB_TOKEN or $GITLAB_TOKEN)")
	f.BoolVar(&installFlags.selfUpgrade, "self-upgrade", false, "replace this ubi binary with the latest release of ubi itself")

	cmd.MarkFlagsMutuallyExclusive("url", "project")
	cmd.MarkFlagsMutuallyExclusive("url", "tag")
	cmd.MarkFlagsMutuallyExclusive("extract-all", "exe")
	cmd.MarkFlagsMutuallyExclusive("extract-all", "rename-exe")
}

func runInstall(cmd *cobra.Command, args []string) error {
	if err := requireExactlyOneTarget(); err != nil {
		return err
	}

	forgeType, err := resolveForgeFlag(installFlags.forgeName)
	if err != nil {
		return err
	}

	if installFlags.selfUpgrade {
		return runSelfUpgrade(cmd.Context())
	}

	env, err := config.Load()
	if err != nil {
		return err
	}

	installDir, err := config.ResolveInstallDir(installFlags.in, env.InstallDir)
	if err != nil {
		return err
	}

	opts := orchestrator.Options{
		Project:       installFlags.project,
		URL:           installFlags.url,
		Tag:           installFlags.tag,
		InstallDir:    installDir,
		Exe:           installFlags.exe,
		RenameExe:     installFlags.renameExe,
		ExtractAll:    installFlags.extractAll,
		Matching:      installFlags.matching,
		MatchingRegex: installFlags.matchingRegex,
		Forge:         forgeType,
		APIBaseURL:    installFlags.apiBaseURL,
		GitHubToken:   firstNonEmpty(installFlags.githubToken, env.GitHubToken),
		GitLabToken:   firstNonEmpty(installFlags.gitlabToken, env.GitLabJob, env.GitLabToken),
		ShowProgress:  !quiet,
	}

	result, err := orchestrator.Run(cmd.Context(), opts)
	if err != nil {
		return err
	}

	log.Infof("installed %s (%s) to %s", result.AssetName, result.Tag, result.InstalledPath)
	return nil
}

func requireExactlyOneTarget() error {
	set := 0
	for _, v := range []bool{installFlags.project != "", installFlags.url != "", installFlags.selfUpgrade} {
		if v {
			set++
		}
	}
	if set != 1 {
		return ubierrors.NewArgumentError("exactly one of --project, --url, or --self-upgrade is required")
	}
	return nil
}

// resolveForgeFlag validates --forge against the closed set of known forge
// types, leaving it empty (meaning "infer from the project identity") when
// the user didn't supply one.
func resolveForgeFlag(name string) (forge.Type, error) {
	switch forge.Type(name) {
	case "":
		return "", nil
	case forge.GitHub, forge.GitLab, forge.Forgejo:
		return forge.Type(name), nil
	default:
		return "", ubierrors.NewArgumentError(fmt.Sprintf("unrecognized --forge value %q: must be one of github, gitlab, forgejo", name))
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
