package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/pkg/errors"

	"github.com/binary-install/ubi/pkg/orchestrator"
)

// selfUpgradeProject is ubi's own project identity, used by --self-upgrade
// to fetch ubi's latest release the same way it would fetch any other
// project's.
const selfUpgradeProject = "binary-install/ubi"

// runSelfUpgrade installs the latest ubi release over the currently
// running executable's own directory, reusing the regular install
// pipeline rather than a bespoke update mechanism.
func runSelfUpgrade(ctx context.Context) error {
	self, err := os.Executable()
	if err != nil {
		return errors.Wrap(err, "locating the running executable")
	}

	opts := orchestrator.Options{
		Project:      selfUpgradeProject,
		InstallDir:   filepath.Dir(self),
		Exe:          "ubi",
		GitHubToken:  installFlags.githubToken,
		ShowProgress: !quiet,
	}

	result, err := orchestrator.Run(ctx, opts)
	if err != nil {
		return errors.Wrap(err, "self-upgrade failed")
	}

	log.Infof("upgraded ubi to %s at %s", result.Tag, result.InstalledPath)
	return nil
}
