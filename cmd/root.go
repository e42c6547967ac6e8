package cmd

import (
	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/spf13/cobra"

	"github.com/binary-install/ubi/pkg/ubierrors"
)

var (
	verbose bool
	debug   bool
	quiet   bool
)

// RootCmd is ubi's single command: it installs a binary release asset for
// the host platform. There are no subcommands; every option is a flag on
// this command.
var RootCmd = &cobra.Command{
	Use:   "ubi",
	Short: "Universal binary installer: fetch a release asset and install it",
	Long: `ubi locates a project's release on GitHub, GitLab, or Forgejo, picks the
release asset that best matches the host's OS, architecture, and libc,
downloads it, verifies its checksum when one is published, extracts it if
needed, and installs the resulting executable.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := validateLogFlags(); err != nil {
			return err
		}
		log.SetHandler(cli.Default)
		switch {
		case debug:
			log.SetLevel(log.DebugLevel)
		case verbose:
			log.SetLevel(log.InfoLevel)
		case quiet:
			log.SetLevel(log.ErrorLevel)
		default:
			log.SetLevel(log.WarnLevel)
		}
		return nil
	},
	RunE: runInstall,
}

func validateLogFlags() error {
	set := 0
	for _, v := range []bool{verbose, debug, quiet} {
		if v {
			set++
		}
	}
	if set > 1 {
		return ubierrors.NewArgumentError("--verbose, --debug, and --quiet are mutually exclusive")
	}
	return nil
}

// Execute runs the root command and returns the process exit code for its
// result. This is called by main.main().
func Execute() int {
	if err := RootCmd.Execute(); err != nil {
		log.WithError(err).Error("ubi failed")
		return ubierrors.ExitCode(err)
	}
	return ubierrors.ExitOK
}

func init() {
	RootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "increase log verbosity")
	RootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable trace-level logging of every pipeline stage")
	RootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "suppress everything but errors")

	registerInstallFlags(RootCmd)
}
