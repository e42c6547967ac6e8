package cmd

import "testing"

func TestRequireExactlyOneTargetRejectsZero(t *testing.T) {
	installFlags.project, installFlags.url, installFlags.selfUpgrade = "", "", false
	if err := requireExactlyOneTarget(); err == nil {
		t.Error("expected an error when none of --project, --url, --self-upgrade is set")
	}
}

func TestRequireExactlyOneTargetRejectsMultiple(t *testing.T) {
	installFlags.project, installFlags.url, installFlags.selfUpgrade = "owner/repo", "https://example.com/a.tar.gz", false
	if err := requireExactlyOneTarget(); err == nil {
		t.Error("expected an error when both --project and --url are set")
	}
	installFlags.project, installFlags.url = "", ""
}

func TestRequireExactlyOneTargetAcceptsOne(t *testing.T) {
	installFlags.project, installFlags.url, installFlags.selfUpgrade = "owner/repo", "", false
	if err := requireExactlyOneTarget(); err != nil {
		t.Errorf("requireExactlyOneTarget() = %v, want nil", err)
	}
	installFlags.project = ""
}

func TestValidateLogFlagsRejectsMultiple(t *testing.T) {
	verbose, debug, quiet = true, true, false
	defer func() { verbose, debug, quiet = false, false, false }()
	if err := validateLogFlags(); err == nil {
		t.Error("expected an error when --verbose and --debug are both set")
	}
}

func TestValidateLogFlagsAcceptsOne(t *testing.T) {
	verbose, debug, quiet = true, false, false
	defer func() { verbose, debug, quiet = false, false, false }()
	if err := validateLogFlags(); err != nil {
		t.Errorf("validateLogFlags() = %v, want nil", err)
	}
}

func TestResolveForgeFlagAcceptsKnownValues(t *testing.T) {
	for _, name := range []string{"", "github", "gitlab", "forgejo"} {
		if _, err := resolveForgeFlag(name); err != nil {
			t.Errorf("resolveForgeFlag(%q) = %v, want nil", name, err)
		}
	}
}

func TestResolveForgeFlagRejectsUnknownValue(t *testing.T) {
	if _, err := resolveForgeFlag("bitbucket"); err == nil {
		t.Error("expected an error for an unrecognized --forge value")
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := firstNonEmpty("", "", "c", "d"); got != "c" {
		t.Errorf("firstNonEmpty = %q, want c", got)
	}
	if got := firstNonEmpty("", ""); got != "" {
		t.Errorf("firstNonEmpty = %q, want empty string", got)
	}
}
