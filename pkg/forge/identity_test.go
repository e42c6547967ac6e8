package forge

import "testing"

func TestParseIdentityShorthand(t *testing.T) {
	id, err := ParseIdentity("reviewdog/reviewdog", "v0.20.3", "")
	if err != nil {
		t.Fatalf("ParseIdentity: %v", err)
	}
	if id.Forge != GitHub {
		t.Errorf("Forge = %s, want github (default for shorthand)", id.Forge)
	}
	if id.Owner != "reviewdog/reviewdog" {
		t.Errorf("Owner = %s, want reviewdog/reviewdog", id.Owner)
	}
	if id.Tag != "v0.20.3" {
		t.Errorf("Tag = %s, want v0.20.3", id.Tag)
	}
}

func TestParseIdentityGitHubURL(t *testing.T) {
	id, err := ParseIdentity("https://github.com/reviewdog/reviewdog/releases/tag/v0.20.3", "", "")
	if err != nil {
		t.Fatalf("ParseIdentity: %v", err)
	}
	if id.Forge != GitHub {
		t.Errorf("Forge = %s, want github", id.Forge)
	}
	if id.Owner != "reviewdog/reviewdog" {
		t.Errorf("Owner = %s, want reviewdog/reviewdog", id.Owner)
	}
}

func TestParseIdentityGitLabURLWithNestedGroup(t *testing.T) {
	id, err := ParseIdentity("https://gitlab.com/gitlab-org/cli", "", "")
	if err != nil {
		t.Fatalf("ParseIdentity: %v", err)
	}
	if id.Forge != GitLab {
		t.Errorf("Forge = %s, want gitlab", id.Forge)
	}
	if id.Owner != "gitlab-org/cli" {
		t.Errorf("Owner = %s, want gitlab-org/cli", id.Owner)
	}
}

func TestParseIdentityGitLabURLTruncatesAtRoutingSeparator(t *testing.T) {
	id, err := ParseIdentity("https://gitlab.com/group/subgroup/project/-/issues/42", "", "")
	if err != nil {
		t.Fatalf("ParseIdentity: %v", err)
	}
	if id.Owner != "group/subgroup/project" {
		t.Errorf("Owner = %s, want group/subgroup/project (truncated at /-/)", id.Owner)
	}
}

func TestParseIdentityCodebergInfersForgejo(t *testing.T) {
	id, err := ParseIdentity("https://codeberg.org/forgejo/forgejo", "", "")
	if err != nil {
		t.Fatalf("ParseIdentity: %v", err)
	}
	if id.Forge != Forgejo {
		t.Errorf("Forge = %s, want forgejo (inferred from codeberg.org hostname)", id.Forge)
	}
	if id.Owner != "forgejo/forgejo" {
		t.Errorf("Owner = %s, want forgejo/forgejo", id.Owner)
	}
}

func TestParseIdentityForgeHintOverridesHostname(t *testing.T) {
	id, err := ParseIdentity("https://git.example.com/owner/repo", "", Forgejo)
	if err != nil {
		t.Fatalf("ParseIdentity: %v", err)
	}
	if id.Forge != Forgejo {
		t.Errorf("Forge = %s, want forgejo (explicit hint must win)", id.Forge)
	}
}

func TestParseIdentityRejectsIncompleteGitHubPath(t *testing.T) {
	if _, err := ParseIdentity("https://github.com/onlyowner", "", ""); err == nil {
		t.Fatal("expected an error for a URL with only one path segment")
	}
}

func TestParseIdentityRejectsIncompleteGitLabPath(t *testing.T) {
	if _, err := ParseIdentity("https://gitlab.com/onlygroup", "", ""); err == nil {
		t.Fatal("expected an error for a GitLab URL with only one path segment")
	}
}

func TestTokenPrefersExplicitOverEnv(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "from-env")
	got := Token(GitHub, "from-flag")
	if got != "from-flag" {
		t.Errorf("Token() = %s, want from-flag", got)
	}
}

func TestTokenFallsBackToEnv(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "from-env")
	got := Token(GitHub, "")
	if got != "from-env" {
		t.Errorf("Token() = %s, want from-env", got)
	}
}

func TestTokenGitLabPrefersCIJobTokenOverGitLabToken(t *testing.T) {
	t.Setenv("CI_JOB_TOKEN", "ci-job")
	t.Setenv("GITLAB_TOKEN", "personal")
	got := Token(GitLab, "")
	if got != "ci-job" {
		t.Errorf("Token() = %s, want ci-job (CI_JOB_TOKEN takes precedence)", got)
	}
}

func TestTokenEmptyWhenNothingSet(t *testing.T) {
	got := Token(GitHub, "")
	if got != "" {
		t.Errorf("Token() = %s, want empty string", got)
	}
}
