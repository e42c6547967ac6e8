package patterns

import "testing"

func TestOSPatternsMatchExpectedTokens(t *testing.T) {
	tests := []struct {
		re   interface{ MatchString(string) bool }
		name string
		yes  []string
		no   []string
	}{
		{Linux, "Linux", []string{"project-linux-amd64", "Linux_x86_64"}, []string{"darwin"}},
		{MacOS, "MacOS", []string{"project-darwin-amd64", "Macos-arm"}, []string{"linux"}},
		{Windows, "Windows", []string{"project-windows-amd64.zip", "win32"}, []string{"linux"}},
	}
	for _, tt := range tests {
		for _, s := range tt.yes {
			if !tt.re.MatchString(s) {
				t.Errorf("%s pattern did not match %q", tt.name, s)
			}
		}
		for _, s := range tt.no {
			if tt.re.MatchString(s) {
				t.Errorf("%s pattern unexpectedly matched %q", tt.name, s)
			}
		}
	}
}

func TestX86_32AndX86_64OverlapOnThirtyTwoBitTokens(t *testing.T) {
	if X86_32.MatchString("project-linux-x86_64.tar.gz") {
		t.Error("X86_32 unexpectedly matched a 64-bit-only token")
	}
	if !X86_32.MatchString("project-linux-i686.tar.gz") {
		t.Error("X86_32 did not match an i686 token")
	}
	if !X86_64.MatchString("project-linux-i686.tar.gz") {
		t.Error("X86_64 did not match an i686 token; x86_64 hosts must accept 32-bit-named assets")
	}
	if !X86_64.MatchString("project-linux-x86_64.tar.gz") {
		t.Error("X86_64 did not match its own 64-bit token")
	}
}

func TestWin32Win64FoldIntoX86Regexes(t *testing.T) {
	if !X86_32.MatchString("project-win32.zip") {
		t.Error("X86_32 did not match win32")
	}
	if !X86_64.MatchString("project-win64.zip") {
		t.Error("X86_64 did not match win64")
	}
}

func TestForArch(t *testing.T) {
	tests := []struct {
		arch  string
		match string
	}{
		{"aarch64", "project-macos-aarch64.tar.gz"},
		{"x86_64", "project-linux-x86_64.tar.gz"},
		{"arm", "project-linux-armv7.tar.gz"},
	}
	for _, tt := range tests {
		re := ForArch(tt.arch)
		if re == nil {
			t.Fatalf("ForArch(%q) returned nil", tt.arch)
		}
		if !re.MatchString(tt.match) {
			t.Errorf("ForArch(%q) did not match %q", tt.arch, tt.match)
		}
	}
}

func TestMacOSAarch64MatchesBothArches(t *testing.T) {
	if !MacOSAarch64.MatchString("project-macos-arm64.tar.gz") {
		t.Error("MacOSAarch64 did not match an arm64 asset")
	}
	if !MacOSAarch64.MatchString("project-macos-x86_64.tar.gz") {
		t.Error("MacOSAarch64 did not match an x86_64 asset")
	}
}

func TestAllOSesCoversEveryOS(t *testing.T) {
	names := []string{"linux", "darwin", "windows", "freebsd", "netbsd", "solaris"}
	for _, n := range names {
		if !AllOSes.MatchString(n) {
			t.Errorf("AllOSes did not match %q", n)
		}
	}
}
