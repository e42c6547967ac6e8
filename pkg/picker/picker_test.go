package picker

import (
	"regexp"
	"testing"

	"github.com/binary-install/ubi/pkg/forge"
	"github.com/binary-install/ubi/pkg/platform"
)

func assetsFromNames(names ...string) []forge.Asset {
	out := make([]forge.Asset, len(names))
	for i, n := range names {
		out[i] = forge.Asset{Name: n, URL: "https://example.com/" + n}
	}
	return out
}

func TestPickPrefersMuslOnLinuxMusl(t *testing.T) {
	assets := assetsFromNames(
		"project-x86_64-unknown-linux-gnu.tar.gz",
		"project-x86_64-unknown-linux-musl.tar.gz",
	)
	p := platform.Platform{OS: platform.Linux, Arch: platform.X86_64, IsMusl: true}

	got, err := Pick(assets, p, Options{})
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	if got.Name != "project-x86_64-unknown-linux-musl.tar.gz" {
		t.Errorf("Pick() = %s, want the musl asset", got.Name)
	}
}

func TestPickPrefersNativeArmOnMacOSWhenAvailable(t *testing.T) {
	assets := assetsFromNames(
		"project-aarch64-apple-darwin.tar.gz",
		"project-x86_64-apple-darwin.tar.gz",
	)
	p := platform.Platform{OS: platform.MacOS, Arch: platform.AArch64}

	got, err := Pick(assets, p, Options{})
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	if got.Name != "project-aarch64-apple-darwin.tar.gz" {
		t.Errorf("Pick() = %s, want the native aarch64 asset", got.Name)
	}
}

func TestPickFallsBackToX86_64ForRosettaOnMacARMWithoutNativeBuild(t *testing.T) {
	assets := assetsFromNames(
		"project-x86_64-apple-darwin.tar.gz",
		"project-x86_64-unknown-linux-gnu.tar.gz",
	)
	p := platform.Platform{OS: platform.MacOS, Arch: platform.AArch64}

	got, err := Pick(assets, p, Options{})
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	if got.Name != "project-x86_64-apple-darwin.tar.gz" {
		t.Errorf("Pick() = %s, want the x86_64 darwin asset for Rosetta translation", got.Name)
	}
}

func TestPickBreaksWindowsTieLexicographically(t *testing.T) {
	assets := assetsFromNames(
		"project-x86_64-pc-windows-msvc.zip",
		"project-x86_64-pc-windows-gnu.zip",
	)
	p := platform.Platform{OS: platform.Windows, Arch: platform.X86_64}

	got, err := Pick(assets, p, Options{})
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	if got.Name != "project-x86_64-pc-windows-gnu.zip" {
		t.Errorf("Pick() = %s, want the lexicographically first of the tied assets", got.Name)
	}
}

func TestPickMatchesI686AssetsAgainstX86_64Host(t *testing.T) {
	assets := assetsFromNames(
		"mm-i686-pc-windows-msvc.zip",
		"mm-i686-pc-windows-gnu.zip",
	)
	p := platform.Platform{OS: platform.Windows, Arch: platform.X86_64}

	got, err := Pick(assets, p, Options{})
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	if got.Name != "mm-i686-pc-windows-gnu.zip" {
		t.Errorf("Pick() = %s, want mm-i686-pc-windows-gnu.zip (x86_64 hosts accept i686 assets)", got.Name)
	}
}

func TestPickPrefers64BitAndExcludesAarch64ForProtoc(t *testing.T) {
	assets := assetsFromNames(
		"protoc-25.1-linux-x86_32.zip",
		"protoc-25.1-linux-x86_64.zip",
		"protoc-25.1-linux-aarch_64.zip",
	)
	p := platform.Platform{OS: platform.Linux, Arch: platform.X86_64}

	got, err := Pick(assets, p, Options{})
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	if got.Name != "protoc-25.1-linux-x86_64.zip" {
		t.Errorf("Pick() = %s, want the 64-bit x86_64 asset", got.Name)
	}
}

func TestPickFallsBackToOSOnlyAssetWithNoArchTokens(t *testing.T) {
	assets := assetsFromNames(
		"gvproxy-darwin",
		"gvproxy-linux",
		"gvproxy-windows.exe",
	)
	p := platform.Platform{OS: platform.MacOS, Arch: platform.X86_64}

	got, err := Pick(assets, p, Options{})
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	if got.Name != "gvproxy-darwin" {
		t.Errorf("Pick() = %s, want the OS-only fallback asset", got.Name)
	}
}

func TestPickRespectsMatchingRegex(t *testing.T) {
	assets := assetsFromNames(
		"project-x86_64-unknown-linux-gnu.tar.gz",
		"project-x86_64-unknown-linux-musl.tar.gz",
	)
	p := platform.Platform{OS: platform.Linux, Arch: platform.X86_64}

	re := regexp.MustCompile(`gnu\.tar\.gz$`)
	got, err := Pick(assets, p, Options{MatchingRegex: re})
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	if got.Name != "project-x86_64-unknown-linux-gnu.tar.gz" {
		t.Errorf("Pick() = %s, want the gnu asset selected by --matching-regex", got.Name)
	}
}

func TestPickReturnsSelectionErrorWhenNoOSMatch(t *testing.T) {
	assets := assetsFromNames("project-windows-amd64.zip", "project-darwin-amd64.tar.gz")
	p := platform.Platform{OS: platform.Linux, Arch: platform.X86_64}

	_, err := Pick(assets, p, Options{})
	if err == nil {
		t.Fatal("expected a selection error when no asset matches the host OS")
	}
	if _, ok := err.(*SelectionError); !ok {
		t.Errorf("expected *SelectionError, got %T", err)
	}
}

func TestPickArchiveOnlyExcludesSingleStreamCompressors(t *testing.T) {
	assets := assetsFromNames(
		"project-linux-amd64.gz",
		"project-linux-amd64.tar.gz",
	)
	p := platform.Platform{OS: platform.Linux, Arch: platform.X86_64}

	got, err := Pick(assets, p, Options{ArchiveOnly: true})
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	if got.Name != "project-linux-amd64.tar.gz" {
		t.Errorf("Pick() = %s, want the archive asset when --extract-all is set", got.Name)
	}
}
