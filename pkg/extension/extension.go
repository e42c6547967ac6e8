// Package extension classifies release asset filenames into a closed set of
// recognized archive/compression extensions.
package extension

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/binary-install/ubi/pkg/patterns"
)

// Extension is one member of the closed enumeration of recognized asset
// suffixes.
type Extension string

const (
	Bz       Extension = "Bz"
	Bz2      Extension = "Bz2"
	Gz       Extension = "Gz"
	Xz       Extension = "Xz"
	Tar      Extension = "Tar"
	Tbz      Extension = "Tbz"
	Tbz2     Extension = "Tbz2"
	Tgz      Extension = "Tgz"
	Txz      Extension = "Txz"
	TarBz    Extension = "TarBz"
	TarBz2   Extension = "TarBz2"
	TarGz    Extension = "TarGz"
	TarXz    Extension = "TarXz"
	Zip      Extension = "Zip"
	SevenZip Extension = "SevenZip"
	Exe      Extension = "Exe"
	AppImage Extension = "AppImage"
	Pyz      Extension = "Pyz"
)

// canonical maps each Extension to the literal filename suffix it matches.
// Order matters only in that longer suffixes must be checked before their
// shorter substrings ("tar.gz" before "gz"); canonicalOrder enforces that.
var canonical = map[Extension]string{
	TarGz:    ".tar.gz",
	TarBz2:   ".tar.bz2",
	TarBz:    ".tar.bz",
	TarXz:    ".tar.xz",
	Tgz:      ".tgz",
	Tbz2:     ".tbz2",
	Tbz:      ".tbz",
	Txz:      ".txz",
	Tar:      ".tar",
	Bz2:      ".bz2",
	Bz:       ".bz",
	Gz:       ".gz",
	Xz:       ".xz",
	Zip:      ".zip",
	SevenZip: ".7z",
	Exe:      ".exe",
	AppImage: ".appimage",
	Pyz:      ".pyz",
}

// canonicalOrder lists the Extension keys sorted by descending suffix
// length, so the longest match always wins (".tar.gz" before ".gz").
var canonicalOrder = sortedByLength(canonical)

func sortedByLength(m map[Extension]string) []Extension {
	exts := make([]Extension, 0, len(m))
	for e := range m {
		exts = append(exts, e)
	}
	sort.Slice(exts, func(i, j int) bool {
		return len(m[exts[i]]) > len(m[exts[j]])
	})
	return exts
}

// String returns the canonical lowercase suffix for e.
func (e Extension) String() string {
	return canonical[e]
}

// UnknownExtensionError is returned when a filename carries a trailing
// dotted suffix that is neither a recognized extension, a version number,
// nor a platform tag.
type UnknownExtensionError struct {
	Path string
	Ext  string
}

func (e *UnknownExtensionError) Error() string {
	return fmt.Sprintf("don't know how to handle the file extension for %s (%s)", e.Path, e.Ext)
}

var (
	leadingDigits  = regexp.MustCompile(`^\d+`)
	versionTail    = regexp.MustCompile(`\d+\.(\d+[^.]+)$`)
)

// Classify maps filename to its recognized Extension. The second return
// value is false when filename carries no extension at all (a bare binary,
// a version-numbered suffix, or a platform tag masquerading as an
// extension) — none of which are errors.
func Classify(filename string) (Extension, bool, error) {
	lower := strings.ToLower(filename)
	for _, ext := range canonicalOrder {
		if strings.HasSuffix(lower, canonical[ext]) {
			return ext, true, nil
		}
	}

	dot := strings.LastIndex(filename, ".")
	if dot < 0 {
		return "", false, nil
	}
	extStr := filename[dot+1:]

	if leadingDigits.MatchString(extStr) {
		return "", false, nil
	}
	if versionTail.MatchString(filename) {
		return "", false, nil
	}
	if patterns.AllOSes.MatchString(extStr) {
		return "", false, nil
	}

	return "", false, &UnknownExtensionError{Path: filename, Ext: extStr}
}

// archiveOnly is the subset of extensions that survive when --extract-all
// is in effect: container formats only, no single-stream compressors and
// no bare executables.
var archiveOnly = map[Extension]bool{
	Tar: true, Tgz: true, Tbz: true, Tbz2: true, Txz: true,
	TarGz: true, TarBz: true, TarBz2: true, TarXz: true,
	Zip: true, SevenZip: true,
}

// IsArchive reports whether e is a container format eligible for
// --extract-all (archive-only mode).
func IsArchive(e Extension) bool {
	return archiveOnly[e]
}

// IsTarFamily reports whether e is backed by a tar stream (optionally
// wrapped in a single-stream decompressor).
func IsTarFamily(e Extension) bool {
	switch e {
	case Tar, Tgz, Tbz, Tbz2, Txz, TarGz, TarBz, TarBz2, TarXz:
		return true
	default:
		return false
	}
}

// CompatibleWithOS reports whether e may appear on the given host OS token
// ("windows", "linux", or anything else). Exe is Windows-only; AppImage is
// Linux-only.
func CompatibleWithOS(e Extension, goos string) bool {
	switch e {
	case Exe:
		return goos == "windows"
	case AppImage:
		return goos == "linux"
	default:
		return true
	}
}
