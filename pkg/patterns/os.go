// Package patterns holds the compiled-once regex registry the picker uses to
// recognize OS and architecture tokens embedded in release asset names.
package patterns

import "regexp"

// OS-matching regexes, one per platform.OS value. Each is case-insensitive
// and anchored at a word or underscore boundary so "linux" matches inside
// "foo-linux-amd64" but not inside "alinux" or "linuxfoo-other".
var (
	Linux   = regexp.MustCompile(`(?i:(?:\b|_)linux(?:\b|_|32|64))`)
	MacOS   = regexp.MustCompile(`(?i:(?:\b|_)(?:darwin|macos|osx|mac)(?:\b|_))`)
	Windows = regexp.MustCompile(`(?i:(?:\b|_)win(?:32|64|dows)?(?:\b|_))`)
	FreeBSD = regexp.MustCompile(`(?i:(?:\b|_)freebsd(?:\b|_))`)
	NetBSD  = regexp.MustCompile(`(?i:(?:\b|_)netbsd(?:\b|_))`)
	OpenBSD = regexp.MustCompile(`(?i:(?:\b|_)openbsd(?:\b|_))`)
	Solaris = regexp.MustCompile(`(?i:(?:\b|_)solaris(?:\b|_))`)
	Illumos = regexp.MustCompile(`(?i:(?:\b|_)illumos(?:\b|_))`)
	Fuchsia = regexp.MustCompile(`(?i:(?:\b|_)fuchsia(?:\b|_))`)
	Android = regexp.MustCompile(`(?i:(?:\b|_)android(?:\b|_))`)
)

// AllOSes is the ordered union of every OS regex, used by the extension
// classifier to recognize a trailing platform tag as "not a real extension".
var AllOSes = regexp.MustCompile(
	Linux.String() + `|` + MacOS.String() + `|` + Windows.String() + `|` +
		FreeBSD.String() + `|` + NetBSD.String() + `|` + OpenBSD.String() + `|` +
		Solaris.String() + `|` + Illumos.String() + `|` + Fuchsia.String() + `|` +
		Android.String())
