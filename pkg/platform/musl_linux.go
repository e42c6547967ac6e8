//go:build linux

package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// DetectMusl reports whether the host's C runtime is musl rather than glibc.
//
// The real ubi detects this by shelling out to `ldd $(which ls)` and grepping
// the output for "musl", which is fragile (depends on ls/ldd existing on
// PATH with a particular output format) and unnecessary on Go, since the Go
// runtime never links against libc at all for this purpose. Instead this
// looks for the musl dynamic loader, which every musl libc install ships
// under /lib or /lib64, and falls back to scanning the running process's own
// memory map for a loaded musl loader. Any failure to detect is treated as
// "not musl", matching the fail-open behavior of the original.
func DetectMusl() bool {
	if hasMuslLoader("/lib") || hasMuslLoader("/lib64") {
		return true
	}
	return muslInProcMaps()
}

func hasMuslLoader(dir string) bool {
	matches, err := filepath.Glob(filepath.Join(dir, "ld-musl-*.so*"))
	if err != nil {
		return false
	}
	return len(matches) > 0
}

func muslInProcMaps() bool {
	data, err := os.ReadFile("/proc/self/maps")
	if err != nil {
		return false
	}
	return strings.Contains(string(data), "musl")
}
