//go:build !linux

package platform

// DetectMusl always returns false off Linux; musl is a Linux-only libc and
// Platform.Validate rejects IsMusl=true on any other OS.
func DetectMusl() bool {
	return false
}
