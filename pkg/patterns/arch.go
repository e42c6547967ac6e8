package patterns

import "regexp"

// Architecture-matching regexes, one per platform.Arch value (plus the
// auxiliary 32-bit x86 family, which platform.Arch models as X86).
var (
	AArch64   = regexp.MustCompile(`(?i:(?:\b|_)(?:aarch_?64|arm_?64)(?:\b|_))`)
	Arm       = regexp.MustCompile(`(?i:(?:\b|_)arm(?:v[0-7])?(?:\b|_))`)
	Mips      = regexp.MustCompile(`(?i:(?:\b|_)mips(?:\b|_))`)
	MipsLE    = regexp.MustCompile(`(?i:(?:\b|_)mips_?le(?:\b|_)|(?:\b|_)mipsel(?:\b|_))`)
	Mips64    = regexp.MustCompile(`(?i:(?:\b|_)mips64(?:\b|_))`)
	Mips64LE  = regexp.MustCompile(`(?i:(?:\b|_)mips64_?le(?:\b|_)|(?:\b|_)mips64el(?:\b|_))`)
	PowerPc   = regexp.MustCompile(`(?i:(?:\b|_)(?:ppc|powerpc)(?:\b|_))`)
	PowerPc64 = regexp.MustCompile(`(?i:(?:\b|_)(?:ppc64|powerpc64)(?:be)?(?:\b|_))`)
	PowerPc64LE = regexp.MustCompile(`(?i:(?:\b|_)(?:ppc64le|powerpcle_?64)(?:\b|_))`)
	Riscv     = regexp.MustCompile(`(?i:(?:\b|_)riscv(?:\b|_))`)
	Riscv64   = regexp.MustCompile(`(?i:(?:\b|_)riscv64(?:\b|_))`)
	S390      = regexp.MustCompile(`(?i:(?:\b|_)s390(?:\b|_))`)
	S390X     = regexp.MustCompile(`(?i:(?:\b|_)s390(?:x|_64)(?:\b|_))`)
	Sparc     = regexp.MustCompile(`(?i:(?:\b|_)sparc(?:\b|_))`)
	Sparc64   = regexp.MustCompile(`(?i:(?:\b|_)sparc64(?:\b|_))`)

	// X86_32 and X86_64 deliberately overlap on 386/i586/i686/x86_32: the
	// original source's x86_64_re() matches those 32-bit tokens too, and
	// that overlap is load-bearing (see the original's own "multiple
	// matches" test, which expects an i686 asset to win an x86_64 host's
	// architecture filter over a rejection). Win32/Win64 are folded in
	// here rather than left as a separate gate, since the OS filter
	// already rejects them on non-Windows hosts.
	X86_32 = regexp.MustCompile(`(?i:(?:\b|_)(?:386|i586|i686|x86[_-]32|win32)(?:\b|_))`)

	X86_64 = regexp.MustCompile(`(?i:(?:\b|_)(?:386|i586|i686|x86[_-]32|x86[_-]64|x64|amd64|linux64|win64)(?:\b|_))`)

	// MacOSAarch64 is the union used by the macOS-ARM preference step: it
	// recognizes "some 64-bit x86 or ARM" token so the picker can tell an
	// aarch64-only asset apart from one that also matches x86_64. Scoped to
	// the original's macos_aarch64_re() token set directly, rather than
	// reusing X86_64 wholesale, since X86_64 now also matches 32-bit tokens
	// that macOS ARM's Rosetta fallback was never meant to consider.
	MacOSAarch64 = regexp.MustCompile(`(?i:(?:\b|_)(?:aarch_?64|arm_?64|x86[_-]64|x64|amd64)(?:\b|_))`)
)

// AllArches is the ordered union of every architecture regex. Used by the
// picker to answer "does this name encode some architecture at all?".
var AllArches = regexp.MustCompile(
	AArch64.String() + `|` + Arm.String() + `|` +
		Mips64LE.String() + `|` + Mips64.String() + `|` + MipsLE.String() + `|` + Mips.String() + `|` +
		PowerPc64LE.String() + `|` + PowerPc64.String() + `|` + PowerPc.String() + `|` +
		Riscv64.String() + `|` + Riscv.String() + `|` +
		S390X.String() + `|` + S390.String() + `|` +
		Sparc64.String() + `|` + Sparc.String() + `|` +
		X86_32.String() + `|` + X86_64.String())

// ForArch returns the regex that recognizes tokens for the given
// platform.Arch, or nil if no dedicated regex exists for that arch.
func ForArch(a string) *regexp.Regexp {
	switch a {
	case "aarch64":
		return AArch64
	case "arm":
		return Arm
	case "mips":
		return Mips
	case "mips64":
		return Mips64
	case "powerpc":
		return PowerPc
	case "powerpc64":
		return PowerPc64
	case "riscv64":
		return Riscv64
	case "s390x":
		return S390X
	case "sparc64":
		return Sparc64
	case "x86":
		return X86_32
	case "x86_64":
		return X86_64
	default:
		return nil
	}
}
