// Package checksums locates a release's companion checksum asset and
// verifies a downloaded file against it.
package checksums

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"regexp"
	"strings"

	"github.com/apex/log"
)

// Algorithm is a supported checksum digest, ordered from strongest to
// weakest so callers that find more than one candidate in a file prefer
// the strongest.
type Algorithm string

const (
	SHA512 Algorithm = "sha512"
	SHA384 Algorithm = "sha384"
	SHA256 Algorithm = "sha256"
	SHA224 Algorithm = "sha224"
	SHA1   Algorithm = "sha1"
	MD5    Algorithm = "md5"
)

// orderedAlgorithms lists every known Algorithm from strongest to weakest.
var orderedAlgorithms = []Algorithm{SHA512, SHA384, SHA256, SHA224, SHA1, MD5}

// hexLength maps each digest's hex-encoded length to its Algorithm, used to
// infer the algorithm from a bare hex string with no other context.
var hexLength = map[int]Algorithm{
	128: SHA512,
	96:  SHA384,
	64:  SHA256,
	56:  SHA224,
	40:  SHA1,
	32:  MD5,
}

var hexDigits = regexp.MustCompile(`^[0-9a-fA-F]+$`)

// AlgorithmFromHex infers an Algorithm purely from the length of a hex
// digest string, for checksum files that carry no other hint of which
// algorithm produced them.
func AlgorithmFromHex(s string) (Algorithm, error) {
	if !hexDigits.MatchString(s) {
		return "", fmt.Errorf("checksums: %q is not a hex digest", s)
	}
	alg, ok := hexLength[len(s)]
	if !ok {
		return "", fmt.Errorf("checksums: could not determine hash algorithm from a %d-character hex digest", len(s))
	}
	return alg, nil
}

// AlgorithmFromName looks for one of the known algorithm names as a
// substring of name (case-insensitive), the way checksum files are often
// named ("project-v1.2.3-checksums.sha256").
func AlgorithmFromName(name string) (Algorithm, bool) {
	lower := strings.ToLower(name)
	for _, alg := range orderedAlgorithms {
		if strings.Contains(lower, string(alg)) {
			return alg, true
		}
	}
	return "", false
}

func (a Algorithm) newHasher() (hash.Hash, error) {
	switch a {
	case SHA512:
		return sha512.New(), nil
	case SHA384:
		return sha512.New384(), nil
	case SHA256:
		return sha256.New(), nil
	case SHA224:
		return sha256.New224(), nil
	case SHA1:
		return sha1.New(), nil
	case MD5:
		return md5.New(), nil
	default:
		return nil, fmt.Errorf("checksums: unsupported algorithm %q", a)
	}
}

// checksumAssetExtensions are the suffixes that mark an asset as a
// per-file checksum companion to another named asset, e.g.
// "myproject-v1.2.3-linux-amd64.tar.gz.sha256".
var checksumAssetExtensions = []string{".md5", ".sha1", ".sha256", ".sha512", ".sbom.json"}

// IsChecksumAssetFor reports whether assetName is a checksum file that
// names targetName specifically ("<targetName>.sha256" and similar).
func IsChecksumAssetFor(targetName, assetName string) bool {
	for _, ext := range checksumAssetExtensions {
		if assetName == targetName+ext {
			return true
		}
	}
	return false
}

// IsGeneralChecksumFile reports whether assetName looks like a single file
// that carries checksums for every asset in the release, such as
// "checksums.txt" or "myproject-checksums.txt". Unlike a per-file
// companion, callers need to search its contents by filename rather than
// trust a name match alone.
func IsGeneralChecksumFile(assetName string) bool {
	base := assetName
	if i := strings.LastIndex(base, "."); i >= 0 {
		ext := base[i+1:]
		if ext != "txt" && ext != "" {
			return false
		}
		base = base[:i]
	}
	return base == "checksums" || strings.HasSuffix(base, "-checksums")
}

// FindChecksumAsset searches assetNames (every asset name in the release
// except target itself) for the best checksum source for target, preferring
// a per-file companion over a general checksums file when both exist.
func FindChecksumAsset(target string, assetNames []string) (name string, general bool, ok bool) {
	var generalCandidate string
	for _, n := range assetNames {
		if n == target {
			continue
		}
		log.Debugf("considering %s as a checksum asset for %s", n, target)
		if IsChecksumAssetFor(target, n) {
			log.Debugf("%s is a checksum file for %s", n, target)
			return n, false, true
		}
		if generalCandidate == "" && IsGeneralChecksumFile(n) {
			generalCandidate = n
		}
	}
	if generalCandidate != "" {
		log.Debugf("%s may hold checksums for every asset, including %s", generalCandidate, target)
		return generalCandidate, true, true
	}
	return "", false, false
}
