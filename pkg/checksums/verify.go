package checksums

import (
	"bufio"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/pkg/errors"
)

// MismatchError is returned by Verify when a file's digest does not match
// the checksum recorded for it.
type MismatchError struct {
	Path     string
	Expected string
	Got      string
}

func (e *MismatchError) Error() string {
	return "checksum for " + e.Path + " is incorrect: expected " + e.Expected + ", got " + e.Got
}

// Verify computes downloadedPath's digest and compares it against the
// checksum recorded in checksumPath for downloadedName, choosing the
// algorithm and parser (SBOM JSON vs. plain text) from checksumPath's own
// name and extension.
func Verify(downloadedPath, downloadedName, checksumPath string) error {
	log.Debugf("verifying checksum of %s with %s", downloadedPath, checksumPath)

	var (
		expected string
		alg      Algorithm
		err      error
	)
	if strings.EqualFold(filepath.Ext(checksumPath), ".json") {
		expected, alg, err = fromSBOM(checksumPath, downloadedName)
	} else {
		expected, alg, err = fromTextFile(checksumPath, downloadedName)
	}
	if err != nil {
		return err
	}

	got, err := digest(downloadedPath, alg)
	if err != nil {
		return err
	}

	if subtle.ConstantTimeCompare([]byte(strings.ToLower(got)), []byte(strings.ToLower(expected))) != 1 {
		return &MismatchError{Path: downloadedPath, Expected: expected, Got: got}
	}
	log.Debugf("checksum for %s is correct: got %s", downloadedPath, got)
	return nil
}

func digest(path string, alg Algorithm) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(err, "opening file to checksum")
	}
	defer f.Close()

	h, err := alg.newHasher()
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Wrap(err, "reading file to checksum")
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

type sbom struct {
	Files []sbomFile `json:"files"`
}

type sbomFile struct {
	FileName  string         `json:"fileName"`
	Checksums []sbomChecksum `json:"checksums"`
}

type sbomChecksum struct {
	Algorithm     string `json:"algorithm"`
	ChecksumValue string `json:"checksumValue"`
}

func fromSBOM(sbomPath, downloadedName string) (string, Algorithm, error) {
	log.Debugf("%s is an SBOM, parsing it as JSON to find checksums", downloadedName)

	f, err := os.Open(sbomPath)
	if err != nil {
		return "", "", errors.Wrap(err, "opening SBOM file")
	}
	defer f.Close()

	var doc sbom
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return "", "", errors.Wrapf(err, "parsing SBOM JSON from %s", sbomPath)
	}

	var match *sbomFile
	for i := range doc.Files {
		if doc.Files[i].FileName == downloadedName {
			match = &doc.Files[i]
			break
		}
	}
	if match == nil {
		return "", "", errors.Errorf("could not find a matching file name in the SBOM for %s", downloadedName)
	}
	if len(match.Checksums) == 0 {
		return "", "", errors.Errorf("the SBOM entry for %s has no checksums", downloadedName)
	}

	available := make(map[Algorithm]string, len(match.Checksums))
	for _, cs := range match.Checksums {
		alg := Algorithm(strings.ToLower(cs.Algorithm))
		if !knownAlgorithm(alg) {
			log.Infof("SBOM file contains an unknown algorithm: %s", cs.Algorithm)
			continue
		}
		available[alg] = cs.ChecksumValue
	}

	for _, alg := range orderedAlgorithms {
		if cs, ok := available[alg]; ok {
			log.Debugf("picking the %s checksum from the SBOM file", alg)
			return cs, alg, nil
		}
	}
	return "", "", errors.New("the SBOM file did not contain any checksums using known algorithms")
}

func knownAlgorithm(a Algorithm) bool {
	for _, known := range orderedAlgorithms {
		if known == a {
			return true
		}
	}
	return false
}

func fromTextFile(checksumPath, downloadedName string) (string, Algorithm, error) {
	f, err := os.Open(checksumPath)
	if err != nil {
		return "", "", errors.Wrap(err, "opening checksum file")
	}
	defer f.Close()

	checksum, err := checksumFromLines(f, downloadedName)
	if err != nil {
		return "", "", errors.Wrapf(err, "reading %s", checksumPath)
	}

	if alg, ok := AlgorithmFromName(filepath.Base(checksumPath)); ok {
		log.Debugf("choosing the %s hash algorithm based on the checksum filename", alg)
		return checksum, alg, nil
	}

	alg, err := AlgorithmFromHex(checksum)
	if err != nil {
		return "", "", err
	}
	log.Debugf("chose the %s hash algorithm based on the digest length", alg)
	return checksum, alg, nil
}

// checksumFromLines scans a checksum text file's non-comment, non-blank
// lines for the one naming downloadedName. A file with exactly one
// relevant line and one field is treated as a bare digest with no filename
// (the common convention for a single-asset "<name>.sha256" companion).
func checksumFromLines(r io.Reader, downloadedName string) (string, error) {
	var relevant []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		relevant = append(relevant, line)
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}

	for _, line := range relevant {
		fields := strings.Fields(line)
		if len(relevant) == 1 && len(fields) == 1 {
			return fields[0], nil
		}
		if len(fields) == 2 && strings.TrimPrefix(fields[1], "*") == downloadedName {
			return fields[0], nil
		}
	}

	return "", errors.Errorf("the checksum file did not contain any lines with a checksum for %s", downloadedName)
}
