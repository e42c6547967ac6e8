package archive

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// FindExecutable locates the wanted executable inside an extraction tree.
// Archives are extracted preserving their original directory structure (a
// release tarball typically nests its binary under a version-and-platform
// named directory), so this walks the whole tree rather than assuming a flat
// layout, and picks the first regular-file entry whose basename matches,
// case-insensitively, trying wanted+".exe" as well.
func FindExecutable(dir, wanted string) (string, error) {
	candidates := []string{wanted}
	if !strings.HasSuffix(strings.ToLower(wanted), ".exe") {
		candidates = append(candidates, wanted+".exe")
	}

	var found string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if found != "" || d.IsDir() {
			return nil
		}
		for _, c := range candidates {
			if strings.EqualFold(d.Name(), c) {
				found = path
				return filepath.SkipAll
			}
		}
		return nil
	})
	if err != nil {
		return "", errors.Wrapf(err, "searching extraction directory %s", dir)
	}
	if found != "" {
		return found, nil
	}

	return "", errors.Errorf("could not find executable %q under %s", wanted, dir)
}
