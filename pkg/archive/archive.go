// Package archive extracts the executable(s) out of a downloaded release
// asset, whatever format it arrived in.
package archive

import (
	"archive/tar"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"
	kzip "github.com/klauspost/compress/zip"
	"github.com/pkg/errors"
	"github.com/ulikunitz/xz"

	"github.com/binary-install/ubi/pkg/extension"
)

// Entry is a single file inside an archive, abstracted over the underlying
// format. The extractors in this package read tar headers and zip/7z file
// lists directly and do not produce Entry values.
type Entry interface {
	Path() string
	IsDir() bool
	Mode() fs.FileMode
	Open() (io.ReadCloser, error)
}

// ExtractOptions controls how an archive's members are written to disk.
type ExtractOptions struct {
	// ExtractAll also recreates the archive's directory entries in destDir.
	// Every regular file is written in either mode; picking the executable
	// out of the result is left to FindExecutable.
	ExtractAll bool
	// StripComponents removes this many leading path segments from every
	// member's name, as tar --strip-components does.
	StripComponents int
}

// Extract opens archivePath, picks the extractor for the given extension,
// and extracts its contents into destDir. For a single-file compressed format (.gz, .bz2,
// .xz with no tar layer) the decompressed content is written as one file
// named after the archive minus its compression suffix.
func Extract(archivePath, destDir string, ext extension.Extension, opts ExtractOptions) error {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return errors.Wrap(err, "creating extraction directory")
	}

	switch ext {
	case extension.TarGz, extension.Tgz:
		return extractTarWith(archivePath, destDir, opts, gzip.NewReader)
	case extension.TarBz, extension.TarBz2, extension.Tbz, extension.Tbz2:
		return extractTarWith(archivePath, destDir, opts, func(r io.Reader) (io.Reader, error) {
			return bzip2.NewReader(r, nil)
		})
	case extension.TarXz, extension.Txz:
		return extractTarWith(archivePath, destDir, opts, func(r io.Reader) (io.Reader, error) {
			return xz.NewReader(r)
		})
	case extension.Tar:
		return extractTarWith(archivePath, destDir, opts, func(r io.Reader) (io.Reader, error) {
			return r, nil
		})
	case extension.Zip:
		return extractZip(archivePath, destDir, opts)
	case extension.SevenZip:
		return extractSevenZip(archivePath, destDir, opts)
	case extension.Gz:
		return extractSingle(archivePath, destDir, func(r io.Reader) (io.Reader, error) {
			return gzip.NewReader(r)
		})
	case extension.Bz2, extension.Bz:
		return extractSingle(archivePath, destDir, func(r io.Reader) (io.Reader, error) {
			return bzip2.NewReader(r, nil)
		})
	case extension.Xz:
		return extractSingle(archivePath, destDir, func(r io.Reader) (io.Reader, error) {
			return xz.NewReader(r)
		})
	default:
		return errors.Errorf("archive: no extractor registered for %s", ext)
	}
}

type decompressor func(io.Reader) (io.Reader, error)

func extractTarWith(archivePath, destDir string, opts ExtractOptions, decompress decompressor) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return errors.Wrap(err, "opening archive")
	}
	defer f.Close()

	r, err := decompress(f)
	if err != nil {
		return errors.Wrap(err, "decompressing archive")
	}
	if closer, ok := r.(io.Closer); ok {
		defer closer.Close()
	}

	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "reading tar header")
		}

		name, skip := stripComponents(hdr.Name, opts.StripComponents)
		if skip || !opts.ExtractAll && hdr.Typeflag != tar.TypeReg {
			continue
		}

		target, err := safeJoin(destDir, name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return errors.Wrap(err, "creating directory from tar entry")
			}
		case tar.TypeReg:
			if err := writeFile(target, tr, hdr.FileInfo().Mode()); err != nil {
				return err
			}
		}
	}
}

func extractZip(archivePath, destDir string, opts ExtractOptions) error {
	zr, err := kzip.OpenReader(archivePath)
	if err != nil {
		return errors.Wrap(err, "opening zip archive")
	}
	defer zr.Close()

	for _, f := range zr.File {
		name, skip := stripComponents(f.Name, opts.StripComponents)
		if skip || !opts.ExtractAll && f.FileInfo().IsDir() {
			continue
		}

		target, err := safeJoin(destDir, name)
		if err != nil {
			return err
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return errors.Wrap(err, "creating directory from zip entry")
			}
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return errors.Wrap(err, "opening zip entry")
		}
		err = writeFile(target, rc, f.Mode())
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func extractSevenZip(archivePath, destDir string, opts ExtractOptions) error {
	zr, err := sevenzip.OpenReader(archivePath)
	if err != nil {
		return errors.Wrap(err, "opening 7z archive")
	}
	defer zr.Close()

	for _, f := range zr.File {
		name, skip := stripComponents(f.Name, opts.StripComponents)
		if skip || !opts.ExtractAll && f.FileInfo().IsDir() {
			continue
		}

		target, err := safeJoin(destDir, name)
		if err != nil {
			return err
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return errors.Wrap(err, "creating directory from 7z entry")
			}
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return errors.Wrap(err, "opening 7z entry")
		}
		err = writeFile(target, rc, f.Mode())
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// extractSingle handles a bare compressed file with no archive container
// (asset.exe.gz and similar): the decompressed stream is written verbatim
// under the archive's basename minus its compression suffix.
func extractSingle(archivePath, destDir string, decompress decompressor) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return errors.Wrap(err, "opening compressed file")
	}
	defer f.Close()

	r, err := decompress(f)
	if err != nil {
		return errors.Wrap(err, "decompressing file")
	}
	if closer, ok := r.(io.Closer); ok {
		defer closer.Close()
	}

	base := filepath.Base(archivePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	target := filepath.Join(destDir, base)
	return writeFile(target, r, 0o644)
}

func writeFile(target string, r io.Reader, mode fs.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return errors.Wrap(err, "creating parent directory")
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return errors.Wrap(err, "creating extracted file")
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return errors.Wrap(err, "writing extracted file")
	}
	return out.Close()
}

// stripComponents removes count leading path segments from name, reporting
// skip=true when name has fewer segments than count (the entry is the
// directory prefix itself and has nothing left to extract).
func stripComponents(name string, count int) (stripped string, skip bool) {
	if count == 0 {
		return name, false
	}
	parts := strings.Split(filepath.ToSlash(name), "/")
	if len(parts) <= count {
		return "", true
	}
	return strings.Join(parts[count:], "/"), false
}

// safeJoin joins name onto destDir and rejects the classic zip-slip escape
// where an archive member's path climbs out of the destination via "..".
func safeJoin(destDir, name string) (string, error) {
	target := filepath.Join(destDir, name)
	if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) && target != filepath.Clean(destDir) {
		return "", errors.Errorf("archive: entry %q escapes destination directory", name)
	}
	return target, nil
}
