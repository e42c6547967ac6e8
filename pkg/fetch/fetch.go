// Package fetch downloads a release asset to a temporary file, reporting
// progress and giving the caller an owned directory to extract into.
package fetch

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
)

// Download is a file fetched into a private temporary directory. Callers
// must call Close to remove that directory once they're done with Path.
type Download struct {
	Path string
	dir  string
}

// Close removes the temporary directory backing the download.
func (d *Download) Close() error {
	if d.dir == "" {
		return nil
	}
	return os.RemoveAll(d.dir)
}

// Options controls a single Fetch call.
type Options struct {
	// ShowProgress draws a terminal progress bar while downloading.
	ShowProgress bool
}

// Fetch streams url's body into a new temporary directory under a file
// named filename, returning a Download owning that directory's lifetime.
// A non-2xx response is rejected, with up to 4KB of the response body
// included in the error to surface API rate-limit or auth failures.
func Fetch(ctx context.Context, client *http.Client, url, filename string, opts Options) (*Download, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building download request")
	}
	req.Header.Set("Accept", "application/octet-stream")

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "downloading %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, errors.Errorf("downloading %s: unexpected status %s: %s", url, resp.Status, string(body))
	}

	dir, err := os.MkdirTemp("", "ubi-download-*")
	if err != nil {
		return nil, errors.Wrap(err, "creating temporary download directory")
	}

	path := filepath.Join(dir, filename)
	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		os.RemoveAll(dir)
		return nil, errors.Wrap(err, "creating download destination file")
	}

	var dst io.Writer = out
	if opts.ShowProgress && resp.ContentLength > 0 {
		log.Debugf("downloading %s (%s)", filename, humanize.Bytes(uint64(resp.ContentLength)))
		bar := progressbar.DefaultBytes(resp.ContentLength, "downloading "+filename)
		dst = io.MultiWriter(out, bar)
	}

	if _, err := io.Copy(dst, resp.Body); err != nil {
		out.Close()
		os.RemoveAll(dir)
		return nil, errors.Wrapf(err, "writing %s", path)
	}
	if err := out.Close(); err != nil {
		os.RemoveAll(dir)
		return nil, errors.Wrap(err, "closing downloaded file")
	}

	return &Download{Path: path, dir: dir}, nil
}
