// Package datasets provides download-and-cache acquisition of tutorial
// datasets and parsing of numeric tables into gonum matrices.
package datasets

import (
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/YuminosukeSato/scigp/pkg/errors"
	"github.com/YuminosukeSato/scigp/pkg/log"
)

// Fetch ensures that the file at path exists locally, downloading it from
// url on the first call. Subsequent calls with an existing cache file return
// immediately without touching the network, so acquisition is idempotent.
//
// The download is written to a temporary file in the same directory and
// renamed into place, so a partially written cache file is never observed.
// Concurrent first-time runs are not locked against each other; the rename
// keeps the end state consistent either way.
//
// Network and filesystem errors are wrapped and returned to the caller.
// There is no retry policy.
func Fetch(url, path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return errors.Wrapf(err, "datasets: stat cache file %s", path)
	}

	logger := log.GetLoggerWithName("datasets")
	logger.Info("Downloading dataset",
		log.URLKey, url,
		log.PathKey, path,
	)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "datasets: create cache directory %s", dir)
		}
	}

	resp, err := http.Get(url)
	if err != nil {
		return errors.Wrapf(err, "datasets: download %s", url)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return errors.Newf("datasets: download %s: unexpected status %s", url, resp.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".download-*")
	if err != nil {
		return errors.Wrap(err, "datasets: create temporary file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	written, err := io.Copy(tmp, resp.Body)
	if err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "datasets: write %s", tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "datasets: close %s", tmp.Name())
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "datasets: move download into place at %s", path)
	}

	logger.Info("Dataset cached",
		log.PathKey, path,
		log.DataSizeKey, written,
	)
	return nil
}
