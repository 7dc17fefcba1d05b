// Package atomicfile writes output files through a temporary file in the
// target directory that is renamed into place only after a successful write.
package atomicfile

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
)

const (
	permFile = 0o644
	permDir  = 0o755
	bufSize  = 64 * 1024
)

// chmod is replaced in tests.
var chmod = (*os.File).Chmod

// Write creates the parent directories of dest, calls fill with a buffered
// writer over a temporary file and renames the file to dest when fill
// succeeds. On any failure the temporary file is removed and dest is left
// untouched.
func Write(dest string, fill func(w io.Writer) error) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, permDir); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if err := chmod(tmp, permFile); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}

	bw := bufio.NewWriterSize(tmp, bufSize)
	if err := fill(bw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}
