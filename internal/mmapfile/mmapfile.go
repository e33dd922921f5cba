// Package mmapfile reads files through a read-only memory mapping.
package mmapfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/edsrzf/mmap-go"
)

// With maps path read-only and calls fn with its contents. The slice is
// valid only during fn and must not be retained or modified. Empty files
// are passed as nil without mapping.
func With(path string, fn func(data []byte) error) (err error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("mmapfile: open: %w", err)
	}
	defer func() { err = errors.Join(err, f.Close()) }()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("mmapfile: stat: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("mmapfile: %s is a directory", path)
	}
	if info.Size() == 0 {
		return fn(nil)
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return fmt.Errorf("mmapfile: map: %w", err)
	}
	defer func() {
		if uerr := m.Unmap(); uerr != nil {
			err = errors.Join(err, fmt.Errorf("mmapfile: unmap: %w", uerr))
		}
	}()

	return fn(m)
}

// ReadString maps path and returns a copy of its contents.
func ReadString(path string) (string, error) {
	var s string
	err := With(path, func(data []byte) error {
		s = string(data)
		return nil
	})
	return s, err
}
