// Package backup copies a file aside before it is overwritten.
package backup

import (
	"fmt"
	"io"
	"os"
)

// DefaultSuffix is appended to the original path to name the copy
const DefaultSuffix = ".bak"

// File copies path to a sibling file named path+Suffix
type File struct {
	Suffix string
}

// NewFile creates a backup using DefaultSuffix
func NewFile() *File {
	return &File{Suffix: DefaultSuffix}
}

// Target returns the path the backup of path is written to
func (f *File) Target(path string) string {
	suffix := f.Suffix
	if suffix == "" {
		suffix = DefaultSuffix
	}
	return path + suffix
}

// Backup copies path to Target(path), replacing any previous backup
func (f *File) Backup(path string) error {
	return Copy(path, f.Target(path))
}

// Copy copies src to dst, keeping the source file mode
func Copy(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", src, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", src)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", dst, err)
	}
	return nil
}
