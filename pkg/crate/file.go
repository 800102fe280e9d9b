package crate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/moby/sys/atomicwriter"
	"go.uber.org/zap"
)

// Open reads the whole crate file at path and parses it.
//
// The file is not locked. Only one document should be open against a given
// path at a time; coordinating that is the caller's job.
func Open(path string, opts ...Option) (*Document, error) {
	d := newDocument(opts)
	d.logger.Info("reading crate file", zap.String("path", path))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}

	doc, err := Parse(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	doc.path = path

	doc.logger.Debug("parsed crate",
		zap.String("path", path),
		zap.Int("columns", len(doc.Columns)),
		zap.Int("tracks", len(doc.Tracks)))
	return doc, nil
}

// Save writes the document back to the file it was opened from
func (d *Document) Save() error {
	if d.path == "" {
		return fmt.Errorf("%w: document has no file path, use SaveAs", ErrIO)
	}
	return d.SaveAs(d.path)
}

// SaveAs serializes the document and atomically replaces path with it. If
// path is a symlink the file it points to is replaced and the link is kept.
//
// Registered backups run first. A failing backup is logged and skipped; it
// never stops the save. The document is left as it was and can be saved
// again.
func (d *Document) SaveAs(path string) error {
	data, err := d.MarshalBinary()
	if err != nil {
		return err
	}
	return d.write(path, data)
}

// Restore checks that data parses as a crate and writes it to path
// unchanged, taking the same backups as SaveAs. It is used to put back a
// copy of a file exactly as it was stored.
func Restore(path string, data []byte, opts ...Option) error {
	doc, err := Parse(data, opts...)
	if err != nil {
		return fmt.Errorf("refusing to restore %s: %w", path, err)
	}
	return doc.write(path, data)
}

func (d *Document) write(path string, data []byte) error {
	target := resolvePath(path)

	d.backup(target)

	d.logger.Info("writing crate file", zap.String("path", target), zap.Int("bytes", len(data)))
	mode := fs.FileMode(0644)
	if info, err := os.Stat(target); err == nil {
		mode = info.Mode().Perm()
	}
	if err := atomicwriter.WriteFile(target, data, mode); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// resolvePath follows symlinks so that the link survives a save. A path that
// does not exist yet is returned as is.
func resolvePath(path string) string {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return path
	}
	return resolved
}

func (d *Document) backup(path string) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		d.logger.Debug("nothing to back up", zap.String("path", path))
		return
	}
	for _, b := range d.backups {
		if err := b.Backup(path); err != nil {
			d.logger.Warn("skipping back-up", zap.String("path", path), zap.Error(err))
		}
	}
}
