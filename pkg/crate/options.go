package crate

import "go.uber.org/zap"

// Option configures a Document
type Option func(*Document)

// WithLogger sets the logger used for open, parse, backup and save events
func WithLogger(logger *zap.Logger) Option {
	return func(d *Document) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithNameEncoding sets how names and paths passed to mutations are stored
func WithNameEncoding(enc NameEncoding) Option {
	return func(d *Document) {
		if enc != nil {
			d.encoding = enc
		}
	}
}

// WithBackup registers backups to take before every save
func WithBackup(backups ...Backuper) Option {
	return func(d *Document) {
		d.backups = append(d.backups, backups...)
	}
}

// Backuper preserves the current contents of a file before it is replaced
type Backuper interface {
	Backup(path string) error
}
