// Package di provides dependency injection container
package di

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/jesseward/Serato-lib/pkg/backup"
	"github.com/jesseward/Serato-lib/pkg/config"
	"github.com/jesseward/Serato-lib/pkg/crate"
	"github.com/jesseward/Serato-lib/pkg/storage"
)

// SnapshotStoreFactory opens the snapshot history database
type SnapshotStoreFactory func(dir string, logger *zap.Logger) (*storage.SnapshotStore, error)

// Container holds all the dependencies for the application
type Container struct {
	config         *config.Config
	logger         *zap.Logger
	snapshotOpener SnapshotStoreFactory
	snapshots      *storage.SnapshotStore
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config, logger *zap.Logger) *Container {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Container{
		config:         cfg,
		logger:         logger,
		snapshotOpener: storage.NewSnapshotStore,
	}
}

// Config returns the active configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the application logger
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// SetSnapshotStoreFactory allows overriding how the snapshot store is opened (for testing)
func (c *Container) SetSnapshotStoreFactory(factory SnapshotStoreFactory) {
	c.snapshotOpener = factory
}

// SnapshotStore opens the snapshot store on first use
func (c *Container) SnapshotStore() (*storage.SnapshotStore, error) {
	if c.snapshots != nil {
		return c.snapshots, nil
	}
	s, err := c.snapshotOpener(c.config.Snapshots.Dir, c.logger.Named("snapshots"))
	if err != nil {
		return nil, err
	}
	c.snapshots = s
	return s, nil
}

// CrateOptions returns the options every crate opened by the tool should use
func (c *Container) CrateOptions() ([]crate.Option, error) {
	enc, err := crate.EncodingByName(c.config.Encoding)
	if err != nil {
		return nil, err
	}
	opts := []crate.Option{
		crate.WithLogger(c.logger),
		crate.WithNameEncoding(enc),
	}

	if c.config.Backup.Enabled {
		opts = append(opts, crate.WithBackup(&backup.File{Suffix: c.config.Backup.Suffix}))
	}
	if c.config.Snapshots.Enabled {
		s, err := c.SnapshotStore()
		if err != nil {
			// Snapshots are a backup; a broken store must not block edits.
			c.logger.Warn("snapshot store unavailable", zap.Error(err))
		} else {
			opts = append(opts, crate.WithBackup(s.Retaining(c.config.Snapshots.Keep)))
		}
	}
	return opts, nil
}

// Close releases resources held by the container
func (c *Container) Close() error {
	if c.snapshots == nil {
		return nil
	}
	err := c.snapshots.Close()
	c.snapshots = nil
	if err != nil {
		return fmt.Errorf("failed to close snapshot store: %w", err)
	}
	return nil
}
