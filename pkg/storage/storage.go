// Package storage keeps a history of crate file snapshots in a pebble
// database. Snapshots are keyed by the crate's absolute path and a KSUID, so
// iteration over one crate returns its snapshots oldest first.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"
)

// ErrSnapshotNotFound is returned when no snapshot has the requested ID
var ErrSnapshotNotFound = errors.New("snapshot not found")

const keyPrefix = "snap\x00"

// Snapshot describes one stored copy of a crate file
type Snapshot struct {
	ID   ksuid.KSUID
	Path string
	Time time.Time
	Size int
}

// SnapshotStore stores crate snapshots
type SnapshotStore struct {
	db     *pebble.DB
	logger *zap.Logger
}

// NewSnapshotStore opens (or creates) the snapshot database in dir
func NewSnapshotStore(dir string, logger *zap.Logger) (*SnapshotStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create snapshot dir: %w", err)
	}
	db, err := pebble.Open(dir, &pebble.Options{
		Logger: pebbleLogger{logger.Sugar()},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot store: %w", err)
	}
	return &SnapshotStore{db: db, logger: logger}, nil
}

// Backup reads the file at path and stores it as a new snapshot
func (s *SnapshotStore) Backup(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	id, err := s.Put(path, data)
	if err != nil {
		return err
	}
	s.logger.Info("stored crate snapshot", zap.String("path", path), zap.String("id", id.String()))
	return nil
}

// Put stores data as the newest snapshot of path
func (s *SnapshotStore) Put(path string, data []byte) (ksuid.KSUID, error) {
	prefix, err := pathPrefix(path)
	if err != nil {
		return ksuid.Nil, err
	}

	id := ksuid.New()
	latest, err := s.latest(prefix)
	if err != nil {
		return ksuid.Nil, err
	}
	// IDs within the same second are random; keep them strictly increasing.
	if latest != ksuid.Nil && ksuid.Compare(id, latest) <= 0 {
		id = latest.Next()
	}

	if err := s.db.Set(append(prefix, id.Bytes()...), data, pebble.Sync); err != nil {
		return ksuid.Nil, err
	}
	return id, nil
}

// List returns the snapshots of path, oldest first
func (s *SnapshotStore) List(path string) ([]Snapshot, error) {
	prefix, err := pathPrefix(path)
	if err != nil {
		return nil, err
	}
	abs := string(prefix[len(keyPrefix) : len(prefix)-1])

	iter, err := s.db.NewIter(prefixBounds(prefix))
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var snapshots []Snapshot
	for iter.First(); iter.Valid(); iter.Next() {
		id, err := ksuid.FromBytes(iter.Key()[len(prefix):])
		if err != nil {
			s.logger.Warn("skipping snapshot with invalid key", zap.ByteString("key", iter.Key()))
			continue
		}
		snapshots = append(snapshots, Snapshot{
			ID:   id,
			Path: abs,
			Time: id.Time(),
			Size: len(iter.Value()),
		})
	}
	return snapshots, iter.Error()
}

// Read returns the contents of one snapshot
func (s *SnapshotStore) Read(path string, id ksuid.KSUID) ([]byte, error) {
	prefix, err := pathPrefix(path)
	if err != nil {
		return nil, err
	}
	data, closer, err := s.db.Get(append(prefix, id.Bytes()...))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	return bytes.Clone(data), nil
}

// Delete removes one snapshot
func (s *SnapshotStore) Delete(path string, id ksuid.KSUID) error {
	prefix, err := pathPrefix(path)
	if err != nil {
		return err
	}
	key := append(prefix, id.Bytes()...)

	_, closer, err := s.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	if err != nil {
		return err
	}
	closer.Close()

	return s.db.Delete(key, pebble.Sync)
}

// Prune deletes all but the newest keep snapshots of path and returns how
// many were removed.
func (s *SnapshotStore) Prune(path string, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}
	snapshots, err := s.List(path)
	if err != nil {
		return 0, err
	}
	if len(snapshots) <= keep {
		return 0, nil
	}

	prefix, err := pathPrefix(path)
	if err != nil {
		return 0, err
	}
	batch := s.db.NewBatch()
	defer batch.Close()

	stale := snapshots[:len(snapshots)-keep]
	for _, snap := range stale {
		if err := batch.Delete(append(bytes.Clone(prefix), snap.ID.Bytes()...), nil); err != nil {
			return 0, err
		}
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return 0, err
	}
	return len(stale), nil
}

// Retaining returns a backup that stores a snapshot and then prunes the
// crate's history to the newest keep snapshots. keep <= 0 disables pruning.
func (s *SnapshotStore) Retaining(keep int) *RetainingStore {
	return &RetainingStore{store: s, keep: keep}
}

// RetainingStore is a SnapshotStore backup with a history limit
type RetainingStore struct {
	store *SnapshotStore
	keep  int
}

// Backup snapshots path and drops snapshots beyond the limit
func (r *RetainingStore) Backup(path string) error {
	if err := r.store.Backup(path); err != nil {
		return err
	}
	if r.keep <= 0 {
		return nil
	}
	removed, err := r.store.Prune(path, r.keep)
	if err != nil {
		return fmt.Errorf("failed to prune snapshots: %w", err)
	}
	if removed > 0 {
		r.store.logger.Debug("pruned crate snapshots", zap.String("path", path), zap.Int("removed", removed))
	}
	return nil
}

// Close closes the underlying database
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}

func (s *SnapshotStore) latest(prefix []byte) (ksuid.KSUID, error) {
	iter, err := s.db.NewIter(prefixBounds(prefix))
	if err != nil {
		return ksuid.Nil, err
	}
	defer iter.Close()

	if !iter.Last() {
		return ksuid.Nil, iter.Error()
	}
	return ksuid.FromBytes(iter.Key()[len(prefix):])
}

// pathPrefix returns the key prefix for all snapshots of path. Symlinks are
// resolved when path exists, so a crate has one history whichever link it is
// reached through. The result has spare capacity so callers may append an ID
// to it.
func pathPrefix(path string) ([]byte, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid crate path: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	key := make([]byte, 0, len(keyPrefix)+len(abs)+1+ksuidLen)
	key = append(key, keyPrefix...)
	key = append(key, abs...)
	return append(key, 0x00), nil
}

const ksuidLen = 20

func prefixBounds(prefix []byte) *pebble.IterOptions {
	upper := bytes.Clone(prefix)
	upper[len(upper)-1]++
	return &pebble.IterOptions{LowerBound: prefix, UpperBound: upper}
}

// pebbleLogger routes pebble's informational output to debug level
type pebbleLogger struct {
	*zap.SugaredLogger
}

func (l pebbleLogger) Infof(format string, args ...interface{}) {
	l.Debugf(format, args...)
}
