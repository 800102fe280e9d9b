package crate

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jesseward/Serato-lib/pkg/codec"
)

type backupFunc func(path string) error

func (f backupFunc) Backup(path string) error { return f(path) }

func writeCrate(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "House.crate")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestOpen(t *testing.T) {
	path := writeCrate(t, minimalCrate())

	doc, err := Open(path, WithNameEncoding(RawEncoding{}))
	require.NoError(t, err)
	assert.Equal(t, path, doc.Path())
	assert.Equal(t, []string{"Title"}, doc.ColumnNames())
	assert.Equal(t, []string{"a.mp3"}, doc.TrackPaths())
	assert.Equal(t, EncodingRaw, doc.Encoding().Name())
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.crate"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "open", ioErr.Op)
}

func TestOpen_Malformed(t *testing.T) {
	path := writeCrate(t, []byte("junkjunkjunk"))

	_, err := Open(path)
	assert.ErrorIs(t, err, ErrMalformedCrate)
	assert.NotErrorIs(t, err, ErrIO)
}

func TestSave_RoundTrip(t *testing.T) {
	path := writeCrate(t, minimalCrate())

	doc, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, doc.Save())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, minimalCrate(), got)
}

func TestSave_PersistsMutations(t *testing.T) {
	path := writeCrate(t, minimalCrate())

	doc, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, doc.AddTrack("Music/b.mp3"))
	require.NoError(t, doc.Save())

	// Saving repeatedly is allowed.
	require.NoError(t, doc.DeleteTrack("Music/b.mp3"))
	require.NoError(t, doc.AddTrack("Music/c.mp3"))
	require.NoError(t, doc.Save())

	reopened, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.mp3", "Music/c.mp3"}, reopened.TrackPaths())
}

func TestSave_RunsBackupsBeforeWrite(t *testing.T) {
	path := writeCrate(t, minimalCrate())

	var seen []byte
	backup := backupFunc(func(p string) error {
		data, err := os.ReadFile(p)
		seen = data
		return err
	})

	doc, err := Open(path, WithBackup(backup))
	require.NoError(t, err)
	require.NoError(t, doc.AddColumn("bpm"))
	require.NoError(t, doc.Save())

	assert.Equal(t, minimalCrate(), seen, "backup should see the file as it was before the save")
}

func TestSave_BackupFailureDoesNotBlock(t *testing.T) {
	path := writeCrate(t, minimalCrate())

	core, logs := observer.New(zapcore.WarnLevel)
	failing := backupFunc(func(string) error { return errors.New("disk full") })
	calls := 0
	counting := backupFunc(func(string) error { calls++; return nil })

	doc, err := Open(path, WithLogger(zap.New(core)), WithBackup(failing, counting))
	require.NoError(t, err)
	require.NoError(t, doc.AddTrack("Music/b.mp3"))
	require.NoError(t, doc.Save())

	assert.Equal(t, 1, calls, "later backups still run after one fails")
	entries := logs.FilterMessage("skipping back-up").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "disk full", entries[0].ContextMap()["error"])

	reopened, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.mp3", "Music/b.mp3"}, reopened.TrackPaths())
}

func TestSaveAs_NewFileSkipsBackup(t *testing.T) {
	dir := t.TempDir()
	calls := 0
	backup := backupFunc(func(string) error { calls++; return nil })

	doc := NewDocument(WithBackup(backup))
	require.NoError(t, doc.AddTrack("Music/a.mp3"))

	target := filepath.Join(dir, "New.crate")
	require.NoError(t, doc.SaveAs(target))
	assert.Equal(t, 0, calls)

	parsed, err := Open(target)
	require.NoError(t, err)
	assert.Equal(t, []string{"Music/a.mp3"}, parsed.TrackPaths())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files should be left behind")
}

func TestSave_NoPath(t *testing.T) {
	doc := NewDocument()
	err := doc.Save()
	assert.ErrorIs(t, err, ErrIO)
}

func TestSave_IncompleteDocumentLeavesFileAlone(t *testing.T) {
	path := writeCrate(t, minimalCrate())

	doc, err := Open(path)
	require.NoError(t, err)
	doc.Sort = nil

	err = doc.Save()
	assert.ErrorIs(t, err, ErrIncompleteDocument)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, minimalCrate(), got)
}

func TestSave_PreservesFileMode(t *testing.T) {
	path := writeCrate(t, minimalCrate())
	require.NoError(t, os.Chmod(path, 0600))

	doc, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, doc.Save())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0600), info.Mode().Perm())
}

func TestSaveAs_MissingDirectory(t *testing.T) {
	doc := NewDocument()
	err := doc.SaveAs(filepath.Join(t.TempDir(), "nope", "x.crate"))
	assert.ErrorIs(t, err, ErrIO)
}

func TestSave_ThroughSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real.crate")
	link := filepath.Join(dir, "link.crate")
	require.NoError(t, os.WriteFile(target, minimalCrate(), 0644))
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	var backedUp string
	backup := backupFunc(func(p string) error { backedUp = p; return nil })

	doc, err := Open(link, WithNameEncoding(RawEncoding{}), WithBackup(backup))
	require.NoError(t, err)
	require.NoError(t, doc.AddTrack("Music/b.mp3"))
	require.NoError(t, doc.Save())

	info, err := os.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&fs.ModeSymlink, "link should still be a symlink after save")

	reopened, err := Open(target, WithNameEncoding(RawEncoding{}))
	require.NoError(t, err)
	assert.Equal(t, []string{"a.mp3", "Music/b.mp3"}, reopened.TrackPaths())

	resolved, err := filepath.EvalSymlinks(target)
	require.NoError(t, err)
	assert.Equal(t, resolved, backedUp, "backups should be taken of the link target")
}

// crateWithInnerLength is a crate without a version header whose ptrk inner
// length disagrees with its otrk size marker.
func crateWithInnerLength(inner uint32) []byte {
	b := &crateBuilder{}
	b.fixed(codec.TagSort, testSortMarker).
		fixed(codec.TagTrack, be32(uint32(len("a.mp3")+8))).
		fixed(codec.TagTrackPath, append(be32(inner), []byte("a.mp3")...))
	return b.bytes()
}

func TestRestore_WritesBytesVerbatim(t *testing.T) {
	path := writeCrate(t, minimalCrate())
	snapshot := crateWithInnerLength(0)

	calls := 0
	backup := backupFunc(func(string) error { calls++; return nil })

	require.NoError(t, Restore(path, snapshot, WithBackup(backup)))
	assert.Equal(t, 1, calls)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, snapshot, got)
}

func TestRestore_RejectsMalformed(t *testing.T) {
	path := writeCrate(t, minimalCrate())

	err := Restore(path, []byte("junkjunkjunk"))
	assert.ErrorIs(t, err, ErrMalformedCrate)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, minimalCrate(), got)
}
