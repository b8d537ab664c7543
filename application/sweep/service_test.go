package sweep

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"log-cleaner/domain/retention"
	"log-cleaner/infrastructure/filesystem"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultPolicy = retention.Policy{MaxAgeDays: 30, MaxSizeMB: 100}

// writeFile creates a file of the given size (sparse) and age relative to now
func writeFile(t *testing.T, path string, age time.Duration, size int64, now time.Time) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(size))
	require.NoError(t, f.Close())
	mtime := now.Add(-age)
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// recordingRemover counts removal attempts and can inject failures
type recordingRemover struct {
	attempts map[string]int
	before   func(path string)
	errs     map[string]error
}

func newRecordingRemover() *recordingRemover {
	return &recordingRemover{attempts: map[string]int{}, errs: map[string]error{}}
}

func (r *recordingRemover) Remove(path string) error {
	r.attempts[path]++
	if r.before != nil {
		r.before(path)
	}
	if err, ok := r.errs[path]; ok {
		return err
	}
	return os.Remove(path)
}

func TestSweep_OldFileDeleted(t *testing.T) {
	now := time.Now()
	dir := t.TempDir()
	path := filepath.Join(dir, "a.log")
	writeFile(t, path, 40*24*time.Hour, retention.BytesPerMB, now)

	svc := NewService(filesystem.NewRemover(), WithClock(func() time.Time { return now }))
	out, err := svc.Sweep(context.Background(), dir, defaultPolicy)
	require.NoError(t, err)

	assert.Equal(t, []string{path}, out.DeletedPaths)
	require.Len(t, out.Messages, 1)
	assert.Contains(t, out.Messages[0], "Deleted: "+path)
	assert.Contains(t, out.Messages[0], "Size: 1.00 MB")
	assert.False(t, exists(path))
}

func TestSweep_LargeFileDeletedOnSizeAlone(t *testing.T) {
	now := time.Now()
	dir := t.TempDir()
	path := filepath.Join(dir, "b.log")
	writeFile(t, path, 5*24*time.Hour, 150*retention.BytesPerMB, now)

	svc := NewService(filesystem.NewRemover(), WithClock(func() time.Time { return now }))
	out, err := svc.Sweep(context.Background(), dir, defaultPolicy)
	require.NoError(t, err)

	assert.Equal(t, []string{path}, out.DeletedPaths)
	assert.False(t, exists(path))
}

func TestSweep_EmptyDirectory(t *testing.T) {
	out, err := NewService(filesystem.NewRemover()).Sweep(context.Background(), t.TempDir(), defaultPolicy)
	require.NoError(t, err)
	assert.Empty(t, out.DeletedPaths)
	assert.Empty(t, out.Messages)
	assert.Zero(t, out.Scanned)
}

func TestSweep_KeepsFilesWithinPolicy(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	dir := t.TempDir()
	keep := []string{
		filepath.Join(dir, "fresh.log"),
		filepath.Join(dir, "nested", "deep", "small.log"),
		filepath.Join(dir, "edge.log"),
	}
	writeFile(t, keep[0], time.Hour, 1024, now)
	writeFile(t, keep[1], 29*24*time.Hour, 99*retention.BytesPerMB, now)
	writeFile(t, keep[2], 30*24*time.Hour, 100*retention.BytesPerMB, now)

	remover := newRecordingRemover()
	svc := NewService(remover, WithClock(func() time.Time { return now }))
	out, err := svc.Sweep(context.Background(), dir, defaultPolicy)
	require.NoError(t, err)

	assert.Empty(t, out.DeletedPaths)
	assert.Empty(t, out.Messages)
	assert.Empty(t, remover.attempts)
	assert.Equal(t, 3, out.Scanned)
	for _, p := range keep {
		assert.True(t, exists(p), "expected %s to be kept", p)
	}
}

func TestSweep_RecursiveEachFileOnce(t *testing.T) {
	now := time.Now()
	dir := t.TempDir()
	old := []string{
		filepath.Join(dir, "one.log"),
		filepath.Join(dir, "a", "two.log"),
		filepath.Join(dir, "a", "b", "three.log"),
		filepath.Join(dir, "c", "four.log"),
	}
	for _, p := range old {
		writeFile(t, p, 60*24*time.Hour, 10, now)
	}
	kept := filepath.Join(dir, "a", "fresh.log")
	writeFile(t, kept, time.Minute, 10, now)

	remover := newRecordingRemover()
	svc := NewService(remover, WithClock(func() time.Time { return now }))
	out, err := svc.Sweep(context.Background(), dir, defaultPolicy)
	require.NoError(t, err)

	got := append([]string(nil), out.DeletedPaths...)
	sort.Strings(got)
	want := append([]string(nil), old...)
	sort.Strings(want)
	assert.Equal(t, want, got)

	for _, p := range old {
		assert.Equal(t, 1, remover.attempts[p], "attempts for %s", p)
	}
	assert.Zero(t, remover.attempts[kept])
	assert.True(t, exists(kept))
}

func TestSweep_FileVanishedBeforeDeletion(t *testing.T) {
	now := time.Now()
	dir := t.TempDir()
	path := filepath.Join(dir, "c.log")
	writeFile(t, path, 45*24*time.Hour, 10, now)

	remover := newRecordingRemover()
	remover.before = func(p string) {
		// Another actor removes the file first
		require.NoError(t, os.Remove(p))
	}

	svc := NewService(remover, WithClock(func() time.Time { return now }))
	out, err := svc.Sweep(context.Background(), dir, defaultPolicy)
	require.NoError(t, err)

	assert.Empty(t, out.DeletedPaths)
	require.Len(t, out.Messages, 1)
	assert.Equal(t, "Error deleting "+path+": not found", out.Messages[0])
	assert.Equal(t, 1, out.Count(retention.NotFound))
}

func TestSweep_PerFileFailuresDoNotAbort(t *testing.T) {
	now := time.Now()
	dir := t.TempDir()
	denied := filepath.Join(dir, "a_denied.log")
	busy := filepath.Join(dir, "b_busy.log")
	ok := filepath.Join(dir, "c_ok.log")
	for _, p := range []string{denied, busy, ok} {
		writeFile(t, p, 90*24*time.Hour, 10, now)
	}

	remover := newRecordingRemover()
	remover.errs[denied] = &fs.PathError{Op: "remove", Path: denied, Err: fs.ErrPermission}
	remover.errs[busy] = &fs.PathError{Op: "remove", Path: busy, Err: errors.New("device or resource busy")}

	svc := NewService(remover, WithClock(func() time.Time { return now }))
	out, err := svc.Sweep(context.Background(), dir, defaultPolicy)
	require.NoError(t, err)

	assert.Equal(t, []string{ok}, out.DeletedPaths)
	require.Len(t, out.Messages, 3)
	assert.Equal(t, "Error deleting "+denied+": permission denied", out.Messages[0])
	assert.Equal(t, "Error deleting "+busy+": device or resource busy", out.Messages[1])
	assert.Contains(t, out.Messages[2], "Deleted: "+ok)
	assert.Equal(t, 1, out.Count(retention.PermissionDenied))
	assert.Equal(t, 1, out.Count(retention.Failed))
	assert.True(t, exists(denied))
	assert.True(t, exists(busy))
}

func TestSweep_Idempotent(t *testing.T) {
	now := time.Now()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "old.log"), 31*24*time.Hour, 10, now)
	writeFile(t, filepath.Join(dir, "big.log"), time.Hour, 200*retention.BytesPerMB, now)
	writeFile(t, filepath.Join(dir, "keep.log"), time.Hour, 10, now)

	svc := NewService(filesystem.NewRemover(), WithClock(func() time.Time { return now }))
	first, err := svc.Sweep(context.Background(), dir, defaultPolicy)
	require.NoError(t, err)
	assert.Len(t, first.DeletedPaths, 2)

	second, err := svc.Sweep(context.Background(), dir, defaultPolicy)
	require.NoError(t, err)
	assert.Empty(t, second.DeletedPaths)
	assert.Empty(t, second.Messages)
}

func TestSweep_DirectoryAccessErrors(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	tests := []struct {
		name string
		root string
	}{
		{name: "missing directory", root: filepath.Join(dir, "does-not-exist")},
		{name: "path is a file", root: file},
		{name: "empty path", root: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := NewService(filesystem.NewRemover()).Sweep(context.Background(), tt.root, defaultPolicy)
			assert.Nil(t, out)
			assert.ErrorIs(t, err, retention.ErrDirectoryAccess)
			var dae *retention.DirectoryAccessError
			assert.ErrorAs(t, err, &dae)
		})
	}
}

func TestSweep_UnreadableRoot(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	dir := filepath.Join(t.TempDir(), "locked")
	require.NoError(t, os.Mkdir(dir, 0000))
	t.Cleanup(func() { os.Chmod(dir, 0755) })

	_, err := NewService(filesystem.NewRemover()).Sweep(context.Background(), dir, defaultPolicy)
	assert.ErrorIs(t, err, retention.ErrDirectoryAccess)
}

func TestSweep_SymlinkedRootIsFollowed(t *testing.T) {
	now := time.Now()
	base := t.TempDir()
	target := filepath.Join(base, "target")
	writeFile(t, filepath.Join(target, "old.log"), 50*24*time.Hour, 10, now)
	link := filepath.Join(base, "link")
	require.NoError(t, os.Symlink(target, link))

	svc := NewService(filesystem.NewRemover(), WithClock(func() time.Time { return now }))
	out, err := svc.Sweep(context.Background(), link, defaultPolicy)
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(link, "old.log")}, out.DeletedPaths)
}

func TestSweep_InvalidPolicy(t *testing.T) {
	_, err := NewService(filesystem.NewRemover()).Sweep(context.Background(), t.TempDir(), retention.Policy{})
	assert.ErrorIs(t, err, retention.ErrInvalidPolicy)
}

func TestSweep_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.log"), 50*24*time.Hour, 10, time.Now())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewService(filesystem.NewRemover()).Sweep(ctx, dir, defaultPolicy)
	assert.ErrorIs(t, err, context.Canceled)
}
