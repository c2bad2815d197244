package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFileLock_AcquireRelease(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json.lock")
	l := newFileLock(path)

	require.NoError(t, l.acquire(context.Background(), time.Second))
	_, err := os.Stat(path)
	require.NoError(t, err)

	l.release()
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestFileLock_TimeoutWhenHeld(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json.lock")

	holder := newFileLock(path)
	require.NoError(t, holder.acquire(context.Background(), time.Second))
	defer holder.release()

	contender := newFileLock(path)
	contender.staleAfter = time.Hour // never reclaim in this test

	// Drive a virtual clock so the test doesn't take wall-clock seconds.
	virtualNow := time.Now()
	contender.now = func() time.Time { return virtualNow }
	contender.sleep = func(d time.Duration) { virtualNow = virtualNow.Add(d) }

	err := contender.acquire(context.Background(), 100*time.Millisecond)
	require.Error(t, err)

	var timeoutErr *LockTimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	require.Equal(t, path, timeoutErr.Path)
}

func TestFileLock_ReclaimsStaleLock(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json.lock")

	// Simulate an abandoned lock file from a crashed process.
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))

	l := newFileLock(path)
	l.staleAfter = 30 * time.Second

	require.NoError(t, l.acquire(context.Background(), time.Second))
	l.release()
}

func TestFileLock_ContextCancellation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json.lock")

	holder := newFileLock(path)
	require.NoError(t, holder.acquire(context.Background(), time.Second))
	defer holder.release()

	contender := newFileLock(path)
	contender.staleAfter = time.Hour
	virtualNow := time.Now()
	contender.now = func() time.Time { return virtualNow }
	contender.sleep = func(d time.Duration) { virtualNow = virtualNow.Add(d) }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := contender.acquire(ctx, time.Minute)
	require.ErrorIs(t, err, context.Canceled)
}
