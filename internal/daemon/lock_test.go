package daemon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.lock")

	lock, pid, err := Acquire(path)
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)

	holder, err := HolderPid(path)
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), holder)

	require.NoError(t, lock.Release())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "release removes the lock file")
}

func TestAcquireSecondHolderRefused(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.lock")

	lock, _, err := Acquire(path)
	require.NoError(t, err)
	defer lock.Release()

	_, holder, err := Acquire(path)
	require.ErrorIs(t, err, ErrAlreadyRunning)
	assert.Equal(t, os.Getpid(), holder, "the loser learns the holder's pid")
}

func TestAcquireAfterRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.lock")

	lock, _, err := Acquire(path)
	require.NoError(t, err)
	require.NoError(t, lock.Release())

	lock2, _, err := Acquire(path)
	require.NoError(t, err)
	lock2.Release()
}

func TestAcquireStaleFileWithoutFlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.lock")

	// A leftover file from a crashed process holds no flock, so it
	// must not block a fresh start.
	require.NoError(t, os.WriteFile(path, []byte("99999"), 0o644))

	lock, pid, err := Acquire(path)
	require.NoError(t, err)
	defer lock.Release()
	assert.Equal(t, os.Getpid(), pid)

	holder, err := HolderPid(path)
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), holder, "the stale pid was overwritten")
}

func TestReleaseTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.lock")
	lock, _, err := Acquire(path)
	require.NoError(t, err)

	require.NoError(t, lock.Release())
	assert.NoError(t, lock.Release())
}

func TestHolderPidInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.lock")
	require.NoError(t, os.WriteFile(path, []byte("not a pid"), 0o644))

	_, err := HolderPid(path)
	assert.Error(t, err)
}
