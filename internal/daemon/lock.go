package daemon

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// ErrAlreadyRunning reports that another live process holds the
// instance lock. It is control flow, not a failure: the caller
// forwards a toggle to the holder and exits cleanly.
var ErrAlreadyRunning = errors.New("daemon already running")

// Lock is the per-user instance lock: a flock'd file holding the
// owner's pid. flock gives atomic test-and-set at the OS level and
// evaporates when the holder dies, so a stale file from a crashed
// process never blocks a fresh start.
type Lock struct {
	path string
	file *os.File
}

// Acquire takes the instance lock. On ErrAlreadyRunning the returned
// pid identifies the current holder.
func Acquire(path string) (*Lock, int, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open lock file: %w", err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		if errors.Is(err, unix.EWOULDBLOCK) {
			pid := readPid(f)
			f.Close()
			return nil, pid, ErrAlreadyRunning
		}
		f.Close()
		return nil, 0, fmt.Errorf("failed to flock lock file: %w", err)
	}

	if err := f.Truncate(0); err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("failed to truncate lock file: %w", err)
	}
	if _, err := f.WriteAt([]byte(strconv.Itoa(os.Getpid())), 0); err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("failed to write pid: %w", err)
	}

	return &Lock{path: path, file: f}, os.Getpid(), nil
}

func readPid(f *os.File) int {
	buf := make([]byte, 32)
	n, err := f.ReadAt(buf, 0)
	if n == 0 && err != nil {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(buf[:n])))
	if err != nil {
		return 0
	}
	return pid
}

// Release drops the lock and removes the file. Safe to call once.
func (l *Lock) Release() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close() // closing releases the flock
	l.file = nil
	os.Remove(l.path)
	return err
}

// HolderPid reads the pid currently stored in a lock file without
// acquiring it.
func HolderPid(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid in lock file %s", path)
	}
	return pid, nil
}

// SignalHolder delivers sig to the process holding the lock file.
func SignalHolder(path string, sig unix.Signal) error {
	pid, err := HolderPid(path)
	if err != nil {
		return err
	}
	if err := unix.Kill(pid, sig); err != nil {
		return fmt.Errorf("failed to signal pid %d: %w", pid, err)
	}
	return nil
}
