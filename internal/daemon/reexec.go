package daemon

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Reexec replaces the current process image with a fresh copy of the
// binary. The successor re-reads configuration from scratch, which is
// the whole point: reload is a restart, never an in-place mutation.
// The caller must have released the instance lock first.
func Reexec() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to resolve own binary: %w", err)
	}
	if err := unix.Exec(exe, []string{exe}, os.Environ()); err != nil {
		return fmt.Errorf("failed to re-exec %s: %w", exe, err)
	}
	return nil // unreachable: Exec does not return on success
}
