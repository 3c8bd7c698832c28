package daemon

import (
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// SigToggle flips daemon visibility; any invocation of the binary
// while an instance runs sends it.
const SigToggle = unix.SIGUSR1

// SigReload restarts the daemon in place so configuration is re-read
// from scratch.
const SigReload = unix.SIGHUP

// notifySignals routes the control signals into a channel. The
// handler side does nothing but deliver; all state transitions happen
// on the event loop.
func notifySignals() chan os.Signal {
	sigC := make(chan os.Signal, 4)
	signal.Notify(sigC, SigToggle, SigReload, unix.SIGTERM, unix.SIGINT)
	return sigC
}
