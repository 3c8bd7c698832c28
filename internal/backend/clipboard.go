package backend

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// ClipboardWriter writes selected content back to the system
// clipboard.
type ClipboardWriter interface {
	Copy(ctx context.Context, data []byte, mime string) error
}

// WlCopy drives wl-copy on wlroots compositors.
type WlCopy struct {
	Bin string
}

func NewWlCopy() (*WlCopy, error) {
	path, err := exec.LookPath("wl-copy")
	if err != nil {
		return nil, fmt.Errorf("wl-copy binary not found: %w", err)
	}
	return &WlCopy{Bin: path}, nil
}

func (w *WlCopy) Copy(ctx context.Context, data []byte, mime string) error {
	cmd := exec.CommandContext(ctx, w.Bin, "--type", mime)
	cmd.Stdin = bytes.NewReader(data)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("wl-copy failed: %w", err)
	}
	return nil
}

// Notifier posts a desktop notification. Failures are advisory only.
type Notifier interface {
	Notify(ctx context.Context, summary, body string) error
}

// NotifySend drives notify-send with a short expiry.
type NotifySend struct{}

func (NotifySend) Notify(ctx context.Context, summary, body string) error {
	cmd := exec.CommandContext(ctx, "notify-send", "-t", "2000", summary, body)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("notify-send failed: %w", err)
	}
	return nil
}
