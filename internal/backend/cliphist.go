// Package backend wraps the external tools the daemons drive:
// cliphist, wl-copy, notify-send, magick, bc, and the XDG desktop
// entry database. Every invocation takes a context so a wedged tool
// can never freeze the event loop.
package backend

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// RawEntry is one line of `cliphist list`: a stable id, the display
// preview, and the full raw line the other cliphist subcommands expect
// on stdin.
type RawEntry struct {
	ID       string
	Preview  string
	Line     string
	IsBinary bool
}

// History is the process boundary to the clipboard history backend.
type History interface {
	List(ctx context.Context) ([]RawEntry, error)
	Decode(ctx context.Context, line string) ([]byte, error)
	Delete(ctx context.Context, line string) error
	// DBPath points at the backend's database file, watched for
	// incremental change notifications.
	DBPath() string
}

// Cliphist drives the cliphist binary.
type Cliphist struct {
	Bin string
}

// NewCliphist returns a History backed by the cliphist binary, or an
// error if the binary is not on PATH (a fatal startup condition).
func NewCliphist() (*Cliphist, error) {
	path, err := exec.LookPath("cliphist")
	if err != nil {
		return nil, fmt.Errorf("cliphist binary not found: %w", err)
	}
	return &Cliphist{Bin: path}, nil
}

func (c *Cliphist) List(ctx context.Context) ([]RawEntry, error) {
	out, err := exec.CommandContext(ctx, c.Bin, "list").Output()
	if err != nil {
		return nil, fmt.Errorf("cliphist list failed: %w", err)
	}
	return ParseList(out), nil
}

// ParseList parses `cliphist list` output: one entry per line, id and
// preview separated by a tab. Lines without a tab are treated as both
// id and preview.
func ParseList(out []byte) []RawEntry {
	var entries []RawEntry
	for _, line := range strings.Split(string(out), "\n") {
		if line == "" {
			continue
		}
		id, preview, found := strings.Cut(line, "\t")
		if !found {
			id, preview = line, line
		}
		entries = append(entries, RawEntry{
			ID:       strings.TrimSpace(id),
			Preview:  preview,
			Line:     line,
			IsBinary: strings.Contains(preview, "[[ binary data"),
		})
	}
	return entries
}

func (c *Cliphist) Decode(ctx context.Context, line string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, c.Bin, "decode")
	cmd.Stdin = strings.NewReader(line)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("cliphist decode failed: %w", err)
	}
	return out.Bytes(), nil
}

func (c *Cliphist) Delete(ctx context.Context, line string) error {
	cmd := exec.CommandContext(ctx, c.Bin, "delete")
	cmd.Stdin = strings.NewReader(line)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("cliphist delete failed: %w", err)
	}
	return nil
}

func (c *Cliphist) DBPath() string {
	if cache := os.Getenv("XDG_CACHE_HOME"); cache != "" {
		return filepath.Join(cache, "cliphist", "db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".cache", "cliphist", "db")
}
