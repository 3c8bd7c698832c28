package backend

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"
)

// Converter renders raw image bytes into a fixed-size thumbnail file.
type Converter interface {
	Render(ctx context.Context, raw []byte, outPath string) error
}

const (
	// thumbSize is the base cell size; renders are produced at 2x for
	// crisp scaling in the overlay.
	thumbSize = 64

	// convertTimeout bounds a single conversion; a stuck converter
	// becomes a (negatively cached) failure, never a hung daemon.
	convertTimeout = 10 * time.Second
)

// Magick drives ImageMagick's magick binary.
type Magick struct {
	Bin string
}

func NewMagick() (*Magick, error) {
	path, err := exec.LookPath("magick")
	if err != nil {
		return nil, fmt.Errorf("magick binary not found: %w", err)
	}
	return &Magick{Bin: path}, nil
}

func (m *Magick) Render(ctx context.Context, raw []byte, outPath string) error {
	ctx, cancel := context.WithTimeout(ctx, convertTimeout)
	defer cancel()

	size := fmt.Sprintf("%dx%d^", thumbSize*2, thumbSize*2)
	cmd := exec.CommandContext(ctx, m.Bin, "-", "-resize", size, "png:"+outPath)
	cmd.Stdin = bytes.NewReader(raw)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("magick convert failed: %w", err)
	}
	return nil
}
