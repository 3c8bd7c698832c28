package main

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/vib1240n/overlayd/internal/backend"
	"github.com/vib1240n/overlayd/internal/cli"
	"github.com/vib1240n/overlayd/internal/config"
	"github.com/vib1240n/overlayd/internal/daemon"
	"github.com/vib1240n/overlayd/internal/entry"
	"github.com/vib1240n/overlayd/internal/overlay"
	"github.com/vib1240n/overlayd/internal/store"
	"github.com/vib1240n/overlayd/internal/thumbs"
)

func main() {
	cli.Execute(cli.App{
		Name:     "cliphist-gui",
		Short:    "Clipboard history overlay daemon",
		Defaults: config.DefaultCliphist,
		Run:      run,
	})
}

func run(ctx context.Context, env *cli.Env) (daemon.ExitReason, error) {
	hist, err := backend.NewCliphist()
	if err != nil {
		return daemon.ReasonQuit, err
	}
	clip, err := backend.NewWlCopy()
	if err != nil {
		return daemon.ReasonQuit, err
	}

	provider := store.NewClipboardProvider(hist, env.Config.Behavior.MaxItems)
	st := store.New(provider, env.Logger)

	conv, err := backend.NewMagick()
	if err != nil {
		// Thumbnails degrade to placeholders when the converter is
		// absent; everything else keeps working.
		env.Logger.Warn("image converter unavailable, thumbnails disabled", zap.Error(err))
	}

	var cache *thumbs.Cache
	if conv != nil {
		cache, err = thumbs.Open(filepath.Join(env.Paths.CacheDir, "thumbs"),
			env.Config.Cache.MaxBytes, conv, env.Logger)
		if err != nil {
			return daemon.ReasonQuit, fmt.Errorf("failed to open thumbnail cache: %w", err)
		}
		defer cache.Close()
	}

	var notifier backend.Notifier = backend.NotifySend{}

	hooks := daemon.Hooks{
		AllowDelete: true,
		Decode: func(ctx context.Context, e entry.Entry) ([]byte, error) {
			return provider.Decode(ctx, e)
		},
		Select: func(ctx context.Context, e entry.Entry) error {
			raw, err := provider.Decode(ctx, e)
			if err != nil {
				return fmt.Errorf("failed to decode entry %s: %w", e.ID, err)
			}
			mime := "text/plain"
			if e.Kind == entry.Image {
				mime = http.DetectContentType(raw)
			}
			if err := clip.Copy(ctx, raw, mime); err != nil {
				return fmt.Errorf("failed to copy entry %s: %w", e.ID, err)
			}
			if env.Config.Behavior.NotifyOnCopy {
				if err := notifier.Notify(ctx, "Copied", e.Title); err != nil {
					env.Logger.Debug("notify failed", zap.Error(err))
				}
			}
			return nil
		},
	}

	renderer := overlay.NewHeadless()
	ctrl := daemon.New(env.Config, st, cache, renderer, renderer, hooks, env.Logger)
	return ctrl.Run(ctx)
}
