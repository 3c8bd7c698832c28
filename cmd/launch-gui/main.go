package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/vib1240n/overlayd/internal/backend"
	"github.com/vib1240n/overlayd/internal/cli"
	"github.com/vib1240n/overlayd/internal/config"
	"github.com/vib1240n/overlayd/internal/daemon"
	"github.com/vib1240n/overlayd/internal/entry"
	"github.com/vib1240n/overlayd/internal/freq"
	"github.com/vib1240n/overlayd/internal/overlay"
	"github.com/vib1240n/overlayd/internal/store"
)

func main() {
	cli.Execute(cli.App{
		Name:     "launch-gui",
		Short:    "Application launcher overlay daemon",
		Defaults: config.DefaultLauncher,
		Run:      run,
	})
}

func run(ctx context.Context, env *cli.Env) (daemon.ExitReason, error) {
	provider := store.NewApplicationsProvider()
	st := store.New(provider, env.Logger)

	counts := freq.Open(filepath.Join(env.Paths.StateDir, "freq"))

	var clip *backend.WlCopy
	if c, err := backend.NewWlCopy(); err == nil {
		clip = c
	} else {
		env.Logger.Debug("clipboard writer unavailable", zap.Error(err))
	}

	hooks := daemon.Hooks{
		Bonus: func(e entry.Entry) int {
			return counts.Count(e.ID) * 50
		},
		QueryRows: func(ctx context.Context, query string) []entry.Entry {
			if !env.Config.Behavior.Calculator || !backend.IsArithmetic(query) {
				return nil
			}
			ctx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()
			result, ok := backend.CalcEval(ctx, query)
			if !ok {
				return nil
			}
			return []entry.Entry{{
				ID:       "calc:" + query,
				Kind:     entry.Text,
				Title:    result,
				Subtitle: "Press Enter to copy",
				Raw:      result,
			}}
		},
		Select: func(ctx context.Context, e entry.Entry) error {
			switch e.Kind {
			case entry.App:
				app, ok := provider.Lookup(e.ID)
				if !ok {
					return fmt.Errorf("unknown application %q", e.ID)
				}
				if err := backend.Launch(app, env.Config.Behavior.Terminal); err != nil {
					return fmt.Errorf("failed to launch %s: %w", e.ID, err)
				}
				if err := counts.Bump(e.ID); err != nil {
					env.Logger.Warn("failed to record launch", zap.String("app", e.ID), zap.Error(err))
				}
				return nil
			default:
				// Calculator result row: copy the value.
				if clip == nil {
					return fmt.Errorf("no clipboard writer for %q", e.ID)
				}
				return clip.Copy(ctx, []byte(e.Raw), "text/plain")
			}
		},
	}

	renderer := overlay.NewHeadless()
	ctrl := daemon.New(env.Config, st, nil, renderer, renderer, hooks, env.Logger)
	return ctrl.Run(ctx)
}
