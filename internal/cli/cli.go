// Package cli is the shared command-line front for both daemons. The
// two binaries differ only in their name, defaults, and run hook; the
// flag surface, the single-instance handshake, and the reload cycle
// are identical and live here.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/vib1240n/overlayd/internal/config"
	"github.com/vib1240n/overlayd/internal/daemon"
	"github.com/vib1240n/overlayd/pkg/logx"
)

// Env carries everything a daemon's run hook needs, resolved once by
// the shared front.
type Env struct {
	Config  *config.Config
	Paths   *config.Paths
	Logger  *zap.Logger
	Verbose bool

	// StyleCSS is the resolved stylesheet handed to the toolkit
	// bridge: a builtin theme, the user's style file, or the default.
	StyleCSS string
}

// App describes one daemon binary.
type App struct {
	Name     string
	Short    string
	Defaults func() *config.Config

	// Run starts the daemon proper: wire the backends and enter the
	// event loop. It returns how the loop ended.
	Run func(ctx context.Context, env *Env) (daemon.ExitReason, error)
}

// Execute builds and runs the cobra command tree for one daemon.
func Execute(app App) {
	var (
		flagConfigInfo bool
		flagConfigFile string
		flagTheme      string
		flagReload     bool
		flagGenerate   bool
		flagVerbose    bool
	)

	root := &cobra.Command{
		Use:           app.Name,
		Short:         app.Short,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := config.PathsFor(app.Name)
			if err != nil {
				return err
			}

			if flagGenerate {
				return generateConfig(app, paths)
			}

			if flagConfigInfo {
				return printConfigInfo(os.Stdout, app, paths)
			}

			if flagReload {
				// Restart the running instance. No instance is not an
				// error: fall through and start one.
				if err := daemon.SignalHolder(paths.LockFile, daemon.SigReload); err == nil {
					return nil
				}
			}

			cfgPath := paths.ConfigFile
			if flagConfigFile != "" {
				cfgPath = config.ExpandHome(flagConfigFile)
			}
			cfg, err := config.Load(cfgPath, app.Defaults())
			if err != nil {
				return err
			}
			if flagTheme != "" {
				if _, ok := config.ThemeCSS(flagTheme); !ok {
					return fmt.Errorf("unknown theme %q (try: %s)",
						flagTheme, strings.Join(config.BuiltinThemes(), ", "))
				}
				cfg.Style.Theme = flagTheme
			}

			return runDaemon(app, paths, cfg, flagVerbose)
		},
	}

	root.Flags().BoolVar(&flagConfigInfo, "config", false, "print the config directory and its files")
	root.Flags().StringVar(&flagConfigFile, "config-file", "", "path to an alternate config file")
	root.Flags().StringVar(&flagTheme, "theme", "", "override the style theme")
	root.Flags().BoolVar(&flagReload, "reload", false, "restart the running instance")
	root.Flags().BoolVar(&flagGenerate, "generate-config", false, "write the default config and exit")
	root.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "log to stderr as well as the log file")

	root.AddCommand(toggleCmd(app))
	root.AddCommand(showThemesCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", app.Name, err)
		os.Exit(1)
	}
}

// runDaemon takes the instance lock and runs the event loop until
// quit, re-execing on reload. An already-running instance is toggled
// instead, which is how a bare invocation doubles as the hotkey
// command.
func runDaemon(app App, paths *config.Paths, cfg *config.Config, verbose bool) error {
	lock, holder, err := daemon.Acquire(paths.LockFile)
	if errors.Is(err, daemon.ErrAlreadyRunning) {
		if kerr := unix.Kill(holder, daemon.SigToggle); kerr != nil {
			return fmt.Errorf("failed to toggle running instance (pid %d): %w", holder, kerr)
		}
		return nil
	}
	if err != nil {
		return err
	}
	defer lock.Release()

	logger, err := logx.New(app.Name, paths.LogFile, cfg.Log.Level, cfg.Log.MaxLogSize, verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("daemon starting",
		zap.Int("pid", os.Getpid()),
		zap.String("lock", paths.LockFile))

	// Termination signals are handled inside the event loop; the
	// context only has to outlive it.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	style := cfg.Style.Theme
	if style == "" {
		style = paths.StyleFile
	}

	reason, err := app.Run(ctx, &Env{
		Config:   cfg,
		Paths:    paths,
		Logger:   logger,
		Verbose:  verbose,
		StyleCSS: config.ResolveStyle(style),
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if reason == daemon.ReasonReload {
		logger.Info("re-exec for reload")
		logger.Sync()
		lock.Release()
		return daemon.Reexec()
	}

	logger.Info("daemon exiting")
	return nil
}

// printConfigInfo lists the config directory and its files, or points
// at --generate-config when the directory does not exist yet.
func printConfigInfo(w io.Writer, app App, paths *config.Paths) error {
	files, err := os.ReadDir(paths.ConfigDir)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintf(w, "Config directory does not exist: %s\n", paths.ConfigDir)
			fmt.Fprintf(w, "Run '%s --generate-config' to create it.\n", app.Name)
			return nil
		}
		return err
	}
	fmt.Fprintln(w, paths.ConfigDir)
	for _, f := range files {
		fmt.Fprintf(w, "  %s\n", f.Name())
	}
	return nil
}

func generateConfig(app App, paths *config.Paths) error {
	if err := os.MkdirAll(paths.ConfigDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	cfg := app.Defaults()
	if err := cfg.Save(paths.ConfigFile); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", paths.ConfigFile)

	if _, err := os.Stat(paths.StyleFile); os.IsNotExist(err) {
		css, _ := config.ThemeCSS("default")
		if err := os.WriteFile(paths.StyleFile, []byte(css), 0o644); err != nil {
			return fmt.Errorf("failed to write style file: %w", err)
		}
		fmt.Printf("wrote %s\n", paths.StyleFile)
	}
	return nil
}

func toggleCmd(app App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle",
		Short: "Toggle the running instance, exit non-zero if none",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := config.PathsFor(app.Name)
			if err != nil {
				return err
			}
			if err := daemon.SignalHolder(paths.LockFile, daemon.SigToggle); err != nil {
				return fmt.Errorf("no running instance: %w", err)
			}
			return nil
		},
	}
}

func showThemesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show-themes",
		Short: "List the built-in style themes",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.BuiltinThemes() {
				fmt.Println(name)
			}
		},
	}
}
