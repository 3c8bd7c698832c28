package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Anchor positions the overlay window on the output.
type Anchor string

const (
	AnchorCenter      Anchor = "center"
	AnchorTop         Anchor = "top"
	AnchorTopLeft     Anchor = "top-left"
	AnchorTopRight    Anchor = "top-right"
	AnchorBottom      Anchor = "bottom"
	AnchorBottomLeft  Anchor = "bottom-left"
	AnchorBottomRight Anchor = "bottom-right"
)

// WindowConfig holds overlay geometry.
type WindowConfig struct {
	Width        int    `yaml:"width"`
	Height       int    `yaml:"height"`
	Anchor       Anchor `yaml:"anchor"`
	MarginTop    int    `yaml:"margin_top"`
	MarginBottom int    `yaml:"margin_bottom"`
	MarginLeft   int    `yaml:"margin_left"`
	MarginRight  int    `yaml:"margin_right"`
}

// StyleConfig points at the CSS consumed by the overlay toolkit. Theme
// may be a file path or the name of a builtin theme.
type StyleConfig struct {
	Theme string `yaml:"theme"`
}

// BehaviorConfig holds the runtime flags shared by both daemons plus
// the launcher-only settings (Terminal, Calculator), which the cliphist
// daemon never reads.
type BehaviorConfig struct {
	MaxItems      int    `yaml:"max_items"` // 0 means unlimited
	CloseOnSelect bool   `yaml:"close_on_select"`
	NotifyOnCopy  bool   `yaml:"notify_on_copy"`
	VimMode       bool   `yaml:"vim_mode"`
	Terminal      string `yaml:"terminal"`
	Calculator    bool   `yaml:"calculator"`
}

// CacheConfig bounds the thumbnail cache.
type CacheConfig struct {
	MaxBytes int64 `yaml:"max_bytes"`
}

// LogConfig controls the file logger.
type LogConfig struct {
	Level      string `yaml:"level"`
	MaxLogSize int64  `yaml:"max_log_size"`
}

// Config is the effective runtime configuration. It is loaded once at
// daemon start; changes require --reload, which restarts the process.
type Config struct {
	Window   WindowConfig      `yaml:"window"`
	Style    StyleConfig       `yaml:"style"`
	Behavior BehaviorConfig    `yaml:"behavior"`
	Keybinds map[string]string `yaml:"keybinds"`
	Cache    CacheConfig       `yaml:"cache"`
	Log      LogConfig         `yaml:"log"`
}

// DefaultKeybinds maps every recognized action to its default chords.
// Values are space-separated alternatives with +-joined modifiers.
func DefaultKeybinds() map[string]string {
	return map[string]string{
		"select":       "Return KP_Enter",
		"delete":       "Delete",
		"clear_search": "Ctrl+u",
		"close":        "Escape",
		"next":         "Down Tab",
		"prev":         "Up Shift+Tab",
		"page_down":    "Page_Down",
		"page_up":      "Page_Up",
		"first":        "Home",
		"last":         "End",
	}
}

func baseDefaults(width, height int) *Config {
	return &Config{
		Window: WindowConfig{
			Width:  width,
			Height: height,
			Anchor: AnchorCenter,
		},
		Behavior: BehaviorConfig{
			MaxItems:      0,
			CloseOnSelect: true,
			NotifyOnCopy:  false,
			VimMode:       false,
			Terminal:      "kitty",
			Calculator:    true,
		},
		Keybinds: DefaultKeybinds(),
		Cache: CacheConfig{
			MaxBytes: 50 * 1024 * 1024,
		},
		Log: LogConfig{
			Level:      "info",
			MaxLogSize: 10 * 1024 * 1024,
		},
	}
}

// DefaultCliphist returns the defaults for the clipboard history daemon.
func DefaultCliphist() *Config {
	return baseDefaults(580, 520)
}

// DefaultLauncher returns the defaults for the launcher daemon.
func DefaultLauncher() *Config {
	return baseDefaults(580, 400)
}

// Load reads the config file, merging it over the provided defaults. A
// missing file is not an error: the defaults are returned as-is.
// Unknown keys and sections are ignored. A malformed file degrades to
// defaults with a non-nil error so the caller can log and continue.
func Load(path string, defaults *Config) (*Config, error) {
	cfg := *defaults
	cfg.Keybinds = DefaultKeybinds()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return &cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	// Keybinds unmarshal into a fresh map and merge by action, so
	// actions the user never mentions keep their default bindings.
	user := struct {
		Window   *WindowConfig     `yaml:"window"`
		Style    *StyleConfig      `yaml:"style"`
		Behavior *BehaviorConfig   `yaml:"behavior"`
		Keybinds map[string]string `yaml:"keybinds"`
		Cache    *CacheConfig      `yaml:"cache"`
		Log      *LogConfig        `yaml:"log"`
	}{
		Window:   &cfg.Window,
		Style:    &cfg.Style,
		Behavior: &cfg.Behavior,
		Cache:    &cfg.Cache,
		Log:      &cfg.Log,
	}
	if err := yaml.Unmarshal(data, &user); err != nil {
		fresh := *defaults
		fresh.Keybinds = DefaultKeybinds()
		return &fresh, fmt.Errorf("failed to parse config file: %w", err)
	}

	for action, chords := range user.Keybinds {
		action = strings.ToLower(strings.TrimSpace(action))
		if _, known := cfg.Keybinds[action]; !known {
			continue
		}
		if strings.TrimSpace(chords) != "" {
			cfg.Keybinds[action] = chords
		}
	}

	cfg.Style.Theme = ExpandHome(cfg.Style.Theme)
	cfg.Window.Anchor = normalizeAnchor(cfg.Window.Anchor)
	return &cfg, nil
}

func normalizeAnchor(a Anchor) Anchor {
	switch Anchor(strings.ReplaceAll(strings.ToLower(string(a)), "_", "-")) {
	case AnchorTop:
		return AnchorTop
	case AnchorTopLeft, "topleft":
		return AnchorTopLeft
	case AnchorTopRight, "topright":
		return AnchorTopRight
	case AnchorBottom:
		return AnchorBottom
	case AnchorBottomLeft, "bottomleft":
		return AnchorBottomLeft
	case AnchorBottomRight, "bottomright":
		return AnchorBottomRight
	default:
		return AnchorCenter
	}
}

// Save writes the configuration as YAML. Used by --generate-config.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
