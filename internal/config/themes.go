package config

import (
	"embed"
	"os"
	"path"
	"sort"
	"strings"
)

//go:embed themes/*.css
var themeFS embed.FS

// BuiltinThemes lists the names of the embedded themes, sorted.
func BuiltinThemes() []string {
	entries, err := themeFS.ReadDir("themes")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".css"))
	}
	sort.Strings(names)
	return names
}

// ThemeCSS returns the CSS of a builtin theme, or false if the name is
// not a builtin.
func ThemeCSS(name string) (string, bool) {
	data, err := themeFS.ReadFile(path.Join("themes", name+".css"))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// ResolveStyle returns the CSS the overlay toolkit should load. Theme
// values naming a builtin win over paths; a readable file path wins
// over the default; everything else falls back to the default theme.
func ResolveStyle(theme string) string {
	if !strings.Contains(theme, "/") && !strings.HasSuffix(theme, ".css") {
		if css, ok := ThemeCSS(theme); ok {
			return css
		}
	}
	if theme != "" {
		if data, err := os.ReadFile(theme); err == nil {
			return string(data)
		}
	}
	css, _ := ThemeCSS("default")
	return css
}
