package backend

import (
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// DesktopEntry is one installed application, parsed from its .desktop
// file.
type DesktopEntry struct {
	Name        string
	Exec        string
	Icon        string
	Description string
	Terminal    bool
	Path        string
}

// DataDirs returns the XDG directories searched for .desktop files, in
// precedence order.
func DataDirs() []string {
	var dirs []string
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".local", "share", "applications"))
	}
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		dirs = append(dirs, filepath.Join(dataHome, "applications"))
	}
	dataDirs := os.Getenv("XDG_DATA_DIRS")
	if dataDirs == "" {
		dataDirs = "/usr/local/share:/usr/share"
	}
	for _, d := range strings.Split(dataDirs, ":") {
		if d != "" {
			dirs = append(dirs, filepath.Join(d, "applications"))
		}
	}
	return dirs
}

// LoadDesktopEntries scans the XDG data dirs for launchable
// applications: hidden and NoDisplay entries are skipped, duplicates
// (by name) keep the first occurrence, and the result is sorted
// alphabetically.
func LoadDesktopEntries() []DesktopEntry {
	var entries []DesktopEntry
	seen := make(map[string]bool)

	for _, dir := range DataDirs() {
		filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() || !strings.HasSuffix(path, ".desktop") {
				return nil
			}
			e, ok := ParseDesktopFile(path)
			if !ok || seen[e.Name] {
				return nil
			}
			seen[e.Name] = true
			entries = append(entries, e)
			return nil
		})
	}

	sort.Slice(entries, func(a, b int) bool {
		return strings.ToLower(entries[a].Name) < strings.ToLower(entries[b].Name)
	})
	return entries
}

// ParseDesktopFile reads the [Desktop Entry] section of a .desktop
// file. Entries without a name or exec line, or marked Hidden or
// NoDisplay, are rejected.
func ParseDesktopFile(path string) (DesktopEntry, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DesktopEntry{}, false
	}

	var e DesktopEntry
	var noDisplay, hidden bool
	inSection := false

	for _, line := range strings.Split(string(data), "\n") {
		t := strings.TrimSpace(line)
		if strings.HasPrefix(t, "[") {
			inSection = t == "[Desktop Entry]"
			continue
		}
		if !inSection {
			continue
		}
		key, val, found := strings.Cut(t, "=")
		if !found {
			continue
		}
		key, val = strings.TrimSpace(key), strings.TrimSpace(val)
		switch key {
		case "Name":
			if e.Name == "" {
				e.Name = val
			}
		case "Exec":
			e.Exec = stripFieldCodes(val)
		case "Icon":
			e.Icon = val
		case "Comment":
			e.Description = val
		case "GenericName":
			if e.Description == "" {
				e.Description = val
			}
		case "Terminal":
			e.Terminal = strings.EqualFold(val, "true")
		case "NoDisplay":
			noDisplay = strings.EqualFold(val, "true")
		case "Hidden":
			hidden = strings.EqualFold(val, "true")
		}
	}

	if e.Name == "" || e.Exec == "" || noDisplay || hidden {
		return DesktopEntry{}, false
	}
	e.Path = path
	return e, true
}

// stripFieldCodes removes the %f/%u-style placeholders a desktop Exec
// line may carry; the launcher never passes files or URLs.
func stripFieldCodes(exec string) string {
	for _, code := range []string{"%f", "%F", "%u", "%U", "%c", "%k", "%i", "%d", "%D"} {
		exec = strings.ReplaceAll(exec, code, "")
	}
	return strings.TrimSpace(exec)
}

// Launch starts the application detached from the daemon. Terminal
// apps run inside the configured terminal emulator.
func Launch(e DesktopEntry, terminal string) error {
	var cmd *exec.Cmd
	if e.Terminal {
		cmd = exec.Command(terminal, "-e", "sh", "-c", e.Exec)
	} else {
		cmd = exec.Command("sh", "-c", e.Exec)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch %s: %w", e.Name, err)
	}
	// Reap the child in the background so it never zombies.
	go cmd.Wait()
	return nil
}
