package backend

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDesktopFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.desktop")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseDesktopFile(t *testing.T) {
	path := writeDesktopFile(t, `[Desktop Entry]
Name=Firefox
Comment=Web Browser
Exec=firefox %u
Icon=firefox
Terminal=false
`)

	e, ok := ParseDesktopFile(path)
	require.True(t, ok)
	assert.Equal(t, "Firefox", e.Name)
	assert.Equal(t, "Web Browser", e.Description)
	assert.Equal(t, "firefox", e.Exec, "field codes stripped")
	assert.False(t, e.Terminal)
}

func TestParseDesktopFileNoDisplay(t *testing.T) {
	path := writeDesktopFile(t, `[Desktop Entry]
Name=Hidden Helper
Exec=helper
NoDisplay=true
`)
	_, ok := ParseDesktopFile(path)
	assert.False(t, ok)
}

func TestParseDesktopFileHidden(t *testing.T) {
	path := writeDesktopFile(t, `[Desktop Entry]
Name=Gone
Exec=gone
Hidden=true
`)
	_, ok := ParseDesktopFile(path)
	assert.False(t, ok)
}

func TestParseDesktopFileIgnoresOtherSections(t *testing.T) {
	path := writeDesktopFile(t, `[Desktop Entry]
Name=App
Exec=app
[Desktop Action New]
Name=Shadow Name
Exec=shadow
`)
	e, ok := ParseDesktopFile(path)
	require.True(t, ok)
	assert.Equal(t, "App", e.Name)
	assert.Equal(t, "app", e.Exec)
}

func TestParseDesktopFileMissingExec(t *testing.T) {
	path := writeDesktopFile(t, `[Desktop Entry]
Name=Broken
`)
	_, ok := ParseDesktopFile(path)
	assert.False(t, ok)
}

func TestParseDesktopFileTerminalApp(t *testing.T) {
	path := writeDesktopFile(t, `[Desktop Entry]
Name=htop
Exec=htop
Terminal=true
GenericName=Process Viewer
`)
	e, ok := ParseDesktopFile(path)
	require.True(t, ok)
	assert.True(t, e.Terminal)
	assert.Equal(t, "Process Viewer", e.Description)
}

func TestStripFieldCodes(t *testing.T) {
	assert.Equal(t, "gimp", stripFieldCodes("gimp %U"))
	assert.Equal(t, "code --new-window", stripFieldCodes("code --new-window %F"))
	assert.Equal(t, "plain", stripFieldCodes("plain"))
}
