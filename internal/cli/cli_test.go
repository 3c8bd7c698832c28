package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vib1240n/overlayd/internal/config"
)

func TestPrintConfigInfoListsFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "style.css"), []byte(""), 0o644))

	var out bytes.Buffer
	err := printConfigInfo(&out, App{Name: "cliphist-gui"}, &config.Paths{ConfigDir: dir})
	require.NoError(t, err)

	assert.Contains(t, out.String(), dir)
	assert.Contains(t, out.String(), "config.yaml")
	assert.Contains(t, out.String(), "style.css")
}

func TestPrintConfigInfoMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "never-created")

	var out bytes.Buffer
	err := printConfigInfo(&out, App{Name: "launch-gui"}, &config.Paths{ConfigDir: dir})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "does not exist")
	assert.Contains(t, out.String(), "launch-gui --generate-config")
}
