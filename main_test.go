package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/lumen/engine"
	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// logTo sends the engine log to w for the rest of the test.
func logTo(t *testing.T, w *bytes.Buffer) {
	t.Helper()
	level := core.GetLogLevel()
	core.SetLogOutput(w)
	t.Cleanup(func() {
		core.SetLogLevel(level)
		core.SetLogOutput(os.Stderr)
	})
}

func TestRunWritesOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.png")
	var stderr bytes.Buffer
	logTo(t, &stderr)

	status := run([]string{"lumen", "--rt:numthreads=2", "--output", out, "--width", "64", "--height", "32"}, &stderr)
	require.Equal(t, 0, status)
	assert.Empty(t, stderr.String())

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 32, cfg.Height)
}

func TestRunInitFailure(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	var stderr bytes.Buffer
	logTo(t, &stderr)
	status := run([]string{"lumen", "--rt:device=quantum"}, &stderr)

	assert.Equal(t, 1, status)
	assert.Equal(t, engine.InitFailedMessage+"\n", stderr.String())
	_, err = os.Stat(filepath.Join(dir, "output.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunMalformedLibraryFlag(t *testing.T) {
	var stderr bytes.Buffer
	status := run([]string{"lumen", "--rt:numthreads=many", "--output", filepath.Join(t.TempDir(), "x.png")}, &stderr)

	assert.Equal(t, 1, status)
	assert.Contains(t, stderr.String(), engine.InitFailedMessage)
}

func TestRunRejectsBadFlags(t *testing.T) {
	var stderr bytes.Buffer
	assert.Equal(t, 2, run([]string{"lumen", "--no-such-flag"}, &stderr))
	assert.Equal(t, 2, run([]string{"lumen", "--watch"}, &stderr))
	assert.Equal(t, 2, run([]string{"lumen", "--log-level", "chatty"}, &stderr))
}

func TestRunFailedRenderExitsNonZero(t *testing.T) {
	var stderr bytes.Buffer
	out := filepath.Join(t.TempDir(), "out.jpg")
	assert.Equal(t, 1, run([]string{"lumen", "--output", out, "--width", "8", "--height", "8"}, &stderr))
	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestRunWithConfigFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "scene.bmp")
	config := filepath.Join(dir, "scene.toml")
	require.NoError(t, os.WriteFile(config, []byte(`
[output]
path = "`+filepath.ToSlash(out)+`"
width = 20
height = 10

[renderer]
type = "scivis"
`), 0o644))

	var stderr bytes.Buffer
	require.Equal(t, 0, run([]string{"lumen", "--config", config}, &stderr))

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(20*10))
}
