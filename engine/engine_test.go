package engine

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/resources"
	"github.com/spaghettifunk/lumen/engine/systems"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quadScene covers the whole view with two white triangles.
func quadScene(output string) *resources.SceneConfig {
	return &resources.SceneConfig{
		Output: resources.OutputConfig{Path: output, Width: 16, Height: 16},
		Geometry: resources.GeometryConfig{
			Vertices:  []float32{-1, -1, 0, 1, -1, 0, 1, 1, 0, -1, 1, 0},
			Indices:   []int32{0, 1, 2, 0, 2, 3},
			TexCoords: []float32{0, 0, 1, 0, 1, 1, 0, 1},
		},
		Texture: resources.TextureConfig{
			Width: 1, Height: 1, Format: "rgb8",
			Texels: []uint8{255, 255, 255},
		},
		Camera: resources.CameraConfig{Position: [3]float32{0, 0, -1}, Height: 2},
		Lights: []resources.LightConfig{{Type: "ambient"}},
		Renderer: resources.RendererConfig{
			Type: "scivis",
		},
	}
}

func newTestEngine(t *testing.T, config *ApplicationConfig) (*Engine, *Game) {
	t.Helper()
	out := filepath.Join(t.TempDir(), "out.png")
	g := &Game{
		ApplicationConfig: config,
		FnScene:           func() *resources.SceneConfig { return quadScene(out) },
	}
	e, err := New(g)
	require.NoError(t, err)
	_, err = e.Initialize([]string{"engine", "--rt:numthreads=2"})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, e.Shutdown()) })
	return e, g
}

func readPNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	return img
}

func TestNewRejectsIncompleteGame(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	_, err = New(&Game{ApplicationConfig: &ApplicationConfig{}})
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestInitializeFailureWrapsInitFailed(t *testing.T) {
	e, err := New(&Game{
		ApplicationConfig: &ApplicationConfig{},
		FnScene:           func() *resources.SceneConfig { return quadScene("x.png") },
	})
	require.NoError(t, err)

	_, err = e.Initialize([]string{"engine", "--rt:device=nope"})
	assert.ErrorIs(t, err, core.ErrInitFailed)
	assert.ErrorIs(t, err, core.ErrDeviceUnsupported)
	assert.Equal(t, EngineStageUninitialized, e.Stage())
	assert.NoError(t, e.Shutdown())
}

func TestInitializeReturnsUnconsumedArgs(t *testing.T) {
	e, err := New(&Game{
		ApplicationConfig: &ApplicationConfig{},
		FnScene:           func() *resources.SceneConfig { return quadScene("x.png") },
	})
	require.NoError(t, err)

	rest, err := e.Initialize([]string{"engine", "--rt:numthreads=1", "--width", "3"})
	require.NoError(t, err)
	assert.Equal(t, []string{"engine", "--width", "3"}, rest)
	assert.Equal(t, EngineStageInitialized, e.Stage())

	_, err = e.Initialize(nil)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	require.NoError(t, e.Shutdown())
	assert.Equal(t, EngineStageShutdown, e.Stage())
}

func TestRunRendersOnce(t *testing.T) {
	config := &ApplicationConfig{}
	e, g := newTestEngine(t, config)

	var written string
	var frameTime float64
	e.Events().Register(core.EVENT_CODE_FRAME_RENDERED, t, func(_ core.SystemEventCode, _, _ interface{}, data core.EventContext) bool {
		written, frameTime = data.Path, data.Elapsed
		return true
	})
	frames := 0
	g.FnOnFrame = func(string, time.Duration) error {
		frames++
		return nil
	}

	require.NoError(t, e.Run(context.Background()))
	assert.Equal(t, 1, e.Frames())
	assert.Equal(t, 1, frames)
	assert.NotEmpty(t, written)
	assert.GreaterOrEqual(t, frameTime, 0.0)
	assert.Equal(t, uint64(1), e.Metrics().Frames())

	img := readPNG(t, written)
	assert.Equal(t, image.Rect(0, 0, 16, 16), img.Bounds())
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, color.NRGBAModel.Convert(img.At(8, 8)))
}

func TestApplicationOverridesScene(t *testing.T) {
	out := filepath.Join(t.TempDir(), "override.png")
	config := &ApplicationConfig{OutputPath: out, Width: 5, Height: 7, SamplesPerPixel: 2, RendererType: "pathtracer"}
	e, _ := newTestEngine(t, config)

	require.NoError(t, e.RenderOnce())
	img := readPNG(t, out)
	assert.Equal(t, image.Rect(0, 0, 5, 7), img.Bounds())
}

func TestRenderOnceReleasesEverything(t *testing.T) {
	e, _ := newTestEngine(t, &ApplicationConfig{})

	require.NoError(t, e.RenderOnce())
	require.NoError(t, e.RenderOnce())
	assert.Equal(t, 0, e.device.LiveObjects())
}

func TestSceneBuffersAliasApplicationArrays(t *testing.T) {
	e, _ := newTestEngine(t, &ApplicationConfig{})
	sm, err := systems.NewSystemManager(e.device)
	require.NoError(t, err)
	defer func() { assert.NoError(t, sm.Shutdown()) }()

	scene := quadScene(filepath.Join(t.TempDir(), "alias.png"))
	_, err = e.buildScene(sm, scene)
	require.NoError(t, err)

	texture, ok := sm.Textures.Get("diffuse")
	require.True(t, ok)
	assert.Equal(t, float32(1), texture.Get().State().Texels[0].X)
	scene.Texture.Texels[0] = 0
	require.NoError(t, texture.Get().Commit())
	assert.Equal(t, float32(0), texture.Get().State().Texels[0].X)

	geometry, ok := sm.Geometries.Get("mesh")
	require.True(t, ok)
	assert.Equal(t, float32(-1), geometry.Get().State().Triangles[0].P0.X)
	scene.Geometry.Vertices[0] = -0.5
	require.NoError(t, geometry.Get().Commit())
	assert.Equal(t, float32(-0.5), geometry.Get().State().Triangles[0].P0.X)
}

func TestRenderOnceFailureReleasesEverything(t *testing.T) {
	e, g := newTestEngine(t, &ApplicationConfig{})
	g.FnScene = func() *resources.SceneConfig {
		s := quadScene(filepath.Join(t.TempDir(), "bad.png"))
		s.Geometry.Indices = []int32{0, 1, 9}
		return s
	}

	err := e.RenderOnce()
	assert.ErrorIs(t, err, core.ErrIndexOutOfRange)
	assert.Equal(t, 0, e.device.LiveObjects())
}

func TestRenderOnceRejectsBadTexture(t *testing.T) {
	e, g := newTestEngine(t, &ApplicationConfig{})
	g.FnScene = func() *resources.SceneConfig {
		s := quadScene(filepath.Join(t.TempDir(), "bad.png"))
		s.Texture.Filter = "anisotropic"
		return s
	}
	assert.ErrorIs(t, e.RenderOnce(), core.ErrInvalidArgument)
}

func TestConfigFileWithImageTexture(t *testing.T) {
	dir := t.TempDir()
	tex := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	tex.SetNRGBA(0, 0, color.NRGBA{0, 0, 255, 255})
	f, err := os.Create(filepath.Join(dir, "blue.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, tex))
	require.NoError(t, f.Close())

	scenePath := filepath.Join(dir, "scene.toml")
	require.NoError(t, os.WriteFile(scenePath, []byte(`
[texture]
image = "blue.png"
`), 0o644))

	out := filepath.Join(dir, "out.png")
	e, _ := newTestEngine(t, &ApplicationConfig{ConfigPath: scenePath, OutputPath: out})
	require.NoError(t, e.RenderOnce())

	img := readPNG(t, out)
	assert.Equal(t, color.NRGBA{0, 0, 255, 255}, color.NRGBAModel.Convert(img.At(3, 3)))
}

func TestWatchModeRerendersOnChange(t *testing.T) {
	dir := t.TempDir()
	scenePath := filepath.Join(dir, "scene.toml")
	require.NoError(t, os.WriteFile(scenePath, []byte("[output]\nwidth = 8\n"), 0o644))

	out := filepath.Join(dir, "out.png")
	e, _ := newTestEngine(t, &ApplicationConfig{ConfigPath: scenePath, OutputPath: out, Watch: true})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	assert.Eventually(t, func() bool { return e.Frames() >= 1 }, 5*time.Second, 10*time.Millisecond)
	require.NoError(t, os.WriteFile(scenePath, []byte("[output]\nwidth = 12\n"), 0o644))
	assert.Eventually(t, func() bool {
		f, err := os.Open(out)
		if err != nil {
			return false
		}
		defer f.Close()
		cfg, err := png.DecodeConfig(f)
		return err == nil && cfg.Width == 12
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch loop did not stop")
	}
}

func TestQuitStopsWatchMode(t *testing.T) {
	dir := t.TempDir()
	scenePath := filepath.Join(dir, "scene.toml")
	require.NoError(t, os.WriteFile(scenePath, nil, 0o644))

	e, _ := newTestEngine(t, &ApplicationConfig{ConfigPath: scenePath, OutputPath: filepath.Join(dir, "out.png"), Watch: true})
	done := make(chan error, 1)
	go func() { done <- e.Run(context.Background()) }()

	assert.Eventually(t, func() bool { return e.Frames() >= 1 }, 5*time.Second, 10*time.Millisecond)
	e.Quit()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch loop did not stop")
	}
}

func TestWatchNeedsConfig(t *testing.T) {
	e, _ := newTestEngine(t, &ApplicationConfig{Watch: true})
	assert.ErrorIs(t, e.Run(context.Background()), core.ErrInvalidArgument)
}
