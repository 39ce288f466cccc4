package assets

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
	"github.com/spaghettifunk/lumen/engine/resources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTwoRowPNG(t *testing.T) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{G: 255, A: 255})
	img.SetNRGBA(0, 1, color.NRGBA{B: 255, A: 255})
	img.SetNRGBA(1, 1, color.NRGBA{R: 255, G: 255, A: 128})

	path := filepath.Join(t.TempDir(), "tex.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestLoadImage(t *testing.T) {
	am := NewAssetManager(nil)
	path := writeTwoRowPNG(t)

	res, err := am.LoadAsset(path, metadata.ResourceTypeNone, &metadata.ImageResourceParams{Channels: 4})
	require.NoError(t, err)
	assert.Equal(t, metadata.ResourceTypeImage, res.Type)

	data := res.Data.(*metadata.ImageResourceData)
	assert.Equal(t, uint32(2), data.Width)
	assert.Equal(t, uint32(2), data.Height)
	assert.Equal(t, []uint8{
		255, 0, 0, 255, 0, 255, 0, 255,
		0, 0, 255, 255, 255, 255, 0, 128,
	}, data.Pixels)

	info, ok := am.Info(path)
	require.True(t, ok)
	assert.Equal(t, metadata.ResourceTypeImage, info.Type)
	assert.NoError(t, am.UnloadAsset(res))
}

func TestLoadImageFlipsAndDropsAlpha(t *testing.T) {
	am := NewAssetManager(nil)
	path := writeTwoRowPNG(t)

	res, err := am.LoadAsset(path, metadata.ResourceTypeImage, &metadata.ImageResourceParams{FlipY: true, Channels: 3})
	require.NoError(t, err)

	data := res.Data.(*metadata.ImageResourceData)
	assert.Equal(t, uint8(3), data.ChannelCount)
	assert.Equal(t, []uint8{
		0, 0, 255, 255, 255, 0,
		255, 0, 0, 0, 255, 0,
	}, data.Pixels)
}

func TestLoadAssetErrors(t *testing.T) {
	am := NewAssetManager(nil)

	_, err := am.LoadAsset("scene.obj", metadata.ResourceTypeNone, nil)
	assert.ErrorIs(t, err, core.ErrUnknownType)

	garbage := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(garbage, []byte("not an image"), 0o644))
	_, err = am.LoadAsset(garbage, metadata.ResourceTypeNone, nil)
	assert.ErrorIs(t, err, core.ErrUnsupportedFormat)

	_, err = am.LoadAsset(writeTwoRowPNG(t), metadata.ResourceTypeImage, &metadata.ImageResourceParams{Channels: 2})
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestLoadSceneOverlaysBase(t *testing.T) {
	am := NewAssetManager(nil)
	path := filepath.Join(t.TempDir(), "scene.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[output]
width = 64

[[lights]]
type = "distant"
direction = [0.0, 0.0, 1.0]

[renderer]
spp = 4
`), 0o644))

	base := &resources.SceneConfig{
		Output:   resources.OutputConfig{Path: "output.png", Width: 400, Height: 400},
		Lights:   []resources.LightConfig{{Type: "ambient"}, {Type: "ambient"}},
		Renderer: resources.RendererConfig{Type: "pathtracer", SPP: 1},
	}
	res, err := am.LoadAsset(path, metadata.ResourceTypeNone, base)
	require.NoError(t, err)

	scene := res.Data.(*resources.SceneConfig)
	assert.Equal(t, 64, scene.Output.Width)
	assert.Equal(t, 400, scene.Output.Height)
	assert.Equal(t, "output.png", scene.Output.Path)
	assert.Equal(t, 4, scene.Renderer.SPP)
	assert.Equal(t, "pathtracer", scene.Renderer.Type)
	require.Len(t, scene.Lights, 1)
	assert.Equal(t, "distant", scene.Lights[0].Type)

	// the base is left alone
	assert.Len(t, base.Lights, 2)
	assert.Equal(t, 400, base.Output.Width)
}

func TestLoadSceneRejectsBadInput(t *testing.T) {
	am := NewAssetManager(nil)
	path := filepath.Join(t.TempDir(), "scene.toml")
	require.NoError(t, os.WriteFile(path, []byte("[output\nwidth ="), 0o644))

	_, err := am.LoadAsset(path, metadata.ResourceTypeScene, &resources.SceneConfig{})
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	_, err = am.LoadAsset(path, metadata.ResourceTypeScene, nil)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestWatchFiresSceneChanged(t *testing.T) {
	bus := core.NewEventBus()
	am := NewAssetManager(bus)
	t.Cleanup(func() { _ = am.Close() })

	path := filepath.Join(t.TempDir(), "scene.toml")
	require.NoError(t, os.WriteFile(path, []byte("[renderer]\nspp = 1\n"), 0o644))

	var fired atomic.Int32
	bus.Register(core.EVENT_CODE_SCENE_CHANGED, t, func(_ core.SystemEventCode, _, _ interface{}, data core.EventContext) bool {
		if filepath.Base(data.Path) == "scene.toml" {
			fired.Add(1)
		}
		return true
	})

	require.NoError(t, am.Watch(path))
	require.NoError(t, os.WriteFile(path, []byte("[renderer]\nspp = 2\n"), 0o644))

	assert.Eventually(t, func() bool { return fired.Load() > 0 }, 5*time.Second, 20*time.Millisecond)
}

func TestWatchAfterClose(t *testing.T) {
	am := NewAssetManager(nil)
	require.NoError(t, am.Close())
	require.NoError(t, am.Close())

	path := filepath.Join(t.TempDir(), "scene.toml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	assert.Error(t, am.Watch(path))
}
