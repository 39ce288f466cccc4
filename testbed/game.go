package testbed

import (
	"time"

	"github.com/spaghettifunk/lumen/engine"
	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/resources"
)

const (
	// OutputWidth and OutputHeight are the size of the rendered image.
	OutputWidth  = 400
	OutputHeight = 400
	// OutputPath is where the image is written, relative to the working directory.
	OutputPath = "output.png"
)

var (
	// one triangle in the z=0 plane
	vertices  = []float32{0, 0, 0, 1, 1, 0, 1, 0, 0}
	indices   = []int32{0, 1, 2}
	texcoords = []float32{0, 0, 1, 1, 1, 0}

	// 2x2 RGB8, row 0 first: red, green / blue, yellow
	texels = []uint8{
		255, 0, 0, 0, 255, 0,
		0, 0, 255, 255, 255, 0,
	}
)

type TestGame struct {
	*engine.Game
}

type gameState struct {
	framesWritten int
	lastFrameTime time.Duration
}

func NewTestGame() *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: &engine.ApplicationConfig{
				Name:     "Lumen textured triangle",
				LogLevel: core.WarnLevel,
			},
			State: &gameState{},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnScene = tg.Scene
	tg.FnOnFrame = tg.OnFrame
	tg.FnShutdown = tg.Shutdown

	return tg
}

func (g *TestGame) Initialize() error {
	core.LogDebug("initializing %s", g.ApplicationConfig.Name)
	return nil
}

// Scene returns a fresh copy of the textured triangle scene.
func (g *TestGame) Scene() *resources.SceneConfig {
	return &resources.SceneConfig{
		Output: resources.OutputConfig{
			Path:   OutputPath,
			Width:  OutputWidth,
			Height: OutputHeight,
		},
		Geometry: resources.GeometryConfig{
			Vertices:  append([]float32(nil), vertices...),
			Indices:   append([]int32(nil), indices...),
			TexCoords: append([]float32(nil), texcoords...),
		},
		Texture: resources.TextureConfig{
			Width:  2,
			Height: 2,
			Format: "rgb8",
			Filter: "nearest",
			Texels: append([]uint8(nil), texels...),
		},
		Camera: resources.CameraConfig{
			Type:     "orthographic",
			Position: [3]float32{0, 0, -1},
			Height:   2,
			Width:    2,
		},
		Lights: []resources.LightConfig{
			{Type: "ambient", Color: [3]float32{1, 1, 1}, Intensity: 1},
		},
		Renderer: resources.RendererConfig{
			Type: "pathtracer",
			SPP:  1,
		},
	}
}

func (g *TestGame) OnFrame(path string, frameTime time.Duration) error {
	state := g.State.(*gameState)
	state.framesWritten++
	state.lastFrameTime = frameTime
	core.LogDebug("frame %d written to %s", state.framesWritten, path)
	return nil
}

// FramesWritten returns how many images the game has seen written.
func (g *TestGame) FramesWritten() int {
	return g.State.(*gameState).framesWritten
}

func (g *TestGame) Shutdown() error {
	core.LogDebug("shutting down %s after %d frame(s)", g.ApplicationConfig.Name, g.FramesWritten())
	return nil
}
