package engine

import (
	"github.com/spaghettifunk/lumen/engine/core"
)

/**
 * @brief Application settings, usually filled from the command line. Zero
 * values keep what the scene description says.
 */
type ApplicationConfig struct {
	// The application name used in log lines.
	Name string
	// Image file written after every frame.
	OutputPath string
	// Output size in pixels.
	Width  int
	Height int
	// Samples per pixel of the renderer.
	SamplesPerPixel int
	// "pathtracer" or "scivis".
	RendererType string
	// Write the image upright instead of bottom row first.
	FlipY bool
	// Optional TOML scene file overlaid onto the game's scene.
	ConfigPath string
	// Re-render whenever ConfigPath changes, until the context is cancelled.
	Watch    bool
	LogLevel core.LogLevel
}
