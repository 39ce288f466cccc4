package metadata

import (
	"fmt"

	"github.com/spaghettifunk/lumen/engine/math"
)

type RendererType int

const (
	/** @brief Physically based path tracing. */
	RendererTypePathTracer RendererType = iota
	/** @brief Direct ambient and distant lighting without indirect bounces. */
	RendererTypeSciVis
)

func (r RendererType) String() string {
	switch r {
	case RendererTypePathTracer:
		return "pathtracer"
	case RendererTypeSciVis:
		return "scivis"
	default:
		return fmt.Sprintf("RendererType(%d)", int(r))
	}
}

// ParseRendererType is the inverse of RendererType.String.
func ParseRendererType(name string) (RendererType, bool) {
	switch name {
	case "pathtracer":
		return RendererTypePathTracer, true
	case "scivis":
		return RendererTypeSciVis, true
	}
	return 0, false
}

const (
	DefaultSamplesPerPixel = 1
	DefaultMaxDepth        = 20
	DefaultRouletteDepth   = 5
)

/**
 * @brief Everything a backend needs to render one frame. Built at render time
 * from the latest committed state of the objects bound to a renderer.
 */
type RendererState struct {
	Type            RendererType
	SamplesPerPixel int
	MaxDepth        int
	RouletteDepth   int
	/** @brief Written where primary rays miss. Defaults to transparent black. */
	BgColor math.Vec4
	Model   *ModelState
	Camera  *CameraState
	Lights  []LightState
	/** @brief Base seed of the per-pixel random streams. */
	Seed uint64
}
