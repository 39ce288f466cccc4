package metadata

import (
	"fmt"

	"github.com/spaghettifunk/lumen/engine/math"
)

type LightType int

const (
	/** @brief Uniform light arriving from every direction. */
	LightTypeAmbient LightType = iota
	/** @brief Light from a direction infinitely far away, e.g. the sun. */
	LightTypeDistant
)

func (l LightType) String() string {
	switch l {
	case LightTypeAmbient:
		return "ambient"
	case LightTypeDistant:
		return "distant"
	default:
		return fmt.Sprintf("LightType(%d)", int(l))
	}
}

// ParseLightType is the inverse of LightType.String.
func ParseLightType(name string) (LightType, bool) {
	switch name {
	case "ambient":
		return LightTypeAmbient, true
	case "distant":
		return LightTypeDistant, true
	}
	return 0, false
}

/**
 * @brief The committed state of a light.
 */
type LightState struct {
	Type LightType
	/** @brief The light colour. Defaults to white. */
	Color math.Vec3
	/** @brief Scales Color. Defaults to 1. */
	Intensity float32
	/** @brief Direction the light travels in (distant lights). Normalized. */
	Direction math.Vec3
}

// Radiance returns Color scaled by Intensity.
func (l LightState) Radiance() math.Vec3 {
	return l.Color.MulScalar(l.Intensity)
}
