package metadata

import (
	"fmt"

	"github.com/spaghettifunk/lumen/engine/math"
)

/** @brief The name of the default camera. */
const DEFAULT_CAMERA_NAME string = "default"

type CameraType int

const (
	CameraTypeOrthographic CameraType = iota
	CameraTypePerspective
)

func (c CameraType) String() string {
	switch c {
	case CameraTypeOrthographic:
		return "orthographic"
	case CameraTypePerspective:
		return "perspective"
	default:
		return fmt.Sprintf("CameraType(%d)", int(c))
	}
}

// ParseCameraType is the inverse of CameraType.String.
func ParseCameraType(name string) (CameraType, bool) {
	switch name {
	case "orthographic":
		return CameraTypeOrthographic, true
	case "perspective":
		return CameraTypePerspective, true
	}
	return 0, false
}

/**
 * @brief The committed state of a camera. Direction and Up are normalized.
 */
type CameraState struct {
	Type CameraType
	/** @brief The position of this camera. */
	Position math.Vec3
	/** @brief The viewing direction. Defaults to +z. */
	Direction math.Vec3
	/** @brief The up vector. Defaults to +y. */
	Up math.Vec3
	/** @brief Size of the view volume along Up (orthographic). */
	Height float32
	/** @brief Size of the view volume along the right vector (orthographic). */
	Width float32
	/** @brief Vertical field of view in degrees (perspective). */
	FovY float32
	/** @brief Width divided by height of the image plane (perspective). */
	Aspect float32
}
