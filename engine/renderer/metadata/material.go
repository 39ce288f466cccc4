package metadata

import "github.com/spaghettifunk/lumen/engine/math"

/** @brief The name of the Wavefront-style diffuse material. */
const MaterialTypeOBJ string = "OBJMaterial"

/** @brief The diffuse colour used when none is set. */
var DefaultDiffuseColour = math.Vec3{X: 0.8, Y: 0.8, Z: 0.8}

/**
 * @brief The committed state of a material, which represents the
 * properties of a surface in the world.
 */
type MaterialState struct {
	/** @brief The material name. */
	Name string
	/** @brief The material type, e.g. OBJMaterial. */
	Type string
	/** @brief The renderer type this material was created for. */
	RendererType string
	/** @brief The diffuse colour. */
	Kd math.Vec3
	/** @brief The diffuse texture map, multiplied with Kd. Optional. */
	MapKd *TextureState
}
