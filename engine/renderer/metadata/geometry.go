package metadata

import (
	"github.com/spaghettifunk/lumen/engine/math"
)

/** @brief The only geometry type name understood by the library. */
const GeometryTypeTriangles string = "triangles"

/**
 * @brief A single committed triangle with everything needed for shading.
 */
type TriangleState struct {
	P0, P1, P2 math.Vec3
	/** @brief Texture coordinates, valid when HasTexcoords is set. */
	UV0, UV1, UV2 math.Vec2
	HasTexcoords  bool
	/** @brief The geometric normal, following the index winding. */
	Normal math.Vec3
	/** @brief The material associated with this triangle. Can be nil. */
	Material *MaterialState
	/** @brief The identifier of the owning geometry. */
	GeometryID uint32
	/** @brief The index of the triangle inside the owning geometry. */
	PrimID uint32
}

/**
 * @brief The committed state of a triangle mesh.
 */
type GeometryState struct {
	/** @brief The geometry identifier. */
	ID uint32
	/** @brief The geometry name. */
	Name string
	/** @brief The triangles built from the index buffer. */
	Triangles []TriangleState
	/** @brief The extents of the geometry in world coordinates. */
	Extents math.Extents3D
	/** @brief The material associated with this geometry. Can be nil. */
	Material *MaterialState
}

/**
 * @brief The committed state of a model (scene): every triangle of every geometry.
 */
type ModelState struct {
	Triangles     []TriangleState
	Extents       math.Extents3D
	GeometryCount int
}
