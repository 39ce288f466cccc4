package math

// Vec2 represents a 2D vector
type Vec2 struct {
	X, Y float32
}

// Vec3 represents a 3D vector
type Vec3 struct {
	X, Y, Z float32
}

// Vec4 represents a 4D vector
type Vec4 struct {
	X, Y, Z, W float32
}

// Vec2i represents a 2D integer vector, typically a size in pixels or texels.
type Vec2i struct {
	X, Y int32
}

/**
 * @brief Represents the extents of a 3d object.
 */
type Extents3D struct {
	/** @brief The minimum extents of the object. */
	Min Vec3
	/** @brief The maximum extents of the object. */
	Max Vec3
}

/**
 * @brief A ray with an origin and a (not necessarily normalized) direction.
 */
type Ray struct {
	Origin    Vec3
	Direction Vec3
}
