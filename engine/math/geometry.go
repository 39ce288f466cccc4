package math

// TriangleNormal returns the normalized face normal of the triangle (p0, p1, p2),
// following the winding (p1-p0) x (p2-p0). Degenerate triangles yield a zero vector.
func TriangleNormal(p0, p1, p2 Vec3) Vec3 {
	edge1 := p1.Sub(p0)
	edge2 := p2.Sub(p0)

	// NOTE: This just generates a face normal. Smoothing out should be done in a separate pass if desired.
	return edge1.Cross(edge2).Normalized()
}

// InterpolateVec2 blends three attributes with barycentric weights (1-u-v, u, v).
func InterpolateVec2(a0, a1, a2 Vec2, u, v float32) Vec2 {
	w := 1 - u - v
	return Vec2{
		a0.X*w + a1.X*u + a2.X*v,
		a0.Y*w + a1.Y*u + a2.Y*v,
	}
}

// OrthonormalBasis builds two tangents perpendicular to the unit vector n.
func OrthonormalBasis(n Vec3) (Vec3, Vec3) {
	var t Vec3
	if kabs(n.X) > kabs(n.Z) {
		t = Vec3{-n.Y, n.X, 0}
	} else {
		t = Vec3{0, -n.Z, n.Y}
	}
	t = t.Normalized()
	b := n.Cross(t)
	return t, b
}
