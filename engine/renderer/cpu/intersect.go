package cpu

import (
	"github.com/spaghettifunk/lumen/engine/math"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
)

const detEpsilon float32 = 1e-12

type hitRecord struct {
	T        float32
	U, V     float32
	Point    math.Vec3
	Triangle *metadata.TriangleState
}

// intersectTriangle is the Möller–Trumbore test. u and v weight P1 and P2.
func intersectTriangle(ray math.Ray, tri *metadata.TriangleState, tMin, tMax float32) (t, u, v float32, ok bool) {
	e1 := tri.P1.Sub(tri.P0)
	e2 := tri.P2.Sub(tri.P0)
	pvec := ray.Direction.Cross(e2)
	det := e1.Dot(pvec)
	if math.Abs(det) < detEpsilon {
		return 0, 0, 0, false
	}
	inv := 1 / det

	tvec := ray.Origin.Sub(tri.P0)
	u = tvec.Dot(pvec) * inv
	if u < 0 || u > 1 {
		return 0, 0, 0, false
	}
	qvec := tvec.Cross(e1)
	v = ray.Direction.Dot(qvec) * inv
	if v < 0 || u+v > 1 {
		return 0, 0, 0, false
	}
	t = e2.Dot(qvec) * inv
	if t <= tMin || t >= tMax {
		return 0, 0, 0, false
	}
	return t, u, v, true
}

// intersectModel returns the closest hit along the ray.
func intersectModel(model *metadata.ModelState, ray math.Ray, tMin, tMax float32) (hitRecord, bool) {
	var hit hitRecord
	found := false
	if model == nil {
		return hit, false
	}
	closest := tMax
	for i := range model.Triangles {
		tri := &model.Triangles[i]
		t, u, v, ok := intersectTriangle(ray, tri, tMin, closest)
		if !ok {
			continue
		}
		closest = t
		hit = hitRecord{T: t, U: u, V: v, Triangle: tri}
		found = true
	}
	if found {
		hit.Point = ray.At(hit.T)
	}
	return hit, found
}

// occluded reports whether anything blocks the ray within (tMin, tMax).
func occluded(model *metadata.ModelState, ray math.Ray, tMin, tMax float32) bool {
	if model == nil {
		return false
	}
	for i := range model.Triangles {
		if _, _, _, ok := intersectTriangle(ray, &model.Triangles[i], tMin, tMax); ok {
			return true
		}
	}
	return false
}
