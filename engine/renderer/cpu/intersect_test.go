package cpu

import (
	"testing"

	"github.com/spaghettifunk/lumen/engine/math"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
)

func unitTriangle() metadata.TriangleState {
	p0, p1, p2 := math.NewVec3(0, 0, 0), math.NewVec3(1, 1, 0), math.NewVec3(1, 0, 0)
	return metadata.TriangleState{P0: p0, P1: p1, P2: p2, Normal: math.TriangleNormal(p0, p1, p2)}
}

func TestIntersectTriangleBarycentrics(t *testing.T) {
	tri := unitTriangle()
	ray := math.NewRay(math.NewVec3(0.75, 0.25, -1), math.NewVec3Forward())

	tHit, u, v, ok := intersectTriangle(ray, &tri, 0, math.K_INFINITY)
	assert.True(t, ok)
	assert.InDelta(t, 1.0, tHit, 1e-6)
	// p = u*P1 + v*P2
	assert.InDelta(t, 0.25, u, 1e-6)
	assert.InDelta(t, 0.5, v, 1e-6)
}

func TestIntersectTriangleMisses(t *testing.T) {
	tri := unitTriangle()
	cases := map[string]math.Ray{
		"outside":  math.NewRay(math.NewVec3(0.25, 0.75, -1), math.NewVec3Forward()),
		"behind":   math.NewRay(math.NewVec3(0.75, 0.25, 1), math.NewVec3Forward()),
		"parallel": math.NewRay(math.NewVec3(0, 0.1, -1), math.NewVec3(1, 0, 0)),
	}
	for name, ray := range cases {
		_, _, _, ok := intersectTriangle(ray, &tri, 0, math.K_INFINITY)
		assert.False(t, ok, name)
	}
}

func TestIntersectModelPicksClosest(t *testing.T) {
	near := unitTriangle()
	far := unitTriangle()
	far.P0.Z, far.P1.Z, far.P2.Z = 2, 2, 2
	far.PrimID = 1
	model := &metadata.ModelState{Triangles: []metadata.TriangleState{far, near}}

	ray := math.NewRay(math.NewVec3(0.75, 0.25, -1), math.NewVec3Forward())
	hit, ok := intersectModel(model, ray, 0, math.K_INFINITY)
	assert.True(t, ok)
	assert.Equal(t, uint32(0), hit.Triangle.PrimID)
	assert.InDelta(t, 0.0, hit.Point.Z, 1e-6)

	assert.True(t, occluded(model, ray, 0, math.K_INFINITY))
	assert.False(t, occluded(model, ray, 0, 0.5))
}

func TestShadingNormalFacesRay(t *testing.T) {
	tri := unitTriangle()
	front := math.NewRay(math.NewVec3(0.75, 0.25, -1), math.NewVec3Forward())
	back := math.NewRay(math.NewVec3(0.75, 0.25, 1), math.NewVec3Forward().Neg())

	assert.Less(t, shadingNormal(&tri, front).Dot(front.Direction), float32(0))
	assert.Less(t, shadingNormal(&tri, back).Dot(back.Direction), float32(0))
}
