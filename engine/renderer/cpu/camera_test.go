package cpu

import (
	"testing"

	"github.com/spaghettifunk/lumen/engine/math"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
)

func orthoCamera() *metadata.CameraState {
	return &metadata.CameraState{
		Type:      metadata.CameraTypeOrthographic,
		Position:  math.NewVec3(0, 0, -1),
		Direction: math.NewVec3Forward(),
		Up:        math.NewVec3Up(),
		Height:    2,
		Width:     2,
		Aspect:    1,
	}
}

func TestOrthographicRays(t *testing.T) {
	basis := newCameraBasis(orthoCamera())

	center := basis.ray(0.5, 0.5)
	assert.Equal(t, math.NewVec3(0, 0, -1), center.Origin)
	assert.Equal(t, math.NewVec3Forward(), center.Direction)

	// Screen right maps to world -x, screen up to world +y.
	corner := basis.ray(1, 1)
	assert.True(t, corner.Origin.Compare(math.NewVec3(-1, 1, -1), 1e-6), "%v", corner.Origin)
	corner = basis.ray(0, 0)
	assert.True(t, corner.Origin.Compare(math.NewVec3(1, -1, -1), 1e-6), "%v", corner.Origin)
}

func TestPerspectiveRays(t *testing.T) {
	cam := orthoCamera()
	cam.Type = metadata.CameraTypePerspective
	cam.FovY = 90
	basis := newCameraBasis(cam)

	center := basis.ray(0.5, 0.5)
	assert.Equal(t, cam.Position, center.Origin)
	assert.True(t, center.Direction.Compare(math.NewVec3Forward(), 1e-6))

	// With a 90 degree field of view the top edge is 45 degrees up.
	top := basis.ray(0.5, 1)
	assert.InDelta(t, math.Sqrt(0.5), top.Direction.Y, 1e-5)
	assert.InDelta(t, 1.0, top.Direction.Length(), 1e-5)
}
