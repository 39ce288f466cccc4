package cpu

import (
	"github.com/spaghettifunk/lumen/engine/math"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
)

// cameraBasis caches the per-frame vectors used to spawn primary rays.
// The right vector is dir x up, so with the default dir (+z) and up (+y)
// screen right points along -x.
type cameraBasis struct {
	camera *metadata.CameraState
	du     math.Vec3
	dv     math.Vec3
	imageW float32
	imageH float32
}

func newCameraBasis(c *metadata.CameraState) cameraBasis {
	du := c.Direction.Cross(c.Up).Normalized()
	dv := du.Cross(c.Direction)
	b := cameraBasis{camera: c, du: du, dv: dv}
	switch c.Type {
	case metadata.CameraTypePerspective:
		b.imageH = 2 * math.Tan(math.DegToRad(c.FovY)*0.5)
		b.imageW = b.imageH * c.Aspect
	default:
		b.imageH = c.Height
		b.imageW = c.Width
	}
	return b
}

// ray returns the primary ray through screen position (sx, sy) in [0,1]^2,
// with (0,0) at the bottom-left corner of the image.
func (b cameraBasis) ray(sx, sy float32) math.Ray {
	offU := b.du.MulScalar((sx - 0.5) * b.imageW)
	offV := b.dv.MulScalar((sy - 0.5) * b.imageH)
	if b.camera.Type == metadata.CameraTypePerspective {
		dir := b.camera.Direction.Add(offU).Add(offV).Normalized()
		return math.NewRay(b.camera.Position, dir)
	}
	return math.NewRay(b.camera.Position.Add(offU).Add(offV), b.camera.Direction)
}
