package renderer

import (
	"fmt"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/math"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
)

const (
	defaultFovY   float32 = 60
	defaultAspect float32 = 1
	defaultHeight float32 = 1
)

/**
 * Camera generates primary rays. Parameters shared by all types:
 *   "pos" Vec3, "dir" Vec3 (default +z), "up" Vec3 (default +y)
 * orthographic: "height" (default 1), "width" or "aspect" (width = aspect*height)
 * perspective:  "fovy" degrees (default 60), "aspect" (default 1)
 */
type Camera struct {
	*object
	cameraType metadata.CameraType
	state      *metadata.CameraState
}

func (d *Device) NewCamera(cameraType string) (*Camera, error) {
	if err := d.checkAlive(); err != nil {
		return nil, err
	}
	ct, ok := metadata.ParseCameraType(cameraType)
	if !ok {
		return nil, fmt.Errorf("camera type %q: %w", cameraType, core.ErrUnknownType)
	}
	c := &Camera{object: newObject(d, KindCamera, cameraType), cameraType: ct}
	c.onCommit = c.commit
	c.onDestroy = func() { c.state = nil }
	return c, nil
}

func (c *Camera) State() *metadata.CameraState {
	return c.state
}

func (c *Camera) commit() error {
	pos, err := c.getVec3f("pos", math.NewVec3Zero())
	if err != nil {
		return err
	}
	dir, err := c.getVec3f("dir", math.NewVec3Forward())
	if err != nil {
		return err
	}
	up, err := c.getVec3f("up", math.NewVec3Up())
	if err != nil {
		return err
	}
	if dir.LengthSquared() == 0 || up.LengthSquared() == 0 {
		return fmt.Errorf("%s: dir and up must be non-zero: %w", c, core.ErrInvalidParameter)
	}
	dir = dir.Normalized()
	up = up.Normalized()
	if dir.Cross(up).LengthSquared() < math.K_FLOAT_EPSILON {
		return fmt.Errorf("%s: dir and up are parallel: %w", c, core.ErrInvalidParameter)
	}
	aspect, err := c.getFloat("aspect", defaultAspect)
	if err != nil {
		return err
	}
	if aspect <= 0 {
		return fmt.Errorf("%s: aspect %f: %w", c, aspect, core.ErrInvalidParameter)
	}

	state := &metadata.CameraState{
		Type:      c.cameraType,
		Position:  pos,
		Direction: dir,
		Up:        up,
		Aspect:    aspect,
	}
	switch c.cameraType {
	case metadata.CameraTypeOrthographic:
		if state.Height, err = c.getFloat("height", defaultHeight); err != nil {
			return err
		}
		if state.Width, err = c.getFloat("width", aspect*state.Height); err != nil {
			return err
		}
		if state.Height <= 0 || state.Width <= 0 {
			return fmt.Errorf("%s: view volume %fx%f: %w", c, state.Width, state.Height, core.ErrInvalidParameter)
		}
	case metadata.CameraTypePerspective:
		if state.FovY, err = c.getFloat("fovy", defaultFovY); err != nil {
			return err
		}
		if state.FovY <= 0 || state.FovY >= 180 {
			return fmt.Errorf("%s: fovy %f: %w", c, state.FovY, core.ErrInvalidParameter)
		}
	}
	c.state = state
	return nil
}
