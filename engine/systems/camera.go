package systems

import (
	"fmt"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/math"
	"github.com/spaghettifunk/lumen/engine/renderer"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
)

type CameraSystemConfig struct {
	/** @brief The maximum number of cameras that can be managed by the system. */
	MaxCameraCount int
}

/**
 * @brief A camera description. Zero Direction, Up and sizes keep the library
 * defaults.
 */
type CameraConfig struct {
	Type      string
	Position  math.Vec3
	Direction math.Vec3
	Up        math.Vec3
	Height    float32
	Width     float32
	Aspect    float32
	FovY      float32
}

type CameraSystem struct {
	Config  *CameraSystemConfig
	device  *renderer.Device
	scope   *Scope
	cameras *registry[*renderer.Camera]
}

func NewCameraSystem(config *CameraSystemConfig, device *renderer.Device, scope *Scope) (*CameraSystem, error) {
	reg, err := newRegistry[*renderer.Camera]("camera", config.MaxCameraCount)
	if err != nil {
		return nil, err
	}
	return &CameraSystem{Config: config, device: device, scope: scope, cameras: reg}, nil
}

func (cs *CameraSystem) Create(name string, config CameraConfig) (Committed[*renderer.Camera], error) {
	if err := cs.cameras.reserve(name); err != nil {
		return Committed[*renderer.Camera]{}, err
	}
	cameraType := config.Type
	if cameraType == "" {
		cameraType = metadata.CameraTypeOrthographic.String()
	}
	cam, err := cs.device.NewCamera(cameraType)
	committed, err := build(cs.scope, cam, err, func(c *renderer.Camera) error {
		return cs.apply(c, config)
	})
	if err != nil {
		return committed, fmt.Errorf("camera %q: %w", name, err)
	}
	cs.cameras.put(name, committed)
	core.LogDebug("camera %q created (%s)", name, cameraType)
	return committed, nil
}

// Update re-commits an existing camera with a new description. Renderers
// bound to it see the change on their next frame.
func (cs *CameraSystem) Update(name string, config CameraConfig) error {
	committed, ok := cs.cameras.get(name)
	if !ok {
		return fmt.Errorf("camera %q: %w", name, core.ErrInvalidArgument)
	}
	if err := cs.apply(committed.Get(), config); err != nil {
		return err
	}
	return committed.Get().Commit()
}

func (cs *CameraSystem) apply(c *renderer.Camera, config CameraConfig) error {
	if err := c.SetVec3f("pos", config.Position); err != nil {
		return err
	}
	vectors := map[string]math.Vec3{"dir": config.Direction, "up": config.Up}
	for name, v := range vectors {
		if v.LengthSquared() > 0 {
			if err := c.SetVec3f(name, v); err != nil {
				return err
			}
		}
	}
	floats := []struct {
		name  string
		value float32
	}{
		{"height", config.Height},
		{"width", config.Width},
		{"aspect", config.Aspect},
		{"fovy", config.FovY},
	}
	for _, f := range floats {
		if f.value != 0 {
			if err := c.SetFloat(f.name, f.value); err != nil {
				return err
			}
		}
	}
	return nil
}

func (cs *CameraSystem) Get(name string) (Committed[*renderer.Camera], bool) {
	return cs.cameras.get(name)
}

func (cs *CameraSystem) Shutdown() error {
	cs.cameras.reset()
	return nil
}
