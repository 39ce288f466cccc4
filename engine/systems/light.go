package systems

import (
	"fmt"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/math"
	"github.com/spaghettifunk/lumen/engine/renderer"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
)

type LightSystemConfig struct {
	/** @brief The maximum number of lights that can be created at once. */
	MaxLightCount int
}

type LightConfig struct {
	Type      string
	Color     math.Vec3
	Intensity float32
	// Direction the light travels in; only used by distant lights.
	Direction math.Vec3
}

type LightSystem struct {
	Config *LightSystemConfig
	device *renderer.Device
	scope  *Scope
	lights *registry[*renderer.Light]
}

func NewLightSystem(config *LightSystemConfig, device *renderer.Device, scope *Scope) (*LightSystem, error) {
	reg, err := newRegistry[*renderer.Light]("light", config.MaxLightCount)
	if err != nil {
		return nil, err
	}
	return &LightSystem{Config: config, device: device, scope: scope, lights: reg}, nil
}

func (ls *LightSystem) Create(name string, config LightConfig) (Committed[*renderer.Light], error) {
	if err := ls.lights.reserve(name); err != nil {
		return Committed[*renderer.Light]{}, err
	}
	light, err := ls.device.NewLight(config.Type)
	committed, err := build(ls.scope, light, err, func(l *renderer.Light) error {
		if err := l.SetVec3f("color", config.Color); err != nil {
			return err
		}
		if err := l.SetFloat("intensity", config.Intensity); err != nil {
			return err
		}
		if config.Type == metadata.LightTypeDistant.String() && config.Direction.LengthSquared() > 0 {
			return l.SetVec3f("direction", config.Direction)
		}
		return nil
	})
	if err != nil {
		return committed, fmt.Errorf("light %q: %w", name, err)
	}
	ls.lights.put(name, committed)
	core.LogDebug("light %q created (%s)", name, config.Type)
	return committed, nil
}

/**
 * @brief Copies the lights into a light list owned by the scope. The list
 * holds its own reference to every light.
 */
func (ls *LightSystem) List(lights ...Committed[*renderer.Light]) (*renderer.Data, error) {
	objs := make([]*renderer.Light, 0, len(lights))
	for i, l := range lights {
		if err := l.check(fmt.Sprintf("light %d", i)); err != nil {
			return nil, err
		}
		objs = append(objs, l.Get())
	}
	data, err := ls.device.NewData(metadata.DataTypeLight, objs, 0)
	if err != nil {
		return nil, err
	}
	if err := ls.scope.Track(data); err != nil {
		_ = data.Release()
		return nil, err
	}
	if _, err := Commit(data); err != nil {
		return nil, err
	}
	return data, nil
}

func (ls *LightSystem) Get(name string) (Committed[*renderer.Light], bool) {
	return ls.lights.get(name)
}

func (ls *LightSystem) Shutdown() error {
	ls.lights.reset()
	return nil
}
