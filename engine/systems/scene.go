package systems

import (
	"fmt"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/renderer"
)

type SceneSystemConfig struct {
	/** @brief The maximum number of scenes that can be created at once. */
	MaxSceneCount int
}

type SceneSystem struct {
	Config *SceneSystemConfig
	device *renderer.Device
	scope  *Scope
	scenes *registry[*renderer.Model]
}

func NewSceneSystem(config *SceneSystemConfig, device *renderer.Device, scope *Scope) (*SceneSystem, error) {
	reg, err := newRegistry[*renderer.Model]("scene", config.MaxSceneCount)
	if err != nil {
		return nil, err
	}
	return &SceneSystem{Config: config, device: device, scope: scope, scenes: reg}, nil
}

// Create aggregates committed geometries into a committed model.
func (ss *SceneSystem) Create(name string, geometries ...Committed[*renderer.Geometry]) (Committed[*renderer.Model], error) {
	if err := ss.scenes.reserve(name); err != nil {
		return Committed[*renderer.Model]{}, err
	}
	model, err := ss.device.NewModel()
	committed, err := build(ss.scope, model, err, func(m *renderer.Model) error {
		for i, g := range geometries {
			if err := g.check(fmt.Sprintf("geometry %d", i)); err != nil {
				return err
			}
			if err := m.AddGeometry(g.Get()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return committed, fmt.Errorf("scene %q: %w", name, err)
	}
	for _, g := range geometries {
		if err := handoff(ss.scope, g.Get()); err != nil {
			return committed, err
		}
	}
	ss.scenes.put(name, committed)
	core.LogDebug("scene %q created with %d geometries", name, len(geometries))
	return committed, nil
}

func (ss *SceneSystem) Get(name string) (Committed[*renderer.Model], bool) {
	return ss.scenes.get(name)
}

func (ss *SceneSystem) Shutdown() error {
	ss.scenes.reset()
	return nil
}
