package systems

import (
	"fmt"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/math"
	"github.com/spaghettifunk/lumen/engine/renderer"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
)

type MaterialSystemConfig struct {
	/** @brief The maximum number of materials that can be created at once. */
	MaxMaterialCount int
}

type MaterialConfig struct {
	/** @brief The renderer the material is made for. Defaults to the path tracer. */
	RendererType string
	/** @brief The diffuse colour. Nil keeps the library default. */
	Kd *math.Vec3
}

type MaterialSystem struct {
	Config    *MaterialSystemConfig
	device    *renderer.Device
	scope     *Scope
	materials *registry[*renderer.Material]
}

func NewMaterialSystem(config *MaterialSystemConfig, device *renderer.Device, scope *Scope) (*MaterialSystem, error) {
	reg, err := newRegistry[*renderer.Material]("material", config.MaxMaterialCount)
	if err != nil {
		return nil, err
	}
	return &MaterialSystem{Config: config, device: device, scope: scope, materials: reg}, nil
}

/**
 * @brief Creates and commits an OBJ material. diffuse is optional; pass the
 * zero Committed for an untextured material.
 */
func (ms *MaterialSystem) Create(name string, config MaterialConfig, diffuse Committed[*renderer.Texture]) (Committed[*renderer.Material], error) {
	if err := ms.materials.reserve(name); err != nil {
		return Committed[*renderer.Material]{}, err
	}
	rendererType := config.RendererType
	if rendererType == "" {
		rendererType = metadata.RendererTypePathTracer.String()
	}

	mat, err := ms.device.NewMaterial(rendererType, metadata.MaterialTypeOBJ)
	committed, err := build(ms.scope, mat, err, func(m *renderer.Material) error {
		if config.Kd != nil {
			if err := m.SetVec3f("Kd", *config.Kd); err != nil {
				return err
			}
		}
		if diffuse.Valid() {
			return m.SetObject("map_Kd", diffuse.Get())
		}
		return nil
	})
	if err != nil {
		return committed, fmt.Errorf("material %q: %w", name, err)
	}
	if diffuse.Valid() {
		if err := handoff(ms.scope, diffuse.Get()); err != nil {
			return committed, err
		}
	}
	ms.materials.put(name, committed)
	core.LogDebug("material %q created for %s", name, rendererType)
	return committed, nil
}

func (ms *MaterialSystem) Get(name string) (Committed[*renderer.Material], bool) {
	return ms.materials.get(name)
}

func (ms *MaterialSystem) Shutdown() error {
	ms.materials.reset()
	return nil
}
