package systems

import (
	"fmt"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/renderer"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
)

type GeometrySystemConfig struct {
	/** @brief The maximum number of geometries that can be created at once. */
	MaxGeometryCount int
}

/**
 * @brief A triangle mesh: xyz per vertex, three indices per triangle and
 * optionally one uv pair per vertex.
 */
type GeometryConfig struct {
	Vertices  []float32
	Indices   []int32
	TexCoords []float32
	// Shared passes the arrays to the library without copying them.
	Shared bool
}

type GeometrySystem struct {
	Config     *GeometrySystemConfig
	device     *renderer.Device
	scope      *Scope
	geometries *registry[*renderer.Geometry]
}

func NewGeometrySystem(config *GeometrySystemConfig, device *renderer.Device, scope *Scope) (*GeometrySystem, error) {
	reg, err := newRegistry[*renderer.Geometry]("geometry", config.MaxGeometryCount)
	if err != nil {
		return nil, err
	}
	return &GeometrySystem{Config: config, device: device, scope: scope, geometries: reg}, nil
}

// Create builds a triangle mesh. material is optional.
func (gs *GeometrySystem) Create(name string, config GeometryConfig, material Committed[*renderer.Material]) (Committed[*renderer.Geometry], error) {
	if err := gs.geometries.reserve(name); err != nil {
		return Committed[*renderer.Geometry]{}, err
	}
	var flags metadata.DataFlags
	if config.Shared {
		flags |= metadata.DataSharedBuffer
	}

	type array struct {
		param    string
		dataType metadata.DataType
		values   interface{}
	}
	arrays := []array{
		{"vertex", metadata.DataTypeFloat3, config.Vertices},
		{"index", metadata.DataTypeInt3, config.Indices},
	}
	if config.TexCoords != nil {
		arrays = append(arrays, array{"vertex.texcoord", metadata.DataTypeFloat2, config.TexCoords})
	}

	geom, err := gs.device.NewGeometry(metadata.GeometryTypeTriangles)
	committed, err := build(gs.scope, geom, err, func(g *renderer.Geometry) error {
		for _, a := range arrays {
			data, err := gs.device.NewData(a.dataType, a.values, flags)
			if err != nil {
				return fmt.Errorf("%s: %w", a.param, err)
			}
			if err := gs.scope.Track(data); err != nil {
				_ = data.Release()
				return err
			}
			if _, err := Commit(data); err != nil {
				return fmt.Errorf("%s: %w", a.param, err)
			}
			if err := g.SetData(a.param, data); err != nil {
				return err
			}
			if err := gs.scope.Handoff(data); err != nil {
				return err
			}
		}
		if material.Valid() {
			return g.SetMaterial(material.Get())
		}
		return nil
	})
	if err != nil {
		return committed, fmt.Errorf("geometry %q: %w", name, err)
	}
	if material.Valid() {
		if err := handoff(gs.scope, material.Get()); err != nil {
			return committed, err
		}
	}
	gs.geometries.put(name, committed)
	core.LogDebug("geometry %q created with %d triangles", name, len(config.Indices)/3)
	return committed, nil
}

func (gs *GeometrySystem) Get(name string) (Committed[*renderer.Geometry], bool) {
	return gs.geometries.get(name)
}

func (gs *GeometrySystem) Shutdown() error {
	gs.geometries.reset()
	return nil
}
