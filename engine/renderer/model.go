package renderer

import (
	"fmt"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/math"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
)

// Model is the scene: the geometries rendered together.
type Model struct {
	*object
	geometries []*Geometry
}

func (d *Device) NewModel() (*Model, error) {
	if err := d.checkAlive(); err != nil {
		return nil, err
	}
	m := &Model{object: newObject(d, KindModel, "model")}
	m.onCommit = m.commit
	m.onDestroy = func() { m.geometries = nil }
	return m, nil
}

// AddGeometry adds g to the model and retains it. It takes effect at the next Commit.
func (m *Model) AddGeometry(g *Geometry) error {
	if g == nil {
		return fmt.Errorf("%s: nil geometry: %w", m, core.ErrInvalidArgument)
	}
	return m.addMember(g)
}

func (m *Model) commit() error {
	geoms := make([]*Geometry, 0, len(m.members))
	for _, member := range m.members {
		g, ok := member.(*Geometry)
		if !ok {
			return fmt.Errorf("%s: member %T is not a geometry: %w", m, member, core.ErrTypeMismatch)
		}
		geoms = append(geoms, g)
	}
	m.geometries = geoms
	core.LogDebug("committed %s with %d geometries", m, len(geoms))
	return nil
}

// resolve flattens the committed geometries into one triangle list.
func (m *Model) resolve() *metadata.ModelState {
	state := &metadata.ModelState{
		Extents:       math.NewExtents3DEmpty(),
		GeometryCount: len(m.geometries),
	}
	for _, g := range m.geometries {
		if g.state == nil {
			continue
		}
		state.Triangles = append(state.Triangles, g.resolve()...)
		if !g.state.Extents.IsEmpty() {
			state.Extents = state.Extents.Expand(g.state.Extents.Min).Expand(g.state.Extents.Max)
		}
	}
	return state
}
