package renderer

import (
	"fmt"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/math"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
)

/**
 * Geometry is a triangle mesh. Parameters:
 *   "vertex"          Float3 data, required
 *   "index"           Int3 (or Int) data, required
 *   "vertex.texcoord" Float2 data, one entry per vertex
 * and a material bound with SetMaterial.
 */
type Geometry struct {
	*object
	state *metadata.GeometryState
}

func (d *Device) NewGeometry(geometryType string) (*Geometry, error) {
	if err := d.checkAlive(); err != nil {
		return nil, err
	}
	if geometryType != metadata.GeometryTypeTriangles {
		return nil, fmt.Errorf("geometry type %q: %w", geometryType, core.ErrUnknownType)
	}
	g := &Geometry{object: newObject(d, KindGeometry, geometryType)}
	g.onCommit = g.commit
	g.onDestroy = func() { g.state = nil }
	return g, nil
}

func (g *Geometry) SetMaterial(m *Material) error {
	if m == nil {
		return g.SetObject("material", nil)
	}
	return g.SetObject("material", m)
}

func (g *Geometry) material() (*Material, error) {
	return paramAs[*Material](g.object, "material", nil)
}

// State returns the last committed state, nil before the first commit.
func (g *Geometry) State() *metadata.GeometryState {
	return g.state
}

func (g *Geometry) commit() error {
	vertex, err := g.requireData("vertex", metadata.DataTypeFloat3)
	if err != nil {
		return err
	}
	index, err := g.requireData("index", metadata.DataTypeInt3, metadata.DataTypeInt)
	if err != nil {
		return err
	}
	texcoord, err := g.getData("vertex.texcoord")
	if err != nil {
		return err
	}
	if _, err := g.material(); err != nil {
		return err
	}

	positions := vertex.Floats()
	vertexCount := vertex.Len()
	indices := index.Ints()
	if len(indices)%3 != 0 {
		return fmt.Errorf("%s: %d indices do not form whole triangles: %w", g, len(indices), core.ErrInvalidParameter)
	}
	var uvs []float32
	if texcoord != nil {
		if texcoord.DataType() != metadata.DataTypeFloat2 {
			return fmt.Errorf("%s: vertex.texcoord is %s, want float2: %w", g, texcoord.DataType(), core.ErrTypeMismatch)
		}
		if texcoord.Len() != vertexCount {
			return fmt.Errorf("%s: %d texcoords for %d vertices: %w", g, texcoord.Len(), vertexCount, core.ErrInvalidParameter)
		}
		uvs = texcoord.Floats()
	}

	state := &metadata.GeometryState{
		ID:        g.slot,
		Name:      g.id.String(),
		Triangles: make([]metadata.TriangleState, 0, len(indices)/3),
		Extents:   math.NewExtents3DEmpty(),
	}
	vec3 := func(i int32) math.Vec3 {
		return math.NewVec3(positions[3*i], positions[3*i+1], positions[3*i+2])
	}
	vec2 := func(i int32) math.Vec2 {
		return math.NewVec2(uvs[2*i], uvs[2*i+1])
	}
	for prim := 0; prim < len(indices)/3; prim++ {
		i0, i1, i2 := indices[3*prim], indices[3*prim+1], indices[3*prim+2]
		for _, i := range [3]int32{i0, i1, i2} {
			if i < 0 || int(i) >= vertexCount {
				return fmt.Errorf("%s: triangle %d references vertex %d of %d: %w", g, prim, i, vertexCount, core.ErrIndexOutOfRange)
			}
		}
		tri := metadata.TriangleState{
			P0:         vec3(i0),
			P1:         vec3(i1),
			P2:         vec3(i2),
			GeometryID: g.slot,
			PrimID:     uint32(prim),
		}
		tri.Normal = math.TriangleNormal(tri.P0, tri.P1, tri.P2)
		if uvs != nil {
			tri.UV0, tri.UV1, tri.UV2 = vec2(i0), vec2(i1), vec2(i2)
			tri.HasTexcoords = true
		}
		state.Extents = state.Extents.Expand(tri.P0).Expand(tri.P1).Expand(tri.P2)
		state.Triangles = append(state.Triangles, tri)
	}

	g.state = state
	core.LogDebug("committed %s with %d vertices and %d triangles", g, vertexCount, len(state.Triangles))
	return nil
}

// resolve returns the committed triangles with the material's latest state.
func (g *Geometry) resolve() []metadata.TriangleState {
	if g.state == nil {
		return nil
	}
	var mat *metadata.MaterialState
	if m, _ := g.material(); m != nil {
		mat = m.resolve()
	}
	tris := make([]metadata.TriangleState, len(g.state.Triangles))
	for i, t := range g.state.Triangles {
		t.Material = mat
		tris[i] = t
	}
	return tris
}

func (o *object) requireData(name string, types ...metadata.DataType) (*Data, error) {
	data, err := o.getData(name)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("%s: %q: %w", o, name, core.ErrMissingParameter)
	}
	for _, t := range types {
		if data.DataType() == t {
			return data, nil
		}
	}
	return nil, fmt.Errorf("%s: %q is %s data, want %v: %w", o, name, data.DataType(), types, core.ErrTypeMismatch)
}
