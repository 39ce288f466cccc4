package renderer

import (
	"fmt"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/math"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
)

/**
 * Material describes a surface for one renderer type. OBJMaterial parameters:
 *   "Kd"     Vec3 diffuse colour; 1 when map_Kd is bound, 0.8 otherwise
 *   "map_Kd" Texture multiplied with Kd
 */
type Material struct {
	*object
	rendererType metadata.RendererType
	state        *metadata.MaterialState
}

func (d *Device) NewMaterial(rendererType, materialType string) (*Material, error) {
	if err := d.checkAlive(); err != nil {
		return nil, err
	}
	rt, ok := metadata.ParseRendererType(rendererType)
	if !ok {
		return nil, fmt.Errorf("renderer type %q: %w", rendererType, core.ErrUnknownType)
	}
	if materialType != metadata.MaterialTypeOBJ {
		return nil, fmt.Errorf("material type %q for %s: %w", materialType, rendererType, core.ErrUnknownType)
	}
	m := &Material{object: newObject(d, KindMaterial, materialType), rendererType: rt}
	m.onCommit = m.commit
	m.onDestroy = func() { m.state = nil }
	return m, nil
}

func (m *Material) RendererType() metadata.RendererType {
	return m.rendererType
}

func (m *Material) State() *metadata.MaterialState {
	return m.state
}

func (m *Material) mapKd() (*Texture, error) {
	v, ok := m.params["map_Kd"]
	if !ok {
		return nil, nil
	}
	tex, ok := v.(*Texture)
	if !ok {
		return nil, fmt.Errorf("%s: map_Kd is bound to %T, want a texture: %w", m, v, core.ErrTypeMismatch)
	}
	return tex, nil
}

func (m *Material) commit() error {
	tex, err := m.mapKd()
	if err != nil {
		return err
	}
	def := metadata.DefaultDiffuseColour
	if tex != nil {
		def = math.NewVec3One()
	}
	kd, err := m.getVec3f("Kd", def)
	if err != nil {
		return err
	}
	m.state = &metadata.MaterialState{
		Name:         m.id.String(),
		Type:         m.subtype,
		RendererType: m.rendererType.String(),
		Kd:           kd,
	}
	return nil
}

// resolve pairs the committed material with the texture's latest state.
func (m *Material) resolve() *metadata.MaterialState {
	if m.state == nil {
		return nil
	}
	st := *m.state
	if tex, _ := m.mapKd(); tex != nil {
		st.MapKd = tex.state
	}
	return &st
}
