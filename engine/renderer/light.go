package renderer

import (
	"fmt"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/math"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
)

/**
 * Light parameters: "color" Vec3 (default white), "intensity" (default 1)
 * and, for distant lights, "direction" Vec3 (default +z).
 */
type Light struct {
	*object
	lightType metadata.LightType
	state     *metadata.LightState
}

func (d *Device) NewLight(lightType string) (*Light, error) {
	if err := d.checkAlive(); err != nil {
		return nil, err
	}
	lt, ok := metadata.ParseLightType(lightType)
	if !ok {
		return nil, fmt.Errorf("light type %q: %w", lightType, core.ErrUnknownType)
	}
	l := &Light{object: newObject(d, KindLight, lightType), lightType: lt}
	l.onCommit = l.commit
	l.onDestroy = func() { l.state = nil }
	return l, nil
}

func (l *Light) State() *metadata.LightState {
	return l.state
}

func (l *Light) commit() error {
	color, err := l.getVec3f("color", math.NewVec3One())
	if err != nil {
		return err
	}
	intensity, err := l.getFloat("intensity", 1)
	if err != nil {
		return err
	}
	if intensity < 0 {
		return fmt.Errorf("%s: intensity %f: %w", l, intensity, core.ErrInvalidParameter)
	}
	state := &metadata.LightState{Type: l.lightType, Color: color, Intensity: intensity}
	if l.lightType == metadata.LightTypeDistant {
		dir, err := l.getVec3f("direction", math.NewVec3Forward())
		if err != nil {
			return err
		}
		if dir.LengthSquared() == 0 {
			return fmt.Errorf("%s: zero direction: %w", l, core.ErrInvalidParameter)
		}
		state.Direction = dir.Normalized()
	}
	l.state = state
	return nil
}
