package systems

import (
	"fmt"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/math"
	"github.com/spaghettifunk/lumen/engine/renderer"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
)

type TextureSystemConfig struct {
	/** @brief The maximum number of textures that can be created at once. */
	MaxTextureCount int
}

/**
 * @brief The description of a 2D texture. Pixels holds 8 bit formats and
 * Floats holds float formats, row 0 first.
 */
type TextureConfig struct {
	Width   int
	Height  int
	Format  metadata.TextureFormat
	Nearest bool
	Pixels  []uint8
	Floats  []float32
	// Shared passes the texel slice to the library without copying it.
	Shared bool
}

type TextureSystem struct {
	Config   *TextureSystemConfig
	device   *renderer.Device
	scope    *Scope
	textures *registry[*renderer.Texture]
}

func NewTextureSystem(config *TextureSystemConfig, device *renderer.Device, scope *Scope) (*TextureSystem, error) {
	reg, err := newRegistry[*renderer.Texture]("texture", config.MaxTextureCount)
	if err != nil {
		return nil, err
	}
	return &TextureSystem{Config: config, device: device, scope: scope, textures: reg}, nil
}

/**
 * @brief Creates and commits a texture. The texel buffer is handed to the
 * texture and the scope's reference to it is released immediately.
 */
func (ts *TextureSystem) Create(name string, config TextureConfig) (Committed[*renderer.Texture], error) {
	if err := ts.textures.reserve(name); err != nil {
		return Committed[*renderer.Texture]{}, err
	}
	var flags metadata.DataFlags
	if config.Shared {
		flags |= metadata.DataSharedBuffer
	}

	var data *renderer.Data
	var err error
	if config.Format.IsFloat() {
		data, err = ts.device.NewData(metadata.DataTypeFloat, config.Floats, flags)
	} else {
		data, err = ts.device.NewData(metadata.DataTypeUChar, config.Pixels, flags)
	}
	if err != nil {
		return Committed[*renderer.Texture]{}, fmt.Errorf("texture %q: %w", name, err)
	}
	if err := ts.scope.Track(data); err != nil {
		_ = data.Release()
		return Committed[*renderer.Texture]{}, err
	}
	if _, err := Commit(data); err != nil {
		return Committed[*renderer.Texture]{}, fmt.Errorf("texture %q: %w", name, err)
	}

	tex, err := ts.device.NewTexture(metadata.TextureType2D)
	committed, err := build(ts.scope, tex, err, func(t *renderer.Texture) error {
		var texFlags metadata.TextureFlags
		if config.Nearest {
			texFlags |= metadata.TextureFilterNearest
		}
		if err := t.SetVec2i("size", math.Vec2i{X: int32(config.Width), Y: int32(config.Height)}); err != nil {
			return err
		}
		if err := t.SetInt("type", int32(config.Format)); err != nil {
			return err
		}
		if err := t.SetInt("flags", int32(texFlags)); err != nil {
			return err
		}
		if err := t.SetData("data", data); err != nil {
			return err
		}
		return ts.scope.Handoff(data)
	})
	if err != nil {
		return committed, fmt.Errorf("texture %q: %w", name, err)
	}
	ts.textures.put(name, committed)
	core.LogDebug("texture %q created: %dx%d %s", name, config.Width, config.Height, config.Format)
	return committed, nil
}

// Get returns a texture created earlier by name.
func (ts *TextureSystem) Get(name string) (Committed[*renderer.Texture], bool) {
	return ts.textures.get(name)
}

func (ts *TextureSystem) Shutdown() error {
	ts.textures.reset()
	return nil
}
