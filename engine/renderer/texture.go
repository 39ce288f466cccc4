package renderer

import (
	"fmt"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/math"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
)

/**
 * Texture is a 2D image. Parameters:
 *   "size"  Vec2i, required
 *   "type"  int, a metadata.TextureFormat, required
 *   "flags" int, metadata.TextureFlags
 *   "data"  UChar data (8 bit formats) or Float data (float formats), required
 */
type Texture struct {
	*object
	state *metadata.TextureState
}

func (d *Device) NewTexture(textureType string) (*Texture, error) {
	if err := d.checkAlive(); err != nil {
		return nil, err
	}
	if textureType != metadata.TextureType2D {
		return nil, fmt.Errorf("texture type %q: %w", textureType, core.ErrUnknownType)
	}
	t := &Texture{object: newObject(d, KindTexture, textureType)}
	t.onCommit = t.commit
	t.onDestroy = func() { t.state = nil }
	return t, nil
}

func (t *Texture) State() *metadata.TextureState {
	return t.state
}

func (t *Texture) commit() error {
	if !t.hasParam("size") {
		return fmt.Errorf("%s: \"size\": %w", t, core.ErrMissingParameter)
	}
	size, err := t.getVec2i("size", math.Vec2i{})
	if err != nil {
		return err
	}
	if size.X <= 0 || size.Y <= 0 {
		return fmt.Errorf("%s: size %dx%d: %w", t, size.X, size.Y, core.ErrInvalidParameter)
	}
	if !t.hasParam("type") {
		return fmt.Errorf("%s: \"type\": %w", t, core.ErrMissingParameter)
	}
	rawFormat, err := t.getInt("type", 0)
	if err != nil {
		return err
	}
	format := metadata.TextureFormat(rawFormat)
	if !format.Valid() {
		return fmt.Errorf("%s: texture format %d: %w", t, rawFormat, core.ErrInvalidParameter)
	}
	flags, err := t.getInt("flags", 0)
	if err != nil {
		return err
	}
	want := metadata.DataTypeUChar
	if format.IsFloat() {
		want = metadata.DataTypeFloat
	}
	data, err := t.requireData("data", want)
	if err != nil {
		return err
	}

	w, h := int(size.X), int(size.Y)
	channels := format.Channels()
	if data.Len() != w*h*channels {
		return fmt.Errorf("%s: %d values for %dx%d %s: %w", t, data.Len(), w, h, format, core.ErrInvalidParameter)
	}

	state := &metadata.TextureState{
		Name:   t.id.String(),
		Width:  w,
		Height: h,
		Format: format,
		Filter: metadata.TextureFilterModeLinear,
		Texels: decodeTexels(format, data, w*h),
	}
	if metadata.TextureFlags(flags)&metadata.TextureFilterNearest != 0 {
		state.Filter = metadata.TextureFilterModeNearest
	}
	t.state = state
	core.LogDebug("committed %s: %dx%d %s", t, w, h, format)
	return nil
}

// decodeTexels converts raw texel data to linear RGBA. Missing colour
// channels repeat the first one and a missing alpha is opaque.
func decodeTexels(format metadata.TextureFormat, data *Data, count int) []math.Vec4 {
	channels := format.Channels()
	out := make([]math.Vec4, count)
	component := func(i int) float32 {
		if format.IsFloat() {
			return data.Floats()[i]
		}
		v := float32(data.UChars()[i]) / 255
		if format.IsSRGB() {
			return srgbToLinear(v)
		}
		return v
	}
	for p := 0; p < count; p++ {
		base := p * channels
		r := component(base)
		texel := math.NewVec4(r, r, r, 1)
		if channels >= 3 {
			texel.Y = component(base + 1)
			texel.Z = component(base + 2)
		}
		if channels == 4 {
			// Alpha is always stored linearly.
			if format.IsFloat() {
				texel.W = data.Floats()[base+3]
			} else {
				texel.W = float32(data.UChars()[base+3]) / 255
			}
		}
		out[p] = texel
	}
	return out
}

func srgbToLinear(c float32) float32 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}
