package cpu

import (
	"github.com/spaghettifunk/lumen/engine/math"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
)

// sampleTexture looks up tex at (u, v) with repeat wrapping.
func sampleTexture(tex *metadata.TextureState, uv math.Vec2) math.Vec4 {
	if tex == nil || tex.Width == 0 || tex.Height == 0 || len(tex.Texels) == 0 {
		return math.NewVec4(1, 1, 1, 1)
	}
	if tex.Filter == metadata.TextureFilterModeNearest {
		x := int(math.Frac(uv.X) * float32(tex.Width))
		y := int(math.Frac(uv.Y) * float32(tex.Height))
		x = math.Clamp(x, 0, tex.Width-1)
		y = math.Clamp(y, 0, tex.Height-1)
		return tex.Texels[y*tex.Width+x]
	}

	fu := math.Frac(uv.X)*float32(tex.Width) - 0.5
	fv := math.Frac(uv.Y)*float32(tex.Height) - 0.5
	x0f := math.Floor(fu)
	y0f := math.Floor(fv)
	tx := fu - x0f
	ty := fv - y0f
	x0 := wrap(int(x0f), tex.Width)
	y0 := wrap(int(y0f), tex.Height)
	x1 := wrap(x0+1, tex.Width)
	y1 := wrap(y0+1, tex.Height)

	c00 := tex.Texels[y0*tex.Width+x0]
	c10 := tex.Texels[y0*tex.Width+x1]
	c01 := tex.Texels[y1*tex.Width+x0]
	c11 := tex.Texels[y1*tex.Width+x1]

	bottom := c00.MulScalar(1 - tx).Add(c10.MulScalar(tx))
	top := c01.MulScalar(1 - tx).Add(c11.MulScalar(tx))
	return bottom.MulScalar(1 - ty).Add(top.MulScalar(ty))
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}
