package metadata

import (
	"fmt"

	"github.com/spaghettifunk/lumen/engine/math"
)

/** @brief The only texture type name understood by the library. */
const TextureType2D string = "texture2d"

/**
 * @brief Represents the texel layout of a texture.
 */
type TextureFormat int

const (
	TextureFormatRGBA8 TextureFormat = iota
	TextureFormatSRGBA
	TextureFormatRGBA32F
	TextureFormatRGB8
	TextureFormatSRGB
	TextureFormatRGB32F
	TextureFormatR8
	TextureFormatR32F
)

// Channels returns the number of channels stored per texel.
func (f TextureFormat) Channels() int {
	switch f {
	case TextureFormatRGBA8, TextureFormatSRGBA, TextureFormatRGBA32F:
		return 4
	case TextureFormatRGB8, TextureFormatSRGB, TextureFormatRGB32F:
		return 3
	default:
		return 1
	}
}

// IsFloat reports whether the texels are float32 rather than uint8.
func (f TextureFormat) IsFloat() bool {
	return f == TextureFormatRGBA32F || f == TextureFormatRGB32F || f == TextureFormatR32F
}

// IsSRGB reports whether the color channels are sRGB encoded.
func (f TextureFormat) IsSRGB() bool {
	return f == TextureFormatSRGBA || f == TextureFormatSRGB
}

func (f TextureFormat) Valid() bool {
	return f >= TextureFormatRGBA8 && f <= TextureFormatR32F
}

func (f TextureFormat) String() string {
	switch f {
	case TextureFormatRGBA8:
		return "rgba8"
	case TextureFormatSRGBA:
		return "srgba"
	case TextureFormatRGBA32F:
		return "rgba32f"
	case TextureFormatRGB8:
		return "rgb8"
	case TextureFormatSRGB:
		return "srgb"
	case TextureFormatRGB32F:
		return "rgb32f"
	case TextureFormatR8:
		return "r8"
	case TextureFormatR32F:
		return "r32f"
	default:
		return fmt.Sprintf("TextureFormat(%d)", int(f))
	}
}

// ParseTextureFormat is the inverse of TextureFormat.String.
func ParseTextureFormat(name string) (TextureFormat, bool) {
	for f := TextureFormatRGBA8; f <= TextureFormatR32F; f++ {
		if f.String() == name {
			return f, true
		}
	}
	return 0, false
}

/** @brief Holds bit flags for textures. */
type TextureFlags int32

const (
	/** @brief Sample the nearest texel instead of interpolating bilinearly. */
	TextureFilterNearest TextureFlags = 0x2
)

/** @brief Represents supported texture filtering modes. */
type TextureFilter int

const (
	/** @brief Linear (i.e. bilinear) filtering. */
	TextureFilterModeLinear TextureFilter = iota
	/** @brief Nearest-neighbor filtering. */
	TextureFilterModeNearest
)

/**
 * @brief The committed state of a 2D texture. Texels are decoded to
 * linear RGBA, row 0 first; texture coordinate v=0 addresses row 0.
 */
type TextureState struct {
	/** @brief The texture Name. */
	Name string
	/** @brief The texture Width. */
	Width int
	/** @brief The texture Height. */
	Height int
	/** @brief The layout the texels were provided in. */
	Format TextureFormat
	/** @brief The filtering mode used when sampling. */
	Filter TextureFilter
	/** @brief Decoded linear texels, Width*Height entries. */
	Texels []math.Vec4
}
