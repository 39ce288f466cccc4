package metadata

import (
	"fmt"

	"github.com/spaghettifunk/lumen/engine/math"
)

type FrameBufferFormat int

const (
	/** @brief 8 bit linear RGBA. */
	FrameBufferFormatRGBA8 FrameBufferFormat = iota
	/** @brief 8 bit sRGB encoded RGB, linear alpha. */
	FrameBufferFormatSRGBA
	/** @brief 32 bit float RGBA. */
	FrameBufferFormatRGBA32F
)

func (f FrameBufferFormat) BytesPerPixel() int {
	if f == FrameBufferFormatRGBA32F {
		return 16
	}
	return 4
}

func (f FrameBufferFormat) Valid() bool {
	return f >= FrameBufferFormatRGBA8 && f <= FrameBufferFormatRGBA32F
}

func (f FrameBufferFormat) String() string {
	switch f {
	case FrameBufferFormatRGBA8:
		return "rgba8"
	case FrameBufferFormatSRGBA:
		return "srgba"
	case FrameBufferFormatRGBA32F:
		return "rgba32f"
	default:
		return fmt.Sprintf("FrameBufferFormat(%d)", int(f))
	}
}

/** @brief Holds bit flags selecting frame buffer channels. */
type FrameBufferChannel uint32

const (
	FrameBufferColor FrameBufferChannel = 0x1
	FrameBufferDepth FrameBufferChannel = 0x2
	FrameBufferAccum FrameBufferChannel = 0x4
)

func (c FrameBufferChannel) Has(other FrameBufferChannel) bool {
	return c&other == other
}

/**
 * @brief The storage a backend renders into. Row 0 is the bottom of the image.
 */
type FrameTarget struct {
	Width    int
	Height   int
	Format   FrameBufferFormat
	Channels FrameBufferChannel
	/** @brief 8 bit pixels, Width*Height*4 bytes (RGBA8, SRGBA). */
	Color []byte
	/** @brief Float pixels, Width*Height*4 values (RGBA32F). */
	ColorF []float32
	/** @brief Hit distance of primary rays, +Inf on miss. */
	Depth []float32
	/** @brief Running sum of linear RGBA over AccumID frames. */
	Accum []math.Vec4
	/** @brief Number of frames summed in Accum. */
	AccumID int
}

func NewFrameTarget(width, height int, format FrameBufferFormat, channels FrameBufferChannel) *FrameTarget {
	n := width * height
	t := &FrameTarget{
		Width:    width,
		Height:   height,
		Format:   format,
		Channels: channels,
	}
	if channels.Has(FrameBufferColor) {
		if format == FrameBufferFormatRGBA32F {
			t.ColorF = make([]float32, n*4)
		} else {
			t.Color = make([]byte, n*4)
		}
	}
	if channels.Has(FrameBufferDepth) {
		t.Depth = make([]float32, n)
	}
	if channels.Has(FrameBufferAccum) {
		t.Accum = make([]math.Vec4, n)
	}
	return t
}

// Clear resets the selected channels. Clearing Accum restarts accumulation.
func (t *FrameTarget) Clear(channels FrameBufferChannel) {
	if channels.Has(FrameBufferColor) {
		clear(t.Color)
		clear(t.ColorF)
	}
	if channels.Has(FrameBufferDepth) {
		for i := range t.Depth {
			t.Depth[i] = float32(posInf)
		}
	}
	if channels.Has(FrameBufferAccum) {
		clear(t.Accum)
		t.AccumID = 0
	}
}
