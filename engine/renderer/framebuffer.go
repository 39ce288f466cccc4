package renderer

import (
	"fmt"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/math"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
)

/**
 * FrameBuffer holds rendered pixels. Row 0 of every channel is the bottom
 * row of the image. It needs no commit.
 */
type FrameBuffer struct {
	*object
	target *metadata.FrameTarget
	mapped int
}

func (d *Device) NewFrameBuffer(size math.Vec2i, format metadata.FrameBufferFormat, channels metadata.FrameBufferChannel) (*FrameBuffer, error) {
	if err := d.checkAlive(); err != nil {
		return nil, err
	}
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("frame buffer size %dx%d: %w", size.X, size.Y, core.ErrInvalidArgument)
	}
	if !format.Valid() {
		return nil, fmt.Errorf("frame buffer format %s: %w", format, core.ErrInvalidArgument)
	}
	fb := &FrameBuffer{
		object: newObject(d, KindFrameBuffer, format.String()),
		target: metadata.NewFrameTarget(int(size.X), int(size.Y), format, channels),
	}
	fb.target.Clear(channels)
	fb.committed = true
	fb.onDestroy = func() { fb.target = nil }
	return fb, nil
}

func (fb *FrameBuffer) Size() math.Vec2i {
	if fb.target == nil {
		return math.Vec2i{}
	}
	return math.Vec2i{X: int32(fb.target.Width), Y: int32(fb.target.Height)}
}

func (fb *FrameBuffer) Format() metadata.FrameBufferFormat {
	return fb.target.Format
}

func (fb *FrameBuffer) Channels() metadata.FrameBufferChannel {
	return fb.target.Channels
}

// AccumulatedFrames returns the number of frames summed since the last
// accumulation clear.
func (fb *FrameBuffer) AccumulatedFrames() int {
	return fb.target.AccumID
}

/**
 * MapColor exposes the 8 bit colour channel (RGBA8 or SRGBA) without copying,
 * width*4 bytes per row, bottom row first. Every Map must be paired with Unmap.
 */
func (fb *FrameBuffer) MapColor() ([]byte, error) {
	if err := fb.mapChannel(metadata.FrameBufferColor); err != nil {
		return nil, err
	}
	if fb.target.Format == metadata.FrameBufferFormatRGBA32F {
		fb.mapped--
		return nil, fmt.Errorf("%s: 8 bit view of %s: %w", fb, fb.target.Format, core.ErrUnsupportedFormat)
	}
	return fb.target.Color, nil
}

// MapColorF exposes the float colour channel of an RGBA32F frame buffer.
func (fb *FrameBuffer) MapColorF() ([]float32, error) {
	if err := fb.mapChannel(metadata.FrameBufferColor); err != nil {
		return nil, err
	}
	if fb.target.Format != metadata.FrameBufferFormatRGBA32F {
		fb.mapped--
		return nil, fmt.Errorf("%s: float view of %s: %w", fb, fb.target.Format, core.ErrUnsupportedFormat)
	}
	return fb.target.ColorF, nil
}

// MapDepth exposes the primary hit distances, +Inf where nothing was hit.
func (fb *FrameBuffer) MapDepth() ([]float32, error) {
	if err := fb.mapChannel(metadata.FrameBufferDepth); err != nil {
		return nil, err
	}
	return fb.target.Depth, nil
}

func (fb *FrameBuffer) mapChannel(channel metadata.FrameBufferChannel) error {
	if err := fb.checkUsable(); err != nil {
		return err
	}
	if !fb.target.Channels.Has(channel) {
		return fmt.Errorf("%s: channel %d: %w", fb, channel, core.ErrChannelDisabled)
	}
	fb.mapped++
	return nil
}

// Unmap ends one Map. The mapped slice must not be used afterwards.
func (fb *FrameBuffer) Unmap() error {
	if err := fb.checkUsable(); err != nil {
		return err
	}
	if fb.mapped == 0 {
		return fmt.Errorf("%s: %w", fb, core.ErrNotMapped)
	}
	fb.mapped--
	return nil
}

// Clear resets the given channels: colour to zero, depth to +Inf and the
// accumulation buffer (and its frame count) to zero.
func (fb *FrameBuffer) Clear(channels metadata.FrameBufferChannel) error {
	if err := fb.checkUsable(); err != nil {
		return err
	}
	fb.target.Clear(channels & fb.target.Channels)
	return nil
}
