package systems

import (
	"fmt"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/math"
	"github.com/spaghettifunk/lumen/engine/renderer"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
)

type FrameBufferConfig struct {
	Width    int
	Height   int
	Format   metadata.FrameBufferFormat
	Channels metadata.FrameBufferChannel
}

type FrameBufferSystem struct {
	device  *renderer.Device
	scope   *Scope
	buffers map[string]*renderer.FrameBuffer
}

func NewFrameBufferSystem(device *renderer.Device, scope *Scope) *FrameBufferSystem {
	return &FrameBufferSystem{device: device, scope: scope, buffers: make(map[string]*renderer.FrameBuffer)}
}

// Create allocates a frame buffer owned by the scope.
func (fs *FrameBufferSystem) Create(name string, config FrameBufferConfig) (*renderer.FrameBuffer, error) {
	if _, ok := fs.buffers[name]; ok {
		return nil, fmt.Errorf("frame buffer %q already exists: %w", name, core.ErrInvalidArgument)
	}
	fb, err := fs.device.NewFrameBuffer(math.Vec2i{X: int32(config.Width), Y: int32(config.Height)}, config.Format, config.Channels)
	if err != nil {
		return nil, fmt.Errorf("frame buffer %q: %w", name, err)
	}
	if err := fs.scope.Track(fb); err != nil {
		_ = fb.Release()
		return nil, err
	}
	fs.buffers[name] = fb
	return fb, nil
}

/**
 * @brief Maps the colour channel of fb, hands it to read and unmaps it,
 * whatever read returns.
 */
func (fs *FrameBufferSystem) ReadColor(fb *renderer.FrameBuffer, read func(pixels []byte) error) (err error) {
	pixels, err := fb.MapColor()
	if err != nil {
		return err
	}
	defer func() {
		if uerr := fb.Unmap(); uerr != nil && err == nil {
			err = uerr
		}
	}()
	return read(pixels)
}

func (fs *FrameBufferSystem) Get(name string) (*renderer.FrameBuffer, bool) {
	fb, ok := fs.buffers[name]
	return fb, ok
}

func (fs *FrameBufferSystem) Shutdown() error {
	fs.buffers = make(map[string]*renderer.FrameBuffer)
	return nil
}
