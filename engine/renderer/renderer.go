package renderer

import (
	"fmt"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/math"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
)

/**
 * Renderer turns a model seen through a camera into frames. Parameters:
 *   "model"  Model, "camera" Camera, "lights" Light data
 *   "spp" samples per pixel (default 1), "maxDepth" (default 20),
 *   "rouletteDepth" (default 5), "bgColor" Vec4 (default transparent black)
 * Bound objects are resolved at render time, so re-committing the model,
 * camera or a light changes the next frame without re-committing the renderer.
 */
type Renderer struct {
	*object
	rendererType metadata.RendererType
	settings     *metadata.RendererState
}

func (d *Device) NewRenderer(rendererType string) (*Renderer, error) {
	if err := d.checkAlive(); err != nil {
		return nil, err
	}
	rt, ok := metadata.ParseRendererType(rendererType)
	if !ok {
		return nil, fmt.Errorf("renderer type %q: %w", rendererType, core.ErrUnknownType)
	}
	r := &Renderer{object: newObject(d, KindRenderer, rendererType), rendererType: rt}
	r.onCommit = r.commit
	r.onDestroy = func() { r.settings = nil }
	return r, nil
}

func (r *Renderer) RendererType() metadata.RendererType {
	return r.rendererType
}

func (r *Renderer) commit() error {
	if _, err := paramAs[*Model](r.object, "model", nil); err != nil {
		return err
	}
	if _, err := paramAs[*Camera](r.object, "camera", nil); err != nil {
		return err
	}
	lights, err := r.getData("lights")
	if err != nil {
		return err
	}
	if lights != nil {
		if !lights.DataType().IsObject() {
			return fmt.Errorf("%s: lights is %s data: %w", r, lights.DataType(), core.ErrTypeMismatch)
		}
		for i, o := range lights.Objects() {
			l, ok := o.(*Light)
			if !ok {
				return fmt.Errorf("%s: lights[%d] is %T: %w", r, i, o, core.ErrTypeMismatch)
			}
			if !l.IsCommitted() {
				return fmt.Errorf("%s: lights[%d] was never committed: %w", r, i, core.ErrNotCommitted)
			}
		}
	}

	spp, err := r.getInt("spp", metadata.DefaultSamplesPerPixel)
	if err != nil {
		return err
	}
	maxDepth, err := r.getInt("maxDepth", metadata.DefaultMaxDepth)
	if err != nil {
		return err
	}
	rouletteDepth, err := r.getInt("rouletteDepth", metadata.DefaultRouletteDepth)
	if err != nil {
		return err
	}
	if spp < 1 || maxDepth < 1 || rouletteDepth < 0 {
		return fmt.Errorf("%s: spp=%d maxDepth=%d rouletteDepth=%d: %w", r, spp, maxDepth, rouletteDepth, core.ErrInvalidParameter)
	}
	bg, err := r.getVec4f("bgColor", math.NewVec4(0, 0, 0, 0))
	if err != nil {
		return err
	}

	r.settings = &metadata.RendererState{
		Type:            r.rendererType,
		SamplesPerPixel: int(spp),
		MaxDepth:        int(maxDepth),
		RouletteDepth:   int(rouletteDepth),
		BgColor:         bg,
	}
	return nil
}

// resolve builds the frame state from the latest committed bound objects.
func (r *Renderer) resolve() (*metadata.RendererState, error) {
	state := *r.settings
	state.Seed = r.device.config.Seed

	camera, _ := paramAs[*Camera](r.object, "camera", nil)
	if camera == nil || camera.state == nil {
		return nil, fmt.Errorf("%s: %q: %w", r, "camera", core.ErrMissingParameter)
	}
	state.Camera = camera.state

	if model, _ := paramAs[*Model](r.object, "model", nil); model != nil {
		state.Model = model.resolve()
	} else {
		state.Model = &metadata.ModelState{Extents: math.NewExtents3DEmpty()}
	}

	if lights, _ := r.getData("lights"); lights != nil {
		for _, o := range lights.Objects() {
			if l, ok := o.(*Light); ok && l.state != nil {
				state.Lights = append(state.Lights, *l.state)
			}
		}
	}
	return &state, nil
}

/**
 * RenderFrame renders one frame into fb, writing the requested channels that
 * fb has. It blocks until the frame is complete and returns the estimated
 * variance of the accumulated image (0 without an accumulation channel).
 */
func (r *Renderer) RenderFrame(fb *FrameBuffer, channels metadata.FrameBufferChannel) (float32, error) {
	if err := r.checkUsable(); err != nil {
		return 0, err
	}
	if !r.committed || r.settings == nil {
		return 0, fmt.Errorf("%s: %w", r, core.ErrNotCommitted)
	}
	if fb == nil {
		return 0, fmt.Errorf("%s: nil frame buffer: %w", r, core.ErrInvalidArgument)
	}
	if err := fb.checkUsable(); err != nil {
		return 0, err
	}
	if fb.mapped > 0 {
		core.LogWarn("rendering into %s while it is mapped", fb)
	}

	state, err := r.resolve()
	if err != nil {
		return 0, err
	}

	target := fb.target
	enabled := target.Channels
	target.Channels = enabled & channels
	defer func() { target.Channels = enabled }()

	variance, err := r.device.backend.RenderFrame(target, state)
	if err != nil {
		core.LogError("%s failed to render: %s", r, err)
		return 0, err
	}
	return variance, nil
}
