package systems

import (
	"fmt"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/math"
	"github.com/spaghettifunk/lumen/engine/renderer"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
)

type RendererSystemConfig struct {
	/** @brief The maximum number of renderers that can be created at once. */
	MaxRendererCount int
}

/**
 * @brief A renderer description. Zero counts keep the library defaults.
 */
type RendererConfig struct {
	Type            string
	SamplesPerPixel int
	MaxDepth        int
	RouletteDepth   int
	BgColor         *math.Vec4
}

type RendererSystem struct {
	Config    *RendererSystemConfig
	device    *renderer.Device
	scope     *Scope
	renderers *registry[*renderer.Renderer]
	metrics   *core.RenderMetrics
	clock     *core.Clock
}

func NewRendererSystem(config *RendererSystemConfig, device *renderer.Device, scope *Scope) (*RendererSystem, error) {
	reg, err := newRegistry[*renderer.Renderer]("renderer", config.MaxRendererCount)
	if err != nil {
		return nil, err
	}
	return &RendererSystem{
		Config:    config,
		device:    device,
		scope:     scope,
		renderers: reg,
		metrics:   core.NewRenderMetrics(),
		clock:     core.NewClock(),
	}, nil
}

/**
 * @brief Creates a renderer bound to a committed scene and camera. lights may
 * be nil for an unlit scene; the scope's reference to the list is handed
 * off to the renderer.
 */
func (rs *RendererSystem) Create(name string, config RendererConfig, model Committed[*renderer.Model], camera Committed[*renderer.Camera], lights *renderer.Data) (Committed[*renderer.Renderer], error) {
	if err := rs.renderers.reserve(name); err != nil {
		return Committed[*renderer.Renderer]{}, err
	}
	if err := model.check("scene"); err != nil {
		return Committed[*renderer.Renderer]{}, err
	}
	if err := camera.check("camera"); err != nil {
		return Committed[*renderer.Renderer]{}, err
	}
	rendererType := config.Type
	if rendererType == "" {
		rendererType = metadata.RendererTypePathTracer.String()
	}

	r, err := rs.device.NewRenderer(rendererType)
	committed, err := build(rs.scope, r, err, func(r *renderer.Renderer) error {
		if err := r.SetObject("model", model.Get()); err != nil {
			return err
		}
		if err := r.SetObject("camera", camera.Get()); err != nil {
			return err
		}
		if lights != nil {
			if err := r.SetData("lights", lights); err != nil {
				return err
			}
			if rs.scope.Owns(lights) {
				if err := rs.scope.Handoff(lights); err != nil {
					return err
				}
			}
		}
		ints := []struct {
			name  string
			value int
		}{
			{"spp", config.SamplesPerPixel},
			{"maxDepth", config.MaxDepth},
			{"rouletteDepth", config.RouletteDepth},
		}
		for _, p := range ints {
			if p.value != 0 {
				if err := r.SetInt(p.name, int32(p.value)); err != nil {
					return err
				}
			}
		}
		if config.BgColor != nil {
			return r.SetVec4f("bgColor", *config.BgColor)
		}
		return nil
	})
	if err != nil {
		return committed, fmt.Errorf("renderer %q: %w", name, err)
	}
	// the renderer keeps the scene and the camera alive from here on
	if err := handoff(rs.scope, model.Get(), camera.Get()); err != nil {
		return committed, err
	}
	rs.renderers.put(name, committed)
	core.LogDebug("renderer %q created (%s)", name, rendererType)
	return committed, nil
}

/**
 * @brief Renders one frame synchronously and records its duration.
 */
func (rs *RendererSystem) RenderFrame(r Committed[*renderer.Renderer], fb *renderer.FrameBuffer, channels metadata.FrameBufferChannel) (float32, error) {
	if err := r.check("renderer"); err != nil {
		return 0, err
	}
	rs.clock.Start()
	variance, err := r.Get().RenderFrame(fb, channels)
	rs.clock.Stop()
	if err != nil {
		return 0, err
	}
	size := fb.Size()
	rs.metrics.Update(rs.clock.Elapsed(), int(size.X*size.Y))
	core.LogInfo("frame rendered in %.2f ms (%.0f pixels/s)", rs.metrics.FrameTime(), rs.metrics.PixelsPerSecond(int(size.X*size.Y)))
	return variance, nil
}

func (rs *RendererSystem) Metrics() *core.RenderMetrics {
	return rs.metrics
}

func (rs *RendererSystem) Get(name string) (Committed[*renderer.Renderer], bool) {
	return rs.renderers.get(name)
}

func (rs *RendererSystem) Shutdown() error {
	rs.renderers.reset()
	return nil
}
