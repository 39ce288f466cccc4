package cpu

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/spaghettifunk/lumen/engine/containers"
	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/math"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
)

const (
	BackendName = "cpu"
	TileSize    = 16
)

type tile struct {
	index  int
	x0, y0 int
	x1, y1 int
}

// Backend renders frames on the CPU, one job per tile.
type Backend struct {
	config  metadata.DeviceConfig
	jobs    *core.JobSystem
	metrics *core.RenderMetrics
	clock   *core.Clock
}

func New() *Backend {
	return &Backend{
		metrics: core.NewRenderMetrics(),
		clock:   core.NewClock(),
	}
}

func (b *Backend) Name() string {
	return BackendName
}

func (b *Backend) Initialize(config *metadata.DeviceConfig) error {
	b.config = *config
	workers := config.NumThreads
	if config.Debug {
		workers = 1
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	jobs, err := core.NewJobSystem(workers, workers*4)
	if err != nil {
		return fmt.Errorf("cpu backend: %w", err)
	}
	b.jobs = jobs
	core.LogDebug("cpu backend initialized with %d workers", workers)
	return nil
}

func (b *Backend) Shutdown() error {
	if b.jobs == nil {
		return nil
	}
	err := b.jobs.Shutdown()
	b.jobs = nil
	core.LogDebug("cpu backend shut down after %d frames (avg %.3f ms)", b.metrics.Frames(), b.metrics.FrameTime())
	return err
}

// Metrics exposes the rolling frame statistics.
func (b *Backend) Metrics() *core.RenderMetrics {
	return b.metrics
}

// RenderFrame renders one frame of state into target and blocks until every
// tile is done. The returned value estimates the change of the accumulated
// image and is 0 when the accumulation channel is disabled.
func (b *Backend) RenderFrame(target *metadata.FrameTarget, state *metadata.RendererState) (float32, error) {
	if b.jobs == nil {
		return 0, fmt.Errorf("cpu backend not initialized: %w", core.ErrDeviceShutdown)
	}
	if target == nil || state == nil {
		return 0, fmt.Errorf("cpu backend: nil frame target or renderer state: %w", core.ErrInvalidArgument)
	}
	if state.Camera == nil {
		return 0, fmt.Errorf("cpu backend: renderer has no camera: %w", core.ErrMissingParameter)
	}

	b.clock.Start()
	fc := newFrameContext(state, target.AccumID)

	tilesX := (target.Width + TileSize - 1) / TileSize
	tilesY := (target.Height + TileSize - 1) / TileSize
	queue := containers.NewRingQueue[tile](tilesX * tilesY)
	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			t := tile{
				index: ty*tilesX + tx,
				x0:    tx * TileSize,
				y0:    ty * TileSize,
				x1:    min((tx+1)*TileSize, target.Width),
				y1:    min((ty+1)*TileSize, target.Height),
			}
			if err := queue.Enqueue(t); err != nil {
				return 0, err
			}
		}
	}

	variances := make([]float32, tilesX*tilesY)
	var wg sync.WaitGroup
	for !queue.IsEmpty() {
		t, err := queue.Dequeue()
		if err != nil {
			return 0, err
		}
		wg.Add(1)
		b.jobs.Submit(core.JobTask{
			Priority: core.JOB_PRIORITY_NORMAL,
			OnStart: func() error {
				variances[t.index] = b.renderTile(fc, target, t)
				return nil
			},
			OnCompletionCallback: wg.Done,
		})
	}
	wg.Wait()

	var variance float32
	if target.Channels.Has(metadata.FrameBufferAccum) && target.Accum != nil {
		if target.AccumID > 0 {
			for _, v := range variances {
				variance += v
			}
			variance /= float32(target.Width * target.Height)
		}
		target.AccumID++
	}

	b.clock.Update()
	b.metrics.Update(b.clock.Elapsed(), target.Width*target.Height)
	b.clock.Stop()
	core.LogDebug("frame rendered in %.3f ms (%d tiles)", b.metrics.FrameTime(), tilesX*tilesY)
	return variance, nil
}

func (b *Backend) renderTile(fc *frameContext, target *metadata.FrameTarget, t tile) float32 {
	s := newSampler()
	spp := max(fc.state.SamplesPerPixel, 1)
	invSpp := 1 / float32(spp)
	w := float32(target.Width)
	h := float32(target.Height)
	var variance float32

	for y := t.y0; y < t.y1; y++ {
		for x := t.x0; x < t.x1; x++ {
			idx := y*target.Width + x
			s.reset(fc.seed, fc.frame, idx)

			var color math.Vec4
			depth := missDepth
			for i := 0; i < spp; i++ {
				sx := (float32(x) + s.next()) / w
				sy := (float32(y) + s.next()) / h
				out := fc.trace(fc.camera.ray(sx, sy), s)
				color = color.Add(out.color)
				if i == 0 {
					depth = out.depth
				}
			}
			color = color.MulScalar(invSpp)

			if target.Accum != nil && target.Channels.Has(metadata.FrameBufferAccum) {
				n := float32(target.AccumID)
				sum := target.Accum[idx].Add(color)
				target.Accum[idx] = sum
				if n > 0 {
					prev := sum.Sub(color).MulScalar(1 / n)
					variance += luminanceDelta(prev, sum.MulScalar(1/(n+1)))
				}
				color = sum.MulScalar(1 / (n + 1))
			}
			if target.Depth != nil {
				target.Depth[idx] = depth
			}
			storeColor(target, idx, color)
		}
	}
	return variance
}

func luminanceDelta(a, b math.Vec4) float32 {
	d := a.ToVec3().Sub(b.ToVec3())
	return math.Abs(0.2126*d.X + 0.7152*d.Y + 0.0722*d.Z)
}

// storeColor converts linear RGBA into the frame buffer format.
func storeColor(target *metadata.FrameTarget, idx int, c math.Vec4) {
	switch target.Format {
	case metadata.FrameBufferFormatRGBA32F:
		if target.ColorF == nil {
			return
		}
		o := idx * 4
		target.ColorF[o+0] = c.X
		target.ColorF[o+1] = c.Y
		target.ColorF[o+2] = c.Z
		target.ColorF[o+3] = c.W
	case metadata.FrameBufferFormatSRGBA:
		if target.Color == nil {
			return
		}
		o := idx * 4
		target.Color[o+0] = toByte(linearToSRGB(c.X))
		target.Color[o+1] = toByte(linearToSRGB(c.Y))
		target.Color[o+2] = toByte(linearToSRGB(c.Z))
		target.Color[o+3] = toByte(c.W)
	default:
		if target.Color == nil {
			return
		}
		o := idx * 4
		target.Color[o+0] = toByte(c.X)
		target.Color[o+1] = toByte(c.Y)
		target.Color[o+2] = toByte(c.Z)
		target.Color[o+3] = toByte(c.W)
	}
}

func toByte(v float32) uint8 {
	return uint8(math.Saturate(v) * 255)
}
