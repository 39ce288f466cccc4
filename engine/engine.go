package engine

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/spaghettifunk/lumen/engine/assets"
	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/platform"
	"github.com/spaghettifunk/lumen/engine/renderer"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
	"github.com/spaghettifunk/lumen/engine/systems"
)

// InitFailedMessage is printed when the rendering library cannot be initialized.
const InitFailedMessage = "An error occurred while attempting to initialize the renderer so this program will now exit."

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing the rendering library
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently rendering
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
	// Engine released the rendering library
	EngineStageShutdown
)

func (s Stage) String() string {
	switch s {
	case EngineStageUninitialized:
		return "uninitialized"
	case EngineStageInitializing:
		return "initializing"
	case EngineStageInitialized:
		return "initialized"
	case EngineStageRunning:
		return "running"
	case EngineStageShuttingDown:
		return "shutting down"
	default:
		return "shutdown"
	}
}

type Engine struct {
	currentStage Stage
	gameInstance *Game
	device       *renderer.Device
	assetManager *assets.AssetManager
	bus          *core.EventBus
	clock        *core.Clock
	metrics      *core.RenderMetrics
	frames       atomic.Int64
	quit         chan struct{}
}

func New(g *Game) (*Engine, error) {
	if g == nil || g.ApplicationConfig == nil || g.FnScene == nil {
		return nil, fmt.Errorf("a game needs an application config and a scene: %w", core.ErrInvalidArgument)
	}
	bus := core.NewEventBus()
	return &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		bus:          bus,
		assetManager: assets.NewAssetManager(bus),
		clock:        core.NewClock(),
		metrics:      core.NewRenderMetrics(),
		quit:         make(chan struct{}, 1),
	}, nil
}

/**
 * @brief Initializes the rendering library with the process arguments and
 * returns the arguments it did not consume. Every failure wraps
 * core.ErrInitFailed.
 */
func (e *Engine) Initialize(args []string) ([]string, error) {
	if e.currentStage != EngineStageUninitialized {
		return args, fmt.Errorf("engine is %s: %w", e.currentStage, core.ErrInvalidArgument)
	}
	e.currentStage = EngineStageInitializing

	device, rest, err := renderer.Init(args)
	if err != nil {
		e.currentStage = EngineStageUninitialized
		if !errors.Is(err, core.ErrInitFailed) {
			err = fmt.Errorf("%w: %w", core.ErrInitFailed, err)
		}
		return rest, err
	}
	e.device = device

	e.bus.Register(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(); err != nil {
			return rest, err
		}
	}
	e.currentStage = EngineStageInitialized
	core.LogDebug("%s initialized on the %s device", e.gameInstance.ApplicationConfig.Name, device.BackendName())
	return rest, nil
}

/**
 * @brief Renders the scene once and writes it out. In watch mode it keeps
 * re-rendering on every change of the config file until ctx is done or the
 * application quit event fires; failed re-renders are logged, not returned.
 */
func (e *Engine) Run(ctx context.Context) error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("engine is %s: %w", e.currentStage, core.ErrNotCommitted)
	}
	e.currentStage = EngineStageRunning
	defer func() { e.currentStage = EngineStageInitialized }()

	config := e.gameInstance.ApplicationConfig
	if !config.Watch {
		return e.RenderOnce()
	}
	if config.ConfigPath == "" {
		return fmt.Errorf("watch mode needs a config file: %w", core.ErrInvalidArgument)
	}

	changed := make(chan struct{}, 1)
	e.bus.Register(core.EVENT_CODE_SCENE_CHANGED, e, func(core.SystemEventCode, interface{}, interface{}, core.EventContext) bool {
		// coalesce bursts of writes into one render
		select {
		case changed <- struct{}{}:
		default:
		}
		return false
	})
	defer e.bus.Unregister(core.EVENT_CODE_SCENE_CHANGED, e)

	if err := e.assetManager.Watch(config.ConfigPath); err != nil {
		return err
	}
	if err := e.RenderOnce(); err != nil {
		core.LogError("render failed: %s", err)
	}

	for {
		select {
		case <-ctx.Done():
			core.LogInfo("stopping watch mode")
			return nil
		case <-e.quit:
			core.LogInfo("EVENT_CODE_APPLICATION_QUIT recieved, shutting down.")
			return nil
		case <-changed:
			if err := e.RenderOnce(); err != nil {
				core.LogError("render failed: %s", err)
			}
		}
	}
}

/**
 * @brief Runs the whole pipeline once: builds every object, renders one
 * frame, writes the image and releases everything it acquired.
 */
func (e *Engine) RenderOnce() (err error) {
	if e.device == nil {
		return fmt.Errorf("renderer not initialized: %w", core.ErrNotCommitted)
	}
	e.clock.Start()

	scene, err := e.resolveScene()
	if err != nil {
		return err
	}

	sm, err := systems.NewSystemManager(e.device)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, sm.Shutdown())
	}()

	objects, err := e.buildScene(sm, scene)
	if err != nil {
		core.LogError("building the scene failed: %s", err)
		return err
	}

	if _, err := sm.Renderers.RenderFrame(objects.renderer, objects.frameBuffer, metadata.FrameBufferColor); err != nil {
		core.LogError("rendering failed: %s", err)
		return err
	}

	flip := platform.FlipNone
	if scene.Output.FlipY {
		flip = platform.FlipVertical
	}
	writer := platform.NewImageWriter(flip)
	w, h := scene.Output.Width, scene.Output.Height
	err = sm.FrameBuffers.ReadColor(objects.frameBuffer, func(pixels []byte) error {
		return writer.Write(scene.Output.Path, w, h, 4, pixels, w*4)
	})
	if err != nil {
		core.LogError("writing %s failed: %s", scene.Output.Path, err)
		return err
	}

	e.clock.Stop()
	elapsed := e.clock.Elapsed()
	e.metrics.Update(elapsed, w*h)
	e.frames.Add(1)
	core.LogInfo("wrote %s (%dx%d) in %s", scene.Output.Path, w, h, elapsed.Round(time.Millisecond))

	e.bus.Fire(core.EVENT_CODE_FRAME_RENDERED, e, core.EventContext{
		Path:    scene.Output.Path,
		Elapsed: float64(elapsed) / float64(time.Millisecond),
	})
	if e.gameInstance.FnOnFrame != nil {
		return e.gameInstance.FnOnFrame(scene.Output.Path, elapsed)
	}
	return nil
}

// Quit stops a running watch loop after the current frame.
func (e *Engine) Quit() {
	e.bus.Fire(core.EVENT_CODE_APPLICATION_QUIT, e, core.EventContext{})
}

func (e *Engine) Events() *core.EventBus {
	return e.bus
}

// Frames returns the number of images written so far.
func (e *Engine) Frames() int {
	return int(e.frames.Load())
}

func (e *Engine) Metrics() *core.RenderMetrics {
	return e.metrics
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

/**
 * @brief Shuts the game, the watcher and finally the rendering library down.
 * Safe to call on an engine that never initialized.
 */
func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShutdown {
		return nil
	}
	e.currentStage = EngineStageShuttingDown

	var errs []error
	if e.gameInstance.FnShutdown != nil && e.device != nil {
		errs = append(errs, e.gameInstance.FnShutdown())
	}
	errs = append(errs, e.assetManager.Close(), e.bus.Shutdown())
	if e.device != nil {
		// the library goes last
		errs = append(errs, e.device.Shutdown())
		e.device = nil
	}
	e.currentStage = EngineStageShutdown
	return errors.Join(errs...)
}

func (e *Engine) onEvent(code core.SystemEventCode, sender interface{}, listener interface{}, data core.EventContext) bool {
	if code == core.EVENT_CODE_APPLICATION_QUIT {
		select {
		case e.quit <- struct{}{}:
		default:
		}
		return true
	}
	return false
}
