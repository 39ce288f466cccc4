package engine

import (
	"time"

	"github.com/spaghettifunk/lumen/engine/resources"
)

type Game struct {
	ApplicationConfig *ApplicationConfig
	State             interface{}
	FnInitialize      Initialize
	FnScene           Scene
	FnOnFrame         OnFrame
	FnShutdown        Shutdown
}

type Initialize func() error

// Scene returns the compiled-in scene; the engine never modifies it.
type Scene func() *resources.SceneConfig

// OnFrame is invoked after a frame was written to path.
type OnFrame func(path string, frameTime time.Duration) error
type Shutdown func() error
