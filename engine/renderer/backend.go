package renderer

import (
	"sort"
	"sync"

	"github.com/spaghettifunk/lumen/engine/renderer/cpu"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
)

// Backend executes frames. The object model hands it fully resolved,
// immutable state and a target to write into.
type Backend interface {
	Name() string
	Initialize(config *metadata.DeviceConfig) error
	Shutdown() error
	RenderFrame(target *metadata.FrameTarget, state *metadata.RendererState) (float32, error)
}

type BackendFactory func() Backend

var (
	backendsMu sync.RWMutex
	backends   = map[string]BackendFactory{
		cpu.BackendName: func() Backend { return cpu.New() },
	}
)

// RegisterBackend makes a backend selectable with --rt:device=<name>.
// Registering an existing name replaces it.
func RegisterBackend(name string, factory BackendFactory) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	backends[name] = factory
}

// Backends lists the registered backend names in sorted order.
func Backends() []string {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupBackend(name string) (BackendFactory, bool) {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	f, ok := backends[name]
	return f, ok
}
