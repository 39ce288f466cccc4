package renderer

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
)

const flagPrefix = "--rt:"

// Device is an initialized rendering library instance. Every object is
// created through a device and must be released before Shutdown.
type Device struct {
	config   metadata.DeviceConfig
	backend  Backend
	ids      *core.IdentifierPool
	mu       sync.Mutex
	shutdown bool
}

/**
 * Init consumes the library flags (--rt:...) from args, starts the selected
 * backend and returns the device with the remaining arguments, in order.
 */
func Init(args []string) (*Device, []string, error) {
	config, rest, err := ParseArgs(args)
	if err != nil {
		return nil, args, err
	}
	return NewDevice(config, rest)
}

// NewDevice starts a device from an already parsed configuration.
func NewDevice(config metadata.DeviceConfig, rest []string) (*Device, []string, error) {
	if config.LogLevel != "" {
		level, err := core.ParseLogLevel(config.LogLevel)
		if err != nil {
			return nil, rest, err
		}
		core.SetLogLevel(level)
	}
	if config.Debug {
		core.SetLogLevel(core.DebugLevel)
	}

	factory, ok := lookupBackend(config.Name)
	if !ok {
		return nil, rest, fmt.Errorf("device %q (available: %s): %w", config.Name, strings.Join(Backends(), ", "), core.ErrDeviceUnsupported)
	}
	backend := factory()
	if err := backend.Initialize(&config); err != nil {
		return nil, rest, fmt.Errorf("%w: %s: %w", core.ErrInitFailed, backend.Name(), err)
	}

	core.LogInfo("renderer device initialized: device=%s threads=%d seed=%d", backend.Name(), config.NumThreads, config.Seed)
	return &Device{
		config:  config,
		backend: backend,
		ids:     core.NewIdentifierPool(64),
	}, rest, nil
}

/**
 * ParseArgs splits args into the library configuration and everything else.
 * Accepted flags: --rt:device=<name>, --rt:numthreads=<n>, --rt:loglevel=<level>,
 * --rt:debug and --rt:seed=<n>. Unknown --rt: flags are dropped with a warning.
 */
func ParseArgs(args []string) (metadata.DeviceConfig, []string, error) {
	config := metadata.DeviceConfig{Name: metadata.DefaultDeviceName}
	rest := make([]string, 0, len(args))

	for i, arg := range args {
		// argv[0] is never a flag.
		if i == 0 || !strings.HasPrefix(arg, flagPrefix) {
			rest = append(rest, arg)
			continue
		}
		name, value, hasValue := strings.Cut(strings.TrimPrefix(arg, flagPrefix), "=")
		switch name {
		case "device":
			if !hasValue || value == "" {
				return config, args, fmt.Errorf("%s requires a value: %w", arg, core.ErrInvalidArgument)
			}
			config.Name = value
		case "numthreads":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return config, args, fmt.Errorf("%s: %w", arg, core.ErrInvalidArgument)
			}
			config.NumThreads = n
		case "loglevel":
			if _, err := core.ParseLogLevel(value); err != nil {
				return config, args, err
			}
			config.LogLevel = value
		case "debug":
			if hasValue {
				b, err := strconv.ParseBool(value)
				if err != nil {
					return config, args, fmt.Errorf("%s: %w", arg, core.ErrInvalidArgument)
				}
				config.Debug = b
			} else {
				config.Debug = true
			}
		case "seed":
			n, err := strconv.ParseUint(value, 10, 64)
			if err != nil {
				return config, args, fmt.Errorf("%s: %w", arg, core.ErrInvalidArgument)
			}
			config.Seed = n
		default:
			core.LogWarn("ignoring unknown library flag %s", arg)
		}
	}
	return config, rest, nil
}

func (d *Device) Config() metadata.DeviceConfig {
	return d.config
}

func (d *Device) BackendName() string {
	return d.backend.Name()
}

// LiveObjects returns how many objects still hold at least one reference.
func (d *Device) LiveObjects() int {
	return d.ids.Live()
}

func (d *Device) isShutdown() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shutdown
}

func (d *Device) checkAlive() error {
	if d == nil {
		return fmt.Errorf("nil device: %w", core.ErrInvalidArgument)
	}
	if d.isShutdown() {
		return core.ErrDeviceShutdown
	}
	return nil
}

func (d *Device) register(o *object) {
	o.slot = d.ids.AquireNewID(o)
	core.LogDebug("created %s %q (%s)", o.kind, o.subtype, o.id)
}

func (d *Device) unregister(o *object) error {
	return d.ids.ReleaseID(o.slot)
}

/**
 * Shutdown stops the backend. It must be the last call made on the device;
 * objects still alive are reported as leaks and abandoned.
 */
func (d *Device) Shutdown() error {
	d.mu.Lock()
	if d.shutdown {
		d.mu.Unlock()
		return core.ErrDeviceShutdown
	}
	d.shutdown = true
	d.mu.Unlock()

	for _, owner := range d.ids.Owners() {
		if o, ok := owner.(*object); ok {
			core.LogWarn("%s %q (%s) leaked at shutdown with %d references", o.kind, o.subtype, o.id, o.refs)
		}
	}
	if err := d.backend.Shutdown(); err != nil {
		return fmt.Errorf("shutting down %s backend: %w", d.backend.Name(), err)
	}
	core.LogInfo("renderer device %s shut down", d.backend.Name())
	return nil
}
