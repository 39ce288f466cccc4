package metadata

import "math"

var posInf = math.Inf(1)

/** @brief The backend used when no device is requested. */
const DefaultDeviceName string = "cpu"

/**
 * @brief Settings consumed from the library-specific command line flags.
 */
type DeviceConfig struct {
	/** @brief The backend name, e.g. "cpu". */
	Name string
	/** @brief Worker count for parallel rendering; 0 picks the CPU count. */
	NumThreads int
	/** @brief Log level name; empty keeps the current level. */
	LogLevel string
	/** @brief Enables debug logging and single threaded rendering. */
	Debug bool
	/** @brief Base seed for the sampling streams. */
	Seed uint64
}
