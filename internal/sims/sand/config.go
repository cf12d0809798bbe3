package sand

import (
	"runtime"
	"strconv"
)

// Params holds the tick and brush tunables.
type Params struct {
	// IterationDelay is the number of seconds that must accumulate before
	// the scheduler releases the next burst of steps.
	IterationDelay    float64
	IterationsPerTick int
	SpawnRadius       int
}

// Config controls the sand simulation.
type Config struct {
	Dimension int
	Seed      int64
	// Workers bounds the goroutines used per kernel dispatch; <= 0 means one
	// per work group.
	Workers int

	Params Params
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Dimension: 256,
		Seed:      1337,
		Workers:   runtime.NumCPU(),
		Params: Params{
			IterationDelay:    0.1,
			IterationsPerTick: 1,
			SpawnRadius:       10,
		},
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
// Unparseable or out of range values keep their defaults; the dimension is
// validated when the engine is initialised.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["dimension"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Dimension = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["workers"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Workers = parsed
		}
	}
	if v, ok := cfg["iteration_delay"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.IterationDelay = parsed
		}
	}
	if v, ok := cfg["iterations_per_tick"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 1 {
			c.Params.IterationsPerTick = parsed
		}
	}
	if v, ok := cfg["spawn_radius"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 1 {
			c.Params.SpawnRadius = parsed
		}
	}
	return c
}
