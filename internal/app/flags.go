package app

import (
	"flag"
	"strconv"

	"sandfall/internal/catalog"
	"sandfall/internal/sims/sand"
)

// Config represents the command-line parameters shared by the front-ends.
type Config struct {
	Sim   string
	Scale int
	TPS   int
	Seed  int64

	Dimension  int
	Workers    int
	Delay      float64
	Iterations int
	Radius     int

	Materials string
	Material  string
}

// NewConfig returns a Config populated with the simulation defaults.
func NewConfig() *Config {
	def := sand.DefaultConfig()
	return &Config{
		Sim:        "sand",
		Scale:      3,
		TPS:        60,
		Seed:       def.Seed,
		Dimension:  def.Dimension,
		Workers:    def.Workers,
		Delay:      def.Params.IterationDelay,
		Iterations: def.Params.IterationsPerTick,
		Radius:     def.Params.SpawnRadius,
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "frames per second driving the tick scheduler")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for the slide tie-break")
	fs.IntVar(&c.Dimension, "dim", c.Dimension, "grid side length (multiple of 8)")
	fs.IntVar(&c.Workers, "workers", c.Workers, "goroutines per kernel dispatch (<=0: one per work group)")
	fs.Float64Var(&c.Delay, "delay", c.Delay, "seconds between step bursts")
	fs.IntVar(&c.Iterations, "iters", c.Iterations, "steps per burst")
	fs.IntVar(&c.Radius, "radius", c.Radius, "spawn brush radius in cells")
	fs.StringVar(&c.Materials, "materials", c.Materials, "material catalog as name=id:weight[:#rrggbb],... (empty: built-in)")
	fs.StringVar(&c.Material, "material", c.Material, "initially selected material")
}

// SimOptions renders the simulation settings in the key/value form the sim
// registry factories accept.
func (c *Config) SimOptions() map[string]string {
	return map[string]string{
		"dimension":           strconv.Itoa(c.Dimension),
		"seed":                strconv.FormatInt(c.Seed, 10),
		"workers":             strconv.Itoa(c.Workers),
		"iteration_delay":     strconv.FormatFloat(c.Delay, 'f', -1, 64),
		"iterations_per_tick": strconv.Itoa(c.Iterations),
		"spawn_radius":        strconv.Itoa(c.Radius),
	}
}

// Catalog builds the material catalog named by the flags.
func (c *Config) Catalog() (*catalog.Catalog, error) {
	if c.Materials == "" {
		return catalog.Default(), nil
	}
	return catalog.Parse(c.Materials)
}
