package sand

import (
	"strconv"

	"sandfall/internal/core"
)

// Parameters reports the current configuration for the HUD.
func (e *Engine) Parameters() core.ParameterSnapshot {
	cfg := e.Config()
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Grid",
			Params: []core.Parameter{
				intParam("dimension", "Dimension", cfg.Dimension),
				int64Param("seed", "Seed", cfg.Seed),
				intParam("workers", "Workers", cfg.Workers),
			},
		},
		{
			Name: "Tick",
			Params: []core.Parameter{
				floatParam("iteration_delay", "Iteration delay", cfg.Params.IterationDelay),
				intParam("iterations_per_tick", "Iterations per tick", cfg.Params.IterationsPerTick),
			},
		},
		{
			Name: "Brush",
			Params: []core.Parameter{
				intParam("spawn_radius", "Spawn radius", cfg.Params.SpawnRadius),
			},
		},
	}}
}

// ParameterControls lists the values adjustable at runtime.
func (e *Engine) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "spawn_radius", Label: "Spawn radius", Type: core.ParamTypeInt, Step: 2, Min: 1, Max: 99, HasMin: true, HasMax: true},
		{Key: "iterations_per_tick", Label: "Iterations/tick", Type: core.ParamTypeInt, Step: 1, Min: 1, Max: 32, HasMin: true, HasMax: true},
		{Key: "iteration_delay", Label: "Delay (s)", Type: core.ParamTypeFloat, Step: 0.01, Min: 0, Max: 1, HasMin: true, HasMax: true},
	}
}

// SetIntParameter updates an integer tunable. It reports whether key was
// recognised and value accepted.
func (e *Engine) SetIntParameter(key string, value int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch key {
	case "spawn_radius":
		if value < 1 {
			return false
		}
		e.cfg.Params.SpawnRadius = value
	case "iterations_per_tick":
		if value < 1 {
			return false
		}
		e.cfg.Params.IterationsPerTick = value
	default:
		return false
	}
	return true
}

// SetFloatParameter updates a floating point tunable.
func (e *Engine) SetFloatParameter(key string, value float64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch key {
	case "iteration_delay":
		if value < 0 {
			value = 0
		}
		e.cfg.Params.IterationDelay = value
	default:
		return false
	}
	return true
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeInt, Value: strconv.Itoa(value)}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeInt, Value: strconv.FormatInt(value, 10)}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeFloat, Value: strconv.FormatFloat(value, 'f', -1, 64)}
}
