package sand

import "errors"

var (
	// ErrInvalidDimension reports a grid size that is not a positive multiple
	// of core.WorkGroupSize.
	ErrInvalidDimension = errors.New("sand: invalid grid dimension")
	// ErrInvalidSpawnRequest reports a spawn with a bad radius, centre or
	// missing material.
	ErrInvalidSpawnRequest = errors.New("sand: invalid spawn request")
	// ErrEngineNotReady reports an operation issued before a successful Init.
	ErrEngineNotReady = errors.New("sand: engine not initialised")
)
