package dynamo

import "errors"

// Domain errors for flight-model operations.
var (
	// ErrInvalidState indicates a state with NaN or Inf components.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrSingularMatrix indicates a matrix that cannot be inverted.
	ErrSingularMatrix = errors.New("dynamo: singular matrix")

	// ErrNoMass indicates a rigid body without positive total mass.
	ErrNoMass = errors.New("dynamo: body has no mass")

	// ErrUnknownHandle indicates a handle that was never issued.
	ErrUnknownHandle = errors.New("dynamo: unknown handle")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrInvalidGeometry indicates a malformed airframe description.
	ErrInvalidGeometry = errors.New("dynamo: invalid geometry")

	// ErrTrimFailed indicates the trim solver did not produce a solution.
	ErrTrimFailed = errors.New("dynamo: trim solution failed")

	// ErrNotCompiled indicates use of an airplane before Compile.
	ErrNotCompiled = errors.New("dynamo: airplane not compiled")

	// ErrCrashed indicates the model flagged a crash.
	ErrCrashed = errors.New("dynamo: aircraft crashed")

	// ErrContextCanceled indicates the simulation was interrupted.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return e.Wrapped.Error()
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
