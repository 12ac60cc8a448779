package core

import "errors"

var (
	// ErrUnresolvedMeasure indicates that no measure function can be invoked.
	ErrUnresolvedMeasure = errors.New("core: measure function is not resolved")
	// ErrPermutationRetryExhausted indicates no self-loop-free swap was found
	// within the retry budget.
	ErrPermutationRetryExhausted = errors.New("core: permutation swap retries exhausted")
	// ErrInvalidWindow indicates a non-positive window size or shift.
	ErrInvalidWindow = errors.New("core: window size and shift must be positive")
	// ErrInvalidLag indicates a lag below one in lagged mode.
	ErrInvalidLag = errors.New("core: lag must be at least 1")
	// ErrInvalidConfidence indicates a confidence level outside (0, 1).
	ErrInvalidConfidence = errors.New("core: confidence level must be in (0, 1)")
	// ErrScalarRequired indicates a keyed or missing-kind measure where a scalar is needed.
	ErrScalarRequired = errors.New("core: permutation and convergence need a scalar measure")
	// ErrLaggedDiagnostics indicates permutation or convergence requested in lagged mode.
	ErrLaggedDiagnostics = errors.New("core: permutation and convergence need a direct measure")
	// ErrInvalidOptions indicates a negative count or budget.
	ErrInvalidOptions = errors.New("core: counts and budgets must not be negative")
)
