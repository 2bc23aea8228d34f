package model

import "errors"

// Error taxonomy shared by the simulation core. Callers match with errors.Is.
var (
	// ErrInvalidConfiguration marks a provider, rule or analysis setting that
	// cannot be simulated.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrMissingData marks absent or misaligned consumption/solar input.
	ErrMissingData = errors.New("missing data")
	// ErrContractViolation marks malformed arrays passed across a core boundary.
	ErrContractViolation = errors.New("contract violation")
	// ErrNumeric marks a NaN or Inf that reached a financial output.
	ErrNumeric = errors.New("non-finite result")
)
