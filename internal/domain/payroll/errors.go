package payroll

import "errors"

var (
	ErrInvalidInput = errors.New("invalid calculation input")
	ErrInvalidRates = errors.New("invalid rate table")
	ErrNoSolution   = errors.New("net salary target could not be solved")
)
