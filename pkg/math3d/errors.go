package math3d

import "errors"

var (
	// ErrDimensionMismatch is returned when operand shapes are incompatible.
	ErrDimensionMismatch = errors.New("math3d: dimension mismatch")
	// ErrSingularMatrix is returned when inverting a matrix whose determinant is zero.
	ErrSingularMatrix = errors.New("math3d: singular matrix")
)
