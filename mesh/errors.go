package mesh

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArity is returned when the number of vertices given for an
	// element does not match its topology tag
	ErrInvalidArity = errors.New("invalid element arity")
	// ErrInvalidHandle is returned for zero, foreign or out of range handles and
	// for handles not present in the collection being queried
	ErrInvalidHandle = errors.New("invalid handle")
	// ErrDanglingVertex is returned when an element refers to a vertex handle
	// that does not belong to the root mesh of the collection
	ErrDanglingVertex = errors.New("dangling vertex handle")
	// ErrTopologyInconsistency flags non-manifold input, e.g. a facet shared by
	// more than two cells
	ErrTopologyInconsistency = errors.New("topology inconsistency")
	ErrInvalidDimension      = errors.New("invalid topological dimension")
	// ErrDegenerateElement is returned when an element repeats a vertex
	ErrDegenerateElement = errors.New("degenerate element")
)

func errDim(dim, cellDim int) error {
	return fmt.Errorf("%w: %d is outside [0,%d]", ErrInvalidDimension, dim, cellDim)
}
