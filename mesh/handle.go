package mesh

import (
	"cmp"
	"fmt"
	"sync/atomic"
)

var meshCounter atomic.Uint32

// Handle is a stable reference to an element of a root mesh. Handles are
// comparable and remain valid for the lifetime of the mesh, so they can key
// external attribute storage. The zero Handle is invalid.
type Handle struct {
	mesh  uint32
	dim   uint8
	index uint32
}

func (h Handle) Valid() bool { return h.mesh != 0 }
func (h Handle) Dim() int    { return int(h.dim) }

// Index is the insertion position of the element within its dimension
func (h Handle) Index() int { return int(h.index) }

func (h Handle) String() string {
	if !h.Valid() {
		return "h(nil)"
	}
	return fmt.Sprintf("h(%d:%d)", h.dim, h.index)
}

// Compare orders handles by dimension, then insertion index
func (h Handle) Compare(o Handle) int {
	if c := cmp.Compare(h.dim, o.dim); c != 0 {
		return c
	}
	return cmp.Compare(h.index, o.index)
}
