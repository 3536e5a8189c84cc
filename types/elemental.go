package types

import (
	"fmt"
	"math"
	"strings"
)

// MaxKeyVertices is the largest vertex count of any element (hexahedron)
const MaxKeyVertices = 8

/*
ElementKey is an order independent identity for an element, built from the indices of its vertices. The
vertices of a tetrahedron given as [4,0,2,1] and [0,1,2,4] produce the same key, the indices are stored in
ascending order. The key is comparable and is used directly as a map key for deduplication.
*/
type ElementKey struct {
	n     uint8
	verts [MaxKeyVertices]uint32
}

func NewElementKey(verts []int) (key ElementKey, err error) {
	if len(verts) == 0 || len(verts) > MaxKeyVertices {
		err = fmt.Errorf("unable to build a key from %d vertices, must be 1 to %d",
			len(verts), MaxKeyVertices)
		return
	}
	for _, vert := range verts {
		if vert < 0 || uint64(vert) > math.MaxUint32 {
			err = fmt.Errorf("vertex index %d out of range for an element key", vert)
			return
		}
	}
	key.n = uint8(len(verts))
	for i, vert := range verts {
		key.verts[i] = uint32(vert)
	}
	// Insertion sort, at most 8 entries
	for i := 1; i < int(key.n); i++ {
		for j := i; j > 0 && key.verts[j-1] > key.verts[j]; j-- {
			key.verts[j-1], key.verts[j] = key.verts[j], key.verts[j-1]
		}
	}
	return
}

func (ek ElementKey) Len() int { return int(ek.n) }

// Vertices returns the vertex indices in ascending order
func (ek ElementKey) Vertices() (verts []int) {
	verts = make([]int, ek.n)
	for i := range verts {
		verts[i] = int(ek.verts[i])
	}
	return
}

// HasDuplicates is true when a vertex index appears more than once
func (ek ElementKey) HasDuplicates() bool {
	for i := 1; i < int(ek.n); i++ {
		if ek.verts[i] == ek.verts[i-1] {
			return true
		}
	}
	return false
}

func (ek ElementKey) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i := 0; i < int(ek.n); i++ {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%d", ek.verts[i])
	}
	sb.WriteByte(']')
	return sb.String()
}
