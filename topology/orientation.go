package topology

import "fmt"

// Permutation records how a boundary element's stored vertex order maps onto
// the order induced by its parent: P[i] is the position in the stored list of
// the i-th induced vertex.
type Permutation []int

// NewPermutation computes the permutation taking induced to stored. Both
// slices must hold the same set of distinct values.
func NewPermutation(induced, stored []int) (p Permutation, err error) {
	if len(induced) != len(stored) {
		err = fmt.Errorf("permutation length mismatch: %d vs %d", len(induced), len(stored))
		return
	}
	p = make(Permutation, len(induced))
	for i, v := range induced {
		p[i] = -1
		for j, w := range stored {
			if v == w {
				p[i] = j
				break
			}
		}
		if p[i] < 0 {
			err = fmt.Errorf("vertex %d of induced order not present in stored order %v", v, stored)
			return nil, err
		}
	}
	return
}

func (p Permutation) IsIdentity() bool {
	for i, v := range p {
		if i != v {
			return false
		}
	}
	return true
}

// Parity returns +1 for an even permutation and -1 for an odd one
func (p Permutation) Parity() int {
	inversions := 0
	for i := 0; i < len(p); i++ {
		for j := i + 1; j < len(p); j++ {
			if p[i] > p[j] {
				inversions++
			}
		}
	}
	if inversions%2 == 0 {
		return 1
	}
	return -1
}

// OrientationSign returns +1 when the induced order of a boundary element of
// tag t has the same orientation as its stored order and -1 when reversed.
// Zero is returned for permutations that are not orientation maps of t, and
// for 3D tags, which are never boundary elements.
func (t Tag) OrientationSign(p Permutation) int {
	if !t.Valid() || t.Dim() >= MaxDim || len(p) != t.NumVertices() {
		return 0
	}
	switch t.Family() {
	case Point:
		return 1
	case Simplex:
		return p.Parity()
	}
	if t != Quad {
		return 0
	}
	// A quad's vertex cycle is either rotated or rotated and reflected
	n := len(p)
	rotated, reflected := true, true
	for i := 0; i < n; i++ {
		if p[i] != (p[0]+i)%n {
			rotated = false
		}
		if p[i] != ((p[0]-i)%n+n)%n {
			reflected = false
		}
	}
	switch {
	case rotated:
		return 1
	case reflected:
		return -1
	}
	return 0
}
