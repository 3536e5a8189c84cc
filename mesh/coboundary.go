package mesh

import (
	"fmt"
	"slices"
)

type coBoundaryKey struct {
	source, target int
}

// caches holds the derived incidence of one collection. Entries are dropped
// when the collection records a new element at the dimension they depend on
// and rebuilt lazily on the next query.
type caches struct {
	coBoundary map[coBoundaryKey]map[Handle][]Handle
	boundary   *boundaryFlags
}

func newCaches() *caches {
	return &caches{
		coBoundary: make(map[coBoundaryKey]map[Handle][]Handle),
	}
}

func (c *caches) invalidate(dim int) {
	for key := range c.coBoundary {
		if key.target == dim {
			delete(c.coBoundary, key)
		}
	}
	// Boundary flags are derived from cells and their closures
	if dim > 0 {
		c.boundary = nil
	}
}

// CoBoundary returns the elements of dimension target in c that contain h in
// their boundary, ordered by ascending element ID. The inverse adjacency for
// every element of h's dimension is built in one pass over the target
// elements on the first query and reused until c records a new element of
// dimension target.
func CoBoundary[P any](c Collection[P], h Handle, target int) ([]Handle, error) {
	if !c.Contains(h) {
		return nil, fmt.Errorf("%w: %v is not in the collection", ErrInvalidHandle, h)
	}
	if err := checkDim(c, target); err != nil {
		return nil, err
	}
	if target <= h.Dim() {
		return nil, fmt.Errorf("%w: co-boundary of a %d-element at dimension %d",
			ErrInvalidDimension, h.Dim(), target)
	}
	inverse, err := coBoundaryMap(c, h.Dim(), target)
	if err != nil {
		return nil, err
	}
	return slices.Clone(inverse[h]), nil
}

func coBoundaryMap[P any](c Collection[P], source, target int) (inverse map[Handle][]Handle, err error) {
	var (
		cc  = c.caches()
		key = coBoundaryKey{source, target}
		ok  bool
	)
	if inverse, ok = cc.coBoundary[key]; ok {
		return
	}
	inverse = make(map[Handle][]Handle)
	for _, t := range c.Elements(target) {
		var bnd []Handle
		if bnd, err = Boundary(c, t, source); err != nil {
			return nil, err
		}
		for _, b := range bnd {
			inverse[b] = append(inverse[b], t)
		}
	}
	// View iteration order is recording order, so sort to get ID order
	for _, list := range inverse {
		slices.SortFunc(list, Handle.Compare)
	}
	cc.coBoundary[key] = inverse
	return
}
