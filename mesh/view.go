package mesh

import (
	"fmt"
	"iter"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/notargets/meshtopo/topology"
)

// View is a filtered, non-owning sub-collection of a mesh or of another view.
// Inserting through a view inserts into the root mesh and records the element
// with its whole closure in this view and every view between it and the root.
type View[P any] struct {
	parent  Collection[P]
	root    *Mesh[P]
	handles [][]Handle        // per dimension, in recording order
	members []*roaring.Bitmap // per dimension, insertion indices
	cache   *caches
}

// NewView creates an empty view of parent
func NewView[P any](parent Collection[P]) *View[P] {
	var (
		root = parent.Root()
		nd   = root.CellDim() + 1
	)
	v := &View[P]{
		parent:  parent,
		root:    root,
		handles: make([][]Handle, nd),
		members: make([]*roaring.Bitmap, nd),
		cache:   newCaches(),
	}
	for d := range v.members {
		v.members[d] = roaring.New()
	}
	return v
}

func (v *View[P]) Root() *Mesh[P]        { return v.root }
func (v *View[P]) Parent() Collection[P] { return v.parent }
func (v *View[P]) caches() *caches       { return v.cache }

func (v *View[P]) Size(dim int) int {
	if dim < 0 || dim >= len(v.handles) {
		return 0
	}
	return len(v.handles[dim])
}

// Elements returns the handles recorded in this view in recording order
func (v *View[P]) Elements(dim int) []Handle {
	if dim < 0 || dim >= len(v.handles) {
		return nil
	}
	return append([]Handle(nil), v.handles[dim]...)
}

func (v *View[P]) All(dim int) iter.Seq[Handle] {
	return func(yield func(Handle) bool) {
		for i := 0; i < v.Size(dim); i++ {
			if !yield(v.handles[dim][i]) {
				return
			}
		}
	}
}

func (v *View[P]) Contains(h Handle) bool {
	if !v.root.owns(h) {
		return false
	}
	return v.members[h.dim].Contains(h.index)
}

// Dereference resolves through the root mesh for handles recorded in the view
func (v *View[P]) Dereference(h Handle) (Element, error) {
	if !v.Contains(h) {
		return Element{}, fmt.Errorf("%w: %v is not in the view", ErrInvalidHandle, h)
	}
	return v.root.element(h), nil
}

// CreateVertex creates the vertex in the root mesh and records it in this
// view and its ancestor views
func (v *View[P]) CreateVertex(p P) (h Handle) {
	h = v.parent.CreateVertex(p)
	v.record(h)
	return
}

// CreateElement delegates to the parent and records the resulting element
// and its closure
func (v *View[P]) CreateElement(tag topology.Tag, vertices []Handle) (h Handle, err error) {
	if h, err = v.parent.CreateElement(tag, vertices); err != nil {
		return
	}
	v.record(h)
	return
}

// Add records an existing element of the root mesh, with its closure, in the
// view and in every ancestor view
func (v *View[P]) Add(h Handle) error {
	if !v.root.owns(h) {
		return fmt.Errorf("%w: %v does not belong to the root mesh", ErrInvalidHandle, h)
	}
	if pv, ok := v.parent.(*View[P]); ok {
		if err := pv.Add(h); err != nil {
			return err
		}
	}
	v.record(h)
	return nil
}

// record adds h and its closure. A recorded element always has its closure
// recorded, so recursion stops at the first element already present.
func (v *View[P]) record(h Handle) {
	if v.members[h.dim].Contains(h.index) {
		return
	}
	el := v.root.element(h)
	if h.dim > 0 {
		for _, f := range el.Facets {
			v.record(f)
		}
	}
	v.members[h.dim].Add(h.index)
	v.handles[h.dim] = append(v.handles[h.dim], h)
	v.cache.invalidate(int(h.dim))
}
