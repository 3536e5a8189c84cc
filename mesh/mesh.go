package mesh

import (
	"fmt"
	"iter"

	"github.com/notargets/meshtopo/topology"
)

// Mesh owns the element storage of a topological domain: one append-only
// store per dimension from vertices up to the cell dimension, plus the
// geometric point of every vertex. A Mesh is not safe for concurrent
// mutation, and co-boundary queries mutate its caches.
type Mesh[P any] struct {
	id      uint32
	cellTag topology.Tag
	stores  []*store
	points  []P
	nextID  int
	cache   *caches
}

// NewMesh creates an empty mesh whose cells have the topology of cellTag.
// Cells of other tags with the same dimension (e.g. prisms in a tet mesh)
// may still be inserted.
func NewMesh[P any](cellTag topology.Tag) (m *Mesh[P], err error) {
	if !cellTag.Valid() {
		return nil, fmt.Errorf("%w: %d", topology.ErrUnknownTag, uint8(cellTag))
	}
	if cellTag.Dim() == 0 {
		return nil, fmt.Errorf("%w: cell topology %s has dimension 0", ErrInvalidDimension, cellTag)
	}
	m = &Mesh[P]{
		id:      meshCounter.Add(1),
		cellTag: cellTag,
		stores:  make([]*store, cellTag.Dim()+1),
		cache:   newCaches(),
	}
	for d := range m.stores {
		m.stores[d] = newStore(d)
	}
	return
}

func (m *Mesh[P]) Root() *Mesh[P]        { return m }
func (m *Mesh[P]) Parent() Collection[P] { return nil }
func (m *Mesh[P]) CellTag() topology.Tag { return m.cellTag }
func (m *Mesh[P]) CellDim() int          { return m.cellTag.Dim() }
func (m *Mesh[P]) caches() *caches       { return m.cache }

func (m *Mesh[P]) handle(dim, idx int) Handle {
	return Handle{mesh: m.id, dim: uint8(dim), index: uint32(idx)}
}

func (m *Mesh[P]) Size(dim int) int {
	if dim < 0 || dim >= len(m.stores) {
		return 0
	}
	return m.stores[dim].size()
}

// Elements returns all handles of dimension dim in insertion order
func (m *Mesh[P]) Elements(dim int) (hs []Handle) {
	n := m.Size(dim)
	hs = make([]Handle, n)
	for i := range hs {
		hs[i] = m.handle(dim, i)
	}
	return
}

func (m *Mesh[P]) All(dim int) iter.Seq[Handle] {
	return func(yield func(Handle) bool) {
		// Size is read each step so elements appended during iteration are visited
		for i := 0; i < m.Size(dim); i++ {
			if !yield(m.handle(dim, i)) {
				return
			}
		}
	}
}

// owns reports whether h was issued by this mesh and is in range
func (m *Mesh[P]) owns(h Handle) bool {
	return h.mesh == m.id && int(h.dim) < len(m.stores) &&
		int(h.index) < m.stores[h.dim].size()
}

func (m *Mesh[P]) Contains(h Handle) bool { return m.owns(h) }

func (m *Mesh[P]) Dereference(h Handle) (Element, error) {
	if !m.owns(h) {
		return Element{}, fmt.Errorf("%w: %v does not belong to mesh %d", ErrInvalidHandle, h, m.id)
	}
	return m.element(h), nil
}

// element assumes h is owned
func (m *Mesh[P]) element(h Handle) Element {
	return m.stores[h.dim].elements[h.index]
}

// CreateVertex always inserts a new vertex, coincident points included
func (m *Mesh[P]) CreateVertex(p P) Handle {
	idx := m.stores[0].appendVertex(Element{
		Tag: topology.Vertex,
		ID:  m.newID(),
	})
	h := m.handle(0, idx)
	m.stores[0].elements[idx].Vertices = []Handle{h}
	m.points = append(m.points, p)
	m.cache.invalidate(0)
	return h
}

func (m *Mesh[P]) newID() (id int) {
	id = m.nextID
	m.nextID++
	return
}

// Point returns the geometric point of a vertex
func (m *Mesh[P]) Point(h Handle) (p P, err error) {
	if !m.owns(h) || h.dim != 0 {
		err = fmt.Errorf("%w: %v is not a vertex of mesh %d", ErrInvalidHandle, h, m.id)
		return
	}
	return m.points[h.index], nil
}

func (m *Mesh[P]) SetPoint(h Handle, p P) error {
	if !m.owns(h) || h.dim != 0 {
		return fmt.Errorf("%w: %v is not a vertex of mesh %d", ErrInvalidHandle, h, m.id)
	}
	m.points[h.index] = p
	return nil
}

// NumElements is the total number of stored elements over all dimensions
func (m *Mesh[P]) NumElements() (n int) {
	for _, s := range m.stores {
		n += s.size()
	}
	return
}
