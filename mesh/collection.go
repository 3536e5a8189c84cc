package mesh

import (
	"iter"

	"github.com/notargets/meshtopo/topology"
)

// Collection is an enclosing set of elements: either a root Mesh, which owns
// storage, or a View, which borrows from its parent and filters. All queries
// in this package work against any Collection.
type Collection[P any] interface {
	// Root returns the mesh owning all element storage
	Root() *Mesh[P]
	// Parent is nil for a root mesh
	Parent() Collection[P]
	Size(dim int) int
	// Elements returns the handles of dimension dim in iteration order
	Elements(dim int) []Handle
	All(dim int) iter.Seq[Handle]
	Contains(h Handle) bool
	Dereference(h Handle) (Element, error)
	CreateVertex(p P) Handle
	CreateElement(tag topology.Tag, vertices []Handle) (Handle, error)

	caches() *caches
}

// CellDim is the topological dimension of the collection's cells
func CellDim[P any](c Collection[P]) int {
	return c.Root().CellDim()
}

func checkDim[P any](c Collection[P], dim int) error {
	if dim < 0 || dim > CellDim(c) {
		return errDim(dim, CellDim(c))
	}
	return nil
}
