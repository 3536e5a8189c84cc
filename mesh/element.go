package mesh

import (
	"fmt"
	"strings"

	"github.com/notargets/meshtopo/topology"
)

// Element is an immutable record of a stored mesh entity
type Element struct {
	Tag topology.Tag
	// ID is unique within the mesh and increases with creation order
	ID       int
	Vertices []Handle
	// Facets are the dim-1 boundary elements in the order of the tag's facet table
	Facets []Handle
	// Orientations[i] maps the order induced on facet i onto its stored order
	Orientations []topology.Permutation
	// Signs[i] is the incidence of facet i in this element's boundary chain
	Signs []int
}

func (e Element) Dim() int { return e.Tag.Dim() }

func (e Element) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s[%d] verts:", e.Tag, e.ID)
	for _, v := range e.Vertices {
		fmt.Fprintf(&sb, " %d", v.index)
	}
	return sb.String()
}
