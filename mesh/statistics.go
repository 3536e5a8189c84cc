package mesh

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/notargets/meshtopo/topology"
)

// TagCounts counts the elements of dimension dim in c by topology tag
func TagCounts[P any](c Collection[P], dim int) map[topology.Tag]int {
	var (
		root   = c.Root()
		counts = make(map[topology.Tag]int)
	)
	for h := range c.All(dim) {
		counts[root.element(h).Tag]++
	}
	return counts
}

// PrintStatistics writes element counts and the boundary facet count to stdout
func PrintStatistics[P any](c Collection[P]) {
	FprintStatistics(os.Stdout, c)
}

func FprintStatistics[P any](w io.Writer, c Collection[P]) {
	var (
		cellDim = CellDim(c)
	)
	fmt.Fprintf(w, "Mesh Statistics:\n")
	for d := 0; d <= cellDim; d++ {
		fmt.Fprintf(w, "  Dimension %d: %d\n", d, c.Size(d))
	}

	counts := TagCounts(c, cellDim)
	tags := slices.Sorted(maps.Keys(counts))
	fmt.Fprintf(w, "  Cell types:\n")
	for _, t := range tags {
		fmt.Fprintf(w, "    %s: %d\n", t, counts[t])
	}

	bnd, err := BoundaryElements(c, cellDim-1)
	if err != nil {
		fmt.Fprintf(w, "  Boundary faces: %v\n", err)
		return
	}
	fmt.Fprintf(w, "  Boundary faces: %d\n", len(bnd))
}
