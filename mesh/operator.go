package mesh

import (
	"fmt"

	"github.com/james-bowman/sparse"
)

// BoundaryOperator assembles the oriented boundary matrix of dimension k of c.
// Row i is the i-th (k-1)-element and column j the j-th k-element, both in
// c.Elements order. Entry (i, j) is the incidence sign of row i in the
// boundary chain of column j.
func BoundaryOperator[P any](c Collection[P], k int) (D *sparse.CSR, err error) {
	if k < 1 || k > CellDim(c) {
		err = fmt.Errorf("%w: boundary operator of dimension %d outside [1,%d]",
			ErrInvalidDimension, k, CellDim(c))
		return
	}
	var (
		root = c.Root()
		rows = c.Elements(k - 1)
		cols = c.Elements(k)
	)
	if len(rows) == 0 || len(cols) == 0 {
		err = fmt.Errorf("%w: no elements of dimension %d or %d in the collection",
			ErrInvalidDimension, k-1, k)
		return
	}
	rowIndex := make(map[Handle]int, len(rows))
	for i, h := range rows {
		rowIndex[h] = i
	}
	SpD := sparse.NewDOK(len(rows), len(cols))
	for j, h := range cols {
		el := root.element(h)
		for i, f := range el.Facets {
			SpD.Set(rowIndex[f], j, float64(el.Signs[i]))
		}
	}
	D = SpD.ToCSR()
	return
}
