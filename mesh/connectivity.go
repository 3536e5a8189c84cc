package mesh

import (
	"fmt"
)

// Face is a unique facet of a collection's cells, with the first cell that
// referenced it
type Face struct {
	Handle  Handle
	Element int // Position of the owning cell in Connectivity.Cells
	LocalID int // Local facet index within the owning cell
}

// Connectivity is the cell to cell adjacency of a collection in the layout
// used by DG solvers
type Connectivity struct {
	Cells         []Handle
	EToE          [][]int // Element to element connectivity [ncells][nfacets], -1 on the boundary
	EToF          [][]int // Element to neighbor local facet [ncells][nfacets], -1 on the boundary
	Faces         []Face
	FaceMap       map[Handle]int
	BoundaryFaces int
}

// BuildConnectivity derives the face adjacency of the cells of c. Facets are
// deduplicated by the mesh, so two cells sharing a facet share its handle.
func BuildConnectivity[P any](c Collection[P]) (conn *Connectivity, err error) {
	var (
		root  = c.Root()
		cells = c.Elements(CellDim(c))
	)
	conn = &Connectivity{
		Cells:   cells,
		EToE:    make([][]int, len(cells)),
		EToF:    make([][]int, len(cells)),
		FaceMap: make(map[Handle]int),
	}
	shared := make(map[Handle]int)
	for elemID, cell := range cells {
		facets := root.element(cell).Facets
		conn.EToE[elemID] = make([]int, len(facets))
		conn.EToF[elemID] = make([]int, len(facets))
		for i := range facets {
			conn.EToE[elemID][i] = -1
			conn.EToF[elemID][i] = -1
		}
		for localFaceID, f := range facets {
			faceID, exists := conn.FaceMap[f]
			if !exists {
				conn.FaceMap[f] = len(conn.Faces)
				conn.Faces = append(conn.Faces, Face{
					Handle:  f,
					Element: elemID,
					LocalID: localFaceID,
				})
				continue
			}
			if shared[f]++; shared[f] > 1 {
				return nil, fmt.Errorf("%w: facet %v is shared by more than two cells",
					ErrTopologyInconsistency, f)
			}
			var (
				face            = conn.Faces[faceID]
				neighborElem    = face.Element
				neighborLocalID = face.LocalID
			)
			conn.EToE[elemID][localFaceID] = neighborElem
			conn.EToE[neighborElem][neighborLocalID] = elemID
			conn.EToF[elemID][localFaceID] = neighborLocalID
			conn.EToF[neighborElem][neighborLocalID] = localFaceID
		}
	}
	for _, neighbors := range conn.EToE {
		for _, n := range neighbors {
			if n < 0 {
				conn.BoundaryFaces++
			}
		}
	}
	return
}

func (conn *Connectivity) NumFaces() int { return len(conn.Faces) }
