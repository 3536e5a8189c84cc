package topology

import (
	"slices"
)

// SubElement is a k-dimensional piece of the closure of a tag, expressed with
// local vertex indices of the parent
type SubElement struct {
	Tag      Tag
	Vertices []int
}

// subElements[tag][k] is filled once from the facet tables
var subElements [numTags][][]SubElement

func init() {
	for t := Tag(0); t < numTags; t++ {
		subElements[t] = buildSubElements(t)
	}
}

func buildSubElements(t Tag) (levels [][]SubElement) {
	var (
		d = t.Dim()
		n = t.NumVertices()
	)
	levels = make([][]SubElement, d+1)
	all := make([]int, n)
	for i := range all {
		all[i] = i
	}
	levels[d] = []SubElement{{Tag: t, Vertices: all}}
	if d == 0 {
		return
	}
	levels[0] = make([]SubElement, n)
	for i := 0; i < n; i++ {
		levels[0][i] = SubElement{Tag: Vertex, Vertices: []int{i}}
	}
	for k := d - 1; k > 0; k-- {
		var (
			seen = make(map[string]bool)
		)
		for _, f := range t.Facets() {
			var cands []SubElement
			if f.Tag.Dim() == k {
				cands = []SubElement{{Tag: f.Tag, Vertices: f.Vertices}}
			} else {
				// Map the facet's own sub-elements back to parent local indices
				for _, se := range subElements[f.Tag][k] {
					local := make([]int, len(se.Vertices))
					for i, v := range se.Vertices {
						local[i] = f.Vertices[v]
					}
					cands = append(cands, SubElement{Tag: se.Tag, Vertices: local})
				}
			}
			for _, c := range cands {
				key := sortedKey(c.Vertices)
				if seen[key] {
					continue
				}
				seen[key] = true
				levels[k] = append(levels[k], SubElement{Tag: c.Tag, Vertices: slices.Clone(c.Vertices)})
			}
		}
	}
	return
}

func sortedKey(verts []int) string {
	s := slices.Clone(verts)
	slices.Sort(s)
	b := make([]byte, 0, len(s)*2)
	for _, v := range s {
		b = append(b, byte(v), ',')
	}
	return string(b)
}

// SubElements returns the unique k-dimensional sub-elements of t in first-seen
// order through the facet tables. Tet gives 4 faces, 6 edges and 4 vertices.
// Element closures below the facet level are resolved through this table.
func SubElements(t Tag, k int) []SubElement {
	if !t.Valid() || k < 0 || k > t.Dim() {
		return nil
	}
	return subElements[t][k]
}

// NumSubElements is len(SubElements(t, k))
func NumSubElements(t Tag, k int) int {
	return len(SubElements(t, k))
}
