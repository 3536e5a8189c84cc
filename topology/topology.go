package topology

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownTag = errors.New("unknown topology tag")

// Tag identifies the shape class of a mesh element
type Tag uint8

const (
	Vertex Tag = iota
	Line
	Triangle
	Quad
	Tet
	Hex
	Prism
	Pyramid
	numTags
)

func (t Tag) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Tag(%d)", uint8(t))
	}
	return descriptors[t].Name
}

// Family groups tags whose orientation rules are the same
type Family uint8

const (
	Point Family = iota
	Simplex
	Hypercube
	Mixed
)

func (f Family) String() string {
	return [...]string{"Point", "Simplex", "Hypercube", "Mixed"}[f]
}

// FacetDef is one entry of a tag's static incidence table. Vertices index into
// the parent's vertex list and are listed in the facet's induced orientation.
type FacetDef struct {
	Tag      Tag
	Vertices []int
	Sign     int
}

// Descriptor is the static description of a topology tag
type Descriptor struct {
	Tag         Tag
	Name        string
	Dim         int
	NumVertices int
	Family      Family
	Facets      []FacetDef
}

var descriptors = [numTags]Descriptor{
	Vertex: {Tag: Vertex, Name: "Vertex", Dim: 0, NumVertices: 1, Family: Point},
	Line: {Tag: Line, Name: "Line", Dim: 1, NumVertices: 2, Family: Simplex,
		Facets: []FacetDef{
			{Vertex, []int{0}, -1},
			{Vertex, []int{1}, 1},
		}},
	Triangle: {Tag: Triangle, Name: "Triangle", Dim: 2, NumVertices: 3, Family: Simplex,
		Facets: []FacetDef{
			{Line, []int{0, 1}, 1},
			{Line, []int{1, 2}, 1},
			{Line, []int{2, 0}, 1},
		}},
	Quad: {Tag: Quad, Name: "Quad", Dim: 2, NumVertices: 4, Family: Hypercube,
		Facets: []FacetDef{
			{Line, []int{0, 1}, 1},
			{Line, []int{1, 2}, 1},
			{Line, []int{2, 3}, 1},
			{Line, []int{3, 0}, 1},
		}},
	// Faces of the 3D tags are listed with outward normals
	Tet: {Tag: Tet, Name: "Tet", Dim: 3, NumVertices: 4, Family: Simplex,
		Facets: []FacetDef{
			{Triangle, []int{0, 2, 1}, 1},
			{Triangle, []int{0, 1, 3}, 1},
			{Triangle, []int{1, 2, 3}, 1},
			{Triangle, []int{0, 3, 2}, 1},
		}},
	Hex: {Tag: Hex, Name: "Hex", Dim: 3, NumVertices: 8, Family: Hypercube,
		Facets: []FacetDef{
			{Quad, []int{0, 3, 2, 1}, 1}, // bottom
			{Quad, []int{4, 5, 6, 7}, 1}, // top
			{Quad, []int{0, 1, 5, 4}, 1},
			{Quad, []int{1, 2, 6, 5}, 1},
			{Quad, []int{2, 3, 7, 6}, 1},
			{Quad, []int{3, 0, 4, 7}, 1},
		}},
	Prism: {Tag: Prism, Name: "Prism", Dim: 3, NumVertices: 6, Family: Mixed,
		Facets: []FacetDef{
			{Triangle, []int{0, 2, 1}, 1}, // bottom tri
			{Triangle, []int{3, 4, 5}, 1}, // top tri
			{Quad, []int{0, 1, 4, 3}, 1},
			{Quad, []int{1, 2, 5, 4}, 1},
			{Quad, []int{2, 0, 3, 5}, 1},
		}},
	Pyramid: {Tag: Pyramid, Name: "Pyramid", Dim: 3, NumVertices: 5, Family: Mixed,
		Facets: []FacetDef{
			{Quad, []int{0, 3, 2, 1}, 1}, // base quad
			{Triangle, []int{0, 1, 4}, 1},
			{Triangle, []int{1, 2, 4}, 1},
			{Triangle, []int{2, 3, 4}, 1},
			{Triangle, []int{3, 0, 4}, 1},
		}},
}

// MaxDim is the highest topological dimension of any tag
const MaxDim = 3

func (t Tag) Valid() bool { return t < numTags }

// Lookup returns the descriptor for t
func Lookup(t Tag) (Descriptor, error) {
	if !t.Valid() {
		return Descriptor{}, fmt.Errorf("%w: %d", ErrUnknownTag, uint8(t))
	}
	return descriptors[t], nil
}

func (t Tag) Dim() int         { return descriptors[t].Dim }
func (t Tag) NumVertices() int { return descriptors[t].NumVertices }
func (t Tag) NumFacets() int   { return len(descriptors[t].Facets) }
func (t Tag) Family() Family   { return descriptors[t].Family }

// Facets returns the static facet table of t. The returned slice is shared
// and must not be modified.
func (t Tag) Facets() []FacetDef { return descriptors[t].Facets }

// Tags returns all known tags in declaration order
func Tags() []Tag {
	tags := make([]Tag, numTags)
	for i := range tags {
		tags[i] = Tag(i)
	}
	return tags
}

// ParseTag parses a tag name, case-insensitively. "Tetrahedron", "Hexahedron",
// "Edge", "Point" and "Wedge" are accepted as aliases.
func ParseTag(name string) (Tag, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "point":
		return Vertex, nil
	case "edge":
		return Line, nil
	case "tetrahedron":
		return Tet, nil
	case "hexahedron":
		return Hex, nil
	case "wedge":
		return Prism, nil
	}
	for i := range descriptors {
		if strings.ToLower(descriptors[i].Name) == n {
			return Tag(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTag, name)
}
