package readers

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/meshtopo/mesh"
	"github.com/notargets/meshtopo/topology"
)

var (
	// ErrFileAccess wraps failures to open a grid file
	ErrFileAccess        = errors.New("unable to access grid file")
	ErrUnsupportedFormat = errors.New("unsupported grid format")
)

// Grid is a mesh read from a file along with the named sub-collections the
// file defines. Marker and group names map to views of the mesh.
type Grid struct {
	Title    string
	Mesh     *mesh.Mesh[r3.Vec]
	Vertices []mesh.Handle // In file order
	Cells    []mesh.Handle // In file order
	Markers  map[string]*mesh.View[r3.Vec]
	Groups   map[string]*mesh.View[r3.Vec]
}

// MarkerNames returns the marker names sorted
func (g *Grid) MarkerNames() []string {
	names := make([]string, 0, len(g.Markers))
	for name := range g.Markers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

type rawElement struct {
	tag   topology.Tag
	nodes []int
}

type cellFace struct {
	cell, face int
}

// markerSet is a named boundary set: elements given by node indices (a
// Vertex tag refers to a single node) and faces given by cell and facet
type markerSet struct {
	name     string
	elements []rawElement
	faces    []cellFace
}

// gridBuilder collects the file contents, sections may appear in any order,
// and builds the mesh once everything has been read
type gridBuilder struct {
	title       string
	points      []r3.Vec
	cells       []rawElement
	markers     []*markerSet
	markerIndex map[string]*markerSet
	groups      map[string][]int
}

func newGridBuilder() *gridBuilder {
	return &gridBuilder{
		markerIndex: make(map[string]*markerSet),
		groups:      make(map[string][]int),
	}
}

// marker returns the named set, creating it on first use
func (gb *gridBuilder) marker(name string) *markerSet {
	ms, ok := gb.markerIndex[name]
	if !ok {
		ms = &markerSet{name: name}
		gb.markerIndex[name] = ms
		gb.markers = append(gb.markers, ms)
	}
	return ms
}

func (gb *gridBuilder) cellTag() (tag topology.Tag, err error) {
	maxDim := 0
	for _, c := range gb.cells {
		if d := c.tag.Dim(); d > maxDim {
			tag, maxDim = c.tag, d
		}
	}
	if maxDim == 0 {
		err = fmt.Errorf("no cells in grid")
	}
	return
}

func (gb *gridBuilder) handles(g *Grid, nodes []int) ([]mesh.Handle, error) {
	verts := make([]mesh.Handle, len(nodes))
	for i, n := range nodes {
		if n < 0 || n >= len(g.Vertices) {
			return nil, fmt.Errorf("node index %d out of range [0,%d)", n, len(g.Vertices))
		}
		verts[i] = g.Vertices[n]
	}
	return verts, nil
}

func (gb *gridBuilder) build() (g *Grid, err error) {
	var (
		cellTag topology.Tag
	)
	if cellTag, err = gb.cellTag(); err != nil {
		return
	}
	g = &Grid{
		Title:   gb.title,
		Markers: make(map[string]*mesh.View[r3.Vec]),
		Groups:  make(map[string]*mesh.View[r3.Vec]),
	}
	if g.Mesh, err = mesh.NewMesh[r3.Vec](cellTag); err != nil {
		return nil, err
	}
	for _, p := range gb.points {
		g.Vertices = append(g.Vertices, g.Mesh.CreateVertex(p))
	}
	for i, c := range gb.cells {
		var (
			verts []mesh.Handle
			h     mesh.Handle
		)
		if verts, err = gb.handles(g, c.nodes); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		if h, err = g.Mesh.CreateElement(c.tag, verts); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		g.Cells = append(g.Cells, h)
	}
	for name, cells := range gb.groups {
		v := mesh.NewView[r3.Vec](g.Mesh)
		for _, c := range cells {
			if c < 0 || c >= len(g.Cells) {
				return nil, fmt.Errorf("group %s: element %d out of range", name, c+1)
			}
			if err = v.Add(g.Cells[c]); err != nil {
				return nil, err
			}
		}
		g.Groups[name] = v
	}
	for _, ms := range gb.markers {
		if g.Markers[ms.name], err = gb.buildMarker(g, ms); err != nil {
			return nil, err
		}
	}
	return
}

func (gb *gridBuilder) buildMarker(g *Grid, ms *markerSet) (v *mesh.View[r3.Vec], err error) {
	v = mesh.NewView[r3.Vec](g.Mesh)
	for i, e := range ms.elements {
		var verts []mesh.Handle
		if verts, err = gb.handles(g, e.nodes); err != nil {
			return nil, fmt.Errorf("marker %s element %d: %w", ms.name, i, err)
		}
		if e.tag == topology.Vertex {
			err = v.Add(verts[0])
		} else {
			_, err = v.CreateElement(e.tag, verts)
		}
		if err != nil {
			return nil, fmt.Errorf("marker %s element %d: %w", ms.name, i, err)
		}
	}
	for _, cf := range ms.faces {
		if cf.cell < 0 || cf.cell >= len(g.Cells) {
			return nil, fmt.Errorf("marker %s: element %d out of range", ms.name, cf.cell+1)
		}
		el, _ := g.Mesh.Dereference(g.Cells[cf.cell])
		if cf.face < 0 || cf.face >= len(el.Facets) {
			return nil, fmt.Errorf("marker %s: face %d out of range for %s",
				ms.name, cf.face+1, el.Tag)
		}
		if err = v.Add(el.Facets[cf.face]); err != nil {
			return nil, err
		}
	}
	return
}

// ReadMeshFile reads a grid file based on extension
func ReadMeshFile(filename string) (*Grid, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".neu":
		return ReadGambitNeutral(filename)
	case ".su2":
		return ReadSU2(filename)
	case ".msh":
		return ReadGmsh(filename)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

func openGrid(filename string) (*os.File, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileAccess, err)
	}
	return file, nil
}
