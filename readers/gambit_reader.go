package readers

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/meshtopo/topology"
)

// gambitElementTypeMap maps Gambit element type codes to topology tags
var gambitElementTypeMap = map[int]topology.Tag{
	1: topology.Line,     // Edge
	2: topology.Quad,     // Quadrilateral
	3: topology.Triangle, // Triangle
	4: topology.Hex,      // Brick
	5: topology.Prism,    // Wedge
	6: topology.Tet,      // Tetrahedron
	7: topology.Pyramid,  // Pyramid
}

// ReadGambitNeutral reads a Gambit neutral file (.neu)
func ReadGambitNeutral(filename string) (*Grid, error) {
	file, err := openGrid(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ParseGambitNeutral(file)
}

// ParseGambitNeutral parses the Gambit neutral format. Node and element IDs
// are 1-based in the file. Element groups become Grid.Groups; boundary
// condition sets become Grid.Markers holding either the referenced cell
// faces or, for node sets, the referenced vertices. Cell nodes are taken in
// the vertex order of the matching topology tag and face numbers index the
// cell's facet table.
func ParseGambitNeutral(r io.Reader) (*Grid, error) {
	var (
		gb      = newGridBuilder()
		scanner = bufio.NewScanner(r)
		// Control variables from header
		numnp, nelem, ngrps, nbsets int
		ndfcd                       = 3
		lineNum                     int
	)
	next := func() (string, bool) {
		if !scanner.Scan() {
			return "", false
		}
		lineNum++
		return scanner.Text(), true
	}
	atoi := func(s string) (int, error) {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("line %d: %w", lineNum, err)
		}
		return v, nil
	}

	// Read control info section
	for {
		raw, ok := next()
		if !ok {
			return nil, fmt.Errorf("missing control info section")
		}
		line := strings.TrimSpace(raw)
		if strings.HasPrefix(line, "** GAMBIT NEUTRAL FILE") {
			if raw, ok = next(); ok {
				gb.title = strings.TrimSpace(raw)
			}
			continue
		}
		if strings.Contains(line, "NUMNP") && strings.Contains(line, "NELEM") {
			// Next line contains the actual values
			if raw, ok = next(); !ok {
				return nil, fmt.Errorf("unexpected EOF after control header")
			}
			values := strings.Fields(raw)
			if len(values) < 4 {
				return nil, fmt.Errorf("line %d: expected at least 4 control values, got %d",
					lineNum, len(values))
			}
			counts := []*int{&numnp, &nelem, &ngrps, &nbsets, &ndfcd}
			for i := 0; i < len(counts) && i < len(values); i++ {
				var err error
				if *counts[i], err = atoi(values[i]); err != nil {
					return nil, err
				}
			}
			break
		}
	}
	if ndfcd < 2 || ndfcd > 3 {
		return nil, fmt.Errorf("unsupported coordinate dimension: NDFCD=%d", ndfcd)
	}

	// Continue reading sections
	for {
		raw, ok := next()
		if !ok {
			break
		}
		line := strings.TrimSpace(raw)

		switch {
		case line == "ENDOFSECTION":
			continue

		case strings.Contains(line, "NODAL COORDINATES"):
			gb.points = make([]r3.Vec, numnp)
			for i := 0; i < numnp; i++ {
				if raw, ok = next(); !ok {
					return nil, fmt.Errorf("unexpected EOF reading nodes")
				}
				fields := strings.Fields(raw)
				if len(fields) < 1+ndfcd {
					return nil, fmt.Errorf("line %d: invalid node line", lineNum)
				}
				nodeID, err := atoi(fields[0])
				if err != nil {
					return nil, err
				}
				// Gambit uses 1-based node IDs
				idx := nodeID - 1
				if idx < 0 || idx >= numnp {
					return nil, fmt.Errorf("line %d: node ID %d out of range", lineNum, nodeID)
				}
				var coords [3]float64
				for j := 0; j < ndfcd; j++ {
					if coords[j], err = strconv.ParseFloat(fields[1+j], 64); err != nil {
						return nil, fmt.Errorf("line %d: invalid coordinate: %w", lineNum, err)
					}
				}
				gb.points[idx] = r3.Vec{X: coords[0], Y: coords[1], Z: coords[2]}
			}

		case strings.Contains(line, "ELEMENTS/CELLS"):
			gb.cells = make([]rawElement, nelem)
			for i := 0; i < nelem; i++ {
				if raw, ok = next(); !ok {
					return nil, fmt.Errorf("unexpected EOF reading elements")
				}
				fields := strings.Fields(raw)
				if len(fields) < 3 {
					return nil, fmt.Errorf("line %d: invalid element line", lineNum)
				}
				var elemID, gambitType, numNodes int
				for j, p := range []*int{&elemID, &gambitType, &numNodes} {
					var err error
					if *p, err = atoi(fields[j]); err != nil {
						return nil, err
					}
				}
				tag, known := gambitElementTypeMap[gambitType]
				if !known {
					return nil, fmt.Errorf("line %d: unknown element type: %d", lineNum, gambitType)
				}
				if numNodes != tag.NumVertices() {
					return nil, fmt.Errorf("line %d: %s expects %d nodes, got %d",
						lineNum, tag, tag.NumVertices(), numNodes)
				}
				if elemID < 1 || elemID > nelem {
					return nil, fmt.Errorf("line %d: element ID %d out of range", lineNum, elemID)
				}
				// Node lists wrap after seven entries
				ids := fields[3:]
				for len(ids) < numNodes {
					if raw, ok = next(); !ok {
						return nil, fmt.Errorf("unexpected EOF reading element %d", elemID)
					}
					ids = append(ids, strings.Fields(raw)...)
				}
				nodes := make([]int, numNodes)
				for j := range nodes {
					nodeID, err := atoi(ids[j])
					if err != nil {
						return nil, err
					}
					nodes[j] = nodeID - 1
				}
				gb.cells[elemID-1] = rawElement{tag: tag, nodes: nodes}
			}

		case strings.Contains(line, "ELEMENT GROUP"):
			if err := parseGambitGroup(gb, next, atoi); err != nil {
				return nil, err
			}

		case strings.Contains(line, "BOUNDARY CONDITIONS"):
			if err := parseGambitBoundarySet(gb, next, atoi); err != nil {
				return nil, err
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	for i, c := range gb.cells {
		if c.nodes == nil {
			return nil, fmt.Errorf("element %d missing from ELEMENTS/CELLS", i+1)
		}
	}
	return gb.build()
}

// parseGambitGroup reads one ELEMENT GROUP section
func parseGambitGroup(gb *gridBuilder, next func() (string, bool), atoi func(string) (int, error)) error {
	raw, ok := next()
	if !ok {
		return fmt.Errorf("unexpected EOF reading element group")
	}
	groupLine := strings.TrimSpace(raw)
	if !strings.HasPrefix(groupLine, "GROUP:") {
		return fmt.Errorf("expected GROUP:, got: %s", groupLine)
	}
	var numElems, nflags int
	parts := strings.Fields(groupLine)
	for i := 0; i < len(parts)-1; i++ {
		var err error
		switch parts[i] {
		case "ELEMENTS:":
			numElems, err = atoi(parts[i+1])
		case "NFLAGS:":
			nflags, err = atoi(parts[i+1])
		}
		if err != nil {
			return err
		}
	}

	// Read entity name
	if raw, ok = next(); !ok {
		return fmt.Errorf("unexpected EOF reading group name")
	}
	entityName := strings.TrimSpace(raw)

	// Solver dependent flags are not used
	if nflags > 0 {
		if _, ok = next(); !ok {
			return fmt.Errorf("unexpected EOF reading flags of group %s", entityName)
		}
	}

	cells := gb.groups[entityName]
	for read := 0; read < numElems; {
		if raw, ok = next(); !ok {
			return fmt.Errorf("unexpected EOF reading elements of group %s", entityName)
		}
		for _, field := range strings.Fields(raw) {
			elemID, err := atoi(field)
			if err != nil {
				return err
			}
			// Elements are 1-indexed in file, 0-indexed in mesh
			cells = append(cells, elemID-1)
			read++
		}
	}
	gb.groups[entityName] = cells
	return nil
}

// parseGambitBoundarySet reads one BOUNDARY CONDITIONS section
// Format: NAME ITYPE NENTRY NVALUES IBCODE1 ...
func parseGambitBoundarySet(gb *gridBuilder, next func() (string, bool), atoi func(string) (int, error)) error {
	raw, ok := next()
	if !ok {
		return fmt.Errorf("unexpected EOF reading boundary conditions")
	}
	parts := strings.Fields(raw)
	if len(parts) < 3 {
		return fmt.Errorf("invalid boundary condition header: %s", strings.TrimSpace(raw))
	}
	bcName := parts[0]
	itype, err := atoi(parts[1]) // 0=node, 1=element/cell
	if err != nil {
		return err
	}
	nentry, err := atoi(parts[2])
	if err != nil {
		return err
	}
	ms := gb.marker(bcName)
	for i := 0; i < nentry; i++ {
		if raw, ok = next(); !ok {
			return fmt.Errorf("unexpected EOF reading boundary set %s", bcName)
		}
		fields := strings.Fields(raw)
		if len(fields) < 1 {
			return fmt.Errorf("empty entry in boundary set %s", bcName)
		}
		id, err := atoi(fields[0])
		if err != nil {
			return err
		}
		if itype == 0 {
			ms.elements = append(ms.elements, rawElement{tag: topology.Vertex, nodes: []int{id - 1}})
			continue
		}
		if len(fields) < 3 {
			return fmt.Errorf("invalid entry in boundary set %s", bcName)
		}
		faceID, err := atoi(fields[2])
		if err != nil {
			return err
		}
		// Face IDs are 1-based
		ms.faces = append(ms.faces, cellFace{cell: id - 1, face: faceID - 1})
	}
	return nil
}
