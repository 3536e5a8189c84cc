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

// su2ElementTypeMap maps SU2/VTK element type identifiers to topology tags
var su2ElementTypeMap = map[int]topology.Tag{
	3:  topology.Line,     // VTK_LINE
	5:  topology.Triangle, // VTK_TRIANGLE
	9:  topology.Quad,     // VTK_QUAD
	10: topology.Tet,      // VTK_TETRA
	12: topology.Hex,      // VTK_HEXAHEDRON
	13: topology.Prism,    // VTK_WEDGE
	14: topology.Pyramid,  // VTK_PYRAMID
}

// ReadSU2 reads an SU2 native format file
func ReadSU2(filename string) (*Grid, error) {
	file, err := openGrid(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ParseSU2(file)
}

// ParseSU2 parses SU2 native format. Element and node IDs are implicit and
// zero based; a trailing explicit ID from the legacy format is ignored.
// Each marker becomes a view holding its boundary elements.
func ParseSU2(r io.Reader) (*Grid, error) {
	var (
		gb                 = newGridBuilder()
		scanner            = bufio.NewScanner(r)
		ndime, lineNum     int
		hasNDIME, hasNPOIN bool
	)
	next := func() (string, bool) {
		if !scanner.Scan() {
			return "", false
		}
		lineNum++
		return scanner.Text(), true
	}

	for {
		raw, ok := next()
		if !ok {
			break
		}
		line := strings.TrimSpace(raw)

		// Skip comments (text after %)
		if idx := strings.Index(line, "%"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "NDIME="):
			hasNDIME = true
			if _, err := fmt.Sscanf(line, "NDIME=%d", &ndime); err != nil {
				return nil, fmt.Errorf("line %d: invalid NDIME: %w", lineNum, err)
			}
			if ndime != 2 && ndime != 3 {
				return nil, fmt.Errorf("line %d: unsupported dimension: NDIME=%d", lineNum, ndime)
			}

		case strings.HasPrefix(line, "NPOIN="):
			if !hasNDIME {
				return nil, fmt.Errorf("line %d: NPOIN= before NDIME=", lineNum)
			}
			hasNPOIN = true
			var npoin int
			if _, err := fmt.Sscanf(line, "NPOIN=%d", &npoin); err != nil {
				return nil, fmt.Errorf("line %d: invalid NPOIN: %w", lineNum, err)
			}
			gb.points = make([]r3.Vec, npoin)
			for i := 0; i < npoin; i++ {
				raw, ok := next()
				if !ok {
					return nil, fmt.Errorf("unexpected EOF reading nodes")
				}
				fields := strings.Fields(raw)
				if len(fields) < ndime {
					return nil, fmt.Errorf("line %d: invalid node line: expected at least %d coordinates",
						lineNum, ndime)
				}
				var coords [3]float64 // Always store 3D coordinates
				for j := 0; j < ndime; j++ {
					c, err := strconv.ParseFloat(fields[j], 64)
					if err != nil {
						return nil, fmt.Errorf("line %d: invalid coordinate: %w", lineNum, err)
					}
					coords[j] = c
				}
				gb.points[i] = r3.Vec{X: coords[0], Y: coords[1], Z: coords[2]}
			}

		case strings.HasPrefix(line, "NELEM="):
			var nelem int
			if _, err := fmt.Sscanf(line, "NELEM=%d", &nelem); err != nil {
				return nil, fmt.Errorf("line %d: invalid NELEM: %w", lineNum, err)
			}
			gb.cells = make([]rawElement, 0, nelem)
			for i := 0; i < nelem; i++ {
				raw, ok := next()
				if !ok {
					return nil, fmt.Errorf("unexpected EOF reading elements")
				}
				el, err := parseSU2Element(raw)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNum, err)
				}
				gb.cells = append(gb.cells, el)
			}

		case strings.HasPrefix(line, "NMARK="):
			var nmark int
			if _, err := fmt.Sscanf(line, "NMARK=%d", &nmark); err != nil {
				return nil, fmt.Errorf("line %d: invalid NMARK: %w", lineNum, err)
			}
			for i := 0; i < nmark; i++ {
				// Read MARKER_TAG= line
				raw, ok := next()
				if !ok {
					return nil, fmt.Errorf("unexpected EOF reading marker %d", i)
				}
				markerLine := strings.TrimSpace(raw)
				if !strings.HasPrefix(markerLine, "MARKER_TAG=") {
					return nil, fmt.Errorf("line %d: expected MARKER_TAG=, got: %s", lineNum, markerLine)
				}
				tagName := strings.TrimSpace(strings.TrimPrefix(markerLine, "MARKER_TAG="))

				// Read MARKER_ELEMS= line
				if raw, ok = next(); !ok {
					return nil, fmt.Errorf("unexpected EOF reading marker elements for %s", tagName)
				}
				elemLine := strings.TrimSpace(raw)
				var nMarkerElems int
				if _, err := fmt.Sscanf(elemLine, "MARKER_ELEMS=%d", &nMarkerElems); err != nil {
					return nil, fmt.Errorf("line %d: invalid MARKER_ELEMS line: %s", lineNum, elemLine)
				}

				ms := gb.marker(tagName)
				for j := 0; j < nMarkerElems; j++ {
					if raw, ok = next(); !ok {
						return nil, fmt.Errorf("unexpected EOF reading boundary elements")
					}
					el, err := parseSU2Element(raw)
					if err != nil {
						return nil, fmt.Errorf("line %d: marker %s: %w", lineNum, tagName, err)
					}
					if el.tag.Dim() != ndime-1 {
						return nil, fmt.Errorf("line %d: marker %s: %s is not a boundary element for NDIME=%d",
							lineNum, tagName, el.tag, ndime)
					}
					ms.elements = append(ms.elements, el)
				}
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	// Validate that we read the required sections
	if !hasNDIME {
		return nil, fmt.Errorf("missing required NDIME= section")
	}
	if !hasNPOIN {
		return nil, fmt.Errorf("missing required NPOIN= section")
	}
	return gb.build()
}

func parseSU2Element(line string) (el rawElement, err error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		err = fmt.Errorf("invalid element line")
		return
	}
	su2Type, err := strconv.Atoi(fields[0])
	if err != nil {
		err = fmt.Errorf("invalid element type: %w", err)
		return
	}
	tag, ok := su2ElementTypeMap[su2Type]
	if !ok {
		err = fmt.Errorf("unknown element type: %d", su2Type)
		return
	}
	numNodes := tag.NumVertices()
	if len(fields) < numNodes+1 {
		err = fmt.Errorf("element type %v expects %d nodes, got %d fields",
			tag, numNodes, len(fields)-1)
		return
	}
	el = rawElement{tag: tag, nodes: make([]int, numNodes)}
	for j := 0; j < numNodes; j++ {
		if el.nodes[j], err = strconv.Atoi(fields[1+j]); err != nil {
			err = fmt.Errorf("invalid node index: %w", err)
			return
		}
	}
	return
}
