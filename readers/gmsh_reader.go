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

// gmshElementType maps the linear Gmsh 2.2 element types to topology tags
var gmshElementType = map[int]topology.Tag{
	1:  topology.Line,
	2:  topology.Triangle,
	3:  topology.Quad,
	4:  topology.Tet,
	5:  topology.Hex,
	6:  topology.Prism,
	7:  topology.Pyramid,
	15: topology.Vertex,
}

type gmshElement struct {
	rawElement
	physical int
}

// ReadGmsh reads a Gmsh 2.2 ASCII mesh file (.msh)
func ReadGmsh(filename string) (*Grid, error) {
	file, err := openGrid(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ParseGmsh(file)
}

// ParseGmsh parses the ASCII Gmsh 2.2 format. Elements of the highest
// dimension present are the cells; their physical groups become Grid.Groups.
// Lower dimensional elements become Grid.Markers keyed by physical name, or
// by "physical <tag>" when the group is unnamed. Element types outside the
// linear set are skipped.
func ParseGmsh(r io.Reader) (*Grid, error) {
	var (
		gb        = newGridBuilder()
		scanner   = bufio.NewScanner(r)
		lineNum   int
		names     = make(map[int]string)
		nodeIndex = make(map[int]int)
		elements  []gmshElement
		hasFormat bool
	)
	const maxScanTokenSize = 1024 * 1024 * 10 // 10MB
	scanner.Buffer(make([]byte, 64*1024), maxScanTokenSize)

	next := func() (string, bool) {
		if !scanner.Scan() {
			return "", false
		}
		lineNum++
		return strings.TrimSpace(scanner.Text()), true
	}
	count := func(section string) (int, error) {
		line, ok := next()
		if !ok {
			return 0, fmt.Errorf("unexpected EOF in %s", section)
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			return 0, fmt.Errorf("line %d: invalid count in %s: %w", lineNum, section, err)
		}
		return n, nil
	}
	skipTo := func(end string) error {
		for {
			line, ok := next()
			if !ok {
				return fmt.Errorf("unexpected EOF looking for %s", end)
			}
			if line == end {
				return nil
			}
		}
	}

	for {
		line, ok := next()
		if !ok {
			break
		}
		switch line {
		case "$MeshFormat":
			if line, ok = next(); !ok {
				return nil, fmt.Errorf("unexpected EOF in MeshFormat")
			}
			parts := strings.Fields(line)
			if len(parts) < 3 {
				return nil, fmt.Errorf("line %d: invalid MeshFormat line", lineNum)
			}
			if !strings.HasPrefix(parts[0], "2") {
				return nil, fmt.Errorf("%w: Gmsh version %s", ErrUnsupportedFormat, parts[0])
			}
			if parts[1] != "0" {
				return nil, fmt.Errorf("%w: binary Gmsh files", ErrUnsupportedFormat)
			}
			hasFormat = true
			if err := skipTo("$EndMeshFormat"); err != nil {
				return nil, err
			}

		case "$PhysicalNames":
			n, err := count("PhysicalNames")
			if err != nil {
				return nil, err
			}
			for i := 0; i < n; i++ {
				if line, ok = next(); !ok {
					return nil, fmt.Errorf("unexpected EOF in PhysicalNames")
				}
				fields := strings.Fields(line)
				if len(fields) < 3 {
					return nil, fmt.Errorf("line %d: invalid physical name entry", lineNum)
				}
				tag, err := strconv.Atoi(fields[1])
				if err != nil {
					return nil, fmt.Errorf("line %d: invalid physical tag: %w", lineNum, err)
				}
				names[tag] = strings.Trim(strings.Join(fields[2:], " "), "\"")
			}
			if err = skipTo("$EndPhysicalNames"); err != nil {
				return nil, err
			}

		case "$Nodes":
			n, err := count("Nodes")
			if err != nil {
				return nil, err
			}
			gb.points = make([]r3.Vec, 0, n)
			for i := 0; i < n; i++ {
				if line, ok = next(); !ok {
					return nil, fmt.Errorf("unexpected EOF in Nodes at node %d", i)
				}
				fields := strings.Fields(line)
				if len(fields) < 4 {
					return nil, fmt.Errorf("line %d: invalid node entry", lineNum)
				}
				nodeID, err := strconv.Atoi(fields[0])
				if err != nil {
					return nil, fmt.Errorf("line %d: invalid node ID: %w", lineNum, err)
				}
				var coords [3]float64
				for j := range coords {
					if coords[j], err = strconv.ParseFloat(fields[j+1], 64); err != nil {
						return nil, fmt.Errorf("line %d: invalid coordinate: %w", lineNum, err)
					}
				}
				if _, dup := nodeIndex[nodeID]; dup {
					return nil, fmt.Errorf("line %d: duplicate node ID %d", lineNum, nodeID)
				}
				nodeIndex[nodeID] = len(gb.points)
				gb.points = append(gb.points, r3.Vec{X: coords[0], Y: coords[1], Z: coords[2]})
			}
			if err = skipTo("$EndNodes"); err != nil {
				return nil, err
			}

		case "$Elements":
			n, err := count("Elements")
			if err != nil {
				return nil, err
			}
			for i := 0; i < n; i++ {
				if line, ok = next(); !ok {
					return nil, fmt.Errorf("unexpected EOF in Elements at element %d", i)
				}
				el, known, err := parseGmshElement(line, nodeIndex)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNum, err)
				}
				if known {
					elements = append(elements, el)
				}
			}
			if err = skipTo("$EndElements"); err != nil {
				return nil, err
			}

		case "$Periodic", "$NodeData", "$ElementData", "$ElementNodeData":
			if err := skipTo("$End" + line[1:]); err != nil {
				return nil, err
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	if !hasFormat {
		return nil, fmt.Errorf("no $MeshFormat section found")
	}

	cellDim := 0
	for _, el := range elements {
		cellDim = max(cellDim, el.tag.Dim())
	}
	for _, el := range elements {
		name, named := names[el.physical]
		if !named {
			name = fmt.Sprintf("physical %d", el.physical)
		}
		if el.tag.Dim() == cellDim {
			if el.physical != 0 {
				gb.groups[name] = append(gb.groups[name], len(gb.cells))
			}
			gb.cells = append(gb.cells, el.rawElement)
			continue
		}
		// Lower dimensional elements outside a physical group are only
		// construction geometry
		if el.physical != 0 {
			ms := gb.marker(name)
			ms.elements = append(ms.elements, el.rawElement)
		}
	}
	return gb.build()
}

// parseGmshElement reads "id type ntags tag... node..." with node IDs mapped
// to point indices. The first tag is the physical group.
func parseGmshElement(line string, nodeIndex map[int]int) (el gmshElement, known bool, err error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		err = fmt.Errorf("invalid element entry")
		return
	}
	var gmshType, numTags int
	if gmshType, err = strconv.Atoi(fields[1]); err != nil {
		err = fmt.Errorf("invalid element type: %w", err)
		return
	}
	if numTags, err = strconv.Atoi(fields[2]); err != nil {
		err = fmt.Errorf("invalid number of tags: %w", err)
		return
	}
	if el.tag, known = gmshElementType[gmshType]; !known {
		return
	}
	startIdx := 3 + numTags
	numNodes := el.tag.NumVertices()
	if len(fields) < startIdx+numNodes {
		err = fmt.Errorf("element type %v expects %d nodes, got %d",
			el.tag, numNodes, max(0, len(fields)-startIdx))
		return
	}
	if numTags > 0 {
		if el.physical, err = strconv.Atoi(fields[3]); err != nil {
			err = fmt.Errorf("invalid tag: %w", err)
			return
		}
	}
	el.nodes = make([]int, numNodes)
	for j := range el.nodes {
		var nodeID int
		if nodeID, err = strconv.Atoi(fields[startIdx+j]); err != nil {
			err = fmt.Errorf("invalid node ID: %w", err)
			return
		}
		idx, ok := nodeIndex[nodeID]
		if !ok {
			err = fmt.Errorf("node ID %d not defined in $Nodes", nodeID)
			return
		}
		el.nodes[j] = idx
	}
	return
}
