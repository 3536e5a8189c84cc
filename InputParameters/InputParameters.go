package InputParameters

import (
	"fmt"
	"sort"

	"github.com/ghodss/yaml"

	"github.com/notargets/meshtopo/topology"
)

// Parameters obtained from the YAML input file
type TopoParameters struct {
	Title         string   `yaml:"Title"`
	CellType      string   `yaml:"CellType"` // Expected cell topology, empty accepts any
	Markers       []string `yaml:"Markers"`  // Markers to report, empty reports all
	CheckManifold bool     `yaml:"CheckManifold"`
	PrintBoundary bool     `yaml:"PrintBoundary"`
	Incidence     [][2]int `yaml:"Incidence"` // Pairs of source and target dimension for co-boundary statistics
}

func (ip *TopoParameters) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, ip); err != nil {
		return err
	}
	return ip.Validate()
}

// Validate checks the cell type name and the incidence dimensions
func (ip *TopoParameters) Validate() error {
	if ip.CellType != "" {
		if _, err := topology.ParseTag(ip.CellType); err != nil {
			return err
		}
	}
	for _, pair := range ip.Incidence {
		if pair[0] < 0 || pair[1] > topology.MaxDim || pair[0] >= pair[1] {
			return fmt.Errorf("invalid incidence pair %v, need 0 <= source < target <= %d",
				pair, topology.MaxDim)
		}
	}
	return nil
}

// CellTag returns the parsed CellType, ok is false when any cell type is accepted
func (ip *TopoParameters) CellTag() (tag topology.Tag, ok bool) {
	if ip.CellType == "" {
		return
	}
	tag, err := topology.ParseTag(ip.CellType)
	return tag, err == nil
}

func (ip *TopoParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t\t\t= Cell Type\n", ip.CellType)
	fmt.Printf("%v\t\t\t= Check Manifold\n", ip.CheckManifold)
	fmt.Printf("%v\t\t\t= Print Boundary\n", ip.PrintBoundary)
	markers := append([]string(nil), ip.Markers...)
	sort.Strings(markers)
	for _, m := range markers {
		fmt.Printf("Markers[%s]\n", m)
	}
	for _, pair := range ip.Incidence {
		fmt.Printf("Incidence[%d -> %d]\n", pair[0], pair[1])
	}
}
