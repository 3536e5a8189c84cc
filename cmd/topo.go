/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"log"
	"math"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/meshtopo/InputParameters"
	"github.com/notargets/meshtopo/geometry"
	"github.com/notargets/meshtopo/mesh"
	"github.com/notargets/meshtopo/readers"
)

type ModelTopo struct {
	GridFile string
	ICFile   string
}

const exampleInputFile = `
########################################
Title: "Test Case"
CellType: Tet # Any cell type is accepted when empty
Markers: # All markers are reported when empty
  - wall
CheckManifold: true
PrintBoundary: true
Incidence: # Source and target dimension of co-boundary statistics
  - [2, 3]
  - [0, 3]
########################################
`

// TopoCmd represents the topo command
var TopoCmd = &cobra.Command{
	Use:   "topo",
	Short: "Build and report the topology of a grid file",
	Long: `
Reads a grid in Gambit neutral (.neu), SU2 (.su2) or Gmsh 2.2 (.msh) format, builds the full incidence
of its elements and reports element counts, markers, boundary and co-boundary statistics.

meshtopo topo -F grid.neu -I input.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		mt := &ModelTopo{
			GridFile: viper.GetString("gridFile"),
			ICFile:   viper.GetString("inputConditionsFile"),
		}
		ip := processTopoInput(mt)
		if err := RunTopo(os.Stdout, mt, ip); err != nil {
			log.Fatal(err)
		}
	},
}

func processTopoInput(mt *ModelTopo) (ip *InputParameters.TopoParameters) {
	if len(mt.GridFile) == 0 {
		err := fmt.Errorf("must supply a grid file (-F, --gridFile) in .neu (Gambit neutral file), .su2 or .msh (Gmsh 2.2) format")
		fmt.Printf("error: %s\n", err.Error())
		fmt.Printf("Example Input File (-I, --inputConditionsFile):%s\n", exampleInputFile)
		os.Exit(1)
	}
	ip, err := readTopoParameters(mt.ICFile)
	if err != nil {
		log.Fatal(err)
	}
	return
}

// readTopoParameters returns default parameters when filename is empty
func readTopoParameters(filename string) (ip *InputParameters.TopoParameters, err error) {
	ip = &InputParameters.TopoParameters{}
	if len(filename) == 0 {
		return
	}
	var data []byte
	if data, err = os.ReadFile(filename); err != nil {
		return nil, err
	}
	if err = ip.Parse(data); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return
}

func RunTopo(w io.Writer, mt *ModelTopo, ip *InputParameters.TopoParameters) (err error) {
	var (
		g *readers.Grid
	)
	if g, err = readers.ReadMeshFile(mt.GridFile); err != nil {
		return
	}
	if tag, ok := ip.CellTag(); ok && tag != g.Mesh.CellTag() {
		return fmt.Errorf("grid %s has %s cells, expected %s", mt.GridFile, g.Mesh.CellTag(), tag)
	}
	if len(ip.Title) != 0 {
		fmt.Fprintf(w, "%s\n", ip.Title)
	} else if len(g.Title) != 0 {
		fmt.Fprintf(w, "%s\n", g.Title)
	}
	mesh.FprintStatistics[r3.Vec](w, g.Mesh)

	var vol float64
	if vol, err = geometry.TotalVolume(g.Mesh); err != nil {
		return
	}
	fmt.Fprintf(w, "  Total measure: %8.5f\n", vol)

	if err = printMarkers(w, g, ip.Markers); err != nil {
		return
	}
	if ip.CheckManifold {
		if err = mesh.CheckManifold[r3.Vec](g.Mesh); err != nil {
			return
		}
		fmt.Fprintf(w, "Manifold check passed\n")
	}
	if ip.PrintBoundary {
		fmt.Fprintf(w, "Boundary:\n")
		for d := 0; d < g.Mesh.CellDim(); d++ {
			var bnd []mesh.Handle
			if bnd, err = mesh.BoundaryElements[r3.Vec](g.Mesh, d); err != nil {
				return
			}
			fmt.Fprintf(w, "  Dimension %d: %d\n", d, len(bnd))
		}
	}
	for _, pair := range ip.Incidence {
		if err = printIncidence(w, g.Mesh, pair[0], pair[1]); err != nil {
			return
		}
	}
	return
}

func printMarkers(w io.Writer, g *readers.Grid, names []string) error {
	if len(names) == 0 {
		names = g.MarkerNames()
	}
	if len(names) == 0 {
		return nil
	}
	fmt.Fprintf(w, "Markers:\n")
	for _, name := range names {
		v, ok := g.Markers[name]
		if !ok {
			return fmt.Errorf("marker %s not found in grid", name)
		}
		fmt.Fprintf(w, "  %s:", name)
		for d := 0; d < g.Mesh.CellDim(); d++ {
			fmt.Fprintf(w, " %d", v.Size(d))
		}
		fmt.Fprintf(w, "\n")
	}
	return nil
}

// printIncidence reports the range and mean of the co-boundary size of the
// source dimension elements at the target dimension
func printIncidence(w io.Writer, m *mesh.Mesh[r3.Vec], source, target int) error {
	var (
		minN, maxN = math.MaxInt, 0
		total      int
		n          = m.Size(source)
	)
	for h := range m.All(source) {
		cob, err := mesh.CoBoundary[r3.Vec](m, h, target)
		if err != nil {
			return err
		}
		minN, maxN = min(minN, len(cob)), max(maxN, len(cob))
		total += len(cob)
	}
	if n == 0 {
		minN = 0
	}
	fmt.Fprintf(w, "Incidence %d -> %d: min %d, max %d, mean %8.5f\n",
		source, target, minN, maxN, float64(total)/float64(max(n, 1)))
	return nil
}

func init() {
	rootCmd.AddCommand(TopoCmd)
	TopoCmd.Flags().StringP("gridFile", "F", "", "Grid file to read in Gambit (.neu), SU2 (.su2) or Gmsh (.msh) format")
	TopoCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- CellType\n\t- Markers\n\t- Incidence")
	_ = viper.BindPFlag("gridFile", TopoCmd.Flags().Lookup("gridFile"))
	_ = viper.BindPFlag("inputConditionsFile", TopoCmd.Flags().Lookup("inputConditionsFile"))
}
