package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/smasonuk/slice3d"
)

var infoDump bool

var infoCmd = &cobra.Command{
	Use:   "info [scene.toml]",
	Short: "Display the mesh, cuts and compositing tree of a scene",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInfo,
}

func init() {
	infoCmd.Flags().BoolVar(&infoDump, "dump", false, "print the resolved scene as TOML")
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(args)
	if err != nil {
		return err
	}
	if infoDump {
		return cfg.Encode(os.Stdout)
	}
	m, s, err := cfg.Build()
	if err != nil {
		return err
	}
	lo, hi := m.Bounds()

	fmt.Println("Mesh")
	fmt.Println("====")
	fmt.Printf("  Kind: %v\n", m.Kind())
	fmt.Printf("  Cells: %d\n", m.NumCells())
	fmt.Printf("  Vertices: %d\n", m.NumVertices())
	fmt.Printf("  Bounds: %v - %v\n", lo, hi)
	fmt.Printf("  Fields: %v\n", m.FieldNames())
	fmt.Printf("  Chunks: %d of at most %d cells\n\n", slice3d.CountChunks(m, cfg.Options.ChunkLimit), cfg.Options.ChunkLimit)

	fmt.Println("Compositing tree")
	fmt.Println("================")
	fmt.Printf("  State: %v\n", s.Tree.State())
	fmt.Printf("  Nodes: %d\n", s.Tree.Len())
	fmt.Printf("  Depth: %d\n", s.Tree.Depth())
	fmt.Printf("  Polygons: %d\n", s.Tree.Count())
	fmt.Printf("  Draw lists: %d\n", len(s.Collect()))
	return nil
}
