package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/smasonuk/slice3d"
	"github.com/smasonuk/slice3d/scene"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "slice3d",
	Short: "Slice meshes and composite the slices into images",
	Long: `slice3d cuts 3-D meshes with planes, isosurfaces and solids read from a TOML
scene file, then draws the resulting polygons back to front.`,
	Version: "0.1.0",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slice3d.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output")
}

// loadScene reads the file named in args, or the demo scene without one.
func loadScene(args []string) (*scene.Config, error) {
	if len(args) == 0 {
		return scene.Demo(), nil
	}
	return scene.Load(args[0])
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
