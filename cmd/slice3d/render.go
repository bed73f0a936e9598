package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gogpu/gg"
	"github.com/spf13/cobra"

	"github.com/smasonuk/slice3d"
	"github.com/smasonuk/slice3d/ggraster"
)

var (
	renderOut    string
	renderWidth  int
	renderHeight int
	renderBG     string
)

var renderCmd = &cobra.Command{
	Use:   "render [scene.toml]",
	Short: "Render a scene to a PNG image",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "slice3d.png", "output PNG file")
	renderCmd.Flags().IntVar(&renderWidth, "width", 800, "image width in pixels")
	renderCmd.Flags().IntVar(&renderHeight, "height", 800, "image height in pixels")
	renderCmd.Flags().StringVar(&renderBG, "background", "#ffffff", "background color")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	if renderWidth <= 0 || renderHeight <= 0 {
		return fmt.Errorf("image size %dx%d", renderWidth, renderHeight)
	}
	cfg, err := loadScene(args)
	if err != nil {
		return err
	}
	start := time.Now()
	_, s, err := cfg.Build()
	if err != nil {
		return err
	}

	d := ggraster.New(renderWidth, renderHeight, gg.Hex(renderBG))
	defer d.Close()
	if cfg.View.Extent > 0 {
		d.SetExtent(cfg.View.Extent)
	}
	if err := s.Render(d); err != nil {
		return err
	}
	if err := d.SavePNG(renderOut); err != nil {
		return err
	}
	slice3d.Logger().Info("rendered",
		slog.String("file", renderOut),
		slog.Int("polygons", s.Tree.Count()),
		slog.Duration("elapsed", time.Since(start)))
	return nil
}
