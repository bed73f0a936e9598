package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/smasonuk/slice3d"
	"github.com/smasonuk/slice3d/ebitenview"
	"github.com/smasonuk/slice3d/scene"
)

func main() {
	slice3d.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cfg := scene.Demo()
	if len(os.Args) > 1 {
		var err error
		if cfg, err = scene.Load(os.Args[1]); err != nil {
			log.Fatal(err)
		}
	}
	_, s, err := cfg.Build()
	if err != nil {
		log.Fatal(err)
	}

	g := ebitenview.NewGame(s)
	if cfg.View.Extent > 0 {
		g.Drawer().SetExtent(cfg.View.Extent)
	}
	ebiten.SetWindowSize(ebitenview.ScreenWidth, ebitenview.ScreenHeight)
	ebiten.SetWindowTitle("slice3d")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
