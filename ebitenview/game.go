package ebitenview

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/smasonuk/slice3d"
)

const (
	ScreenWidth  = 640
	ScreenHeight = 480
)

// Game spins a scene and lets the mouse turn it.
type Game struct {
	scene  *slice3d.Scene
	drawer *Drawer

	// Spin is the rotation per frame about the viewer's x and y axes.
	Spin       [2]float64
	Background color.Color

	lastX, lastY int
	dragging     bool
	err          error
}

func NewGame(scene *slice3d.Scene) *Game {
	return &Game{
		scene:      scene,
		drawer:     NewDrawer(),
		Spin:       [2]float64{0.005, 0.009},
		Background: color.Black,
	}
}

func (g *Game) Drawer() *Drawer { return g.drawer }

func (g *Game) Update() error {
	if g.err != nil {
		return g.err
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.dragging = true
		g.lastX, g.lastY = ebiten.CursorPosition()
	}
	if g.dragging {
		x, y := ebiten.CursorPosition()
		g.scene.View.Rot3(float64(y-g.lastY)/200, float64(x-g.lastX)/200, 0)
		g.lastX, g.lastY = x, y
	} else {
		g.scene.View.Rot3(g.Spin[0], g.Spin[1], 0)
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.dragging = false
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.Background)
	g.drawer.Target(screen, ScreenWidth, ScreenHeight)
	if err := g.scene.Render(g.drawer); err != nil {
		g.err = err
		return
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %0.2f  nodes: %d", ebiten.ActualFPS(), g.scene.Tree.Len()))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}
