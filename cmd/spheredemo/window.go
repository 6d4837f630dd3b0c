package main

import (
	"math"
	"time"

	"icon-sphere-renderer/internal/engine"
	"icon-sphere-renderer/internal/interact"
	"icon-sphere-renderer/internal/sphere"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// sphereGame hosts one engine in an ebiten window. The engine works in
// logical pixels; the layout is device pixels.
type sphereGame struct {
	eng    *engine.Engine
	surf   *ebitenSurface
	items  []sphere.Item
	next   int
	width  int
	height int
	dpr    float64
	inside bool
	lastX  float64
	lastY  float64
	status *status
}

// runWindow opens the window and blocks until it closes.
func runWindow(eng *engine.Engine, surf *ebitenSurface, st *status, items []sphere.Item, width, height int, title string) error {
	g := &sphereGame{
		eng:    eng,
		status: st,
		surf:   surf,
		items:  items,
		width:  width,
		height: height,
		dpr:    1,
	}
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

func (g *sphereGame) Update() error {
	g.pointer()

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) && len(g.items) > 0 {
		g.eng.Center(g.items[g.next%len(g.items)].Key)
		g.next++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	g.eng.Tick(time.Now())
	return nil
}

// pointer turns ebiten's polled mouse state into engine pointer events.
func (g *sphereGame) pointer() {
	cx, cy := ebiten.CursorPosition()
	x, y := float64(cx)/g.dpr, float64(cy)/g.dpr
	in := ebiten.IsFocused() && x >= 0 && y >= 0 && x < float64(g.width) && y < float64(g.height)

	if !in {
		if g.inside {
			g.eng.HandlePointer(interact.Event{Kind: interact.Leave})
		}
		g.inside = false
		return
	}
	if !g.inside || x != g.lastX || y != g.lastY {
		g.eng.HandlePointer(interact.Event{Kind: interact.Move, X: x, Y: y})
	}
	g.inside, g.lastX, g.lastY = true, x, y

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.eng.HandlePointer(interact.Event{Kind: interact.Down, X: x, Y: y})
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.eng.HandlePointer(interact.Event{Kind: interact.Up, X: x, Y: y})
	}
}

func (g *sphereGame) Draw(screen *ebiten.Image) {
	if g.surf.target == nil {
		return
	}
	screen.DrawImage(g.surf.target, nil)
	if line := g.status.String(); line != "" {
		ebitenutil.DebugPrint(screen, line)
	}
}

func (g *sphereGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	dpr := ebiten.Monitor().DeviceScaleFactor()
	if dpr <= 0 {
		dpr = 1
	}
	if outsideWidth != g.width || outsideHeight != g.height || dpr != g.dpr {
		g.width, g.height, g.dpr = outsideWidth, outsideHeight, dpr
		g.eng.Resize(outsideWidth, outsideHeight, dpr)
	}
	return int(math.Round(float64(outsideWidth) * dpr)), int(math.Round(float64(outsideHeight) * dpr))
}
