//go:build ebiten

package desktop

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/hoshinonyaruko/snake-solo/render"
	"github.com/hoshinonyaruko/snake-solo/session"
	"github.com/hoshinonyaruko/snake-solo/snake"
	"github.com/hoshinonyaruko/snake-solo/structs"
	"github.com/hoshinonyaruko/snake-solo/touch"
)

var (
	backgroundColor = color.RGBA{0x1b, 0x1e, 0x24, 0xff}
	wallColor       = color.RGBA{0x4a, 0x4f, 0x5a, 0xff}
	headColor       = color.RGBA{0x7c, 0xe0, 0x6b, 0xff}
	bodyColor       = color.RGBA{0x3f, 0xa3, 0x3a, 0xff}
	foodColor       = color.RGBA{0xe8, 0x4a, 0x4a, 0xff}
	shadeColor      = color.RGBA{0, 0, 0, 0xa0}
)

var directionKeys = map[ebiten.Key]structs.Direction{
	ebiten.KeyArrowUp:    structs.Up,
	ebiten.KeyW:          structs.Up,
	ebiten.KeyArrowDown:  structs.Down,
	ebiten.KeyS:          structs.Down,
	ebiten.KeyArrowLeft:  structs.Left,
	ebiten.KeyA:          structs.Left,
	ebiten.KeyArrowRight: structs.Right,
	ebiten.KeyD:          structs.Right,
}

// Game adapts the engine to the ebiten.Game interface. Ebiten calls
// Update and Draw from one goroutine, so the engine is used unlocked.
type Game struct {
	engine  *snake.Engine
	step    *session.FixedStep
	tracker touch.Tracker
	cfg     Config

	grid             render.Grid
	screenW, screenH int

	touchIDs []ebiten.TouchID
	touchID  ebiten.TouchID
	touching bool
	mouse    bool

	err string
}

// New constructs a Game on the menu screen.
func New(cfg Config) *Game {
	cfg = cfg.withDefaults()
	return &Game{
		engine:  snake.NewEngine(cfg.Seed),
		step:    session.NewFixedStep(cfg.Interval),
		tracker: touch.Tracker{Threshold: cfg.DragThreshold},
		cfg:     cfg,
		screenW: cfg.Width,
		screenH: cfg.Height,
	}
}

// Update handles input and advances the game on its fixed step.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	g.updateTouch()
	g.updateMouse()
	for key, d := range directionKeys {
		if inpututil.IsKeyJustPressed(key) {
			g.engine.SetDirection(d)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.startIfIdle()
	}

	if g.engine.Status() == structs.StatusPlaying && g.step.ShouldStep() {
		g.engine.Tick()
	}
	return nil
}

func (g *Game) updateTouch() {
	if g.touching {
		if inpututil.IsTouchJustReleased(g.touchID) {
			g.touching = false
			g.pointerUp()
			return
		}
		x, y := ebiten.TouchPosition(g.touchID)
		g.pointerMove(x, y)
		return
	}
	g.touchIDs = inpututil.AppendJustPressedTouchIDs(g.touchIDs[:0])
	if len(g.touchIDs) > 0 {
		g.touchID = g.touchIDs[0]
		g.touching = true
		x, y := ebiten.TouchPosition(g.touchID)
		g.pointerDown(x, y)
	}
}

func (g *Game) updateMouse() {
	x, y := ebiten.CursorPosition()
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		g.mouse = true
		g.pointerDown(x, y)
	case g.mouse && inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		g.mouse = false
		g.pointerUp()
	case g.mouse:
		g.pointerMove(x, y)
	}
}

// pointerDown 非游戏中时点击即开局
func (g *Game) pointerDown(x, y int) {
	if g.startIfIdle() {
		return
	}
	g.tracker.Begin(float64(x), float64(y))
}

func (g *Game) pointerMove(x, y int) {
	if d, ok := g.tracker.Move(float64(x), float64(y)); ok {
		g.engine.SetDirection(d)
	}
}

func (g *Game) pointerUp() {
	if d, ok := g.tracker.End(); ok {
		g.engine.SetDirection(d)
	}
}

// startIfIdle starts a game unless one is running and reports whether it
// did. The grid is recomputed from the current window size.
func (g *Game) startIfIdle() bool {
	if g.engine.Status() == structs.StatusPlaying {
		return false
	}
	grid, err := render.Layout(g.screenW, g.screenH-g.cfg.PanelHeight, g.cfg.Columns)
	if err == nil {
		err = g.engine.Start(grid.Width, grid.Height)
	}
	if err != nil {
		g.err = err.Error()
		return true
	}
	g.err = ""
	g.grid = grid
	g.step.Reset()
	return true
}

// Draw renders the score panel and the board.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	switch g.engine.Status() {
	case structs.StatusMenu:
		msg := "SNAKE\n\nTAP TO START\nDRAG TO STEER"
		if g.err != "" {
			msg += "\n\n" + g.err
		}
		ebitenutil.DebugPrintAt(screen, msg, g.screenW/2-48, g.screenH/2-32)
		return
	}

	g.drawBoard(screen)
	ebitenutil.DebugPrintAt(screen,
		fmt.Sprintf("SCORE %d   BEST %d", g.engine.Score(), g.engine.HighScore()), 8, 8)

	if g.engine.Status().Terminal() {
		vector.DrawFilledRect(screen, 0, 0, float32(g.screenW), float32(g.screenH), shadeColor, false)
		title := "GAME OVER"
		if g.engine.Status() == structs.StatusWon {
			title = "YOU WIN"
		}
		msg := fmt.Sprintf("%s\n\nSCORE %d\nBEST  %d\n\nTAP TO PLAY AGAIN",
			title, g.engine.Score(), g.engine.HighScore())
		ebitenutil.DebugPrintAt(screen, msg, g.screenW/2-56, g.screenH/2-40)
	}
}

func (g *Game) drawBoard(screen *ebiten.Image) {
	cs := float32(g.grid.CellSize)
	top := float32(g.cfg.PanelHeight)
	cell := func(i int, c color.Color) {
		x := float32(i%g.grid.Width) * cs
		y := top + float32(i/g.grid.Width)*cs
		vector.DrawFilledRect(screen, x+1, y+1, cs-2, cs-2, c, false)
	}

	for i := 0; i < g.grid.Width*g.grid.Height; i++ {
		if g.engine.IsWall(i) {
			cell(i, wallColor)
		}
	}
	if g.engine.Status() != structs.StatusWon {
		cell(g.engine.Food(), foodColor)
	}
	body := g.engine.Snake()
	for n, i := range body {
		if n == len(body)-1 {
			cell(i, headColor)
			continue
		}
		cell(i, bodyColor)
	}
}

// Layout tracks the window size; the grid is sized from it at each start.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.screenW, g.screenH = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}
