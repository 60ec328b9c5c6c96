package ui

import (
	"gridsnake/config"
	"gridsnake/game"
	"gridsnake/game/types"
	"gridsnake/ui/view"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	targetFPS    = 60
	statusHeight = 32
)

// Renderer draws snapshots in a raylib window and maps key presses to
// intents. All methods must be called from the main goroutine.
type Renderer struct {
	cfg    config.Config
	layout view.Layout

	screenWidth  int32
	screenHeight int32
	boardHeight  int32
	fontSize     int32

	bg, snake, head, food, text rl.Color
}

func NewRenderer(cfg config.Config) *Renderer {
	w, h := cfg.WindowSize()
	r := &Renderer{
		cfg:          cfg,
		layout:       view.NewLayout(cfg),
		screenWidth:  int32(w),
		screenHeight: int32(h) + statusHeight,
		boardHeight:  int32(h),
		bg:           toColor(cfg.Background),
		snake:        toColor(cfg.Snake),
		food:         toColor(cfg.Food),
		text:         toColor(cfg.Text),
	}
	r.head = brighten(r.snake, 1.3)
	r.fontSize = min(statusHeight-8, r.screenWidth/30)
	return r
}

// Open creates the window.
func (r *Renderer) Open(title string) {
	rl.InitWindow(r.screenWidth, r.screenHeight, title)
	rl.SetTargetFPS(targetFPS)
}

func (r *Renderer) Close() {
	rl.CloseWindow()
}

func (r *Renderer) ShouldClose() bool {
	return rl.WindowShouldClose() || rl.IsKeyPressed(rl.KeyQ)
}

var directionKeys = []struct {
	key int32
	dir types.Direction
}{
	{rl.KeyUp, types.Up},
	{rl.KeyW, types.Up},
	{rl.KeyRight, types.Right},
	{rl.KeyD, types.Right},
	{rl.KeyDown, types.Down},
	{rl.KeyS, types.Down},
	{rl.KeyLeft, types.Left},
	{rl.KeyA, types.Left},
}

// PollIntents reads this frame's key presses in a fixed order.
func (r *Renderer) PollIntents() []game.Intent {
	var intents []game.Intent
	for _, k := range directionKeys {
		if rl.IsKeyPressed(k.key) {
			intents = append(intents, game.Move(k.dir))
		}
	}
	if rl.IsKeyPressed(rl.KeySpace) || rl.IsKeyPressed(rl.KeyEnter) {
		intents = append(intents, game.ToggleStart())
	}
	if rl.IsKeyPressed(rl.KeyP) {
		intents = append(intents, game.TogglePause())
	}
	if rl.IsKeyPressed(rl.KeyR) {
		intents = append(intents, game.Restart())
	}
	return intents
}

func (r *Renderer) Draw(snap game.Snapshot) {
	rl.BeginDrawing()
	rl.ClearBackground(r.bg)

	for i, c := range snap.Body {
		color := r.snake
		if i == len(snap.Body)-1 {
			color = r.head
		}
		r.fillCell(c, color)
	}
	if len(snap.Body) > 0 {
		tri := view.Arrow(r.layout.Cell(snap.Head()), snap.Direction)
		rl.DrawTriangle(vec(tri[0]), vec(tri[1]), vec(tri[2]), r.text)
	}

	if snap.HasFood {
		r.fillCell(snap.Food, r.food)
	}

	rl.DrawText(view.Status(snap), 8, r.boardHeight+(statusHeight-r.fontSize)/2, r.fontSize, r.text)

	if msg := view.Overlay(snap); msg != "" {
		width := rl.MeasureText(msg, r.fontSize)
		x := (r.screenWidth - width) / 2
		y := (r.boardHeight - r.fontSize) / 2
		rl.DrawRectangle(x-8, y-8, width+16, r.fontSize+16, rl.Fade(rl.Black, 0.6))
		rl.DrawText(msg, x, y, r.fontSize, r.text)
	}

	rl.EndDrawing()
}

func (r *Renderer) fillCell(c types.Cell, color rl.Color) {
	rect := r.layout.Cell(c)
	rl.DrawRectangle(rect.X, rect.Y, rect.W, rect.H, color)
}

func vec(p view.Point) rl.Vector2 {
	return rl.Vector2{X: p.X, Y: p.Y}
}

func toColor(c config.Color) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: 255}
}

func brighten(c rl.Color, f float32) rl.Color {
	scale := func(v uint8) uint8 {
		s := float32(v) * f
		if s > 255 {
			return 255
		}
		return uint8(s)
	}
	return rl.Color{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A}
}
