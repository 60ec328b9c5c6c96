// Package view turns snapshots into geometry and text. It has no graphics
// dependency so both the window and the terminal hosts share it.
package view

import (
	"fmt"

	"gridsnake/config"
	"gridsnake/game"
	"gridsnake/game/manager"
	"gridsnake/game/types"
)

type Rect struct {
	X, Y, W, H int32
}

type Point struct {
	X, Y float32
}

// Layout maps grid cells to pixels. Each tile is inset by the padding so
// neighbouring segments stay visually separate.
type Layout struct {
	tileW, tileH int32
	padding      int32
}

func NewLayout(cfg config.Config) Layout {
	return Layout{
		tileW:   int32(cfg.TileWidth),
		tileH:   int32(cfg.TileHeight),
		padding: int32(cfg.Padding),
	}
}

// Cell returns the rectangle drawn for c.
func (l Layout) Cell(c types.Cell) Rect {
	return Rect{
		X: int32(c.X)*l.tileW + l.padding,
		Y: int32(c.Y)*l.tileH + l.padding,
		W: l.tileW - l.padding,
		H: l.tileH - l.padding,
	}
}

// Arrow is the triangle pointing out of the head tile in dir.
func Arrow(r Rect, dir types.Direction) [3]Point {
	x, y := float32(r.X), float32(r.Y)
	w, h := float32(r.W), float32(r.H)
	hw, hh := w/2, h/2

	// counter-clockwise winding, as raylib expects
	switch dir {
	case types.Right:
		return [3]Point{{x + w, y + hh}, {x + hw, y}, {x + hw, y + h}}
	case types.Left:
		return [3]Point{{x, y + hh}, {x + hw, y + h}, {x + hw, y}}
	case types.Down:
		return [3]Point{{x + hw, y + h}, {x + w, y + hh}, {x, y + hh}}
	default:
		return [3]Point{{x + hw, y}, {x, y + hh}, {x + w, y + hh}}
	}
}

// Overlay is the centred message for the lifecycle state, empty while
// playing.
func Overlay(snap game.Snapshot) string {
	switch snap.State {
	case manager.Waiting:
		return "Press SPACE to start"
	case manager.Paused:
		return "Paused - press P to resume"
	case manager.Dead:
		return fmt.Sprintf("Game over! Score %d - press R to restart", snap.Score)
	case manager.Won:
		return fmt.Sprintf("Board cleared! Score %d - press R to restart", snap.Score)
	}
	return ""
}

// Status is the one-line score summary.
func Status(snap game.Snapshot) string {
	return fmt.Sprintf("Score %d  Best %d  Games %d  Avg %.2f",
		snap.Score, snap.BestScore, snap.GamesPlayed, snap.AverageScore)
}
