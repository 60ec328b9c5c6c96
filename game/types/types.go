package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// Smallest grid that still fits the spawn body plus one free inner cell for food.
const (
	MinGridWidth  = 5
	MinGridHeight = 4
)

// Cell is a single tile on the grid.
type Cell struct {
	X, Y int
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Direction is one of the four cardinal headings.
type Direction int

const (
	Up Direction = iota
	Right
	Down
	Left
)

// Opposite returns the heading a snake may never reverse into.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Right:
		return Left
	case Down:
		return Up
	default:
		return Right
	}
}

// TurnLeft returns the heading after a quarter turn counter-clockwise.
func (d Direction) TurnLeft() Direction {
	return (d + 3) % 4
}

// TurnRight returns the heading after a quarter turn clockwise.
func (d Direction) TurnRight() Direction {
	return (d + 1) % 4
}

// Delta converts a Direction into a one-tile displacement (y grows downwards).
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Right:
		return 1, 0
	case Down:
		return 0, 1
	default:
		return -1, 0
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// Directions lists every heading in a fixed order.
var Directions = [4]Direction{Up, Right, Down, Left}

// EdgePolicy decides what happens when the head leaves the grid.
type EdgePolicy int

const (
	// EdgeWrap re-enters at the opposite edge.
	EdgeWrap EdgePolicy = iota
	// EdgeWall keeps the head in place and reports the step as blocked.
	EdgeWall
)

func (e EdgePolicy) String() string {
	switch e {
	case EdgeWrap:
		return "wrap"
	case EdgeWall:
		return "wall"
	}
	return fmt.Sprintf("edge(%d)", int(e))
}

// ParseEdgePolicy accepts "wrap" or "wall" in any case.
func ParseEdgePolicy(s string) (EdgePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wrap":
		return EdgeWrap, nil
	case "wall":
		return EdgeWall, nil
	}
	return EdgeWrap, errors.Errorf("unknown edge policy %q (want wrap or wall)", s)
}

// Grid represents the game grid dimensions and its edge policy.
type Grid struct {
	Width  int
	Height int
	Edge   EdgePolicy
}

// Contains reports whether c lies on the grid.
func (g Grid) Contains(c Cell) bool {
	return c.X >= 0 && c.X < g.Width && c.Y >= 0 && c.Y < g.Height
}

// IsInner reports whether c lies inside the outer ring of tiles.
func (g Grid) IsInner(c Cell) bool {
	return c.X >= 1 && c.X <= g.Width-2 && c.Y >= 1 && c.Y <= g.Height-2
}

// Step moves c one tile in direction d. The returned cell is always on the
// grid; the bool is false only under EdgeWall when the step would leave it,
// in which case c is returned unchanged.
func (g Grid) Step(c Cell, d Direction) (Cell, bool) {
	dx, dy := d.Delta()
	next := Cell{X: c.X + dx, Y: c.Y + dy}
	if g.Contains(next) {
		return next, true
	}
	if g.Edge == EdgeWall {
		return c, false
	}
	next.X = (next.X + g.Width) % g.Width
	next.Y = (next.Y + g.Height) % g.Height
	return next, true
}

// Distance is the Manhattan distance between two cells, taking the shorter
// way around when the grid wraps.
func (g Grid) Distance(a, b Cell) int {
	dx := abs(b.X - a.X)
	dy := abs(b.Y - a.Y)

	if g.Edge == EdgeWrap {
		if dx > g.Width/2 {
			dx = g.Width - dx
		}
		if dy > g.Height/2 {
			dy = g.Height - dy
		}
	}

	return dx + dy
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// GridConfig is the per-session configuration snapshot. It is immutable for
// the lifetime of a session.
type GridConfig struct {
	Width  int           `validate:"gte=5"`
	Height int           `validate:"gte=4"`
	Tick   time.Duration `validate:"gt=0"`
	Edge   EdgePolicy    `validate:"oneof=0 1"`
}

// Grid returns the coordinate space described by the config.
func (c GridConfig) Grid() Grid {
	return Grid{Width: c.Width, Height: c.Height, Edge: c.Edge}
}

var validate = validator.New()

// Validate rejects configs a session cannot run with.
func (c GridConfig) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errors.Wrap(err, "invalid grid config")
	}

	fe := verrs[0]
	return errors.Errorf("invalid grid config: %s must be %s %s, got %v",
		strings.ToLower(fe.Field()), constraintPhrase(fe.Tag()), fe.Param(), fe.Value())
}

func constraintPhrase(tag string) string {
	switch tag {
	case "gte":
		return "at least"
	case "gt":
		return "greater than"
	case "oneof":
		return "one of"
	}
	return tag
}
