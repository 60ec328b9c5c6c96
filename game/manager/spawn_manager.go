package manager

import (
	"gridsnake/game/entity"
	"gridsnake/game/types"

	"github.com/pkg/errors"
)

// Spawn describes the board a fresh game starts from.
type Spawn struct {
	Body      []types.Cell
	Direction types.Direction
	Food      types.Cell
}

// DefaultSpawn is a three-cell snake in the top-left corner heading right,
// with food at (5,5), or at the grid centre when (5,5) is not an inner cell.
func DefaultSpawn(grid types.Grid) Spawn {
	food := types.Cell{X: 5, Y: 5}
	if !grid.IsInner(food) {
		food = types.Cell{X: grid.Width / 2, Y: grid.Height / 2}
	}

	return Spawn{
		Body:      []types.Cell{{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 3, Y: 1}},
		Direction: types.Right,
		Food:      food,
	}
}

// SpawnManager hands out identical starting snakes for every new game.
type SpawnManager struct {
	grid  types.Grid
	spawn Spawn
}

// NewSpawnManager checks spawn against grid once so every later reset is
// known to be valid.
func NewSpawnManager(grid types.Grid, spawn Spawn) (*SpawnManager, error) {
	if len(spawn.Body) == 0 {
		return nil, errors.New("spawn body is empty")
	}

	seen := make(map[types.Cell]struct{}, len(spawn.Body))
	for _, c := range spawn.Body {
		if !grid.Contains(c) {
			return nil, errors.Errorf("spawn cell %v is outside the %dx%d grid", c, grid.Width, grid.Height)
		}
		if _, dup := seen[c]; dup {
			return nil, errors.Errorf("spawn cell %v appears twice", c)
		}
		seen[c] = struct{}{}
	}

	if !grid.Contains(spawn.Food) {
		return nil, errors.Errorf("spawn food %v is outside the %dx%d grid", spawn.Food, grid.Width, grid.Height)
	}
	if _, onSnake := seen[spawn.Food]; onSnake {
		return nil, errors.Errorf("spawn food %v is on the snake", spawn.Food)
	}

	body := make([]types.Cell, len(spawn.Body))
	copy(body, spawn.Body)
	spawn.Body = body

	return &SpawnManager{
		grid:  grid,
		spawn: spawn,
	}, nil
}

// NewSnake returns a fresh snake in the spawn position.
func (sm *SpawnManager) NewSnake() *entity.Snake {
	return entity.NewSnake(sm.spawn.Body, sm.grid)
}

func (sm *SpawnManager) Direction() types.Direction {
	return sm.spawn.Direction
}

func (sm *SpawnManager) Food() types.Cell {
	return sm.spawn.Food
}
