package manager

import (
	"gridsnake/game/entity"
	"gridsnake/game/types"

	"golang.org/x/exp/rand"
)

// Rejection sampling gives up after this many tries per inner cell and
// falls back to scanning for free cells.
const samplesPerCell = 4

// FoodManager places food on inner cells not covered by the snake.
type FoodManager struct {
	grid types.Grid
	rng  *rand.Rand
}

func NewFoodManager(grid types.Grid, rng *rand.Rand) *FoodManager {
	return &FoodManager{
		grid: grid,
		rng:  rng,
	}
}

// Place picks a uniformly random free inner cell. ok is false when every
// inner cell is covered by the snake.
func (fm *FoodManager) Place(snake *entity.Snake) (types.Cell, bool) {
	innerW := fm.grid.Width - 2
	innerH := fm.grid.Height - 2
	if innerW <= 0 || innerH <= 0 {
		return types.Cell{}, false
	}

	attempts := samplesPerCell * innerW * innerH
	for i := 0; i < attempts; i++ {
		food := types.Cell{
			X: fm.rng.Intn(innerW) + 1,
			Y: fm.rng.Intn(innerH) + 1,
		}
		if !snake.Occupies(food) {
			return food, true
		}
	}

	free := fm.FreeCells(snake)
	if len(free) == 0 {
		return types.Cell{}, false
	}
	return free[fm.rng.Intn(len(free))], true
}

// FreeCells lists the inner cells the snake does not cover, row by row.
func (fm *FoodManager) FreeCells(snake *entity.Snake) []types.Cell {
	taken := make(map[types.Cell]struct{}, snake.Len())
	for _, part := range snake.Body {
		taken[part] = struct{}{}
	}

	free := make([]types.Cell, 0)
	for y := 1; y <= fm.grid.Height-2; y++ {
		for x := 1; x <= fm.grid.Width-2; x++ {
			c := types.Cell{X: x, Y: y}
			if _, ok := taken[c]; !ok {
				free = append(free, c)
			}
		}
	}
	return free
}
