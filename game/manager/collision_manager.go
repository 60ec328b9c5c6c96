package manager

import (
	"gridsnake/game/entity"
	"gridsnake/game/types"
)

// CollisionType represents the type of collision
type CollisionType int

const (
	NoCollision CollisionType = iota
	WallCollision
	SelfCollision
)

func (c CollisionType) String() string {
	switch c {
	case WallCollision:
		return "wall"
	case SelfCollision:
		return "self"
	}
	return "none"
}

type CollisionManager struct {
	grid types.Grid
}

func NewCollisionManager(grid types.Grid) *CollisionManager {
	return &CollisionManager{
		grid: grid,
	}
}

// CheckMove computes the candidate head for moving snake in dir and reports
// what, if anything, it would hit. The snake is not mutated.
func (cm *CollisionManager) CheckMove(snake *entity.Snake, dir types.Direction) (types.Cell, CollisionType) {
	candidate, ok := snake.NextHead(dir)
	if !ok {
		return candidate, WallCollision
	}

	if snake.IsSelfColliding(candidate) {
		return candidate, SelfCollision
	}

	return candidate, NoCollision
}

// IsFoodCollision checks if a position collides with food
func (cm *CollisionManager) IsFoodCollision(pos types.Cell, food types.Cell) bool {
	return pos == food
}

// IsDanger reports whether stepping from pos in dir would end the game for
// snake, ignoring the tail which vacates on the same tick.
func (cm *CollisionManager) IsDanger(snake *entity.Snake, pos types.Cell, dir types.Direction) bool {
	next, ok := cm.grid.Step(pos, dir)
	if !ok {
		return true
	}
	return snake.IsSelfColliding(next)
}
