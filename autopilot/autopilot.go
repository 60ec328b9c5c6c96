// Package autopilot steers a snake from session snapshots. It is used for
// the headless demo and as an "attract mode" in the window host.
package autopilot

import (
	"gridsnake/game"
	"gridsnake/game/entity"
	"gridsnake/game/manager"
	"gridsnake/game/types"
)

// Scores for a candidate heading, higher is better.
const (
	scoreDeadly  = -1.0
	scoreFood    = 1.0
	scoreCloser  = 0.5
	scoreFarther = -0.3
	scoreTrapped = -0.8
)

// Pilot picks a heading each frame: never reverse, never step into a
// deadly cell when another option exists, head for the food, and avoid
// pockets too small for the body.
type Pilot struct {
	// AutoRestart makes Drive restart finished games.
	AutoRestart bool
}

func New(autoRestart bool) *Pilot {
	return &Pilot{AutoRestart: autoRestart}
}

// Drive returns the intents for the next frame given the last snapshot.
func (p *Pilot) Drive(snap game.Snapshot) []game.Intent {
	switch snap.State {
	case manager.Waiting:
		return []game.Intent{game.ToggleStart()}
	case manager.Dead, manager.Won:
		if p.AutoRestart {
			return []game.Intent{game.Restart()}
		}
		return nil
	case manager.Ongoing:
		return []game.Intent{game.Move(p.Choose(snap))}
	}
	return nil
}

// Choose evaluates front, left and right of the current heading and
// returns the best one. Ties keep the current heading.
func (p *Pilot) Choose(snap game.Snapshot) types.Direction {
	grid := types.Grid{Width: snap.Width, Height: snap.Height, Edge: snap.Edge}
	snake := entity.NewSnake(snap.Body, grid)
	collisions := manager.NewCollisionManager(grid)

	front := snap.Direction
	best, bestScore := front, scoreDeadly-1
	for _, dir := range []types.Direction{front, front.TurnLeft(), front.TurnRight()} {
		score := evaluate(grid, collisions, snake, snap, dir)
		if score > bestScore {
			best, bestScore = dir, score
		}
	}
	return best
}

func evaluate(grid types.Grid, collisions *manager.CollisionManager, snake *entity.Snake, snap game.Snapshot, dir types.Direction) float64 {
	next, hit := collisions.CheckMove(snake, dir)
	if hit != manager.NoCollision {
		return scoreDeadly
	}

	score := 0.0
	if snap.HasFood {
		head := snake.GetHead()
		switch {
		case next == snap.Food:
			return scoreFood
		case grid.Distance(next, snap.Food) < grid.Distance(head, snap.Food):
			score = scoreCloser
		case grid.Distance(next, snap.Food) > grid.Distance(head, snap.Food):
			score = scoreFarther
		}
	}

	if exits(collisions, snake, next) == 0 || reachable(grid, snake, next, snake.Len()) < snake.Len() {
		score += scoreTrapped
	}
	return score
}

// exits counts the safe steps out of from, judged against the current body.
func exits(collisions *manager.CollisionManager, snake *entity.Snake, from types.Cell) int {
	n := 0
	for _, d := range types.Directions {
		if !collisions.IsDanger(snake, from, d) {
			n++
		}
	}
	return n
}

// reachable counts free cells connected to from, stopping once limit is
// reached. The current tail counts as free since it moves away.
func reachable(grid types.Grid, snake *entity.Snake, from types.Cell, limit int) int {
	blocked := make(map[types.Cell]bool, snake.Len())
	for _, c := range snake.Body[1:] {
		blocked[c] = true
	}

	seen := map[types.Cell]bool{from: true}
	queue := []types.Cell{from}
	for len(queue) > 0 && len(seen) < limit {
		c := queue[0]
		queue = queue[1:]
		for _, d := range types.Directions {
			n, ok := grid.Step(c, d)
			if !ok || blocked[n] || seen[n] {
				continue
			}
			seen[n] = true
			queue = append(queue, n)
		}
	}
	return len(seen)
}
