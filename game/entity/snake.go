package entity

import (
	"gridsnake/game/types"
)

// Snake is an ordered body of cells from tail (first) to head (last). It
// knows the grid it lives on so every cell it produces stays in bounds.
type Snake struct {
	Body []types.Cell
	grid types.Grid

	// vacated is the cell the tail left on the last Move; growth falls back
	// to it when the head cannot be extended.
	vacated    types.Cell
	hasVacated bool
}

// NewSnake copies body so the caller keeps ownership of its slice.
func NewSnake(body []types.Cell, grid types.Grid) *Snake {
	b := make([]types.Cell, len(body))
	copy(b, body)
	return &Snake{
		Body: b,
		grid: grid,
	}
}

func (s *Snake) GetHead() types.Cell {
	return s.Body[len(s.Body)-1]
}

func (s *Snake) GetTail() types.Cell {
	return s.Body[0]
}

func (s *Snake) Len() int {
	return len(s.Body)
}

// NextHead computes where the head would land moving in dir. ok is false
// when the grid's edge policy blocks the step.
func (s *Snake) NextHead(dir types.Direction) (types.Cell, bool) {
	return s.grid.Step(s.GetHead(), dir)
}

// IsSelfColliding reports whether candidate hits the body once the tail has
// moved out of the way for this step. Call it before Move.
func (s *Snake) IsSelfColliding(candidate types.Cell) bool {
	for _, part := range s.Body[1:] {
		if part == candidate {
			return true
		}
	}
	return false
}

// Occupies reports whether any body cell equals c.
func (s *Snake) Occupies(c types.Cell) bool {
	for _, part := range s.Body {
		if part == c {
			return true
		}
	}
	return false
}

// Move pushes the next head and pops the tail, keeping the length.
func (s *Snake) Move(dir types.Direction) types.Cell {
	newHead, _ := s.NextHead(dir)

	s.vacated = s.GetTail()
	s.hasVacated = true
	s.Body = append(s.Body[1:], newHead)

	return newHead
}

// Grow adds one cell. It extends past the head in dir when that cell is free
// and reachable; otherwise it re-attaches the cell the tail vacated on the
// last Move. It returns false when neither is possible.
func (s *Snake) Grow(dir types.Direction) bool {
	if next, ok := s.NextHead(dir); ok && !s.Occupies(next) {
		s.Body = append(s.Body, next)
		return true
	}

	if s.hasVacated && !s.Occupies(s.vacated) {
		s.Body = append([]types.Cell{s.vacated}, s.Body...)
		s.hasVacated = false
		return true
	}

	return false
}

// Cells returns a copy of the body, tail first.
func (s *Snake) Cells() []types.Cell {
	out := make([]types.Cell, len(s.Body))
	copy(out, s.Body)
	return out
}
