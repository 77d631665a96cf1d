package snake

import (
	"fmt"

	"github.com/hoshinonyaruko/snake-solo/structs"
)

// State returns a snapshot of the current game. The high score is not
// part of it.
func (e *Engine) State() structs.EngineState {
	return structs.EngineState{
		Width:     e.width,
		Height:    e.height,
		Snake:     e.Snake(),
		Food:      e.food,
		Direction: e.direction,
		Score:     e.score,
		Status:    e.status,
	}
}

// Restore replaces the current game with a snapshot taken by State. The
// snapshot is checked against every board invariant first; a rejected
// snapshot leaves the engine as it was. The high score is kept.
func (e *Engine) Restore(s structs.EngineState) error {
	switch s.Status {
	case structs.StatusPlaying, structs.StatusGameOver, structs.StatusWon:
	default:
		return fmt.Errorf("restore: snapshot has no game (status '%s')", s.Status)
	}
	if err := checkDimensions(s.Width, s.Height); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	if len(s.Snake) == 0 {
		return fmt.Errorf("restore: empty snake")
	}
	if !s.Direction.Valid() {
		return fmt.Errorf("restore: %w: '%s'", structs.ErrInvalidDirection, s.Direction)
	}
	if s.Score < 0 {
		return fmt.Errorf("restore: negative score %d", s.Score)
	}

	occupied := make([]bool, s.Width*s.Height)
	for _, i := range s.Snake {
		if IsWall(i, s.Width, s.Height) {
			return fmt.Errorf("restore: snake cell %d is wall", i)
		}
		if occupied[i] {
			return fmt.Errorf("restore: snake cell %d repeated", i)
		}
		occupied[i] = true
	}
	if s.Status == structs.StatusPlaying || s.Status == structs.StatusGameOver {
		if IsWall(s.Food, s.Width, s.Height) || occupied[s.Food] {
			return fmt.Errorf("restore: food cell %d is not free", s.Food)
		}
	}

	e.width, e.height = s.Width, s.Height
	e.snake = append(make([]int, 0, len(s.Snake)*2), s.Snake...)
	e.occupied = occupied
	e.food = s.Food
	e.direction = s.Direction
	e.pending = s.Direction
	e.score = s.Score
	e.status = s.Status
	if e.status.Terminal() && e.score > e.highScore {
		e.highScore = e.score
	}
	return nil
}
