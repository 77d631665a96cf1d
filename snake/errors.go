package snake

import (
	"errors"
	"fmt"
)

// ErrBoardFull is returned when no free cell is left for food.
var ErrBoardFull = errors.New("board full: no free cell for food")

// ConfigurationError reports grid dimensions that cannot host a game.
type ConfigurationError struct {
	Width  int
	Height int
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid grid %dx%d: %s", e.Width, e.Height, e.Reason)
}

// MinWidth and MinHeight are the smallest grids Start accepts.
const (
	MinWidth  = initialLength + 2
	MinHeight = 3
)

// MaxWidth and MaxHeight are the largest grids Start accepts.
const (
	MaxWidth  = 1024
	MaxHeight = 1024
)

// checkDimensions 内部必须放得下开局的蛇和至少一个食物
// 先检查上限，再做乘法
func checkDimensions(width, height int) error {
	switch {
	case width < MinWidth:
		return &ConfigurationError{width, height, fmt.Sprintf("width must be at least %d", MinWidth)}
	case width > MaxWidth:
		return &ConfigurationError{width, height, fmt.Sprintf("width must be at most %d", MaxWidth)}
	case height < MinHeight:
		return &ConfigurationError{width, height, fmt.Sprintf("height must be at least %d", MinHeight)}
	case height > MaxHeight:
		return &ConfigurationError{width, height, fmt.Sprintf("height must be at most %d", MaxHeight)}
	case (width-2)*(height-2) <= initialLength:
		return &ConfigurationError{width, height, "interior too small for the snake and its food"}
	}
	return nil
}
