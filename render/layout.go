package render

import (
	"fmt"

	"github.com/hoshinonyaruko/snake-solo/snake"
)

// Grid is a play area quantized into square cells.
type Grid struct {
	Width    int `json:"width"`     // 列数
	Height   int `json:"height"`    // 行数
	CellSize int `json:"cell_size"` // 每格像素
}

// Layout fits a fixed number of columns into an area of areaWidth x
// areaHeight pixels. The cell size is areaWidth/columns and as many rows
// as fit are used.
func Layout(areaWidth, areaHeight, columns int) (Grid, error) {
	if columns < snake.MinWidth || columns > snake.MaxWidth {
		return Grid{}, fmt.Errorf("layout: columns must be within [%d, %d], got %d", snake.MinWidth, snake.MaxWidth, columns)
	}
	cell := areaWidth / columns
	if cell <= 0 {
		return Grid{}, fmt.Errorf("layout: area %dx%d too narrow for %d columns", areaWidth, areaHeight, columns)
	}
	g := Grid{Width: columns, Height: areaHeight / cell, CellSize: cell}
	if g.Height < snake.MinHeight {
		return Grid{}, fmt.Errorf("layout: area %dx%d too short, %d rows", areaWidth, areaHeight, g.Height)
	}
	if g.Height > snake.MaxHeight {
		return Grid{}, fmt.Errorf("layout: area %dx%d too tall, %d rows", areaWidth, areaHeight, g.Height)
	}
	return g, nil
}
