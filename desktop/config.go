package desktop

import (
	"time"

	"github.com/hoshinonyaruko/snake-solo/touch"
)

// Config controls the desktop/touch client.
type Config struct {
	Width, Height int           // 初始窗口大小
	Columns       int           // 固定列数，行数按窗口高度换算
	PanelHeight   int           // 顶部分数栏高度
	Interval      time.Duration // tick 间隔
	DragThreshold float64       // 拖动多少像素算一次转向
	Seed          uint64
}

// DefaultConfig returns a portrait phone-sized window.
func DefaultConfig() Config {
	return Config{
		Width:         400,
		Height:        720,
		Columns:       20,
		PanelHeight:   32,
		Interval:      150 * time.Millisecond,
		DragThreshold: touch.DefaultThreshold,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	if c.Columns <= 0 {
		c.Columns = d.Columns
	}
	if c.PanelHeight < 0 {
		c.PanelHeight = d.PanelHeight
	}
	if c.Interval <= 0 {
		c.Interval = d.Interval
	}
	if c.DragThreshold <= 0 {
		c.DragThreshold = d.DragThreshold
	}
	return c
}
