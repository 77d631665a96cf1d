package desktop

import (
	"testing"
	"time"

	"github.com/hoshinonyaruko/snake-solo/render"
)

func TestWithDefaults(t *testing.T) {
	c := Config{Columns: 24, PanelHeight: 0}.withDefaults()
	if c.Columns != 24 || c.PanelHeight != 0 {
		t.Fatalf("explicit values overwritten: %+v", c)
	}
	if c.Width != 400 || c.Height != 720 || c.Interval != 150*time.Millisecond || c.DragThreshold <= 0 {
		t.Fatalf("defaults not applied: %+v", c)
	}
}

func TestDefaultWindowFitsGrid(t *testing.T) {
	c := DefaultConfig()
	g, err := render.Layout(c.Width, c.Height-c.PanelHeight, c.Columns)
	if err != nil {
		t.Fatal(err)
	}
	if g.Width != 20 || g.Height != 34 || g.CellSize != 20 {
		t.Fatalf("default grid %+v", g)
	}
}
