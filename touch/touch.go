// Package touch turns drag gestures into snake directions.
package touch

import (
	"math"

	"github.com/hoshinonyaruko/snake-solo/structs"
)

// DefaultThreshold is the drag distance in pixels before a gesture counts.
const DefaultThreshold = 24

// DirectionFromDrag maps a drag vector in screen coordinates (y grows
// downward) to a direction. The longer axis wins. Drags shorter than
// threshold on both axes and exact diagonals give no direction.
func DirectionFromDrag(dx, dy, threshold float64) (structs.Direction, bool) {
	ax, ay := math.Abs(dx), math.Abs(dy)
	if ax < threshold && ay < threshold {
		return "", false
	}
	switch {
	case ax > ay && dx > 0:
		return structs.Right, true
	case ax > ay:
		return structs.Left, true
	case ay > ax && dy > 0:
		return structs.Down, true
	case ay > ax:
		return structs.Up, true
	}
	return "", false
}

// Tracker follows one pointer and reports a direction each time the
// drag travels threshold pixels from where the last direction fired, so
// a single continuous drag can steer several turns.
type Tracker struct {
	Threshold float64

	active       bool
	originX      float64
	originY      float64
	lastX, lastY float64
}

// Begin starts tracking at (x, y).
func (t *Tracker) Begin(x, y float64) {
	t.active = true
	t.originX, t.originY = x, y
	t.lastX, t.lastY = x, y
}

// Active reports whether a drag is in progress.
func (t *Tracker) Active() bool { return t.active }

// Move updates the pointer position and returns a direction once the
// drag from the current origin passes the threshold.
func (t *Tracker) Move(x, y float64) (structs.Direction, bool) {
	if !t.active {
		return "", false
	}
	t.lastX, t.lastY = x, y
	d, ok := DirectionFromDrag(x-t.originX, y-t.originY, t.threshold())
	if ok {
		t.originX, t.originY = x, y
	}
	return d, ok
}

// End finishes the drag, reporting a direction for any remaining
// movement past the threshold.
func (t *Tracker) End() (structs.Direction, bool) {
	if !t.active {
		return "", false
	}
	t.active = false
	return DirectionFromDrag(t.lastX-t.originX, t.lastY-t.originY, t.threshold())
}

func (t *Tracker) threshold() float64 {
	if t.Threshold <= 0 {
		return DefaultThreshold
	}
	return t.Threshold
}
