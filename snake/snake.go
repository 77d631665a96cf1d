// 关于蛇的更新
package snake

import (
	"time"

	"github.com/hoshinonyaruko/snake-solo/structs"
	"golang.org/x/exp/rand"
)

// initialLength 开局时蛇的长度
const initialLength = 3

// Engine is the grid simulation for a single game of snake. Cells are
// addressed as row*width+col and the outer ring of the grid is wall.
//
// Engine is not safe for concurrent use; hosts that tick and steer from
// different goroutines must serialize the calls.
type Engine struct {
	width, height int

	snake    []int  // 尾在前，头在最后
	occupied []bool // 按下标标记蛇身，加速查找
	food     int

	direction structs.Direction // 上一次tick实际移动的方向
	pending   structs.Direction // 下一次tick使用的方向

	score     int
	highScore int
	status    structs.GameStatus

	rng *rand.Rand
}

// NewEngine returns an engine in the menu state. A zero seed picks one
// from the clock.
func NewEngine(seed uint64) *Engine {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Engine{
		status: structs.StatusMenu,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Start begins a new game on a width x height grid. The high score from
// earlier games is kept. On error the previous state is left untouched.
func (e *Engine) Start(width, height int) error {
	if err := checkDimensions(width, height); err != nil {
		return err
	}

	head := startHead(width, height)
	e.width, e.height = width, height
	e.snake = make([]int, 0, initialLength*4)
	e.occupied = make([]bool, width*height)
	for i := initialLength - 1; i >= 0; i-- {
		e.push(head - i)
	}
	e.direction = structs.Right
	e.pending = structs.Right
	e.score = 0
	e.status = structs.StatusPlaying

	// checkDimensions guarantees a free interior cell here
	return e.placeFood()
}

// startHead 计算开局蛇头位置，蛇向右排开三格
func startHead(width, height int) int {
	center := (width * height) / 2
	row, col := center/width, center%width
	if row < 1 || row > height-2 {
		row = height / 2
	}
	if col-(initialLength-1) < 1 || col > width-2 {
		col = width / 2
		if col < initialLength {
			col = initialLength
		}
		if col > width-2 {
			col = width - 2
		}
	}
	return row*width + col
}

// SetDirection requests the direction for the next tick. Reversing onto
// the neck is ignored, as are unknown directions. Of several requests
// between ticks the last accepted one wins.
func (e *Engine) SetDirection(d structs.Direction) {
	if !d.Valid() {
		return
	}
	if len(e.snake) > 1 && d == e.direction.Opposite() {
		return
	}
	e.pending = d
}

// Tick advances the game by one step. It does nothing unless a game is
// being played.
func (e *Engine) Tick() structs.TickResult {
	if e.status != structs.StatusPlaying {
		return structs.TickResult{NewHead: e.head(), Status: e.status}
	}

	e.direction = e.pending
	newHead := e.head() + e.offset(e.direction)

	if e.IsWall(newHead) || e.occupied[newHead] {
		e.finish(structs.StatusGameOver)
		return structs.TickResult{NewHead: newHead, Status: e.status}
	}

	e.push(newHead)
	if newHead != e.food {
		e.popTail()
		return structs.TickResult{NewHead: newHead, Status: e.status}
	}

	e.score++
	if err := e.placeFood(); err != nil {
		// ErrBoardFull: 没有空位了，算赢
		e.food = -1
		e.finish(structs.StatusWon)
	}
	return structs.TickResult{NewHead: newHead, AteFood: true, Status: e.status}
}

// IsWall reports whether index i lies on the border ring. Indices outside
// the grid count as wall.
func (e *Engine) IsWall(i int) bool {
	return IsWall(i, e.width, e.height)
}

// IsWall is the wall predicate for an arbitrary grid size.
func IsWall(i, width, height int) bool {
	if width <= 0 || height <= 0 || i < 0 || i >= width*height {
		return true
	}
	row, col := i/width, i%width
	return row == 0 || row == height-1 || col == 0 || col == width-1
}

// Snake returns a copy of the snake cells, tail first.
func (e *Engine) Snake() []int {
	return append([]int(nil), e.snake...)
}

// Food returns the food cell.
func (e *Engine) Food() int { return e.food }

// Score returns the score of the current game.
func (e *Engine) Score() int { return e.score }

// HighScore returns the best score seen by this engine.
func (e *Engine) HighScore() int { return e.highScore }

// Status returns the game status.
func (e *Engine) Status() structs.GameStatus { return e.status }

// Direction returns the direction of the last move.
func (e *Engine) Direction() structs.Direction { return e.direction }

// Width returns the column count.
func (e *Engine) Width() int { return e.width }

// Height returns the row count.
func (e *Engine) Height() int { return e.height }

// Contains reports whether cell i is part of the snake.
func (e *Engine) Contains(i int) bool {
	return i >= 0 && i < len(e.occupied) && e.occupied[i]
}

func (e *Engine) head() int {
	if len(e.snake) == 0 {
		return -1
	}
	return e.snake[len(e.snake)-1]
}

func (e *Engine) offset(d structs.Direction) int {
	switch d {
	case structs.Up:
		return -e.width
	case structs.Down:
		return e.width
	case structs.Left:
		return -1
	default:
		return 1
	}
}

func (e *Engine) push(i int) {
	e.snake = append(e.snake, i)
	e.occupied[i] = true
}

func (e *Engine) popTail() {
	e.occupied[e.snake[0]] = false
	e.snake = e.snake[1:]
}

func (e *Engine) finish(status structs.GameStatus) {
	e.status = status
	if e.score > e.highScore {
		e.highScore = e.score
	}
}
