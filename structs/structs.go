package structs

import (
	"errors"
	"fmt"
	"strings"
)

// Direction 蛇的移动方向（"up", "down", "left", "right"）
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// ErrInvalidDirection 非法方向
var ErrInvalidDirection = errors.New("invalid direction")

// Valid 是否为四个合法方向之一
func (d Direction) Valid() bool {
	switch d {
	case Up, Down, Left, Right:
		return true
	}
	return false
}

// Opposite 返回相反方向，非法方向原样返回
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	}
	return d
}

// ParseDirection accepts the direction names plus the usual wasd keys.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "w":
		return Up, nil
	case "down", "s":
		return Down, nil
	case "left", "a":
		return Left, nil
	case "right", "d":
		return Right, nil
	}
	return "", fmt.Errorf("%w: '%s'", ErrInvalidDirection, s)
}

// GameStatus 游戏状态
type GameStatus string

const (
	StatusMenu     GameStatus = "menu"
	StatusPlaying  GameStatus = "playing"
	StatusGameOver GameStatus = "gameOver"
	StatusWon      GameStatus = "won" // 棋盘被蛇占满
)

// Terminal 是否为结束状态，需要重新开始
func (s GameStatus) Terminal() bool {
	return s == StatusGameOver || s == StatusWon
}

// TickResult 描述一次tick的结果。
type TickResult struct {
	NewHead int        `json:"new_head"` // 新的蛇头下标，未移动时为当前蛇头
	AteFood bool       `json:"ate_food"` // 本次是否吃到食物
	Status  GameStatus `json:"status"`   // tick之后的状态
}

// EngineState 是引擎可持久化的快照，不包含最高分。
type EngineState struct {
	Width     int        `json:"width"`     // 列数
	Height    int        `json:"height"`    // 行数
	Snake     []int      `json:"snake"`     // 蛇身下标，尾在前，头在最后
	Food      int        `json:"food"`      // 食物下标
	Direction Direction  `json:"direction"` // 当前移动方向
	Score     int        `json:"score"`     // 当前得分
	Status    GameStatus `json:"status"`    // 游戏状态
}

// Frame 描述推送给展示层的一帧。
type Frame struct {
	SessionID string      `json:"session_id"`
	State     EngineState `json:"state"`
	HighScore int         `json:"high_score"`
	Last      *TickResult `json:"last,omitempty"` // 最近一次tick，开局时为空
	Paused    bool        `json:"paused"`
}
