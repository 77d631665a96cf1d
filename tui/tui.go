// Package tui runs the game in a terminal with Bubble Tea.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hoshinonyaruko/snake-solo/snake"
	"github.com/hoshinonyaruko/snake-solo/structs"
)

// TickMsg asks the model to advance the game.
type TickMsg time.Time

const (
	panelLines = 3  // 标题、分数、提示
	maxRows    = 30 // 大终端上也不要太高
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	wallStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	headStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	bodyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	foodStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 3)
)

// Model is the Bubble Tea model. All engine calls happen inside Update,
// so the engine needs no locking.
type Model struct {
	engine   *snake.Engine
	interval time.Duration
	columns  int

	termWidth, termHeight int
	err                   string
}

// New returns a model on the menu screen.
func New(interval time.Duration, columns int, seed uint64) Model {
	if interval <= 0 {
		interval = 150 * time.Millisecond
	}
	return Model{engine: snake.NewEngine(seed), interval: interval, columns: columns}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// gridSize 每格占两个字符宽
func (m Model) gridSize() (int, int) {
	w, h := m.columns, m.columns*3/4
	if m.termWidth > 0 {
		w = min(w, m.termWidth/2)
	}
	if m.termHeight > 0 {
		h = min(m.termHeight-panelLines, maxRows)
	}
	return w, h
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth, m.termHeight = msg.Width, msg.Height
		return m, nil

	case TickMsg:
		if m.engine.Status() != structs.StatusPlaying {
			return m, nil
		}
		if res := m.engine.Tick(); res.Status != structs.StatusPlaying {
			return m, nil
		}
		return m, m.tick()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "enter", " ":
			if m.engine.Status() == structs.StatusPlaying {
				return m, nil
			}
			w, h := m.gridSize()
			if err := m.engine.Start(w, h); err != nil {
				m.err = err.Error()
				return m, nil
			}
			m.err = ""
			return m, m.tick()
		default:
			if d, err := structs.ParseDirection(keyDirection(msg.String())); err == nil {
				m.engine.SetDirection(d)
			}
		}
	}
	return m, nil
}

func keyDirection(key string) string {
	switch key {
	case "up", "k":
		return "up"
	case "down", "j":
		return "down"
	case "left", "h":
		return "left"
	case "right", "l":
		return "right"
	}
	return key
}

func (m Model) View() string {
	switch m.engine.Status() {
	case structs.StatusMenu:
		lines := []string{
			titleStyle.Render("S N A K E"),
			"",
			"enter  start",
			"arrows / wasd  steer",
			"q  quit",
		}
		if m.err != "" {
			lines = append(lines, "", errStyle.Render(m.err))
		}
		return boxStyle.Render(strings.Join(lines, "\n"))
	case structs.StatusPlaying:
		return m.header() + "\n" + m.board() + "\n" + hintStyle.Render("arrows/wasd steer · q quit")
	}

	title := "GAME OVER"
	if m.engine.Status() == structs.StatusWon {
		title = "YOU WIN"
	}
	lines := []string{
		titleStyle.Render(title),
		"",
		fmt.Sprintf("score  %d", m.engine.Score()),
		fmt.Sprintf("best   %d", m.engine.HighScore()),
		"",
		hintStyle.Render("enter  play again · q  quit"),
	}
	if m.err != "" {
		lines = append(lines, errStyle.Render(m.err))
	}
	return m.board() + "\n" + boxStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) header() string {
	return titleStyle.Render("SNAKE") + fmt.Sprintf("  score %d  best %d", m.engine.Score(), m.engine.HighScore())
}

func (m Model) board() string {
	w, h := m.engine.Width(), m.engine.Height()
	body := m.engine.Snake()
	head := -1
	if len(body) > 0 {
		head = body[len(body)-1]
	}
	food := m.engine.Food()

	var b strings.Builder
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			i := row*w + col
			switch {
			case m.engine.IsWall(i):
				b.WriteString(wallStyle.Render("▓▓"))
			case i == head:
				b.WriteString(headStyle.Render("██"))
			case m.engine.Contains(i):
				b.WriteString(bodyStyle.Render("▒▒"))
			case i == food && m.engine.Status() != structs.StatusWon:
				b.WriteString(foodStyle.Render("● "))
			default:
				b.WriteString("  ")
			}
		}
		if row < h-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
