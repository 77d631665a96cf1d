package main

import (
	"flag"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hoshinonyaruko/snake-solo/config"
	"github.com/hoshinonyaruko/snake-solo/tui"
)

func main() {
	defaults := config.Defaults()
	tickMs := flag.Int("tick", defaults.TickMs, "milliseconds between moves")
	columns := flag.Int("columns", defaults.Columns, "grid columns")
	seed := flag.Uint64("seed", defaults.Seed, "food seed (0 = time)")
	flag.Parse()

	model := tui.New(time.Duration(*tickMs)*time.Millisecond, *columns, *seed)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal(err)
	}
}
