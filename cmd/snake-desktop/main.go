//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hoshinonyaruko/snake-solo/config"
	"github.com/hoshinonyaruko/snake-solo/desktop"
)

func main() {
	defaults := config.Defaults()
	cfg := desktop.DefaultConfig()
	flag.IntVar(&cfg.Width, "width", cfg.Width, "window width")
	flag.IntVar(&cfg.Height, "height", cfg.Height, "window height")
	flag.IntVar(&cfg.Columns, "columns", defaults.Columns, "grid columns")
	tickMs := flag.Int("tick", defaults.TickMs, "milliseconds between moves")
	flag.Uint64Var(&cfg.Seed, "seed", defaults.Seed, "food seed (0 = time)")
	flag.Parse()
	cfg.Interval = time.Duration(*tickMs) * time.Millisecond

	game := desktop.New(cfg)

	ebiten.SetWindowTitle("snake")
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
