//go:build ebiten

package main

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"

	"hashlife/internal/app"
	"hashlife/internal/config"
	"hashlife/internal/universe"
)

func runViewer(cfg config.Config, u *universe.Universe, pattern string) error {
	game := app.New(cfg, u, pattern)

	ebiten.SetWindowTitle("hashlife — " + pattern)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
