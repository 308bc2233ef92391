//go:build !ebiten

package main

import (
	"errors"

	"hashlife/internal/config"
	"hashlife/internal/universe"
)

func runViewer(config.Config, *universe.Universe, string) error {
	return errors.New("the GUI build of hashlife requires the ebiten build tag; " +
		"re-run with `go run -tags ebiten ./cmd/hashlife` or use ./cmd/lifebench headless")
}
