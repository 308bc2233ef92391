//go:build ebiten

package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"hashlife/internal/config"
	"hashlife/internal/core"
	"hashlife/internal/render"
	"hashlife/internal/rle"
	"hashlife/internal/ui"
	"hashlife/internal/universe"
)

// Game adapts a universe to the ebiten.Game interface.
//
// Keys: space steps once, enter toggles free-running, +/a and -/z change
// the log step size, r reloads the pattern file, h toggles the HUD, and
// q/escape quit. The pattern file is also watched; saving it from an
// editor reloads the universe.
type Game struct {
	cfg     config.Config
	pattern string

	u       *universe.Universe
	painter *render.Painter
	hud     *ui.HUD
	pacer   *core.FixedStep

	stepSize int
	running  bool
	stepOnce bool

	watcher *fsnotify.Watcher
	reload  chan struct{}
}

// New constructs a Game around a loaded universe.
func New(cfg config.Config, u *universe.Universe, pattern string) *Game {
	g := &Game{
		cfg:     cfg,
		pattern: pattern,
		u:       u,
		painter: render.NewPainter(cfg.Width, cfg.Height),
		pacer:   core.NewFixedStep(cfg.SPS),
		reload:  make(chan struct{}, 1),
	}
	g.hud = ui.NewHUD(g)
	g.watchPattern()
	return g
}

// watchPattern reloads the universe whenever the pattern file changes on
// disk. Watch failures are harmless; the r key still works.
func (g *Game) watchPattern() {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Warn("pattern watch unavailable", "error", err)
		return
	}
	if err := w.Add(g.pattern); err != nil {
		slog.Warn("cannot watch pattern file", "path", g.pattern, "error", err)
		w.Close()
		return
	}
	g.watcher = w
	go func() {
		for ev := range w.Events {
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				select {
				case g.reload <- struct{}{}:
				default:
				}
			}
		}
	}()
}

// doReload replaces the universe with a fresh read of the pattern file.
// On failure the prior universe stays.
func (g *Game) doReload() {
	f, err := os.Open(g.pattern)
	if err != nil {
		slog.Error("reload failed", "path", g.pattern, "error", err)
		return
	}
	defer f.Close()
	u, err := rle.Read(f, g.cfg.MaxNodes)
	if err != nil {
		slog.Error("reload failed", "path", g.pattern, "error", err)
		return
	}
	g.u = u
	slog.Info("pattern reloaded", "path", g.pattern, "population", u.Population())
}

// Update handles input and advances the universe.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		if g.watcher != nil {
			g.watcher.Close()
		}
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.stepOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.running = !g.running
		g.pacer.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyA) {
		g.stepSize++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyZ) {
		if g.stepSize > 0 {
			g.stepSize--
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.doReload()
	}
	select {
	case <-g.reload:
		g.doReload()
	default:
	}

	g.hud.Update()

	if g.stepOnce || (g.running && g.pacer.ShouldStep()) {
		g.u.Step(g.stepSize)
		g.stepOnce = false
	}
	return nil
}

// Draw renders the universe and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.u, g.cfg.LogCellSize)
	g.hud.Draw(screen)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}

// Stats feeds the HUD.
func (g *Game) Stats() core.StatsSnapshot {
	st := g.u.Store()
	return core.StatsSnapshot{Groups: []core.StatGroup{{
		Name: "hashlife",
		Stats: []core.Stat{
			{Key: "step", Label: "log step", Value: fmt.Sprintf("%d", g.stepSize)},
			{Key: "level", Label: "root level", Value: fmt.Sprintf("%d", g.u.Root().Level())},
			{Key: "pop", Label: "population", Value: fmt.Sprintf("%d", g.u.Population())},
			{Key: "nodes", Label: "nodes", Value: fmt.Sprintf("%d / %d", st.NodeCount(), st.MaxNodes())},
		},
	}}}
}
