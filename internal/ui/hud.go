//go:build ebiten

package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"hashlife/internal/core"
)

const (
	hudMarginX   = 8
	hudMarginY   = 16
	hudLineGap   = 14
	hudShadowOff = 1
)

// HUD draws engine statistics as a text overlay in the top-left corner.
// The H key toggles it.
type HUD struct {
	provider core.StatsProvider
	visible  bool
}

// NewHUD constructs a HUD reading from the given stats provider.
func NewHUD(provider core.StatsProvider) *HUD {
	return &HUD{provider: provider, visible: true}
}

// Update handles the visibility toggle.
func (h *HUD) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		h.visible = !h.visible
	}
}

// Draw renders the current snapshot.
func (h *HUD) Draw(screen *ebiten.Image) {
	if !h.visible || h.provider == nil {
		return
	}
	face := basicfont.Face7x13
	y := hudMarginY
	for _, group := range h.provider.Stats().Groups {
		drawLine(screen, face, group.Name, hudMarginX, y)
		y += hudLineGap
		for _, s := range group.Stats {
			drawLine(screen, face, fmt.Sprintf("  %s: %s", s.Label, s.Value), hudMarginX, y)
			y += hudLineGap
		}
	}
}

func drawLine(screen *ebiten.Image, face *basicfont.Face, line string, x, y int) {
	text.Draw(screen, line, face, x+hudShadowOff, y+hudShadowOff, color.Black)
	text.Draw(screen, line, face, x, y, color.White)
}
