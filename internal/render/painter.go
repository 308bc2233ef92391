//go:build ebiten

package render

import (
	"github.com/hajimehoshi/ebiten/v2"

	"hashlife/internal/universe"
)

// Painter owns the pixel buffers between the universe and the screen.
type Painter struct {
	w, h int
	img  *ebiten.Image
	argb []byte
	rgba []byte
}

// NewPainter allocates buffers for a w x h view.
func NewPainter(w, h int) *Painter {
	return &Painter{
		w:    w,
		h:    h,
		img:  ebiten.NewImage(w, h),
		argb: make([]byte, w*h*4),
		rgba: make([]byte, w*h*4),
	}
}

// Blit draws the universe at the given zoom and copies it to the screen.
func (p *Painter) Blit(screen *ebiten.Image, u *universe.Universe, logCellSize int) {
	u.Draw(logCellSize, p.argb, p.w, p.h, p.w*4)
	argbToRGBA(p.rgba, p.argb)
	p.img.WritePixels(p.rgba)
	screen.DrawImage(p.img, nil)
}
