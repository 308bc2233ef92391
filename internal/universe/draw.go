package universe

import (
	"hashlife/internal/bignum"
	"hashlife/internal/core"
	"hashlife/internal/store"
)

// Draw renders the universe into a 32-bit packed ARGB pixel buffer,
// little-endian in memory. logCellSize selects the zoom: the root's square
// is drawn 2^(logCellSize+1) pixels on a side, centered in the buffer,
// whatever the root's level, so under a root of level L each cell covers
// 2^(logCellSize-L) pixels. A subtree whose square is one pixel or smaller
// collapses into a single pixel colored by its aggregate descriptor. pitch
// is the byte stride between rows.
func (u *Universe) Draw(logCellSize int, pixels []byte, w, h, pitch int) {
	fillRect(pixels, 0, 0, w, h, w, h, pitch, core.CellColor(u.background))
	cx := bignum.FromInt(w / 2)
	cy := bignum.FromInt(h / 2)
	drawNode(u.root, cx, cy, logCellSize+1, pixels, w, h, pitch)
}

// drawNode draws the subtree centered at (cx, cy) where the subtree spans
// 2^logSize pixels on a side. Subtrees fully off-screen are skipped;
// coordinates stay in BigFloat because a deep root overflows any machine
// integer long before it reaches the screen.
func drawNode(n *store.Node, cx, cy bignum.BigFloat, logSize int, pixels []byte, w, h, pitch int) {
	if logSize <= 0 {
		putPixel(pixels, cx, cy, w, h, pitch, n.Color())
		return
	}
	if n.Level() == 0 {
		size := bignum.Exp2(logSize - 1)
		drawSquare(pixels, cx.Sub(size), cy.Sub(size), size, w, h, pitch, core.CellColor(n.CellNW()))
		drawSquare(pixels, cx, cy.Sub(size), size, w, h, pitch, core.CellColor(n.CellNE()))
		drawSquare(pixels, cx.Sub(size), cy, size, w, h, pitch, core.CellColor(n.CellSW()))
		drawSquare(pixels, cx, cy, size, w, h, pitch, core.CellColor(n.CellSE()))
		return
	}
	size := bignum.Exp2(logSize - 1)
	half := size.Shr(1)
	if cx.Add(size).LessEq(bignum.BigFloat{}) || cy.Add(size).LessEq(bignum.BigFloat{}) ||
		cx.Sub(size).Greater(bignum.FromInt(w)) || cy.Sub(size).Greater(bignum.FromInt(h)) {
		return
	}
	drawNode(n.NW(), cx.Sub(half), cy.Sub(half), logSize-1, pixels, w, h, pitch)
	drawNode(n.NE(), cx.Add(half), cy.Sub(half), logSize-1, pixels, w, h, pitch)
	drawNode(n.SW(), cx.Sub(half), cy.Add(half), logSize-1, pixels, w, h, pitch)
	drawNode(n.SE(), cx.Add(half), cy.Add(half), logSize-1, pixels, w, h, pitch)
}

// drawSquare clips a size x size square at (x, y) to the buffer and fills
// it.
func drawSquare(pixels []byte, x, y, size bignum.BigFloat, w, h, pitch int, c core.Color) {
	zero := bignum.BigFloat{}
	if x.Add(size).Less(zero) || x.GreaterEq(bignum.FromInt(w)) {
		return
	}
	if y.Add(size).Less(zero) || y.GreaterEq(bignum.FromInt(h)) {
		return
	}
	xSize, ySize := size, size
	if x.Less(zero) {
		xSize = xSize.Add(x)
		x = zero
	}
	if y.Less(zero) {
		ySize = ySize.Add(y)
		y = zero
	}
	if x.Add(xSize).Greater(bignum.FromInt(w)) {
		xSize = bignum.FromInt(w).Sub(x)
	}
	if y.Add(ySize).Greater(bignum.FromInt(h)) {
		ySize = bignum.FromInt(h).Sub(y)
	}
	side := xSize
	if ySize.Greater(side) {
		side = ySize
	}
	fillRect(pixels, x.Int(), y.Int(), side.Int(), side.Int(), w, h, pitch, c)
}

func fillRect(pixels []byte, x, y, sw, sh, w, h, pitch int, c core.Color) {
	for ry := 0; ry < sh && y+ry < h; ry++ {
		if y+ry < 0 {
			continue
		}
		for rx := 0; rx < sw && x+rx < w; rx++ {
			if x+rx < 0 {
				continue
			}
			putPixelInt(pixels, x+rx, y+ry, w, h, pitch, c)
		}
	}
}

func putPixel(pixels []byte, x, y bignum.BigFloat, w, h, pitch int, c core.Color) {
	zero := bignum.BigFloat{}
	if x.Less(zero) || y.Less(zero) {
		return
	}
	putPixelInt(pixels, x.Int(), y.Int(), w, h, pitch, c)
}

// putPixelInt writes one ARGB pixel, little-endian byte order.
func putPixelInt(pixels []byte, x, y, w, h, pitch int, c core.Color) {
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	base := y*pitch + x*4
	pixels[base+0] = byte(c.B())
	pixels[base+1] = byte(c.G())
	pixels[base+2] = byte(c.R())
	pixels[base+3] = byte(c.A())
}
