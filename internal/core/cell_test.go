package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorChannels(t *testing.T) {
	c := RGBA(0x12, 0x34, 0x56, 0x78)
	assert.Equal(t, 0x12, c.R())
	assert.Equal(t, 0x34, c.G())
	assert.Equal(t, 0x56, c.B())
	assert.Equal(t, 0x78, c.A())
	assert.Equal(t, 0xFF, RGB(1, 2, 3).A())
}

func TestCellColorPalette(t *testing.T) {
	assert.Equal(t, RGB(0, 0, 0), CellColor(0), "background is black")
	assert.Equal(t, RGB(0xFF, 0xFF, 0xFF), CellColor(1))
	assert.Equal(t, RGB(0xFF, 0, 0), CellColor(4))
	assert.Equal(t, RGB(0x80, 0x80, 0x80), CellColor(8), "nonzero multiple of eight is grey")
}

func TestCombineColorsSkipsBlack(t *testing.T) {
	red := RGB(0xFF, 0, 0)
	blue := RGB(0, 0, 0xFF)
	black := RGB(0, 0, 0)

	assert.Equal(t, red, CombineColors(red, black, black, black))
	mixed := CombineColors(red, blue, black, black)
	assert.Equal(t, RGB(0x80, 0, 0x80), mixed, "rounds to nearest")
	assert.Equal(t, black, CombineColors(black, black, black, black))
}

func TestCellGridWindow(t *testing.T) {
	g := NewCellGrid(-2, -2, 4, 4)
	g.Set(-2, -2, 7)
	g.Set(1, 1, 3)
	g.Set(5, 5, 9) // outside: dropped

	assert.Equal(t, Cell(7), g.At(-2, -2))
	assert.Equal(t, Cell(3), g.At(1, 1))
	assert.Equal(t, Cell(0), g.At(5, 5))
	assert.Equal(t, Cell(0), g.At(0, 0))

	g.Clear()
	assert.Equal(t, Cell(0), g.At(-2, -2))
}
