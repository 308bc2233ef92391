package rle

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hashlife/internal/core"
	"hashlife/internal/rule"
)

func TestReadGlider(t *testing.T) {
	src := `#N Glider
#C The smallest spaceship.
x = 3, y = 3, rule = B3/S23
bob$2bo$3o!
`
	u, err := Read(strings.NewReader(src), 0)
	require.NoError(t, err)

	want := [][2]int64{{1, 0}, {2, 1}, {0, 2}, {1, 2}, {2, 2}}
	assert.Equal(t, uint64(5), u.Population())
	for _, p := range want {
		assert.Equal(t, core.Cell(1), u.GetCell(p[0], p[1]), "cell (%d,%d)", p[0], p[1])
	}
	assert.Equal(t, core.Cell(0), u.GetCell(0, 0))
}

func TestReadRunCountsAndBlankRows(t *testing.T) {
	src := "x = 4, y = 3, rule = B3/S23\n4o2$4o!\n"
	u, err := Read(strings.NewReader(src), 0)
	require.NoError(t, err)
	for x := int64(0); x < 4; x++ {
		assert.Equal(t, core.Cell(1), u.GetCell(x, 0))
		assert.Equal(t, core.Cell(0), u.GetCell(x, 1))
		assert.Equal(t, core.Cell(1), u.GetCell(x, 2))
	}
}

func TestReadMultiStateTokens(t *testing.T) {
	// A = 1, X = 24, pA = 25, qA = 49, rA = 75, yO = 255
	src := "x = 6, y = 1, rule = B3/S23\nAXpAqArAyO!\n"
	u, err := Read(strings.NewReader(src), 0)
	require.NoError(t, err)
	assert.Equal(t, core.Cell(1), u.GetCell(0, 0))
	assert.Equal(t, core.Cell(24), u.GetCell(1, 0))
	assert.Equal(t, core.Cell(25), u.GetCell(2, 0))
	assert.Equal(t, core.Cell(49), u.GetCell(3, 0))
	assert.Equal(t, core.Cell(75), u.GetCell(4, 0))
	assert.Equal(t, core.Cell(255), u.GetCell(5, 0))
}

func TestReadErrors(t *testing.T) {
	cases := map[string]string{
		"empty":             "",
		"no header":         "bob$2bo$3o!\n",
		"bad token":         "x = 3, y = 3, rule = B3/S23\nzzz!\n",
		"unterminated":      "x = 3, y = 3, rule = B3/S23\nbob$2bo$3o\n",
		"bad p run":         "x = 3, y = 1, rule = B3/S23\np9!\n",
		"bad width":         "x = wide, y = 3, rule = B3/S23\n3o!\n",
		"bad header layout": "x : 3\n3o!\n",
	}
	for name, src := range cases {
		_, err := Read(strings.NewReader(src), 0)
		assert.ErrorIs(t, err, ErrReadFailed, "case %s", name)
	}
}

func TestReadInvalidRule(t *testing.T) {
	src := "x = 3, y = 3, rule = B3S23\n3o!\n"
	_, err := Read(strings.NewReader(src), 0)
	assert.ErrorIs(t, err, rule.ErrInvalidRule)
}

func TestReadUsesHeaderRule(t *testing.T) {
	// seeds (B2/S): two adjacent cells give birth above and below, and
	// both originals die
	src := "x = 2, y = 1, rule = B2/S\n2o!\n"
	u, err := Read(strings.NewReader(src), 0)
	require.NoError(t, err)
	u.Step(0)
	assert.Equal(t, core.Cell(0), u.GetCell(0, 0))
	assert.Equal(t, core.Cell(0), u.GetCell(1, 0))
	assert.Equal(t, core.Cell(1), u.GetCell(0, -1))
	assert.Equal(t, core.Cell(1), u.GetCell(1, -1))
	assert.Equal(t, core.Cell(1), u.GetCell(0, 1))
	assert.Equal(t, core.Cell(1), u.GetCell(1, 1))
}
