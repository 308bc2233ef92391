package life

import (
	"testing"

	"hashlife/internal/rule"
)

func TestBlinkerOscillation(t *testing.T) {
	sim := New(rule.Life(), -2, -2, 7, 7)
	sim.Set(0, 0, 1)
	sim.Set(1, 0, 1)
	sim.Set(2, 0, 1)

	sim.Step()

	expects := map[[2]int64]bool{
		{1, -1}: true,
		{1, 0}:  true,
		{1, 1}:  true,
	}
	for y := int64(-2); y < 5; y++ {
		for x := int64(-2); x < 5; x++ {
			alive := sim.At(x, y) != 0
			if expects[[2]int64{x, y}] != alive {
				t.Fatalf("cell (%d,%d) alive=%v, expected %v", x, y, alive, expects[[2]int64{x, y}])
			}
		}
	}

	sim.Step()
	expects = map[[2]int64]bool{
		{0, 0}: true,
		{1, 0}: true,
		{2, 0}: true,
	}
	for y := int64(-2); y < 5; y++ {
		for x := int64(-2); x < 5; x++ {
			alive := sim.At(x, y) != 0
			if expects[[2]int64{x, y}] != alive {
				t.Fatalf("after second step cell (%d,%d) alive=%v, expected %v", x, y, alive, expects[[2]int64{x, y}])
			}
		}
	}
}

func TestSurvivalKeepsColor(t *testing.T) {
	sim := New(rule.Life(), 0, 0, 6, 6)
	// a block of colored cells is a still life; colors must persist
	sim.Set(2, 2, 3)
	sim.Set(3, 2, 4)
	sim.Set(2, 3, 5)
	sim.Set(3, 3, 6)

	sim.StepN(3)

	if got := sim.At(2, 2); got != 3 {
		t.Fatalf("cell (2,2) = %d, want 3", got)
	}
	if got := sim.At(3, 3); got != 6 {
		t.Fatalf("cell (3,3) = %d, want 6", got)
	}
	if got := sim.Population(); got != 4 {
		t.Fatalf("population = %d, want 4", got)
	}
}

func TestSeedsEveryoneDies(t *testing.T) {
	tbl, err := rule.Parse("B2/S")
	if err != nil {
		t.Fatal(err)
	}
	sim := New(tbl, -4, -4, 12, 12)
	sim.Set(0, 0, 1)
	sim.Set(1, 0, 1)

	sim.Step()

	if sim.At(0, 0) != 0 || sim.At(1, 0) != 0 {
		t.Fatal("seeds cells must die every generation")
	}
	if sim.At(0, -1) != 1 || sim.At(1, -1) != 1 || sim.At(0, 1) != 1 || sim.At(1, 1) != 1 {
		t.Fatal("expected births above and below the pair")
	}
}
