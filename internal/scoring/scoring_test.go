package scoring

import (
	"testing"

	"github.com/cbonnaire/tidyquest/internal/model"
)

func TestAward(t *testing.T) {
	if got := Award(10, model.UrgencyLow); got != 10 {
		t.Errorf("Award(10, low) = %d, want 10", got)
	}
	if got := Award(10, model.UrgencyMedium); got != 10 {
		t.Errorf("Award(10, medium) = %d, want 10", got)
	}
	if got := Award(10, model.UrgencyHigh); got != 15 {
		t.Errorf("Award(10, high) = %d, want 15", got)
	}
}

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{249, 2},
		{250, 3},
		{499, 3},
		{500, 4},
		{999, 4},
		{1000, 5},
		{1999, 5},
		// The 2000 boundary jumps straight to xp/100+1.
		{2000, 21},
		{2550, 26},
	}

	for _, tt := range tests {
		if got := LevelForXP(tt.xp); got != tt.want {
			t.Errorf("LevelForXP(%d) = %d, want %d", tt.xp, got, tt.want)
		}
	}
}

func TestLevelMonotonicBelowJump(t *testing.T) {
	prev := 0
	for xp := 0; xp < 2000; xp++ {
		lvl := LevelForXP(xp)
		if lvl < prev {
			t.Fatalf("level decreased at xp=%d: %d -> %d", xp, prev, lvl)
		}
		prev = lvl
	}
}
