package scoring

import (
	"testing"

	"reactiongame/internal/targets"
)

func TestHitPoints_Normal(t *testing.T) {
	tests := []struct {
		combo, mult, base, want int
	}{
		{0, 1, 1, 1},
		{1, 1, 1, 1},
		{2, 1, 1, 3},
		{4, 1, 1, 6},
		{4, 2, 1, 12},
		{0, 1, 3, 3},
		{2, 1, 3, 7},
		{5, 1, 3, 12},
		{3, 4, 2, 20},
	}
	for _, tt := range tests {
		if got := HitPoints(targets.Normal, tt.combo, tt.mult, tt.base); got != tt.want {
			t.Errorf("HitPoints(normal, combo=%d, mult=%d, base=%d) = %d, want %d", tt.combo, tt.mult, tt.base, got, tt.want)
		}
	}
}

func TestHitPoints_Golden(t *testing.T) {
	tests := []struct {
		combo, mult, want int
	}{
		{0, 1, 5},
		{2, 1, 15},
		{4, 1, 30},
		{4, 2, 60},
	}
	for _, tt := range tests {
		if got := HitPoints(targets.Golden, tt.combo, tt.mult, 3); got != tt.want {
			t.Errorf("HitPoints(golden, combo=%d, mult=%d) = %d, want %d", tt.combo, tt.mult, got, tt.want)
		}
	}
}

func TestHitPoints_Flat(t *testing.T) {
	if got := HitPoints(targets.Bomb, 9, 2, 1); got != 6 {
		t.Errorf("bomb = %d, want 6", got)
	}
	if got := HitPoints(targets.TimeFreeze, 9, 2, 1); got != 4 {
		t.Errorf("timeFreeze = %d, want 4", got)
	}
	if got := HitPoints(targets.Multiplier, 0, 4, 1); got != 12 {
		t.Errorf("multiplier = %d, want 12", got)
	}
	if got := HitPoints(targets.Chain, 5, 2, 1); got != 0 {
		t.Errorf("chain = %d, want 0", got)
	}
}

func TestComboGain(t *testing.T) {
	for _, typ := range targets.Types {
		want := 1
		if typ == targets.Bomb || typ == targets.Chain {
			want = 0
		}
		if got := ComboGain(typ); got != want {
			t.Errorf("ComboGain(%s) = %d, want %d", typ, got, want)
		}
	}
}

func TestCascadePoints(t *testing.T) {
	for depth, want := range []int{2, 3, 4, 5} {
		if got := CascadePoints(depth, 1); got != want {
			t.Errorf("CascadePoints(%d, 1) = %d, want %d", depth, got, want)
		}
	}
	if got := CascadePoints(1, 4); got != 12 {
		t.Errorf("CascadePoints(1, 4) = %d, want 12", got)
	}
	if got := NeighborPoints(2); got != 4 {
		t.Errorf("NeighborPoints(2) = %d, want 4", got)
	}
}

func TestBoostDecay(t *testing.T) {
	m := 1
	m = Boost(m)
	m = Boost(m)
	if m != 4 {
		t.Fatalf("after two boosts = %d, want 4", m)
	}
	m = Decay(m)
	m = Decay(m)
	m = Decay(m)
	if m != 1 {
		t.Errorf("decay floor = %d, want 1", m)
	}
}
