package persistence

import (
	"context"
	"testing"

	"reactiongame/internal/leaderboard"
	"reactiongame/internal/modes"
)

func TestMemory_BestScore(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	got, err := m.BestScore(ctx, modes.Classic)
	if err != nil {
		t.Fatalf("BestScore() error: %v", err)
	}
	if got != 0 {
		t.Errorf("absent best = %d, want 0", got)
	}

	if err := m.SetBestScore(ctx, modes.Classic, 42); err != nil {
		t.Fatalf("SetBestScore() error: %v", err)
	}
	got, _ = m.BestScore(ctx, modes.Classic)
	if got != 42 {
		t.Errorf("best = %d, want 42", got)
	}
	other, _ := m.BestScore(ctx, modes.Zen)
	if other != 0 {
		t.Errorf("zen best = %d, want 0", other)
	}
}

func TestMemory_ScoreHistory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	records := []leaderboard.ScoreRecord{{ID: "a", Score: 5, Mode: modes.Zen}}
	if err := m.SetScoreHistory(ctx, records); err != nil {
		t.Fatalf("SetScoreHistory() error: %v", err)
	}
	records[0].Score = 999

	got, err := m.ScoreHistory(ctx)
	if err != nil {
		t.Fatalf("ScoreHistory() error: %v", err)
	}
	if len(got) != 1 || got[0].Score != 5 {
		t.Errorf("history = %v, want one record with score 5", got)
	}
}

func TestClean(t *testing.T) {
	in := []leaderboard.ScoreRecord{
		{ID: "ok", Score: 5, Mode: modes.Zen},
		{ID: "neg", Score: -1, Mode: modes.Zen},
		{ID: "mode", Score: 5, Mode: "arcade"},
	}
	out := Clean(in)
	if len(out) != 1 || out[0].ID != "ok" {
		t.Errorf("Clean() = %v, want only ok", out)
	}
}
