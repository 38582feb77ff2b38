package analytics

import (
	"testing"
	"time"

	"reactiongame/internal/events"
)

func hitEvent(session, typ string, score, combo int, reaction time.Duration) events.Event {
	spawned := time.Unix(1000, 0)
	return events.Event{
		SessionID:  session,
		Kind:       events.KindHit,
		Mode:       "classic",
		TargetType: typ,
		Score:      score,
		Combo:      combo,
		SpawnedAt:  spawned,
		At:         spawned.Add(reaction),
	}
}

func startEvent(session string) events.Event {
	return events.Event{SessionID: session, Kind: events.KindPhase, Mode: "classic", Phase: "playing"}
}

func TestTracker_Observe(t *testing.T) {
	tr := NewTracker()
	tr.Observe(events.Event{SessionID: "s1", Kind: events.KindPhase, Mode: "classic", Phase: "playing"})
	tr.Observe(hitEvent("s1", "normal", 1, 1, 300*time.Millisecond))
	tr.Observe(hitEvent("s1", "golden", 6, 2, 500*time.Millisecond))
	tr.Observe(events.Event{SessionID: "s1", Kind: events.KindMiss, Mode: "classic", Score: 6})

	stats, ok := tr.Stats("s1")
	if !ok {
		t.Fatal("Stats() found nothing for s1")
	}
	if stats.Hits != 2 || stats.Misses != 1 {
		t.Errorf("hits=%d misses=%d, want 2 and 1", stats.Hits, stats.Misses)
	}
	if stats.Score != 6 || stats.BestCombo != 2 {
		t.Errorf("score=%d bestCombo=%d, want 6 and 2", stats.Score, stats.BestCombo)
	}
	if stats.AvgReaction != 400 || stats.BestReaction != 300 {
		t.Errorf("avg=%v best=%d, want 400 and 300", stats.AvgReaction, stats.BestReaction)
	}
	if stats.HitsByType["golden"] != 1 || stats.HitsByType["normal"] != 1 {
		t.Errorf("hitsByType = %v", stats.HitsByType)
	}
}

func TestTracker_ResumeKeepsStatsRestartResets(t *testing.T) {
	tr := NewTracker()
	tr.Observe(events.Event{SessionID: "s1", Kind: events.KindPhase, Phase: "playing"})
	tr.Observe(hitEvent("s1", "normal", 1, 1, 200*time.Millisecond))
	tr.Observe(events.Event{SessionID: "s1", Kind: events.KindPhase, Phase: "paused", From: "playing", Score: 1})
	tr.Observe(events.Event{SessionID: "s1", Kind: events.KindPhase, Phase: "playing", From: "paused", Score: 1})

	if stats, _ := tr.Stats("s1"); stats.Hits != 1 {
		t.Errorf("hits after resume = %d, want 1", stats.Hits)
	}

	tr.Observe(events.Event{SessionID: "s1", Kind: events.KindPhase, Phase: "gameOver", From: "playing", Score: 1})
	tr.Observe(events.Event{SessionID: "s1", Kind: events.KindPhase, Phase: "playing", From: "gameOver"})

	if stats, _ := tr.Stats("s1"); stats.Hits != 0 || stats.Score != 0 {
		t.Errorf("stats after restart = %+v, want reset", stats)
	}
}

func TestTracker_StatsIsACopy(t *testing.T) {
	tr := NewTracker()
	tr.Observe(startEvent("s1"))
	tr.Observe(hitEvent("s1", "bomb", 3, 0, 100*time.Millisecond))

	stats, _ := tr.Stats("s1")
	stats.HitsByType["bomb"] = 99

	again, _ := tr.Stats("s1")
	if again.HitsByType["bomb"] != 1 {
		t.Errorf("bomb hits = %d, want 1", again.HitsByType["bomb"])
	}
}

func TestTracker_Forget(t *testing.T) {
	tr := NewTracker()
	tr.Observe(startEvent("s1"))
	tr.Forget("s1")
	if _, ok := tr.Stats("s1"); ok {
		t.Error("Stats() should find nothing after Forget()")
	}

	// a late event must not bring the session back
	tr.Observe(hitEvent("s1", "normal", 1, 1, 100*time.Millisecond))
	if _, ok := tr.Stats("s1"); ok {
		t.Error("late event recreated a forgotten session")
	}
}
