package analytics

import "testing"

func hasBadge(badges []Badge, id BadgeID) bool {
	for _, b := range badges {
		if b.ID == id {
			return true
		}
	}
	return false
}

func TestEvaluateSessionBadges_Sharpshooter(t *testing.T) {
	badges := EvaluateSessionBadges(SessionStats{HitsByType: map[string]int{"golden": 5}})
	if !hasBadge(badges, BadgeSharpshooter) {
		t.Error("should earn Sharpshooter with 5 golden hits")
	}
}

func TestEvaluateSessionBadges_NoSharpshooter(t *testing.T) {
	badges := EvaluateSessionBadges(SessionStats{HitsByType: map[string]int{"golden": 4}})
	if hasBadge(badges, BadgeSharpshooter) {
		t.Error("should not earn Sharpshooter with 4 golden hits")
	}
}

func TestEvaluateSessionBadges_SpeedDemon(t *testing.T) {
	badges := EvaluateSessionBadges(SessionStats{Hits: 10, Misses: 1, AvgReaction: 350})
	if !hasBadge(badges, BadgeSpeedDemon) {
		t.Error("should earn Speed Demon with 350ms avg reaction")
	}
}

func TestEvaluateSessionBadges_NoSpeedDemon(t *testing.T) {
	cases := []SessionStats{
		{Hits: 10, AvgReaction: 450},
		{Hits: 9, AvgReaction: 200},
		{Hits: 10, AvgReaction: 0},
	}
	for _, stats := range cases {
		if hasBadge(EvaluateSessionBadges(stats), BadgeSpeedDemon) {
			t.Errorf("should not earn Speed Demon with %+v", stats)
		}
	}
}

func TestEvaluateSessionBadges_Centurion(t *testing.T) {
	if !hasBadge(EvaluateSessionBadges(SessionStats{Score: 100}), BadgeCenturion) {
		t.Error("should earn Centurion with 100 points")
	}
	if hasBadge(EvaluateSessionBadges(SessionStats{Score: 99}), BadgeCenturion) {
		t.Error("should not earn Centurion with 99 points")
	}
}

func TestEvaluateSessionBadges_Unstoppable(t *testing.T) {
	if !hasBadge(EvaluateSessionBadges(SessionStats{BestCombo: 20}), BadgeUnstoppable) {
		t.Error("should earn Unstoppable with a 20 combo")
	}
	if hasBadge(EvaluateSessionBadges(SessionStats{BestCombo: 19}), BadgeUnstoppable) {
		t.Error("should not earn Unstoppable with a 19 combo")
	}
}

func TestEvaluateSessionBadges_PowerUps(t *testing.T) {
	badges := EvaluateSessionBadges(SessionStats{HitsByType: map[string]int{"bomb": 3, "timeFreeze": 2}})
	if !hasBadge(badges, BadgeDemolition) {
		t.Error("should earn Demolition with 3 bombs")
	}
	if !hasBadge(badges, BadgeTimeLord) {
		t.Error("should earn Time Lord with 2 freezes")
	}
}

func TestEvaluateSessionBadges_Perfectionist(t *testing.T) {
	if !hasBadge(EvaluateSessionBadges(SessionStats{Hits: 10}), BadgePerfectionist) {
		t.Error("should earn Perfectionist with 10 hits and no misses")
	}
	if hasBadge(EvaluateSessionBadges(SessionStats{Hits: 10, Misses: 1}), BadgePerfectionist) {
		t.Error("should not earn Perfectionist after a miss")
	}
}

func TestEvaluateSessionBadges_NoBadges(t *testing.T) {
	stats := SessionStats{
		Hits:        5,
		Misses:      2,
		Score:       10,
		BestCombo:   3,
		AvgReaction: 500,
		HitsByType:  map[string]int{"normal": 4, "golden": 1},
	}
	if badges := EvaluateSessionBadges(stats); len(badges) != 0 {
		t.Errorf("should earn no badges, got %d", len(badges))
	}
}

func TestEvaluateSessionBadges_MultipleBadges(t *testing.T) {
	stats := SessionStats{
		Hits:        30,
		Score:       120,
		BestCombo:   25,
		AvgReaction: 300,
		HitsByType:  map[string]int{"golden": 6, "bomb": 3, "timeFreeze": 2},
	}
	badges := EvaluateSessionBadges(stats)
	if len(badges) != len(AllBadges) {
		t.Errorf("got %d badges, want all %d", len(badges), len(AllBadges))
	}
}
