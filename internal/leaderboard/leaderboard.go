package leaderboard

import (
	"slices"
	"time"

	"reactiongame/internal/modes"
)

// MaxRecords is how many records the stored history keeps.
const MaxRecords = 20

// View sizes used by the leaderboard screen.
const (
	OverallLimit = 10
	ModeLimit    = 8
)

type ScoreRecord struct {
	ID         string     `json:"id" msgpack:"id"`
	Score      int        `json:"score" msgpack:"score"`
	Mode       modes.Mode `json:"mode" msgpack:"mode"`
	Timestamp  time.Time  `json:"timestamp" msgpack:"timestamp"`
	FinalCombo int        `json:"combo" msgpack:"combo"`
}

// Sort orders records by score descending; equal scores keep their order.
func Sort(records []ScoreRecord) {
	slices.SortStableFunc(records, func(a, b ScoreRecord) int {
		return b.Score - a.Score
	})
}

// Insert appends rec, re-sorts and truncates to MaxRecords. The input slice
// is not modified.
func Insert(records []ScoreRecord, rec ScoreRecord) []ScoreRecord {
	out := make([]ScoreRecord, 0, len(records)+1)
	out = append(out, records...)
	out = append(out, rec)
	Sort(out)
	if len(out) > MaxRecords {
		out = out[:MaxRecords]
	}
	return out
}

// Top returns the n best records across all modes.
func Top(records []ScoreRecord, n int) []ScoreRecord {
	out := slices.Clone(records)
	Sort(out)
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// ForMode returns the n best records for a single mode.
func ForMode(records []ScoreRecord, mode modes.Mode, n int) []ScoreRecord {
	var out []ScoreRecord
	for _, r := range records {
		if r.Mode == mode {
			out = append(out, r)
		}
	}
	return Top(out, n)
}

// Valid reports whether a stored record is usable.
func Valid(r ScoreRecord) bool {
	if r.Score < 0 || r.FinalCombo < 0 {
		return false
	}
	_, ok := modes.Lookup(r.Mode)
	return ok
}
