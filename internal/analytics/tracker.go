package analytics

import (
	"maps"
	"sync"

	"reactiongame/internal/events"
)

type tally struct {
	stats         SessionStats
	reactionSum   int64
	reactionCount int
}

// Tracker builds live stats for every session from its events.
type Tracker struct {
	mu       sync.Mutex
	sessions map[string]*tally
}

func NewTracker() *Tracker {
	return &Tracker{
		sessions: make(map[string]*tally),
	}
}

// Observe folds one event into the session's stats. A fresh start resets
// them; resuming from pause does not. Events of sessions that were never
// seen starting are ignored.
func (t *Tracker) Observe(ev events.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tl, ok := t.sessions[ev.SessionID]
	fresh := ev.Kind == events.KindPhase && ev.Phase == "playing" && ev.From != "paused"
	if !ok && !fresh {
		return
	}
	if fresh {
		tl = &tally{stats: SessionStats{
			SessionID:  ev.SessionID,
			HitsByType: make(map[string]int),
		}}
		t.sessions[ev.SessionID] = tl
	}

	s := &tl.stats
	s.Mode = ev.Mode
	s.Score = ev.Score
	switch ev.Kind {
	case events.KindHit:
		s.Hits++
		s.HitsByType[ev.TargetType]++
		s.BestCombo = max(s.BestCombo, ev.Combo)
		if !ev.SpawnedAt.IsZero() && ev.At.After(ev.SpawnedAt) {
			ms := int(ev.At.Sub(ev.SpawnedAt).Milliseconds())
			tl.reactionSum += int64(ms)
			tl.reactionCount++
			s.AvgReaction = float64(tl.reactionSum) / float64(tl.reactionCount)
			if s.BestReaction == 0 || ms < s.BestReaction {
				s.BestReaction = ms
			}
		}
	case events.KindMiss:
		s.Misses++
	}
}

// Stats returns a copy of the session's stats with its badges evaluated.
func (t *Tracker) Stats(sessionID string) (SessionStats, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	tl, ok := t.sessions[sessionID]
	if !ok {
		return SessionStats{}, false
	}
	out := tl.stats
	out.HitsByType = maps.Clone(tl.stats.HitsByType)
	out.Badges = EvaluateSessionBadges(out)
	return out, true
}

func (t *Tracker) Forget(sessionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.sessions, sessionID)
}
