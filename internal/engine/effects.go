package engine

import (
	"reactiongame/internal/events"
	"reactiongame/internal/scoring"
	"reactiongame/internal/targets"
)

// miss counts a target that left play unhit. Ends the session in the same
// handler when the miss limit is reached.
func (e *Engine) miss(t *targets.Target) {
	e.state.Missed++
	e.state.Combo = 0
	e.publish(events.Event{
		Kind:       events.KindMiss,
		TargetID:   t.ID,
		TargetType: t.Type.String(),
		TargetX:    t.X,
		TargetY:    t.Y,
		SpawnedAt:  t.SpawnedAt,
	})
	e.checkEnd()
}

// freeze stops the countdown. Each activation clears the flag on its own
// timer, so overlapping freezes end with the first clear.
func (e *Engine) freeze() {
	e.state.TimeFrozen = true
	e.after(scoring.FreezeDuration, &scheduled{kind: evFreezeClear})
}

func (e *Engine) clearFreeze() {
	e.state.TimeFrozen = false
}

// boost doubles the multiplier; every activation halves it once when its
// own window closes.
func (e *Engine) boost() {
	e.state.Multiplier = scoring.Boost(e.state.Multiplier)
	e.after(scoring.MultiplierDuration, &scheduled{kind: evMultiplierClear})
}

func (e *Engine) clearMultiplier() {
	e.state.Multiplier = scoring.Decay(e.state.Multiplier)
}

// resolveChain destroys every live target within the chain radius of the
// step's origin, then queues the next tier from each destroyed target.
// Tiers deeper than MaxChainDepth are never queued.
func (e *Engine) resolveChain(step cascadeStep) int {
	if step.depth > scoring.MaxChainDepth {
		return 0
	}
	near := e.targets.Neighbors(step.x, step.y, scoring.ChainRadius, step.originID)
	destroyed := 0
	for _, n := range near {
		t, ok := e.removeTarget(n.ID)
		if !ok {
			continue
		}
		destroyed++
		e.addPoints(scoring.CascadePoints(step.depth, e.state.Multiplier))
		if step.depth < scoring.MaxChainDepth {
			e.after(scoring.ChainDelay, &scheduled{
				kind: evCascade,
				step: cascadeStep{originID: t.ID, x: t.X, y: t.Y, depth: step.depth + 1},
			})
		}
	}
	e.state.Combo += destroyed
	return destroyed
}

func (e *Engine) addPoints(points int) {
	e.state.Score += points
	if e.state.Score > e.state.BestScore {
		e.state.BestScore = e.state.Score
	}
}
