package engine

import (
	"context"

	"reactiongame/internal/events"
	"reactiongame/internal/scoring"
	"reactiongame/internal/targets"
)

// hitHandler applies a hit on a live target and returns the points awarded.
type hitHandler func(t *targets.Target) int

func (e *Engine) hitHandlers() map[targets.Type]hitHandler {
	return map[targets.Type]hitHandler{
		targets.Normal:     e.hitSimple,
		targets.Golden:     e.hitSimple,
		targets.Bomb:       e.hitBomb,
		targets.Chain:      e.hitChain,
		targets.TimeFreeze: e.hitTimeFreeze,
		targets.Multiplier: e.hitMultiplier,
	}
}

// Hit registers a click on a target. It reports false when the target is no
// longer live or the session is not playing; neither is an error.
func (e *Engine) Hit(_ context.Context, targetID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Phase != PhasePlaying {
		return false
	}
	t := e.targets.Get(targetID)
	if t == nil {
		return false
	}
	handle, ok := e.handlers[t.Type]
	if !ok {
		e.log.WithField("type", t.Type).Error("[Engine] No handler for target type")
		return false
	}

	points := handle(t)
	e.publish(events.Event{
		Kind:       events.KindHit,
		Points:     points,
		TargetID:   t.ID,
		TargetType: t.Type.String(),
		TargetX:    t.X,
		TargetY:    t.Y,
		SpawnedAt:  t.SpawnedAt,
	})
	return true
}

// direct removes the target and scores it with the combo from before this hit.
func (e *Engine) direct(t *targets.Target) int {
	e.removeTarget(t.ID)
	points := scoring.HitPoints(t.Type, e.state.Combo, e.state.Multiplier, e.cfg.BasePoints)
	e.state.Combo += scoring.ComboGain(t.Type)
	e.addPoints(points)
	return points
}

func (e *Engine) hitSimple(t *targets.Target) int {
	return e.direct(t)
}

func (e *Engine) hitTimeFreeze(t *targets.Target) int {
	points := e.direct(t)
	e.freeze()
	return points
}

// hitMultiplier scores with the multiplier from before the boost.
func (e *Engine) hitMultiplier(t *targets.Target) int {
	points := e.direct(t)
	e.boost()
	return points
}

// hitBomb destroys every target in the blast radius. Destroyed neighbors
// are not misses and each adds one to the combo.
func (e *Engine) hitBomb(t *targets.Target) int {
	e.removeTarget(t.ID)
	before := e.state.Score
	destroyed := 0
	for _, n := range e.targets.Neighbors(t.X, t.Y, scoring.BombRadius, t.ID) {
		if _, ok := e.removeTarget(n.ID); !ok {
			continue
		}
		destroyed++
		e.addPoints(scoring.NeighborPoints(e.state.Multiplier))
	}
	e.addPoints(scoring.HitPoints(targets.Bomb, e.state.Combo, e.state.Multiplier, e.cfg.BasePoints))
	e.state.Combo += destroyed
	return e.state.Score - before
}

// hitChain resolves the first cascade tier immediately; deeper tiers
// resolve from the schedule.
func (e *Engine) hitChain(t *targets.Target) int {
	e.removeTarget(t.ID)
	before := e.state.Score
	e.resolveChain(cascadeStep{originID: t.ID, x: t.X, y: t.Y, depth: 0})
	return e.state.Score - before
}
