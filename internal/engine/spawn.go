package engine

import (
	"reactiongame/internal/events"
	"reactiongame/internal/targets"
)

// tick is the one-second session countdown. It keeps ticking while time is
// frozen but does not count down.
func (e *Engine) tick() {
	if !e.state.TimeFrozen && e.state.TimeRemaining > 0 {
		e.state.TimeRemaining--
	}
	e.checkEnd()
	e.after(tickInterval, &scheduled{kind: evTick})
}

// spawn adds one target and schedules the next spawn. Both the lifetime and
// the next interval come from the score at this moment.
func (e *Engine) spawn() {
	t := e.spawner.Next(e.cfg.Moving)
	e.addTarget(t)
	e.publish(events.Event{
		Kind:       events.KindSpawn,
		TargetID:   t.ID,
		TargetType: t.Type.String(),
		TargetX:    t.X,
		TargetY:    t.Y,
		SpawnedAt:  t.SpawnedAt,
	})
	e.after(e.cfg.SpawnInterval(e.state.Score), &scheduled{kind: evSpawn})
}

func (e *Engine) addTarget(t *targets.Target) {
	e.targets.Add(t)
	e.after(e.cfg.TargetLifetime(e.state.Score), &scheduled{kind: evExpiry, targetID: t.ID})
}

// removeTarget takes a live target out of play and cancels its expiry.
func (e *Engine) removeTarget(id string) (*targets.Target, bool) {
	t, ok := e.targets.Remove(id)
	if !ok {
		return nil, false
	}
	e.sched.cancelTarget(id)
	return t, true
}

func (e *Engine) move() {
	e.targets.Step()
	e.after(motionInterval, &scheduled{kind: evMotion})
}

// expire runs when a target's lifetime ran out. The expiry event has
// already left the schedule, so only the target itself is removed here.
func (e *Engine) expire(id string) {
	t, ok := e.targets.Remove(id)
	if !ok {
		return
	}
	e.miss(t)
}
