package engine

import (
	"slices"
	"time"

	"reactiongame/internal/clock"
)

type eventKind int

const (
	evTick eventKind = iota
	evSpawn
	evMotion
	evExpiry
	evFreezeClear
	evMultiplierClear
	evCascade
)

func (k eventKind) String() string {
	switch k {
	case evTick:
		return "tick"
	case evSpawn:
		return "spawn"
	case evMotion:
		return "motion"
	case evExpiry:
		return "expiry"
	case evFreezeClear:
		return "freezeClear"
	case evMultiplierClear:
		return "multiplierClear"
	case evCascade:
		return "cascade"
	}
	return "unknown"
}

// cascadeStep is one pending tier of a chain reaction, centred on the
// target destroyed in the previous tier.
type cascadeStep struct {
	originID string
	x, y     float64
	depth    int
}

type scheduled struct {
	id       uint64
	kind     eventKind
	targetID string
	step     cascadeStep
	deadline time.Time
	// remaining holds the time left while the table is suspended.
	remaining time.Duration
	timer     clock.Timer
	// armed counts how many times a timer was started for this event; a
	// callback from an earlier arming is ignored.
	armed uint64
}

// schedule is the table of every pending timed event of one session. An
// event leaves the table exactly once: when it fires, or when it is
// cancelled.
type schedule struct {
	nextID    uint64
	events    map[uint64]*scheduled
	byTarget  map[string]uint64
	suspended bool
}

func newSchedule() *schedule {
	return &schedule{
		events:   make(map[uint64]*scheduled),
		byTarget: make(map[string]uint64),
	}
}

func (s *schedule) add(ev *scheduled) {
	s.nextID++
	ev.id = s.nextID
	s.events[ev.id] = ev
	if ev.kind == evExpiry {
		s.byTarget[ev.targetID] = ev.id
	}
}

func (s *schedule) get(id uint64) *scheduled {
	return s.events[id]
}

// take removes and returns the event, or nil if it already left the table.
func (s *schedule) take(id uint64) *scheduled {
	ev, ok := s.events[id]
	if !ok {
		return nil
	}
	delete(s.events, id)
	if ev.kind == evExpiry {
		delete(s.byTarget, ev.targetID)
	}
	return ev
}

// cancelTarget stops and removes the expiry of a target. It reports false
// if the target had no pending expiry.
func (s *schedule) cancelTarget(targetID string) bool {
	id, ok := s.byTarget[targetID]
	if !ok {
		return false
	}
	ev := s.take(id)
	if ev.timer != nil {
		ev.timer.Stop()
	}
	return true
}

func (s *schedule) ordered() []*scheduled {
	list := make([]*scheduled, 0, len(s.events))
	for _, ev := range s.events {
		list = append(list, ev)
	}
	slices.SortFunc(list, func(a, b *scheduled) int {
		switch {
		case a.id < b.id:
			return -1
		case a.id > b.id:
			return 1
		}
		return 0
	})
	return list
}

// suspend stops every timer and records what was left of each.
func (s *schedule) suspend(now time.Time) {
	for _, ev := range s.ordered() {
		if ev.timer != nil {
			ev.timer.Stop()
			ev.timer = nil
		}
		ev.remaining = max(0, ev.deadline.Sub(now))
	}
	s.suspended = true
}

func (s *schedule) cancelAll() {
	for _, ev := range s.events {
		if ev.timer != nil {
			ev.timer.Stop()
		}
	}
	s.events = make(map[uint64]*scheduled)
	s.byTarget = make(map[string]uint64)
	s.suspended = false
}

func (s *schedule) count(kind eventKind) int {
	n := 0
	for _, ev := range s.events {
		if ev.kind == kind {
			n++
		}
	}
	return n
}

func (s *schedule) len() int {
	return len(s.events)
}
