package events

import "time"

type Kind string

const (
	KindPhase = Kind("phase")
	KindSpawn = Kind("spawn")
	KindHit   = Kind("hit")
	KindMiss  = Kind("miss")
)

// Event is a notification about a session. Sessions publish them after a
// handler has finished mutating state; consumers only observe.
type Event struct {
	SessionID  string    `json:"sessionId"`
	Kind       Kind      `json:"kind"`
	Mode       string    `json:"mode"`
	Phase      string    `json:"phase"`
	From       string    `json:"from,omitempty"`
	Score      int       `json:"score"`
	Combo      int       `json:"combo"`
	Points     int       `json:"points,omitempty"`
	TargetID   string    `json:"targetId,omitempty"`
	TargetType string    `json:"targetType,omitempty"`
	TargetX    float64   `json:"x,omitempty"`
	TargetY    float64   `json:"y,omitempty"`
	SpawnedAt  time.Time `json:"spawnedAt,omitzero"`
	At         time.Time `json:"at"`
}

type Bus struct {
	Events chan Event
}

func NewBus() *Bus {
	return &Bus{
		Events: make(chan Event, 256),
	}
}

// Publish never blocks; events are dropped when the buffer is full. It
// reports whether the event was queued. A nil bus drops everything.
func (b *Bus) Publish(ev Event) bool {
	if b == nil {
		return false
	}
	select {
	case b.Events <- ev:
		return true
	default:
		return false
	}
}
