package targets

import "time"

type Type int

const (
	Normal Type = iota
	Golden
	Bomb
	Chain
	TimeFreeze
	Multiplier
)

// Types lists every target type; dispatch tables are checked against it.
var Types = []Type{Normal, Golden, Bomb, Chain, TimeFreeze, Multiplier}

func (t Type) String() string {
	switch t {
	case Normal:
		return "normal"
	case Golden:
		return "golden"
	case Bomb:
		return "bomb"
	case Chain:
		return "chain"
	case TimeFreeze:
		return "timeFreeze"
	case Multiplier:
		return "multiplier"
	default:
		return "unknown"
	}
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

type Shape string

const (
	Circle   = Shape("circle")
	Square   = Shape("square")
	Triangle = Shape("triangle")
)

var Shapes = []Shape{Circle, Square, Triangle}

type Velocity struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Target positions are percentages of the play field.
type Target struct {
	ID        string    `json:"id"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Shape     Shape     `json:"shape"`
	Color     string    `json:"color"`
	Type      Type      `json:"type"`
	Velocity  *Velocity `json:"velocity,omitempty"`
	SpawnedAt time.Time `json:"spawnedAt"`
}
