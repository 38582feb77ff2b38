package targets

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Spawn area, in percent of the play field.
const (
	MinSpawnX = 10.0
	MaxSpawnX = 90.0
	MinSpawnY = 15.0
	MaxSpawnY = 85.0
)

var palette = []string{"red", "blue", "green", "yellow", "purple", "pink"}

// accent colors join the palette for special targets.
var accents = map[Type]string{
	Golden:     "gold",
	Bomb:       "crimson",
	Chain:      "violet",
	TimeFreeze: "sky",
	Multiplier: "lime",
}

// typeOdds holds cumulative upper bounds for a single uniform draw.
var typeOdds = []struct {
	below float64
	typ   Type
}{
	{0.05, Golden},
	{0.08, Bomb},
	{0.11, Chain},
	{0.13, TimeFreeze},
	{0.15, Multiplier},
}

// RollType maps a draw in [0,1) to a target type.
func RollType(r float64) Type {
	for _, odd := range typeOdds {
		if r < odd.below {
			return odd.typ
		}
	}
	return Normal
}

type Spawner struct {
	rng *rand.Rand
	now func() time.Time
}

func NewSpawner(rng *rand.Rand, now func() time.Time) *Spawner {
	if now == nil {
		now = time.Now
	}
	return &Spawner{rng: rng, now: now}
}

// Next builds a randomized target. Moving targets get velocity components
// in [-1, 1].
func (s *Spawner) Next(moving bool) *Target {
	typ := RollType(s.rng.Float64())

	colors := palette
	if accent, ok := accents[typ]; ok {
		colors = append(append(make([]string, 0, len(palette)+1), palette...), accent)
	}

	t := &Target{
		ID:        uuid.New().String(),
		X:         MinSpawnX + s.rng.Float64()*(MaxSpawnX-MinSpawnX),
		Y:         MinSpawnY + s.rng.Float64()*(MaxSpawnY-MinSpawnY),
		Shape:     Shapes[s.rng.Intn(len(Shapes))],
		Color:     colors[s.rng.Intn(len(colors))],
		Type:      typ,
		SpawnedAt: s.now(),
	}
	if moving {
		t.Velocity = &Velocity{
			X: (s.rng.Float64() - 0.5) * 2,
			Y: (s.rng.Float64() - 0.5) * 2,
		}
	}
	return t
}
