package modes

import (
	"fmt"
	"strings"
	"time"
)

type Mode string

const (
	Classic   = Mode("classic")
	Survival  = Mode("survival")
	Speed     = Mode("speed")
	Precision = Mode("precision")
	Nightmare = Mode("nightmare")
	Zen       = Mode("zen")
)

// Curve is a linear difficulty ramp in milliseconds, clamped at Floor.
type Curve struct {
	Start int
	Slope int
	Floor int
}

func (c Curve) At(score int) time.Duration {
	ms := max(c.Floor, c.Start-c.Slope*score)
	return time.Duration(ms) * time.Millisecond
}

type Config struct {
	Mode        Mode
	Name        string
	Description string
	Duration    int // seconds, 0 means unlimited
	MaxMissed   int
	BasePoints  int
	Spawn       Curve
	Lifetime    Curve
	Moving      bool
}

func (c Config) Unlimited() bool {
	return c.Duration == 0
}

func (c Config) SpawnInterval(score int) time.Duration {
	return c.Spawn.At(score)
}

func (c Config) TargetLifetime(score int) time.Duration {
	return c.Lifetime.At(score)
}

var order = []Mode{Classic, Survival, Speed, Precision, Nightmare, Zen}

var registry = map[Mode]Config{
	Classic: {
		Mode:        Classic,
		Name:        "Classic Mode",
		Description: "Classic 30-second challenge with power-ups",
		Duration:    30,
		MaxMissed:   5,
		BasePoints:  1,
		Spawn:       Curve{Start: 2000, Slope: 50, Floor: 500},
		Lifetime:    Curve{Start: 1500, Slope: 10, Floor: 800},
	},
	Survival: {
		Mode:        Survival,
		Name:        "Survival Mode",
		Description: "No time limit, only missed targets matter",
		Duration:    0,
		MaxMissed:   5,
		BasePoints:  1,
		Spawn:       Curve{Start: 2000, Slope: 50, Floor: 500},
		Lifetime:    Curve{Start: 1500, Slope: 10, Floor: 800},
	},
	Speed: {
		Mode:        Speed,
		Name:        "Speed Mode",
		Description: "Targets appear faster and faster",
		Duration:    30,
		MaxMissed:   5,
		BasePoints:  1,
		Spawn:       Curve{Start: 2000, Slope: 100, Floor: 200},
		Lifetime:    Curve{Start: 1200, Slope: 15, Floor: 400},
	},
	Precision: {
		Mode:        Precision,
		Name:        "Precision Mode",
		Description: "Smaller targets, higher points",
		Duration:    30,
		MaxMissed:   5,
		BasePoints:  3,
		Spawn:       Curve{Start: 2500, Slope: 30, Floor: 1000},
		Lifetime:    Curve{Start: 2000, Slope: 10, Floor: 1200},
	},
	Nightmare: {
		Mode:        Nightmare,
		Name:        "Nightmare Mode",
		Description: "Targets move around the screen",
		Duration:    30,
		MaxMissed:   5,
		BasePoints:  1,
		Spawn:       Curve{Start: 1800, Slope: 40, Floor: 800},
		Lifetime:    Curve{Start: 1500, Slope: 20, Floor: 600},
		Moving:      true,
	},
	Zen: {
		Mode:        Zen,
		Name:        "Zen Mode",
		Description: "Relaxed gameplay with no pressure",
		Duration:    60,
		MaxMissed:   10,
		BasePoints:  2,
		Spawn:       Curve{Start: 2500, Slope: 20, Floor: 1500},
		Lifetime:    Curve{Start: 2000, Slope: 5, Floor: 1000},
	},
}

// All returns every mode config in menu order.
func All() []Config {
	list := make([]Config, 0, len(order))
	for _, m := range order {
		list = append(list, registry[m])
	}
	return list
}

func Lookup(m Mode) (Config, bool) {
	cfg, ok := registry[m]
	return cfg, ok
}

func Parse(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := registry[m]; !ok {
		return "", fmt.Errorf("unknown mode %q", s)
	}
	return m, nil
}
