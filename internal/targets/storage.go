package targets

import (
	"math"
	"slices"
	"sync"
)

// Motion bounds; a target whose next step would reach a bound holds its
// position for that tick and reverses the matching velocity component.
const (
	MinMoveX = 5.0
	MaxMoveX = 95.0
	MinMoveY = 10.0
	MaxMoveY = 90.0
)

type Store struct {
	mu      sync.Mutex
	targets map[string]*Target
	order   []string
}

func NewStore() *Store {
	return &Store{
		targets: make(map[string]*Target),
	}
}

func (s *Store) Add(t *Target) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.targets[t.ID]; !exists {
		s.order = append(s.order, t.ID)
	}
	s.targets[t.ID] = t
}

func (s *Store) Get(id string) *Target {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.targets[id]
}

// Remove deletes the target and reports whether it was live. Only the first
// caller for a given id gets true.
func (s *Store) Remove(id string) (*Target, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.targets[id]
	if !ok {
		return nil, false
	}
	delete(s.targets, id)
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	return t, true
}

// Neighbors returns live targets whose distance from (x, y) is below radius,
// measured on the field normalized to [0,1].
func (s *Store) Neighbors(x, y, radius float64, excludeID string) []*Target {
	s.mu.Lock()
	defer s.mu.Unlock()
	var near []*Target
	for _, id := range s.order {
		if id == excludeID {
			continue
		}
		t := s.targets[id]
		if Distance(x, y, t.X, t.Y) < radius {
			near = append(near, t)
		}
	}
	return near
}

func Distance(x1, y1, x2, y2 float64) float64 {
	dx := (x2 - x1) / 100
	dy := (y2 - y1) / 100
	return math.Sqrt(dx*dx + dy*dy)
}

// GetList returns copies of the live targets in spawn order.
func (s *Store) GetList() []Target {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]Target, 0, len(s.order))
	for _, id := range s.order {
		t := *s.targets[id]
		if t.Velocity != nil {
			v := *t.Velocity
			t.Velocity = &v
		}
		list = append(list, t)
	}
	return list
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// Step advances every moving target by its velocity.
func (s *Store) Step() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.targets {
		v := t.Velocity
		if v == nil {
			continue
		}
		nx, ny := t.X+v.X, t.Y+v.Y
		if nx <= MinMoveX || nx >= MaxMoveX {
			nx = t.X
			v.X = -v.X
		}
		if ny <= MinMoveY || ny >= MaxMoveY {
			ny = t.Y
			v.Y = -v.Y
		}
		t.X, t.Y = nx, ny
	}
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.targets = make(map[string]*Target)
	s.order = nil
}
