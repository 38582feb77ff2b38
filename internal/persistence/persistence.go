package persistence

import (
	"context"
	"errors"
	"sync"

	"reactiongame/internal/leaderboard"
	"reactiongame/internal/modes"
)

// ErrMalformed marks stored data that could not be decoded. Callers treat
// it the same as absent data.
var ErrMalformed = errors.New("malformed persisted data")

// Store is the best-score and score-history contract the engine persists to.
// ScoreHistory returns records in stored order; sorting and truncation are
// the caller's job.
type Store interface {
	BestScore(ctx context.Context, mode modes.Mode) (int, error)
	SetBestScore(ctx context.Context, mode modes.Mode, score int) error
	ScoreHistory(ctx context.Context) ([]leaderboard.ScoreRecord, error)
	SetScoreHistory(ctx context.Context, records []leaderboard.ScoreRecord) error
}

// Memory keeps everything in process. It is the default when no file or
// database is configured.
type Memory struct {
	mu      sync.Mutex
	best    map[modes.Mode]int
	history []leaderboard.ScoreRecord
}

func NewMemory() *Memory {
	return &Memory{
		best: make(map[modes.Mode]int),
	}
}

func (m *Memory) BestScore(_ context.Context, mode modes.Mode) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.best[mode], nil
}

func (m *Memory) SetBestScore(_ context.Context, mode modes.Mode, score int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.best[mode] = score
	return nil
}

func (m *Memory) ScoreHistory(_ context.Context) ([]leaderboard.ScoreRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]leaderboard.ScoreRecord, len(m.history))
	copy(out, m.history)
	return out, nil
}

func (m *Memory) SetScoreHistory(_ context.Context, records []leaderboard.ScoreRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = make([]leaderboard.ScoreRecord, len(records))
	copy(m.history, records)
	return nil
}

// Clean drops records that fail validation.
func Clean(records []leaderboard.ScoreRecord) []leaderboard.ScoreRecord {
	out := make([]leaderboard.ScoreRecord, 0, len(records))
	for _, r := range records {
		if leaderboard.Valid(r) {
			out = append(out, r)
		}
	}
	return out
}
