// Package kvstore persists best scores and score history in a single
// msgpack-encoded key-value file.
package kvstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"

	"reactiongame/internal/leaderboard"
	"reactiongame/internal/modes"
	"reactiongame/internal/persistence"
)

const historyKey = "scores"

func bestKey(mode modes.Mode) string {
	return "bestScore_" + string(mode)
}

type Store struct {
	mu   sync.Mutex
	path string
	data map[string][]byte
}

// Open loads the file at path. A missing file starts an empty store; an
// undecodable file is logged, treated as empty and overwritten on the next
// write.
func Open(path string, logger *logrus.Logger) (*Store, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	s := &Store{
		path: path,
		data: make(map[string][]byte),
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading store file: %w", err)
	}
	if len(raw) == 0 {
		return s, nil
	}
	if err := msgpack.Unmarshal(raw, &s.data); err != nil || s.data == nil {
		logger.WithError(err).WithField("path", path).Warn("[Store] Score file is unreadable, starting empty")
		s.data = make(map[string][]byte)
	}
	return s, nil
}

func (s *Store) BestScore(_ context.Context, mode modes.Mode) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.data[bestKey(mode)]
	if !ok {
		return 0, nil
	}
	var score int
	if err := msgpack.Unmarshal(raw, &score); err != nil {
		return 0, fmt.Errorf("best score for %s: %w", mode, persistence.ErrMalformed)
	}
	if score < 0 {
		return 0, fmt.Errorf("best score for %s is negative: %w", mode, persistence.ErrMalformed)
	}
	return score, nil
}

func (s *Store) SetBestScore(_ context.Context, mode modes.Mode, score int) error {
	raw, err := msgpack.Marshal(score)
	if err != nil {
		return fmt.Errorf("encoding best score: %w", err)
	}
	return s.put(bestKey(mode), raw)
}

func (s *Store) ScoreHistory(_ context.Context) ([]leaderboard.ScoreRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.data[historyKey]
	if !ok {
		return nil, nil
	}
	var records []leaderboard.ScoreRecord
	if err := msgpack.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("score history: %w", persistence.ErrMalformed)
	}
	return persistence.Clean(records), nil
}

func (s *Store) SetScoreHistory(_ context.Context, records []leaderboard.ScoreRecord) error {
	raw, err := msgpack.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding score history: %w", err)
	}
	return s.put(historyKey, raw)
}

func (s *Store) put(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, had := s.data[key]
	s.data[key] = value
	if err := s.flush(); err != nil {
		if had {
			s.data[key] = prev
		} else {
			delete(s.data, key)
		}
		return err
	}
	return nil
}

// flush writes through a temp file so a crash never leaves a torn store.
func (s *Store) flush() error {
	raw, err := msgpack.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("encoding store: %w", err)
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".kvstore-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing store file: %w", err)
	}
	return nil
}
