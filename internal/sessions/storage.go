package sessions

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"reactiongame/internal/broadcast"
	"reactiongame/internal/clock"
	"reactiongame/internal/engine"
	"reactiongame/internal/events"
	"reactiongame/internal/modes"
	"reactiongame/internal/persistence"
	"reactiongame/internal/wshub"
)

const (
	defaultTTL              = 1 * time.Hour
	defaultSnapshotInterval = 100 * time.Millisecond
	sweepInterval           = 5 * time.Minute
	closeTimeout            = 5 * time.Second
)

type Options struct {
	Store            persistence.Store
	Logger           *logrus.Logger
	Clock            clock.Clock
	TTL              time.Duration
	SnapshotInterval time.Duration
	// Observers see every event of every session, e.g. metrics.
	Observers []broadcast.Observer
	// OnClose runs after a session was deleted or swept.
	OnClose func(id string)
}

type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	codes    map[string]string
	opts     Options
	log      *logrus.Entry
}

func NewStore(opts Options) *Store {
	if opts.Store == nil {
		opts.Store = persistence.NewMemory()
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.TTL <= 0 {
		opts.TTL = defaultTTL
	}
	if opts.SnapshotInterval <= 0 {
		opts.SnapshotInterval = defaultSnapshotInterval
	}
	s := &Store{
		sessions: make(map[string]*Session),
		codes:    make(map[string]string),
		opts:     opts,
		log:      opts.Logger.WithField("component", "sessions"),
	}
	go s.sweepStale()
	return s
}

// Create starts a new session in the given mode.
func (s *Store) Create(ctx context.Context, mode modes.Mode) (*Session, error) {
	if _, ok := modes.Lookup(mode); !ok {
		return nil, fmt.Errorf("%w: %q", engine.ErrUnknownMode, mode)
	}

	id := uuid.New().String()
	sctx, cancel := context.WithCancel(context.Background())
	bus := events.NewBus()
	sess := &Session{
		ID: id,
		Engine: engine.New(engine.Options{
			ID:     id,
			Clock:  s.opts.Clock,
			Store:  s.opts.Store,
			Logger: s.opts.Logger,
			Bus:    bus,
		}),
		Broadcaster: broadcast.NewBroadcaster(sctx, bus, s.opts.Observers...),
		Hub:         wshub.NewHub(s.opts.Logger),
		CreatedAt:   s.opts.Clock.Now(),
		cancel:      cancel,
	}
	sess.touch(sess.CreatedAt)

	if err := sess.Engine.Start(ctx, mode); err != nil {
		cancel()
		return nil, fmt.Errorf("starting session: %w", err)
	}

	if err := s.insert(sess); err != nil {
		sess.close(ctx)
		return nil, err
	}
	go sess.pumpSnapshots(sctx, s.opts.SnapshotInterval)

	s.log.WithFields(logrus.Fields{"id": id, "code": sess.Code, "mode": mode}).Info("[Sessions] Created session")
	return sess, nil
}

func (s *Store) insert(sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Try up to 10 times to generate a unique code
	for range 10 {
		code, err := GenerateCode()
		if err != nil {
			return fmt.Errorf("generating session code: %w", err)
		}
		if _, exists := s.codes[code]; exists {
			continue
		}
		sess.Code = code
		s.sessions[sess.ID] = sess
		s.codes[code] = sess.ID
		return nil
	}
	return errors.New("failed to generate unique session code after 10 attempts")
}

// Get resolves a session by id or share code and marks it active.
func (s *Store) Get(key string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[key]
	if !ok {
		id, found := s.codes[normalizeCode(key)]
		if !found {
			return nil
		}
		sess = s.sessions[id]
	}
	sess.touch(s.opts.Clock.Now())
	return sess
}

// Delete ends the session if it is still running and drops it. It reports
// whether a session was removed.
func (s *Store) Delete(ctx context.Context, key string) bool {
	s.mu.Lock()
	sess, ok := s.sessions[key]
	if !ok {
		if id, found := s.codes[normalizeCode(key)]; found {
			sess, ok = s.sessions[id]
		}
	}
	if ok {
		s.remove(sess)
	}
	s.mu.Unlock()

	if ok {
		s.closeSession(ctx, sess)
	}
	return ok
}

func (s *Store) closeSession(ctx context.Context, sess *Session) {
	sess.close(ctx)
	if s.opts.OnClose != nil {
		s.opts.OnClose(sess.ID)
	}
}

func (s *Store) remove(sess *Session) {
	delete(s.sessions, sess.ID)
	delete(s.codes, sess.Code)
}

// List returns every session, oldest first.
func (s *Store) List() []*Session {
	s.mu.Lock()
	list := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		list = append(list, sess)
	}
	s.mu.Unlock()

	slices.SortFunc(list, func(a, b *Session) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return list
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Touch marks a session active, e.g. on websocket traffic that never goes
// through Get.
func (s *Store) Touch(sess *Session) {
	sess.touch(s.opts.Clock.Now())
}

// Sweep drops every session idle for longer than the TTL and returns how
// many were dropped. Sessions with a connected websocket client are never
// idle.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	var stale []*Session
	for _, sess := range s.sessions {
		if sess.Hub.Len() > 0 {
			continue
		}
		if now.Sub(sess.LastActive()) > s.opts.TTL {
			stale = append(stale, sess)
			s.remove(sess)
		}
	}
	s.mu.Unlock()

	for _, sess := range stale {
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		s.closeSession(ctx, sess)
		cancel()
	}
	if len(stale) > 0 {
		s.log.WithField("count", len(stale)).Info("[Sessions] Swept stale sessions")
	}
	return len(stale)
}

func (s *Store) sweepStale() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for range ticker.C {
		s.Sweep(s.opts.Clock.Now())
	}
}
