package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"reactiongame/internal/analytics"
	"reactiongame/internal/broadcast"
	"reactiongame/internal/clock"
	"reactiongame/internal/config"
	"reactiongame/internal/db"
	"reactiongame/internal/events"
	"reactiongame/internal/kvstore"
	"reactiongame/internal/metrics"
	"reactiongame/internal/persistence"
	"reactiongame/internal/sessions"
)

const (
	hitBufferSize  = 1000
	hitBatchSize   = 50
	hitFlushEvery  = 500 * time.Millisecond
	hitWriteBudget = 5 * time.Second
)

type Options struct {
	Store            persistence.Store
	Logger           *logrus.Logger
	Clock            clock.Clock
	SessionTTL       time.Duration
	SnapshotInterval time.Duration
	DB               *db.DB // nil if no database configured
}

type Server struct {
	Sessions  *sessions.Store
	Store     persistence.Store
	Metrics   *metrics.Metrics
	Tracker   *analytics.Tracker
	DB        *db.DB           // nil if no database configured
	HitBuffer chan db.HitEvent // nil if no database configured
	Log       *logrus.Logger
}

func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Store == nil {
		opts.Store = persistence.NewMemory()
	}
	srv := &Server{
		Store:   opts.Store,
		Metrics: metrics.New(),
		Tracker: analytics.NewTracker(),
		DB:      opts.DB,
		Log:     opts.Logger,
	}
	if opts.DB != nil {
		srv.HitBuffer = make(chan db.HitEvent, hitBufferSize)
		go hitBatchWriter(opts.DB, srv.HitBuffer, opts.Logger)
	}
	srv.Sessions = sessions.NewStore(sessions.Options{
		Store:            opts.Store,
		Logger:           opts.Logger,
		Clock:            opts.Clock,
		TTL:              opts.SessionTTL,
		SnapshotInterval: opts.SnapshotInterval,
		Observers:        []broadcast.Observer{srv.Metrics.Observe, srv.Tracker.Observe, srv.recordHit},
		OnClose:          srv.Tracker.Forget,
	})
	srv.Metrics.TrackActiveSessions(srv.Sessions.Len)
	return srv
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /modes", s.handleModes)
	mux.HandleFunc("GET /sessions", s.handleListSessions)
	mux.HandleFunc("POST /sessions", s.handleCreateSession)
	mux.HandleFunc("GET /sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("POST /sessions/{id}/pause", s.handlePause)
	mux.HandleFunc("POST /sessions/{id}/resume", s.handleResume)
	mux.HandleFunc("POST /sessions/{id}/end", s.handleEnd)
	mux.HandleFunc("POST /sessions/{id}/restart", s.handleRestart)
	mux.HandleFunc("POST /sessions/{id}/hit/{targetID}", s.handleHit)
	mux.HandleFunc("GET /sessions/{id}/events", s.handleEvents)
	mux.HandleFunc("GET /sessions/{id}/ws", s.handleWebSocket)
	mux.HandleFunc("GET /sessions/{id}/stats", s.handleStats)
	mux.HandleFunc("GET /leaderboard", s.handleLeaderboard)
	mux.HandleFunc("GET /best/{mode}", s.handleBest)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", s.Metrics.Handler())
	return mux
}

func Run() error {
	appCfg := config.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level, err := logrus.ParseLevel(appCfg.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("[Config] Unknown LOG_LEVEL %q, using info", appCfg.LogLevel)
	}

	store, database, err := openStore(appCfg, logger)
	if err != nil {
		return err
	}
	if database != nil {
		defer database.Close()
	}

	srv := New(Options{
		Store:            store,
		Logger:           logger,
		SessionTTL:       appCfg.SessionTTL,
		SnapshotInterval: appCfg.SnapshotInterval,
		DB:               database,
	})

	addr := "0.0.0.0:" + appCfg.Port
	logger.Infof("Server listening on http://localhost:%s", appCfg.Port)
	return http.ListenAndServe(addr, srv.Routes())
}

// openStore picks the score store: PostgreSQL when DATABASE_URL is set, a
// msgpack file when STORE_PATH is set, memory otherwise. A database that
// cannot be reached falls through to the next option.
func openStore(cfg config.Config, logger *logrus.Logger) (persistence.Store, *db.DB, error) {
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(cfg.DatabaseURL, logger)
		if err != nil {
			logger.Errorf("[DB] Failed to connect: %v (running without database)", err)
		} else if err := database.Migrate(); err != nil {
			logger.Errorf("[DB] Migration failed: %v", err)
			database.Close()
		} else {
			logger.Info("[DB] Database connected and migrations applied")
			return database, database, nil
		}
	} else {
		logger.Info("[DB] DATABASE_URL not set, running without database")
	}

	if cfg.StorePath != "" {
		kv, err := kvstore.Open(cfg.StorePath, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("opening score file: %w", err)
		}
		logger.Infof("[Store] Using score file %s", cfg.StorePath)
		return kv, nil, nil
	}
	logger.Info("[Store] Scores kept in memory")
	return persistence.NewMemory(), nil, nil
}

// recordHit queues hit events for the database. It never blocks the
// session's event loop.
func (s *Server) recordHit(ev events.Event) {
	if s.HitBuffer == nil || ev.Kind != events.KindHit {
		return
	}
	hit := db.HitEvent{
		SessionID:  ev.SessionID,
		TargetID:   ev.TargetID,
		TargetType: ev.TargetType,
		Mode:       ev.Mode,
		Points:     ev.Points,
		Combo:      ev.Combo,
		Score:      ev.Score,
		TargetX:    ev.TargetX,
		TargetY:    ev.TargetY,
		SpawnedAt:  ev.SpawnedAt,
		HitAt:      ev.At,
	}
	if !ev.SpawnedAt.IsZero() {
		hit.ReactionMs = int(ev.At.Sub(ev.SpawnedAt).Milliseconds())
	}
	select {
	case s.HitBuffer <- hit:
	default:
		s.Log.Warn("[DB] Hit buffer full, dropping event")
	}
}

func hitBatchWriter(database *db.DB, buffer chan db.HitEvent, logger *logrus.Logger) {
	ticker := time.NewTicker(hitFlushEvery)
	defer ticker.Stop()

	batch := make([]db.HitEvent, 0, hitBatchSize)
	flush := func() {
		ctx, cancel := context.WithTimeout(context.Background(), hitWriteBudget)
		defer cancel()
		if err := database.BatchRecordHits(ctx, batch); err != nil {
			logger.Errorf("[DB] BatchRecordHits error: %v", err)
		}
		batch = batch[:0]
	}

	for {
		select {
		case ev := <-buffer:
			batch = append(batch, ev)
			if len(batch) >= hitBatchSize {
				flush()
			}
		case <-ticker.C:
			if len(batch) > 0 {
				flush()
			}
		}
	}
}
