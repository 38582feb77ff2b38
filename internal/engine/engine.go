// Package engine runs a single play session: it owns the session state, the
// live targets and every timed event tied to them.
//
// All mutation happens under one mutex, both from the public methods and
// from timer callbacks, so handlers never interleave. Timer callbacks carry
// the session generation they were scheduled under and the event id in the
// schedule table; a callback whose session ended or whose event was
// cancelled does nothing.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"reactiongame/internal/clock"
	"reactiongame/internal/events"
	"reactiongame/internal/modes"
	"reactiongame/internal/persistence"
	"reactiongame/internal/targets"
)

type Phase string

const (
	PhaseStart    = Phase("start")
	PhasePlaying  = Phase("playing")
	PhasePaused   = Phase("paused")
	PhaseGameOver = Phase("gameOver")
)

// Unlimited is the TimeRemaining of a session without a countdown.
const Unlimited = -1

const (
	tickInterval   = time.Second
	motionInterval = 50 * time.Millisecond

	// persistTimeout bounds store calls made from timer-driven endings.
	persistTimeout = 5 * time.Second
)

var (
	ErrInvalidTransition = errors.New("invalid transition")
	ErrUnknownMode       = errors.New("unknown mode")
)

type State struct {
	Phase         Phase            `json:"phase"`
	Mode          modes.Mode       `json:"mode"`
	Score         int              `json:"score"`
	BestScore     int              `json:"bestScore"`
	TimeRemaining int              `json:"timeRemaining"`
	Missed        int              `json:"missed"`
	MaxMissed     int              `json:"maxMissed"`
	Combo         int              `json:"combo"`
	Multiplier    int              `json:"multiplier"`
	TimeFrozen    bool             `json:"timeFrozen"`
	Targets       []targets.Target `json:"targets"`
	StartedAt     time.Time        `json:"startedAt"`
}

type Options struct {
	ID     string
	Clock  clock.Clock
	Store  persistence.Store
	Rand   *rand.Rand
	Logger *logrus.Logger
	Bus    *events.Bus
}

type Engine struct {
	mu sync.Mutex

	id      string
	clk     clock.Clock
	store   persistence.Store
	log     *logrus.Entry
	bus     *events.Bus
	spawner *targets.Spawner

	cfg      modes.Config
	state    State
	targets  *targets.Store
	sched    *schedule
	gen      uint64
	handlers map[targets.Type]hitHandler
}

func New(opts Options) *Engine {
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.Store == nil {
		opts.Store = persistence.NewMemory()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	e := &Engine{
		id:      opts.ID,
		clk:     opts.Clock,
		store:   opts.Store,
		log:     opts.Logger.WithField("session", opts.ID),
		bus:     opts.Bus,
		spawner: targets.NewSpawner(opts.Rand, opts.Clock.Now),
		state: State{
			Phase:      PhaseStart,
			Multiplier: 1,
		},
		targets: targets.NewStore(),
		sched:   newSchedule(),
	}
	e.handlers = e.hitHandlers()
	return e
}

func (e *Engine) ID() string {
	return e.id
}

// Snapshot returns a copy of the current state for presentation.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.state
	s.Targets = e.targets.GetList()
	return s
}

func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Phase
}

// Start begins a fresh session in the given mode. A session still running
// is ended and persisted first.
func (e *Engine) Start(ctx context.Context, mode modes.Mode) error {
	cfg, ok := modes.Lookup(mode)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running() {
		e.end(ctx)
	}
	e.start(ctx, cfg)
	return nil
}

func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Phase != PhasePlaying {
		return fmt.Errorf("%w: pause from %s", ErrInvalidTransition, e.state.Phase)
	}
	e.sched.suspend(e.clk.Now())
	e.setPhase(PhasePaused)
	return nil
}

func (e *Engine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Phase != PhasePaused {
		return fmt.Errorf("%w: resume from %s", ErrInvalidTransition, e.state.Phase)
	}
	e.setPhase(PhasePlaying)
	e.resumeSchedule()
	return nil
}

// End finalizes a playing or paused session. Ending a session that is not
// running has no effect.
func (e *Engine) End(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running() {
		return fmt.Errorf("%w: end from %s", ErrInvalidTransition, e.state.Phase)
	}
	e.end(ctx)
	return nil
}

// Restart ends the current session and starts another in the same mode
// without releasing the lock in between.
func (e *Engine) Restart(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Phase == PhaseStart {
		return fmt.Errorf("%w: restart before first start", ErrInvalidTransition)
	}
	if e.running() {
		e.end(ctx)
	}
	e.start(ctx, e.cfg)
	return nil
}

func (e *Engine) running() bool {
	return e.state.Phase == PhasePlaying || e.state.Phase == PhasePaused
}

func (e *Engine) start(ctx context.Context, cfg modes.Config) {
	e.gen++
	e.sched.cancelAll()
	e.targets.Clear()
	e.cfg = cfg
	from := e.state.Phase

	best, err := e.store.BestScore(ctx, cfg.Mode)
	if err != nil {
		e.log.WithError(err).Warn("[Store] Loading best score failed, using 0")
		best = 0
	}

	remaining := cfg.Duration
	if cfg.Unlimited() {
		remaining = Unlimited
	}
	e.state = State{
		Mode:          cfg.Mode,
		BestScore:     best,
		TimeRemaining: remaining,
		MaxMissed:     cfg.MaxMissed,
		Multiplier:    1,
		StartedAt:     e.clk.Now(),
		Phase:         from,
	}
	e.setPhase(PhasePlaying)

	if !cfg.Unlimited() {
		e.after(tickInterval, &scheduled{kind: evTick})
	}
	e.after(cfg.SpawnInterval(0), &scheduled{kind: evSpawn})
	if cfg.Moving {
		e.after(motionInterval, &scheduled{kind: evMotion})
	}
	e.log.WithField("mode", cfg.Mode).Info("[Engine] Session started")
}

// end cancels every pending event before anything else so no callback can
// touch the finalized session.
func (e *Engine) end(ctx context.Context) {
	e.sched.cancelAll()
	e.gen++

	if e.state.Score > 0 {
		e.persist(ctx)
	}
	e.targets.Clear()
	e.state.TimeFrozen = false
	e.state.Multiplier = 1
	e.setPhase(PhaseGameOver)
	e.log.WithFields(logrus.Fields{
		"mode":   e.state.Mode,
		"score":  e.state.Score,
		"missed": e.state.Missed,
	}).Info("[Engine] Session ended")
}

// checkEnd ends the session once time ran out or the miss limit was reached.
func (e *Engine) checkEnd() {
	if e.state.Phase != PhasePlaying {
		return
	}
	timedOut := !e.cfg.Unlimited() && e.state.TimeRemaining == 0
	if timedOut || e.state.Missed >= e.cfg.MaxMissed {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		e.end(ctx)
	}
}

func (e *Engine) setPhase(p Phase) {
	from := e.state.Phase
	e.state.Phase = p
	e.publish(events.Event{Kind: events.KindPhase, From: string(from)})
}

func (e *Engine) publish(ev events.Event) {
	ev.SessionID = e.id
	ev.Mode = string(e.state.Mode)
	ev.Phase = string(e.state.Phase)
	ev.Score = e.state.Score
	ev.Combo = e.state.Combo
	ev.At = e.clk.Now()
	e.bus.Publish(ev)
}

// after schedules an event d from now. Nothing is scheduled once the
// session is over.
func (e *Engine) after(d time.Duration, ev *scheduled) {
	if !e.running() {
		return
	}
	ev.deadline = e.clk.Now().Add(d)
	ev.remaining = d
	e.sched.add(ev)
	if e.sched.suspended {
		return
	}
	e.arm(ev)
}

func (e *Engine) arm(ev *scheduled) {
	ev.armed++
	gen, id, armed := e.gen, ev.id, ev.armed
	ev.timer = e.clk.AfterFunc(ev.remaining, func() {
		e.fire(gen, id, armed)
	})
}

func (e *Engine) resumeSchedule() {
	now := e.clk.Now()
	e.sched.suspended = false
	for _, ev := range e.sched.ordered() {
		ev.deadline = now.Add(ev.remaining)
		e.arm(ev)
	}
}

func (e *Engine) fire(gen, id, armed uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen || e.state.Phase != PhasePlaying {
		return
	}
	if ev := e.sched.get(id); ev == nil || ev.armed != armed {
		return
	}
	ev := e.sched.take(id)

	switch ev.kind {
	case evTick:
		e.tick()
	case evSpawn:
		e.spawn()
	case evMotion:
		e.move()
	case evExpiry:
		e.expire(ev.targetID)
	case evFreezeClear:
		e.clearFreeze()
	case evMultiplierClear:
		e.clearMultiplier()
	case evCascade:
		e.resolveChain(ev.step)
	}
}
