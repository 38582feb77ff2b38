package sessions

import (
	"context"
	"sync/atomic"
	"time"

	"reactiongame/internal/broadcast"
	"reactiongame/internal/engine"
	"reactiongame/internal/modes"
	"reactiongame/internal/wshub"
)

// Session is one engine plus the fan-out attached to it: server-sent events
// through the Broadcaster and websocket snapshots through the Hub.
type Session struct {
	ID          string
	Code        string
	Engine      *engine.Engine
	Broadcaster *broadcast.Broadcaster
	Hub         *wshub.Hub
	CreatedAt   time.Time

	lastActive atomic.Int64
	cancel     context.CancelFunc
}

// Info is the listing view of a session.
type Info struct {
	ID        string       `json:"id"`
	Code      string       `json:"code"`
	Mode      modes.Mode   `json:"mode"`
	Phase     engine.Phase `json:"phase"`
	Score     int          `json:"score"`
	CreatedAt time.Time    `json:"createdAt"`
}

func (s *Session) Info() Info {
	st := s.Engine.Snapshot()
	return Info{
		ID:        s.ID,
		Code:      s.Code,
		Mode:      st.Mode,
		Phase:     st.Phase,
		Score:     st.Score,
		CreatedAt: s.CreatedAt,
	}
}

func (s *Session) touch(now time.Time) {
	s.lastActive.Store(now.UnixNano())
}

func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

// pumpSnapshots pushes the session state to websocket clients until ctx is
// done. Nothing is encoded while nobody is watching.
func (s *Session) pumpSnapshots(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.Hub.Len() == 0 {
				continue
			}
			s.Hub.Broadcast(wshub.ServerMessage{Type: "state", State: s.Engine.Snapshot()})
		}
	}
}

// close ends a running game, stops the session's goroutines once its last
// events reached the observers and drops every websocket client.
func (s *Session) close(ctx context.Context) {
	if p := s.Engine.Phase(); p == engine.PhasePlaying || p == engine.PhasePaused {
		s.Engine.End(ctx)
	}
	s.cancel()
	<-s.Broadcaster.Done()
	s.Hub.CloseAll()
}
