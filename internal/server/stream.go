package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"reactiongame/internal/sessions"
	"reactiongame/internal/wshub"
)

const (
	wsSendBuffer = 64
	wsReadLimit  = 4 << 10
)

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	msgChan := sess.Broadcaster.Subscribe()
	defer sess.Broadcaster.Unsubscribe(msgChan)

	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg := <-msgChan:
			fmt.Fprintf(w, "event: %s\n", msg.Event)
			for _, line := range strings.Split(msg.Data, "\n") {
				fmt.Fprintf(w, "data: %s\n", line)
			}
			fmt.Fprint(w, "\n")
			flusher.Flush()
		}
	}
}

// handleWebSocket streams state snapshots to the client and accepts hit,
// pause and resume messages. ?format=msgpack switches both directions to
// binary msgpack frames.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		s.Log.Errorf("[WS] Accept error: %v", err)
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(wsReadLimit)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	client := &wshub.Client{
		ID:     uuid.New().String(),
		Binary: r.URL.Query().Get("format") == "msgpack",
		Conn:   conn,
		Send:   make(chan []byte, wsSendBuffer),
	}
	sess.Hub.Register(client)
	defer sess.Hub.Unregister(client.ID)

	go func() {
		client.WritePump(ctx)
		// the hub dropped us, e.g. because the session was deleted
		conn.Close(websocket.StatusNormalClosure, "session closed")
	}()

	sess.Hub.SendTo(client.ID, wshub.ServerMessage{Type: "state", State: sess.Engine.Snapshot()})

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		s.Sessions.Touch(sess)
		msg, err := wshub.Decode(data, client.Binary)
		if err != nil {
			sess.Hub.SendTo(client.ID, wshub.ServerMessage{Type: "error", Error: "malformed message"})
			continue
		}
		sess.Hub.SendTo(client.ID, s.handleClientMessage(ctx, sess, msg))
	}
}

func (s *Server) handleClientMessage(ctx context.Context, sess *sessions.Session, msg wshub.ClientMessage) wshub.ServerMessage {
	var err error
	switch msg.Type {
	case "hit":
		hit := sess.Engine.Hit(ctx, msg.TargetID)
		return wshub.ServerMessage{Type: "hit", TargetID: msg.TargetID, Hit: hit, State: sess.Engine.Snapshot()}
	case "pause":
		err = sess.Engine.Pause()
	case "resume":
		err = sess.Engine.Resume()
	default:
		return wshub.ServerMessage{Type: "error", Error: fmt.Sprintf("unknown message type %q", msg.Type)}
	}
	if err != nil {
		return wshub.ServerMessage{Type: "error", Error: err.Error()}
	}
	return wshub.ServerMessage{Type: "state", State: sess.Engine.Snapshot()}
}
