package wshub

import (
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"
)

func quietHub() *Hub {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewHub(logger)
}

type snapshot struct {
	Score int    `json:"score" msgpack:"score"`
	Phase string `json:"phase" msgpack:"phase"`
}

func TestRegisterAndBroadcast(t *testing.T) {
	h := quietHub()

	c1 := &Client{ID: "c1", Send: make(chan []byte, 16)}
	c2 := &Client{ID: "c2", Send: make(chan []byte, 16)}
	h.Register(c1)
	h.Register(c2)

	h.Broadcast(ServerMessage{Type: "state", State: snapshot{Score: 7, Phase: "playing"}})

	for _, c := range []*Client{c1, c2} {
		select {
		case data := <-c.Send:
			var got struct {
				Type  string   `json:"t"`
				State snapshot `json:"s"`
			}
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got.Type != "state" || got.State.Score != 7 || got.State.Phase != "playing" {
				t.Fatalf("unexpected message for %s: %+v", c.ID, got)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("%s did not receive message", c.ID)
		}
	}
}

func TestBroadcast_BinaryClientsGetMsgpack(t *testing.T) {
	h := quietHub()

	c := &Client{ID: "bin", Binary: true, Send: make(chan []byte, 1)}
	h.Register(c)
	h.Broadcast(ServerMessage{Type: "state", State: snapshot{Score: 12}})

	data := <-c.Send
	var got struct {
		Type  string   `msgpack:"t"`
		State snapshot `msgpack:"s"`
	}
	if err := msgpack.Unmarshal(data, &got); err != nil {
		t.Fatalf("msgpack unmarshal: %v", err)
	}
	if got.Type != "state" {
		t.Errorf("t = %q, want state", got.Type)
	}
	if got.State.Score != 12 {
		t.Errorf("score = %d, want 12", got.State.Score)
	}
}

func TestDecode(t *testing.T) {
	msg, err := Decode([]byte(`{"t":"hit","id":"abc"}`), false)
	if err != nil {
		t.Fatal(err)
	}
	if msg.Type != "hit" || msg.TargetID != "abc" {
		t.Errorf("Decode() = %+v", msg)
	}

	data, err := Encode(ClientMessage{Type: "pause"}, true)
	if err != nil {
		t.Fatal(err)
	}
	msg, err = Decode(data, true)
	if err != nil {
		t.Fatal(err)
	}
	if msg.Type != "pause" {
		t.Errorf("Decode() binary = %+v", msg)
	}

	if _, err := Decode([]byte("not json"), false); err == nil {
		t.Error("Decode() should fail on garbage")
	}
}

func TestSendTo(t *testing.T) {
	h := quietHub()
	c1 := &Client{ID: "c1", Send: make(chan []byte, 1)}
	c2 := &Client{ID: "c2", Send: make(chan []byte, 1)}
	h.Register(c1)
	h.Register(c2)

	if !h.SendTo("c1", ServerMessage{Type: "hit", TargetID: "t1", Hit: true}) {
		t.Fatal("SendTo() = false, want true")
	}
	var got ServerMessage
	if err := json.Unmarshal(<-c1.Send, &got); err != nil {
		t.Fatal(err)
	}
	if got.Type != "hit" || got.TargetID != "t1" || !got.Hit {
		t.Errorf("got %+v", got)
	}

	select {
	case <-c2.Send:
		t.Fatal("c2 should not receive a direct message")
	default:
	}

	if h.SendTo("missing", ServerMessage{Type: "hit"}) {
		t.Error("SendTo() unknown client should report false")
	}
}

func TestUnregisterClosesSend(t *testing.T) {
	h := quietHub()
	c1 := &Client{ID: "c1", Send: make(chan []byte, 16)}
	h.Register(c1)

	h.Unregister("c1")

	if _, ok := <-c1.Send; ok {
		t.Fatal("c1.Send should be closed")
	}
	if h.Len() != 0 {
		t.Errorf("Len() = %d, want 0", h.Len())
	}
}

func TestUnregisterNonexistent(t *testing.T) {
	h := quietHub()
	// Should not panic
	h.Unregister("nonexistent")
}

func TestCloseAll(t *testing.T) {
	h := quietHub()
	c1 := &Client{ID: "c1", Send: make(chan []byte, 1)}
	c2 := &Client{ID: "c2", Send: make(chan []byte, 1)}
	h.Register(c1)
	h.Register(c2)

	h.CloseAll()

	for _, c := range []*Client{c1, c2} {
		if _, ok := <-c.Send; ok {
			t.Errorf("%s.Send should be closed", c.ID)
		}
	}
	if h.Len() != 0 {
		t.Errorf("Len() = %d, want 0", h.Len())
	}
}

func TestBroadcastDropsWhenFull(t *testing.T) {
	h := quietHub()

	c := &Client{ID: "c1", Send: make(chan []byte, 1)}
	h.Register(c)

	c.Send <- []byte("filler")

	// This should not block, the message is dropped
	h.Broadcast(ServerMessage{Type: "state"})

	data := <-c.Send
	if string(data) != "filler" {
		t.Fatalf("expected filler, got: %s", data)
	}

	select {
	case <-c.Send:
		t.Fatal("should be empty after draining filler")
	default:
	}
}
