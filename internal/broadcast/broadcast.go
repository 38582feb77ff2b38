package broadcast

import (
	"context"
	"encoding/json"
	"sync"

	"reactiongame/internal/events"
)

// Message is one server-sent event: the event name and its JSON payload.
type Message struct {
	Event string
	Data  string
}

// Observer sees every event of a session before subscribers do.
type Observer func(events.Event)

type Broadcaster struct {
	Mu        sync.Mutex
	Clients   map[chan Message]bool
	observers []Observer
	done      chan struct{}
}

// NewBroadcaster drains the session bus until ctx is done, handing each event
// to the observers and then to every subscriber. Events already queued when
// ctx is cancelled are still delivered before the goroutine exits.
func NewBroadcaster(ctx context.Context, bus *events.Bus, observers ...Observer) *Broadcaster {
	b := &Broadcaster{
		Clients:   make(map[chan Message]bool),
		observers: observers,
		done:      make(chan struct{}),
	}
	go func() {
		defer close(b.done)
		for {
			select {
			case <-ctx.Done():
				for {
					select {
					case ev := <-bus.Events:
						b.dispatch(ev)
					default:
						return
					}
				}
			case ev := <-bus.Events:
				b.dispatch(ev)
			}
		}
	}()
	return b
}

// Done is closed once the forwarding goroutine has exited.
func (b *Broadcaster) Done() <-chan struct{} {
	return b.done
}

func (b *Broadcaster) dispatch(ev events.Event) {
	for _, observe := range b.observers {
		observe(ev)
	}
	b.BroadcastEvent(ev)
}

func (b *Broadcaster) Subscribe() chan Message {
	ch := make(chan Message, 10)
	b.Mu.Lock()
	b.Clients[ch] = true
	b.Mu.Unlock()
	return ch
}

func (b *Broadcaster) Unsubscribe(ch chan Message) {
	b.Mu.Lock()
	delete(b.Clients, ch)
	b.Mu.Unlock()
	close(ch)
}

func (b *Broadcaster) BroadcastEvent(ev events.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	b.Broadcast(string(ev.Kind), string(data))
}

func (b *Broadcaster) Broadcast(event string, data string) {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	for ch := range b.Clients {
		select {
		case ch <- Message{Event: event, Data: data}:
		default:
			// skip clients with full data channels
		}
	}
}
