// Package sse implements a Server-Sent Events broker that routes document
// changes to the browser tabs of one session.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// Event is one SSE message. An empty Session broadcasts to every client.
type Event struct {
	Session string `json:"-"`
	Type    string `json:"type"`
	Data    any    `json:"data"`
}

type subscription struct {
	session string
	ch      chan []byte
}

type countReq struct {
	session string
	resp    chan int
}

// Broker manages SSE client connections and delivers events.
//
// Concurrency model: a single internal event loop (goroutine) owns the client
// set. Public methods communicate with this loop through channels, so no
// mutexes are required.
type Broker struct {
	keepAlive time.Duration

	subscribeCh   chan subscription
	unsubscribeCh chan chan []byte
	publishCh     chan Event
	countReqCh    chan countReq

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewBroker creates a broker. Connected streams receive a comment line every
// keepAlive so proxies keep them open.
func NewBroker(keepAlive time.Duration) *Broker {
	if keepAlive <= 0 {
		keepAlive = 15 * time.Second
	}

	b := &Broker{
		keepAlive:     keepAlive,
		subscribeCh:   make(chan subscription),
		unsubscribeCh: make(chan chan []byte),
		publishCh:     make(chan Event, 256),
		countReqCh:    make(chan countReq),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}

	go b.run()
	return b
}

// Format encodes an event in the SSE wire format.
func Format(event Event) ([]byte, error) {
	payload, err := json.Marshal(event.Data)
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", event.Type, payload)), nil
}

func (b *Broker) run() {
	defer close(b.stopped)

	clients := make(map[chan []byte]string)

	deliver := func(event Event) {
		raw, err := Format(event)
		if err != nil {
			return
		}
		for ch, session := range clients {
			if event.Session != "" && event.Session != session {
				continue
			}
			select {
			case ch <- raw:
			default:
				// Client fell behind. Renders replace whole targets, so a
				// skipped event would leave the tab stale; drop the client and
				// let it reconnect for a fresh snapshot.
				delete(clients, ch)
				close(ch)
			}
		}
	}

	for {
		select {
		case <-b.stopCh:
			for ch := range clients {
				close(ch)
			}
			return

		case sub := <-b.subscribeCh:
			clients[sub.ch] = sub.session

		case ch := <-b.unsubscribeCh:
			if _, ok := clients[ch]; ok {
				delete(clients, ch)
				close(ch)
			}

		case event := <-b.publishCh:
			deliver(event)

		case req := <-b.countReqCh:
			n := 0
			for _, session := range clients {
				if req.session == "" || req.session == session {
					n++
				}
			}
			req.resp <- n
		}
	}
}

// Close gracefully stops broker loop and closes all client channels.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
	}
	<-b.stopped
}

// Subscribe adds a client for session and returns its channel.
func (b *Broker) Subscribe(session string) chan []byte {
	ch := make(chan []byte, 64)
	if b.closed.Load() {
		close(ch)
		return ch
	}

	select {
	case b.subscribeCh <- subscription{session: session, ch: ch}:
	case <-b.stopped:
		close(ch)
	}

	return ch
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	if b.closed.Load() {
		return
	}
	select {
	case b.unsubscribeCh <- ch:
	case <-b.stopped:
	}
}

// ClientCount returns the number of connected clients of session, or of all
// sessions when session is empty.
func (b *Broker) ClientCount(session string) int {
	if b.closed.Load() {
		return 0
	}

	resp := make(chan int, 1)
	select {
	case b.countReqCh <- countReq{session: session, resp: resp}:
	case <-b.stopped:
		return 0
	}

	select {
	case n := <-resp:
		return n
	case <-b.stopped:
		return 0
	}
}

// Publish queues an event for delivery.
func (b *Broker) Publish(event Event) {
	if b.closed.Load() {
		return
	}
	select {
	case b.publishCh <- event:
	case <-b.stopped:
	}
}

// Stream serves the SSE connection of one session. initial is called right
// after subscribing, so nothing published in between is lost.
func (b *Broker) Stream(w http.ResponseWriter, r *http.Request, session string, initial func() []Event) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	ch := b.Subscribe(session)
	defer b.Unsubscribe(ch)

	if initial != nil {
		for _, event := range initial() {
			if raw, err := Format(event); err == nil {
				_, _ = w.Write(raw)
			}
		}
	}
	flusher.Flush()

	ticker := time.NewTicker(b.keepAlive)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = w.Write([]byte(": keep-alive\n\n"))
			flusher.Flush()
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}
