// Package sse implements a Server-Sent Events broker that fans out state
// changes to every connected window.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/paniterce/notecraftr/internal/models"
)

// Event represents an SSE event to broadcast.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Note event kinds accepted by PublishNoteEvent.
const (
	NoteCreated = "created"
	NoteUpdated = "updated"
	NoteDeleted = "deleted"
)

type noteEventReq struct {
	kind string
	note models.Note
}

// Broker manages SSE client connections and broadcasts events.
//
// Concurrency model: a single internal event loop (goroutine) owns mutable
// state (clients + output throttle). Public methods communicate with this
// loop through channels, so no mutexes are required.
type Broker struct {
	outputMin time.Duration

	subscribeCh   chan chan []byte
	unsubscribeCh chan chan []byte
	publishCh     chan Event
	noteEventCh   chan noteEventReq
	outputCh      chan string
	countReqCh    chan chan int

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewBroker creates a broker with the given output.changed throttle interval.
func NewBroker(outputThrottle time.Duration) *Broker {
	if outputThrottle <= 0 {
		outputThrottle = 500 * time.Millisecond
	}

	b := &Broker{
		outputMin:     outputThrottle,
		subscribeCh:   make(chan chan []byte),
		unsubscribeCh: make(chan chan []byte),
		publishCh:     make(chan Event, 256),
		noteEventCh:   make(chan noteEventReq, 256),
		outputCh:      make(chan string, 256),
		countReqCh:    make(chan chan int),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}

	go b.run()
	return b
}

func (b *Broker) run() {
	defer close(b.stopped)

	clients := make(map[chan []byte]struct{})

	// Output throttle state: at most one output.changed per outputMin, the
	// latest pending value is flushed on the trailing edge.
	var (
		lastOutput    time.Time
		pendingOutput string
		outputDirty   bool
	)
	flushTimer := time.NewTimer(time.Hour)
	flushTimer.Stop()

	broadcast := func(event Event) {
		payload, err := json.Marshal(event.Data)
		if err != nil {
			return
		}
		raw := []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", event.Type, payload))

		for ch := range clients {
			select {
			case ch <- raw:
			default:
				// Client buffer full; skip to avoid blocking broker loop.
			}
		}
	}

	sendOutput := func() {
		lastOutput = time.Now()
		outputDirty = false
		broadcast(Event{Type: "output.changed", Data: map[string]string{"output": pendingOutput}})
	}

	for {
		select {
		case <-b.stopCh:
			flushTimer.Stop()
			for ch := range clients {
				close(ch)
			}
			return

		case ch := <-b.subscribeCh:
			clients[ch] = struct{}{}

		case ch := <-b.unsubscribeCh:
			if _, ok := clients[ch]; ok {
				delete(clients, ch)
				close(ch)
			}

		case event := <-b.publishCh:
			broadcast(event)

		case req := <-b.noteEventCh:
			switch req.kind {
			case NoteCreated, NoteUpdated, NoteDeleted:
				broadcast(Event{Type: "note." + req.kind, Data: req.note})
			}

		case output := <-b.outputCh:
			pendingOutput = output
			if wait := b.outputMin - time.Since(lastOutput); wait > 0 {
				if !outputDirty {
					outputDirty = true
					flushTimer.Reset(wait)
				}
				continue
			}
			sendOutput()

		case <-flushTimer.C:
			if outputDirty {
				sendOutput()
			}

		case resp := <-b.countReqCh:
			resp <- len(clients)
		}
	}
}

// Close gracefully stops the broker loop and closes all client channels.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
	}
	<-b.stopped
}

// Subscribe adds a new client and returns its channel.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, 64)
	if b.closed.Load() {
		close(ch)
		return ch
	}

	select {
	case b.subscribeCh <- ch:
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

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	if b.closed.Load() {
		return 0
	}

	resp := make(chan int, 1)
	select {
	case b.countReqCh <- resp:
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

// Publish sends an event to all connected clients.
func (b *Broker) Publish(event Event) {
	if b.closed.Load() {
		return
	}
	select {
	case b.publishCh <- event:
	case <-b.stopped:
	}
}

// PublishNoteEvent broadcasts a note lifecycle event with the full note
// payload so windows can render without a follow-up fetch.
func (b *Broker) PublishNoteEvent(kind string, note models.Note) {
	if b.closed.Load() {
		return
	}
	select {
	case b.noteEventCh <- noteEventReq{kind: kind, note: note}:
	case <-b.stopped:
	}
}

// PublishTemplateChanged broadcasts a template.changed event naming the
// active template.
func (b *Broker) PublishTemplateChanged(activeID int) {
	b.Publish(Event{Type: "template.changed", Data: map[string]int{"activeTemplateId": activeID}})
}

// PublishOutputChanged broadcasts a throttled output.changed event carrying
// the derived output. Bursts collapse to the latest value.
func (b *Broker) PublishOutputChanged(output string) {
	if b.closed.Load() {
		return
	}
	select {
	case b.outputCh <- output:
	case <-b.stopped:
	}
}

// PublishStoreReloaded tells windows that the durable store changed
// externally and the named keys were reloaded.
func (b *Broker) PublishStoreReloaded(keys []string) {
	b.Publish(Event{Type: "store.reloaded", Data: map[string][]string{"keys": keys}})
}

// ServeHTTP is the SSE endpoint handler (GET /api/events).
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}
