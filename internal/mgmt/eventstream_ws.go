package mgmt

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ndnfastpath/router/internal/core"
	"github.com/ndnfastpath/router/internal/pipeline"
)

// EventStreamListener accepts WebSocket connections and streams the
// pipeline's event ring to them, one JSON-encoded event per text message,
// grounded on fw/face/web-socket-listener.go's upgrader-plus-handler shape.
// Every client polls the same ring and polling consumes events, so with
// several clients connected each event reaches only one of them.
// Unlike a face, it has no link service behind it and no receive loop of its
// own concern: it is read-only telemetry, not an NDN transport.
type EventStreamListener struct {
	Router *pipeline.Router

	server   http.Server
	upgrader websocket.Upgrader

	pollInterval time.Duration
}

// NewEventStreamListener builds a WebSocket event-stream listener bound to
// addr (host:port), polling router's event ring every pollInterval.
func NewEventStreamListener(addr string, router *pipeline.Router, pollInterval time.Duration) *EventStreamListener {
	l := &EventStreamListener{
		Router: router,
		server: http.Server{Addr: addr},
		upgrader: websocket.Upgrader{
			WriteBufferPool: &sync.Pool{},
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		pollInterval: pollInterval,
	}
	l.server.Handler = http.HandlerFunc(l.handler)
	return l
}

func (l *EventStreamListener) String() string {
	return "event-stream-listener (addr=" + l.server.Addr + ")"
}

// Run starts the listener; it blocks until Close is called.
func (l *EventStreamListener) Run() error {
	err := l.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Close gracefully shuts down the listener.
func (l *EventStreamListener) Close() {
	l.server.Close()
}

func (l *EventStreamListener) handler(w http.ResponseWriter, r *http.Request) {
	c, err := l.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer c.Close()

	core.Log.Info(l, "Accepting new event-stream WebSocket client", "remote", r.RemoteAddr)

	ticker := time.NewTicker(l.pollInterval)
	defer ticker.Stop()

	for range ticker.C {
		events := l.Router.Events.Poll(256)
		if len(events) == 0 {
			continue
		}
		for _, ev := range events {
			payload, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
				core.Log.Info(l, "Event-stream client disconnected", "err", err)
				return
			}
		}
	}
}
