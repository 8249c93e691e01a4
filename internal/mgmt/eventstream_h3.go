package mgmt

import (
	"crypto/tls"
	"encoding/json"
	"net/http"
	"time"

	"github.com/quic-go/quic-go"
	"github.com/quic-go/quic-go/http3"
	"github.com/quic-go/webtransport-go"

	"github.com/ndnfastpath/router/internal/core"
	"github.com/ndnfastpath/router/internal/pipeline"
)

// HTTP3EventStreamListener is the QUIC/WebTransport counterpart of
// EventStreamListener, for operator consoles that want event-stream delivery
// over an HTTP/3 datagram session instead of a WebSocket, grounded on
// fw/face/http3-listener.go and http3-transport.go's SendDatagram usage.
type HTTP3EventStreamListener struct {
	Router *pipeline.Router

	mux    *http.ServeMux
	server *webtransport.Server

	pollInterval time.Duration
}

// NewHTTP3EventStreamListener builds an HTTP/3 WebTransport listener bound
// to addr, serving the event stream at /events, using the given TLS
// certificate pair.
func NewHTTP3EventStreamListener(addr, tlsCert, tlsKey string, router *pipeline.Router, pollInterval time.Duration) (*HTTP3EventStreamListener, error) {
	cert, err := tls.LoadX509KeyPair(tlsCert, tlsKey)
	if err != nil {
		return nil, err
	}

	l := &HTTP3EventStreamListener{
		Router:       router,
		mux:          http.NewServeMux(),
		pollInterval: pollInterval,
	}
	l.mux.HandleFunc("/events", l.handler)

	l.server = &webtransport.Server{
		H3: http3.Server{
			Addr: addr,
			TLSConfig: &tls.Config{
				Certificates: []tls.Certificate{cert},
				MinVersion:   tls.VersionTLS12,
			},
			QUICConfig: &quic.Config{
				MaxIdleTimeout:          60 * time.Second,
				KeepAlivePeriod:         30 * time.Second,
				DisablePathMTUDiscovery: true,
			},
			Handler: l.mux,
		},
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	return l, nil
}

func (l *HTTP3EventStreamListener) String() string { return "http3-event-stream-listener" }

// Run starts serving; it blocks until Close is called.
func (l *HTTP3EventStreamListener) Run() error {
	err := l.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Close shuts down the listener.
func (l *HTTP3EventStreamListener) Close() {
	l.server.Close()
}

func (l *HTTP3EventStreamListener) handler(w http.ResponseWriter, r *http.Request) {
	session, err := l.server.Upgrade(w, r)
	if err != nil {
		return
	}
	core.Log.Info(l, "Accepting new HTTP/3 event-stream session", "remote", r.RemoteAddr)

	ticker := time.NewTicker(l.pollInterval)
	defer ticker.Stop()

	for range ticker.C {
		events := l.Router.Events.Poll(256)
		for _, ev := range events {
			payload, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if err := session.SendDatagram(payload); err != nil {
				core.Log.Info(l, "HTTP/3 event-stream client disconnected", "err", err)
				return
			}
		}
	}
}
