// Package mgmt is the control plane surface around a running pipeline.Router:
// an HTTP read/write API for FIB and CS inspection, a metrics endpoint, and
// two transports for streaming the event ring to a connected operator
// (WebSocket and HTTP/3 WebTransport), grounded on fw/face's listener/
// transport pairing (web-socket-listener.go, http3-listener.go).
package mgmt

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/schema"

	"github.com/ndnfastpath/router/internal/core"
	"github.com/ndnfastpath/router/internal/metrics"
	"github.com/ndnfastpath/router/internal/pipeline"
	"github.com/ndnfastpath/router/internal/storage"
)

func (s *Server) String() string { return "mgmt" }

// Server wires a pipeline.Router into an http.ServeMux under a fixed set of
// routes. It holds no locks of its own: every table it exposes already does
// its own locking (table.lru's mutex, table.FIB's RWMutex).
type Server struct {
	Router   *pipeline.Router
	FIBStore *storage.FIBStore
	mux      *http.ServeMux

	decoder *schema.Decoder
}

// NewServer builds a management HTTP server bound to router, with all
// routes registered on its own ServeMux so callers can mount it under any
// prefix. fibStore may be nil, in which case FIB writes only touch the
// in-memory table and are lost on restart — callers that opened a durable
// FIBStore should pass it so operator-added routes survive.
func NewServer(router *pipeline.Router, fibStore *storage.FIBStore) *Server {
	s := &Server{
		Router:   router,
		FIBStore: fibStore,
		mux:      http.NewServeMux(),
		decoder:  schema.NewDecoder(),
	}
	s.decoder.IgnoreUnknownKeys(true)

	s.mux.HandleFunc("GET /fib", s.handleFIBList)
	s.mux.HandleFunc("POST /fib", s.handleFIBUpsert)
	s.mux.HandleFunc("GET /cs", s.handleCSList)
	s.mux.HandleFunc("GET /pit", s.handlePITList)
	s.mux.HandleFunc("GET /metrics", s.handleMetrics)
	s.mux.HandleFunc("GET /events", s.handleEventsPoll)

	return s
}

// ServeHTTP lets Server be used directly as an http.Handler, e.g. passed to
// http.Server.Handler or mounted with http.Handle.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		core.Log.Error(s, "mgmt: failed to encode response", "err", err)
	}
}

func (s *Server) handleFIBList(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.Router.FIB.Inspect())
}

// fibUpsertQuery is decoded from the request's query string with
// gorilla/schema, matching spec.md §6's "FIB: add/remove a route (name hash
// → egress ifindex)" management operation.
type fibUpsertQuery struct {
	NameHash uint64 `schema:"name_hash,required"`
	Ifindex  uint32 `schema:"ifindex"`
}

func (s *Server) handleFIBUpsert(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var q fibUpsertQuery
	if err := s.decoder.Decode(&q, r.Form); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if s.FIBStore != nil {
		if err := s.FIBStore.Upsert(q.NameHash, q.Ifindex); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
	s.Router.FIB.Upsert(q.NameHash, q.Ifindex)
	w.WriteHeader(http.StatusNoContent)
}

// csListQuery controls how much of the Content Store the listing endpoint
// returns. IncludeContent defaults to false — most operators only want
// occupancy and expiry, not the payload bytes.
type csListQuery struct {
	IncludeContent bool `schema:"include_content"`
}

func (s *Server) handleCSList(w http.ResponseWriter, r *http.Request) {
	var q csListQuery
	if err := s.decoder.Decode(&q, r.URL.Query()); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.writeJSON(w, s.Router.CS.Inspect(q.IncludeContent))
}

func (s *Server) handlePITList(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.Router.PIT.Inspect())
}

// metricsSnapshot is the JSON shape returned by GET /metrics: the raw
// per-metric totals plus the derived cache hit ratio spec.md §4.3 calls out
// as the one metric worth computing outside the per-CPU counters themselves.
type metricsSnapshot struct {
	Counters map[string]uint64 `json:"counters"`
	HitRatio float64           `json:"hit_ratio"`
	Dropped  uint64            `json:"events_dropped"`
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	snap := s.Router.Counters.Snapshot()
	named := make(map[string]uint64, len(snap))
	for m, v := range snap {
		named[m.String()] = v
	}
	s.writeJSON(w, metricsSnapshot{
		Counters: named,
		HitRatio: metrics.HitRatio(snap),
		Dropped:  s.Router.Events.Dropped(),
	})
}

func (s *Server) handleEventsPoll(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	events := s.Router.Events.Poll(limit)

	if v := r.URL.Query().Get("top"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "top must be a positive integer", http.StatusBadRequest)
			return
		}
		events = metrics.TopNEvents(events, n, func(ev metrics.Event) int64 {
			return int64(ev.PacketSize)
		})
	}

	s.writeJSON(w, events)
}
