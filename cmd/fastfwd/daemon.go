package main

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/ndnfastpath/router/internal/capture"
	"github.com/ndnfastpath/router/internal/core"
	"github.com/ndnfastpath/router/internal/mgmt"
	"github.com/ndnfastpath/router/internal/pipeline"
	"github.com/ndnfastpath/router/internal/storage"
	"github.com/ndnfastpath/router/internal/table"
)

// eventPollInterval controls how often the event-stream listeners drain the
// router's event ring. Not user-configurable; short enough that operator
// consoles see events promptly without busy-polling.
const eventPollInterval = 200 * time.Millisecond

// daemon is the fast-path forwarding process: one pipeline.Router, one
// capture source feeding it, and whichever control-plane listeners the
// config enables. It mirrors the teacher's YaNFD type in shape (Start/Stop
// pair, String() for logging) without pulling in the full NDN engine, since
// the fast path speaks raw frames, not a signed management protocol.
type daemon struct {
	cfg    *core.Config
	router *pipeline.Router

	csStore  *storage.CSStore
	fibStore *storage.FIBStore

	httpSrv  *http.Server
	wsSrv    *mgmt.EventStreamListener
	h3Srv    *mgmt.HTTP3EventStreamListener

	captureSrc capture.Source

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func (d *daemon) String() string { return "fastfwd" }

// newDaemon builds a daemon from cfg but does not yet start anything.
func newDaemon(cfg *core.Config) *daemon {
	core.SetLive(cfg)
	return &daemon{
		cfg:    cfg,
		router: pipeline.NewRouterWithConfig(cfg),
	}
}

// Start opens the Badger content-store snapshot (only when mgmt.badger_dir is
// set) and the SQLite FIB store (always, at DefaultFIBStoreDSN), replays them
// into the router's tables, starts the control-plane listeners, and launches the
// capture loop in the background. It returns once everything is listening;
// Stop reverses it.
func (d *daemon) Start(ifaceName string) error {
	if dir := d.cfg.Mgmt.BadgerDir; dir != "" {
		store, err := storage.OpenCSStore(dir)
		if err != nil {
			return err
		}
		d.csStore = store
		if n, err := store.LoadAll(d.router.CS, table.NowSec()); err == nil {
			core.Log.Info(d, "Replayed content store snapshot", "entries", n)
		}
	}

	fibDSN := storage.DefaultFIBStoreDSN(d.cfg)
	fibStore, err := storage.OpenFIBStore(fibDSN)
	if err != nil {
		return err
	}
	d.fibStore = fibStore
	if n, err := fibStore.LoadAll(d.router.FIB); err == nil {
		core.Log.Info(d, "Replayed FIB from durable store", "routes", n)
	}

	if d.cfg.Mgmt.HTTPBind != "" {
		d.httpSrv = &http.Server{Addr: d.cfg.Mgmt.HTTPBind, Handler: mgmt.NewServer(d.router, d.fibStore)}
		go func() {
			core.Log.Info(d, "Starting management HTTP listener", "addr", d.cfg.Mgmt.HTTPBind)
			if err := d.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				core.Log.Error(d, "Management HTTP listener exited", "err", err)
			}
		}()
	}

	if d.cfg.Mgmt.WSBind != "" {
		d.wsSrv = mgmt.NewEventStreamListener(d.cfg.Mgmt.WSBind, d.router, eventPollInterval)
		go func() {
			core.Log.Info(d, "Starting event-stream WebSocket listener", "addr", d.cfg.Mgmt.WSBind)
			if err := d.wsSrv.Run(); err != nil {
				core.Log.Error(d, "Event-stream WebSocket listener exited", "err", err)
			}
		}()
	}

	if d.cfg.Mgmt.H3Bind != "" && d.cfg.Mgmt.H3TLSCert != "" {
		h3, err := mgmt.NewHTTP3EventStreamListener(
			d.cfg.Mgmt.H3Bind, d.cfg.Mgmt.H3TLSCert, d.cfg.Mgmt.H3TLSKey, d.router, eventPollInterval)
		if err != nil {
			core.Log.Warn(d, "Unable to start HTTP/3 event-stream listener", "err", err)
		} else {
			d.h3Srv = h3
			go func() {
				core.Log.Info(d, "Starting HTTP/3 event-stream listener", "addr", d.cfg.Mgmt.H3Bind)
				if err := d.h3Srv.Run(); err != nil {
					core.Log.Error(d, "HTTP/3 event-stream listener exited", "err", err)
				}
			}()
		}
	}

	src, err := capture.NewAFPacketSource(ifaceName, maxFrameLen)
	if err != nil {
		return err
	}
	d.captureSrc = src

	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.wg.Add(1)
	go d.captureLoop(ctx)

	return nil
}

const maxFrameLen = 1 << 16

func (d *daemon) captureLoop(ctx context.Context) {
	defer d.wg.Done()
	for {
		frame, err := d.captureSrc.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			core.Log.Warn(d, "Capture source error", "err", err)
			continue
		}
		d.router.ProcessFrame(frame.Data, frame.IngressIfindex)
	}
}

// Stop shuts down the capture loop and every listener, in roughly reverse
// order of Start, mirroring the teacher's yanfd.Stop() call shape.
func (d *daemon) Stop() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.captureSrc != nil {
		d.captureSrc.Close()
	}
	d.wg.Wait()

	if d.httpSrv != nil {
		d.httpSrv.Shutdown(context.Background())
	}
	if d.wsSrv != nil {
		d.wsSrv.Close()
	}
	if d.h3Srv != nil {
		d.h3Srv.Close()
	}
	if d.csStore != nil {
		if err := storage.SnapshotAll(d.csStore, d.router.CS); err != nil {
			core.Log.Warn(d, "Failed to snapshot content store on shutdown", "err", err)
		}
		d.csStore.Close()
	}
	if d.fibStore != nil {
		d.fibStore.Close()
	}
}
