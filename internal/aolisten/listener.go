// Package aolisten implements the TCP accept loop (C7): it owns the
// listening socket, tracks in-flight connections, and hands each accepted
// connection to a fresh session.Session.
package aolisten

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aoserver/aoserver/internal/identity"
	"github.com/aoserver/aoserver/internal/logger"
	"github.com/aoserver/aoserver/internal/metrics"
	"github.com/aoserver/aoserver/internal/registry"
	"github.com/aoserver/aoserver/internal/session"
)

// Config carries the listener's own settings plus everything it must pass
// down to each session it creates.
type Config struct {
	BindAddress string
	Port        int
	// ShutdownTimeout bounds how long Stop waits for in-flight connections
	// to finish before force-closing them.
	ShutdownTimeout time.Duration

	Session session.Config
}

// Listener runs the accept loop and tracks active connections for
// graceful shutdown, following the same shape as the teacher's shared
// adapter accept loop: a WaitGroup for in-flight connections, a
// close-once shutdown channel, and a map of live conns for forced
// closure on timeout.
type Listener struct {
	cfg Config
	reg *registry.Registry

	store  identity.Store
	domain session.Domain

	// Metrics, if set before Serve, is handed to every session and used
	// to record connection/kick counters directly owned by the listener.
	Metrics *metrics.Collector

	listener     net.Listener
	listenerMu   sync.RWMutex
	active       sync.WaitGroup
	activeConns  sync.Map // addr string -> net.Conn
	slotConns    sync.Map // int slot -> net.Conn
	connCount    atomic.Int32

	shutdownOnce sync.Once
	shutdown     chan struct{}
}

// New constructs a Listener. Call Serve to start accepting.
func New(cfg Config, reg *registry.Registry, store identity.Store, domain session.Domain) *Listener {
	return &Listener{
		cfg:      cfg,
		reg:      reg,
		store:    store,
		domain:   domain,
		shutdown: make(chan struct{}),
	}
}

// ActiveConnections returns the current number of accepted, unreleased
// connections.
func (l *Listener) ActiveConnections() int {
	return int(l.connCount.Load())
}

// Serve binds the listening socket and accepts connections until ctx is
// cancelled or Stop is called, then waits (up to ShutdownTimeout) for
// in-flight sessions to finish.
func (l *Listener) Serve(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", l.cfg.BindAddress, l.cfg.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("binding %s: %w", addr, err)
	}
	l.listenerMu.Lock()
	l.listener = ln
	l.listenerMu.Unlock()

	logger.Info("aoserver listening", logger.Route(addr))

	go func() {
		<-ctx.Done()
		l.initiateShutdown()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-l.shutdown:
				return l.drain()
			default:
				logger.Warn("accept error", logger.Err(err))
				continue
			}
		}

		if tcp, ok := conn.(*net.TCPConn); ok {
			_ = tcp.SetNoDelay(true)
		}

		addr := conn.RemoteAddr().String()
		l.activeConns.Store(addr, conn)
		l.active.Add(1)
		l.connCount.Add(1)
		l.Metrics.RecordConnectionAccepted()

		go l.handle(addr, conn)
	}
}

func (l *Listener) handle(addr string, conn net.Conn) {
	var slot = -1
	defer func() {
		l.activeConns.Delete(addr)
		if slot >= 0 {
			l.slotConns.Delete(slot)
		}
		l.active.Done()
		l.connCount.Add(-1)
	}()

	sess := session.New(conn, l.cfg.Session, l.reg, l.store, l.domain)
	sess.Metrics = l.Metrics
	sess.OnAdmit = func(s int) {
		slot = s
		l.slotConns.Store(s, conn)
	}
	if err := sess.Run(context.Background()); err != nil {
		logger.Warn("session ended", logger.ClientAddr(addr), logger.Err(err))
	}
}

// KickSlot forcibly closes the connection occupying slot, if any. The
// session's own readLoop observes the resulting error and tears down
// cleanly through the normal disconnect path. Returns false if no
// connection currently occupies that slot.
func (l *Listener) KickSlot(slot int) bool {
	v, ok := l.slotConns.Load(slot)
	if !ok {
		return false
	}
	conn := v.(net.Conn)
	_ = conn.Close()
	l.Metrics.RecordKick()
	return true
}

// Stop initiates graceful shutdown and blocks until every in-flight
// connection has finished or ctx expires; on expiry it force-closes the
// remaining connections and returns ctx's error.
func (l *Listener) Stop(ctx context.Context) error {
	l.initiateShutdown()

	done := make(chan struct{})
	go func() {
		l.active.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		l.forceCloseAll()
		return ctx.Err()
	}
}

func (l *Listener) initiateShutdown() {
	l.shutdownOnce.Do(func() {
		close(l.shutdown)
		l.listenerMu.RLock()
		ln := l.listener
		l.listenerMu.RUnlock()
		if ln != nil {
			_ = ln.Close()
		}
	})
}

// drain waits out the configured ShutdownTimeout for in-flight
// connections before force-closing whatever remains, mirroring the
// teacher's gracefulShutdown/forceCloseConnections split.
func (l *Listener) drain() error {
	done := make(chan struct{})
	go func() {
		l.active.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(l.cfg.ShutdownTimeout):
		remaining := l.connCount.Load()
		logger.Warn("shutdown timeout exceeded, forcing closure", logger.PlayerCount(int(remaining)))
		l.forceCloseAll()
		return fmt.Errorf("shutdown timeout: %d connections force-closed", remaining)
	}
}

func (l *Listener) forceCloseAll() {
	l.activeConns.Range(func(_, v any) bool {
		if conn, ok := v.(net.Conn); ok {
			_ = conn.Close()
		}
		return true
	})
}
