// Package session implements the per-connection state machine (C3):
// admission, handshake, keep-alive supervision, dispatch, and disconnect,
// per spec §4.3.
package session

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"time"

	"github.com/aoserver/aoserver/internal/aoproto"
	"github.com/aoserver/aoserver/internal/identity"
	"github.com/aoserver/aoserver/internal/logger"
	"github.com/aoserver/aoserver/internal/metrics"
	"github.com/aoserver/aoserver/internal/registry"
	"github.com/aoserver/aoserver/internal/timeout"
)

// State is one stage of the session state machine of spec §4.3.
type State int

const (
	StateWaitPreamble State = iota
	StateAdmitting
	StateActive
	StateClosed
)

// Config carries the ambient settings the core dispatch loop needs,
// sourced from internal/config at startup.
type Config struct {
	IdleTimeout time.Duration
	PlayerLimit int
	Software    string
	Version     string
	// PreambleValue is the fixed integer payload of the decryptor
	// preamble (spec §4.3 example uses 34).
	PreambleValue uint32
}

// Session is one connection's handler. It implements aoproto.Handler so
// the decoded ClientCommand.Handle(h) calls land directly on it.
type Session struct {
	conn   net.Conn
	reader *bufio.Reader
	dec    *aoproto.Decoder

	cfg     Config
	reg     *registry.Registry
	store   identity.Store
	domain  Domain
	super   *timeout.Supervisor
	state   State
	client  *registry.Session
	ip      string
	logCtx  *logger.LogContext
	opened  time.Time

	// OnAdmit, if set before Run, is called once admission succeeds with
	// the assigned slot id. The listener uses this to track slot-to-conn
	// mappings for admin-triggered disconnects.
	OnAdmit func(slot int)

	// Metrics, if set before Run, records connection/session/command
	// counters. A nil Metrics is safe to leave unset.
	Metrics *metrics.Collector
}

// New constructs a Session bound to an accepted connection. Run drives it
// to completion.
func New(conn net.Conn, cfg Config, reg *registry.Registry, store identity.Store, domain Domain) *Session {
	host, _, _ := net.SplitHostPort(conn.RemoteAddr().String())
	if host == "" {
		host = conn.RemoteAddr().String()
	}
	return &Session{
		conn:   conn,
		reader: bufio.NewReader(conn),
		dec:    aoproto.NewDecoder(),
		cfg:    cfg,
		reg:    reg,
		store:  store,
		domain: domain,
		state:  StateWaitPreamble,
		ip:     host,
		logCtx: logger.NewLogContext(host),
	}
}

// Send encodes and writes a ServerCommand to the connection.
func (s *Session) Send(cmd aoproto.ServerCommand) error {
	_, err := s.conn.Write(aoproto.Encode(cmd))
	return err
}

// SlotID returns the registry slot assigned to this session, or -1 before
// admission.
func (s *Session) SlotID() int {
	if s.client == nil {
		return -1
	}
	return s.client.SlotID
}

// IdentityID returns the persistent identity id resolved for this
// connection's source address, or 0 before admission.
func (s *Session) IdentityID() int64 {
	if s.client == nil {
		return 0
	}
	return s.client.IdentityID
}

// HardwareID returns the hardware id the client reported at handshake.
func (s *Session) HardwareID() string {
	if s.client == nil {
		return ""
	}
	return s.client.HardwareID
}

// CharacterID returns the currently selected character id, or
// registry.UnchosenCharacter if none has been selected yet.
func (s *Session) CharacterID() int {
	if s.client == nil {
		return registry.UnchosenCharacter
	}
	return s.client.CharacterID
}

// SetCharacter records the client's character selection in the registry.
func (s *Session) SetCharacter(id int) {
	if s.client == nil {
		return
	}
	s.client.CharacterID = id
	s.reg.UpdateClient(s.client)
	s.logCtx = s.logCtx.WithIdentity(s.client.IdentityID, id)
}

// Run executes the full state machine: preamble, admission, active
// dispatch loop, and cleanup. It always returns a non-nil error saying why
// the session ended: an admission, decode or handler error,
// aoproto.ErrTimeout on idle expiry, aoproto.ErrDisconnected at a clean
// end of stream, or ctx's error when the caller cancels.
func (s *Session) Run(ctx context.Context) error {
	defer s.close()

	if err := s.Send(aoproto.Decryptor{Value: s.cfg.PreambleValue}); err != nil {
		return aoproto.WrapError(aoproto.KindFraming, "writing preamble", err)
	}
	s.state = StateAdmitting

	client, err := s.reg.NewClient(ctx, s.ip)
	if err != nil {
		reason := "This server is full."
		if errors.Is(err, registry.ErrBanned) {
			reason = "You are banned: " + strings.TrimPrefix(err.Error(), registry.ErrBanned.Error()+": ")
		}
		_ = s.Send(aoproto.BanReason{Reason: reason})
		s.state = StateClosed
		return aoproto.WrapError(aoproto.KindAdmission, "admitting client", err)
	}
	s.client = client
	s.logCtx = s.logCtx.WithSlot(client.SlotID)
	s.opened = time.Now()
	s.Metrics.RecordSessionAdmitted()
	if s.OnAdmit != nil {
		s.OnAdmit(client.SlotID)
	}

	s.super = timeout.NewSupervisor(s.cfg.IdleTimeout)
	defer s.super.Stop()
	s.state = StateActive

	return s.activeLoop(ctx)
}

// activeLoop implements spec §4.3's Active state: select over
// {timeout-expiry signal, next-decoded-message}.
func (s *Session) activeLoop(ctx context.Context) error {
	msgs := make(chan decodeResult, 1)
	go s.readLoop(msgs)

	for {
		select {
		case <-s.super.Expired():
			return aoproto.ErrTimeout
		case res, ok := <-msgs:
			if !ok {
				return aoproto.ErrDisconnected
			}
			if res.err != nil {
				return res.err
			}
			s.Metrics.RecordCommand(res.cmd.Code())
			if err := res.cmd.Handle(s); err != nil {
				s.Metrics.RecordHandlerError(aoproto.KindHandler.String())
				return aoproto.WrapError(aoproto.KindHandler, "handler error", err)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

type decodeResult struct {
	cmd aoproto.ClientCommand
	err error
}

// readLoop pulls bytes off the socket, feeds the decoder, and publishes
// decoded commands (or the first decode error) on msgs, then closes it.
func (s *Session) readLoop(msgs chan<- decodeResult) {
	defer close(msgs)

	buf := make([]byte, 4096)
	for {
		for {
			cmd, ok, err := s.dec.Next()
			if err != nil {
				msgs <- decodeResult{err: err}
				return
			}
			if !ok {
				break
			}
			msgs <- decodeResult{cmd: cmd}
		}

		n, err := s.reader.Read(buf)
		if n > 0 {
			s.dec.Feed(buf[:n])
		}
		if err != nil {
			if errors.Is(err, io.EOF) && !s.dec.Pending() {
				return
			}
			if errors.Is(err, io.EOF) {
				logger.DebugCtx(context.Background(), "dropping unterminated residue on eof")
				return
			}
			msgs <- decodeResult{err: aoproto.WrapError(aoproto.KindFraming, "reading connection", err)}
			return
		}
	}
}

func (s *Session) close() {
	s.state = StateClosed
	if s.client != nil {
		s.reg.Release(s.client.IdentityID)
		s.Metrics.RecordSessionClosed(time.Since(s.opened).Seconds())
	}
	_ = s.conn.Close()
}
