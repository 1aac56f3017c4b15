// Package masterserver implements the outbound advertising client: a
// long-lived connection to a public AO master server that periodically
// pings this server and asks it to announce itself, grounded in
// original_source/rusttorney-server/src/master_server_client.rs's
// connection_loop (CHECK/PONG/NOSERV state machine).
package masterserver

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/aoserver/aoserver/internal/logger"
	"github.com/aoserver/aoserver/internal/telemetry"
)

// Config carries the advertising settings sourced from internal/config.
type Config struct {
	Enabled           bool
	Address           string
	Name              string
	Description       string
	Port              int
	Software          string
	ReconnectInterval time.Duration
}

// Client maintains the outbound connection to the master server,
// reconnecting with a linear backoff on any read or write failure.
type Client struct {
	cfg Config
}

// New returns a Client for cfg. Run is a no-op if cfg.Enabled is false.
func New(cfg Config) *Client {
	if cfg.ReconnectInterval <= 0 {
		cfg.ReconnectInterval = 10 * time.Second
	}
	return &Client{cfg: cfg}
}

// Run dials the master server and services its requests until ctx is
// cancelled, reconnecting after every disconnect.
func (c *Client) Run(ctx context.Context) error {
	if !c.cfg.Enabled {
		return nil
	}

	attempt := 0
	for {
		if ctx.Err() != nil {
			return nil
		}

		if err := c.serveOnce(ctx); err != nil {
			attempt++
			wait := time.Duration(attempt) * c.cfg.ReconnectInterval
			logger.Warn("master server connection lost", logger.Err(err), logger.ArgCount(attempt))
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil
			}
			continue
		}
		attempt = 0
	}
}

func (c *Client) serveOnce(ctx context.Context) error {
	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", c.cfg.Address)
	if err != nil {
		return fmt.Errorf("dialing master server: %w", err)
	}
	defer conn.Close()

	logger.Info("master server connected", logger.Route(c.cfg.Address))

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	reader := bufio.NewReader(conn)
	for {
		frame, err := reader.ReadString('%')
		if err != nil {
			return fmt.Errorf("reading master server frame: %w", err)
		}
		code := strings.TrimSuffix(strings.TrimSuffix(frame, "%"), "#")

		switch code {
		case "CHECK":
			if _, err := conn.Write([]byte("PING#%")); err != nil {
				return fmt.Errorf("sending ping: %w", err)
			}
		case "PONG":
			logger.Debug("master server pong received")
		case "NOSERV":
			_, span := telemetry.StartDomainSpan(ctx, telemetry.SpanMasterServerSync)
			if _, err := conn.Write([]byte(c.advertisement())); err != nil {
				span.End()
				return fmt.Errorf("sending server info: %w", err)
			}
			span.End()
		default:
			logger.Debug("unrecognized master server command", logger.Command(code))
		}
	}
}

// advertisement formats the SCC server-info reply, per the reference
// pack_server_info's "SCC#port#name#description#software#%" shape.
func (c *Client) advertisement() string {
	return "SCC#" + strconv.Itoa(c.cfg.Port) + "#" + c.cfg.Name + "#" + c.cfg.Description + "#" + c.cfg.Software + "#%"
}
