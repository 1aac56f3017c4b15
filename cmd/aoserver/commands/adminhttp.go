package commands

import (
	"context"
	"errors"
	"net/http"
)

// adminHTTPServer wraps an http.Server so the admin API can be started
// and stopped alongside the TCP listener under the same cancellation
// context start.go already manages.
type adminHTTPServer struct {
	addr    string
	handler http.Handler
}

func (a *adminHTTPServer) run(ctx context.Context) error {
	srv := &http.Server{Addr: a.addr, Handler: a.handler}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
