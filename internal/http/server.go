// README: HTTP front end for the booking assistant; one hosted conversation at a time.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"swiftcab/internal/http/handlers"
	"swiftcab/internal/session"
)

const shutdownTimeout = 5 * time.Second

type ServerDeps struct {
	Addr   string
	Runner handlers.Runner
	// Sessions is the checkpoint store the runner writes to.
	Sessions session.Store
	Logger   *zap.Logger
}

type Server struct {
	host   *handlers.Host
	logger *zap.Logger
	srv    *http.Server
}

func NewServer(deps ServerDeps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	host := handlers.NewHost(deps.Runner, deps.Sessions, logger)
	return &Server{
		host:   host,
		logger: logger,
		srv: &http.Server{
			Addr:              deps.Addr,
			Handler:           NewRouter(host, logger),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (s *Server) Routes() http.Handler {
	return s.srv.Handler
}

// ListenAndServe serves until ctx is done, then drains in-flight requests
// and stops the hosted conversation.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.srv.Addr))
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.host.Shutdown()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := s.srv.Shutdown(shutdownCtx)
	s.host.Shutdown()
	s.logger.Info("http server stopped")
	return err
}
