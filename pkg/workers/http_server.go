package workers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

const shutdownTimeout = 10 * time.Second

type httpServer struct {
	server *http.Server
}

func NewHTTPServer(addr string, handler http.Handler) *httpServer {
	return &httpServer{
		server: &http.Server{
			Addr:        addr,
			Handler:     handler,
			ReadTimeout: 15 * time.Second,
			IdleTimeout: 60 * time.Second,
		},
	}
}

func (s *httpServer) Name() string { return "http_server" }

func (s *httpServer) Start(ctx context.Context) error {
	slog.Info("Starting worker", "name", s.Name(), "addr", s.server.Addr)
	defer slog.Info("Worker stopped", "name", s.Name())

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancelFn := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelFn()

	return s.server.Shutdown(shutdownCtx)
}
