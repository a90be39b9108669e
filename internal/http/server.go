// Package http wires gin handlers and middleware into a runnable
// server, grounded on the teacher's internal/http/server.go, extended
// with graceful shutdown per spec.md §5's resource model (the teacher's
// own Engine.Run blocks forever with no drain step).
package http

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

// Server wraps the assembled gin engine.
type Server struct {
	Engine          *gin.Engine
	ShutdownTimeout time.Duration
}

func NewServer(cfg RouterConfig) *Server {
	return &Server{Engine: NewRouter(cfg), ShutdownTimeout: 30 * time.Second}
}

// Run listens until SIGINT/SIGTERM, then drains in-flight requests for
// up to ShutdownTimeout before returning.
func (s *Server) Run(address string) error {
	srv := &http.Server{Addr: address, Handler: s.Engine}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	return <-errCh
}
