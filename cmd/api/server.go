package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"bookheaven-backend/pkg/container"
)

const shutdownTimeout = 10 * time.Second

// Serve builds the container and runs the HTTP server until SIGINT/SIGTERM
func Serve() {
	appContainer, err := container.NewContainer()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize container")
	}
	defer appContainer.Cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := newHTTPServer(":"+appContainer.Config.App.Port, SetupRouter(appContainer))
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		log.Error().Err(err).Str("addr", srv.Addr).Msg("Failed to listen")
		return
	}

	log.Info().
		Str("addr", ln.Addr().String()).
		Str("version", appContainer.Config.App.Version).
		Msg("Server listening")

	if err := run(ctx, srv, ln, shutdownTimeout); err != nil {
		log.Error().Err(err).Msg("Server stopped with error")
		return
	}
	log.Info().Msg("Server exited gracefully")
}

func newHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}

// run serves on ln until ctx is done, then drains in-flight requests for at
// most timeout. A serve error that is not a normal close is returned.
func run(ctx context.Context, srv *http.Server, ln net.Listener, timeout time.Duration) error {
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
