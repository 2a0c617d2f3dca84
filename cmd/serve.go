package main

import (
	"context"
	"errors"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/hexthorne/airwave/internal/server"
	"github.com/hexthorne/airwave/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the widget JSON API server until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if path := cmd.String("config"); path != "" {
		loaded, err := shared.LoadConfig(path)
		switch {
		case err == nil:
			r.reconfigure(loaded)
		case cmd.IsSet("config") || !errors.Is(err, os.ErrNotExist):
			// A missing default config.toml is fine; an explicitly requested
			// or unreadable file is not.
			return err
		}
	}

	conf := r.config.Server
	if addr := cmd.String("addr"); addr != "" {
		host, port, ok := splitAddr(addr)
		if ok {
			conf.Host = host
			conf.Port = port
		}
	}

	if !r.provider.Configured() {
		r.logger.Warn("spotify credentials not configured; widget will report unconfigured")
	}

	handler := server.NewWidgetHandler(r.orch, r.provider, conf.BaseURL, conf.Secure, r.logger)
	srv := server.NewServer(conf, handler, r.logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		r.logger.Info("shutting down", "signal", sig)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// splitAddr parses host:port, returning ok=false when the port isn't numeric.
func splitAddr(addr string) (string, int, bool) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, false
	}

	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return "", 0, false
	}

	return host, port, true
}
