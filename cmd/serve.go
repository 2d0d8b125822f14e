package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/desertthunder/skillswap/internal/server"
	"github.com/desertthunder/skillswap/internal/shared"
	"github.com/desertthunder/skillswap/internal/web"
	"github.com/urfave/cli/v3"
)

const shutdownTimeout = 5 * time.Second

// newServeHandler builds the front server from the [server] and [backend] config tables.
func (r *Runner) newServeHandler() (http.Handler, *server.Metrics, error) {
	cfg := r.config.Server

	pages, err := web.NewPages(web.PagesOpts{BackendURL: r.config.Backend.BaseURL, Logger: r.logger})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load page templates: %w", err)
	}

	var metrics *server.Metrics
	if cfg.Metrics {
		metrics = server.NewMetrics()
	}

	handler := server.NewHandler(server.HandlerOpts{
		Hosts:   server.CanonicalHosts{Canonical: cfg.CanonicalHost, Aliases: cfg.AliasHosts},
		Theme:   server.ThemeOpts{Default: cfg.DefaultTheme},
		Logger:  r.logger,
		Metrics: metrics,
		Pages:   pages,
	})
	return handler, metrics, nil
}

// Serve runs the web front end until the context is canceled.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.config.Validate(); err != nil {
		return err
	}

	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr()
	}

	handler, metrics, err := r.newServeHandler()
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	siteURL := browseURL(ln.Addr())

	r.logger.Info("serving",
		"addr", ln.Addr().String(),
		"canonical_host", r.config.Server.CanonicalHost,
		"aliases", len(r.config.Server.AliasHosts),
		"metrics", metrics != nil,
	)
	r.writePlain("Serving SkillSwap at %s\n", siteURL)

	if cmd.Bool("open") {
		if err := shared.OpenBrowser(siteURL); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
		}
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		r.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	}
}

// browseURL turns a listener address into a URL a local browser can open.
func browseURL(addr net.Addr) string {
	tcp, ok := addr.(*net.TCPAddr)
	if !ok {
		return "http://" + addr.String()
	}
	if tcp.IP == nil || tcp.IP.IsUnspecified() {
		return fmt.Sprintf("http://localhost:%d", tcp.Port)
	}
	return "http://" + tcp.String()
}
