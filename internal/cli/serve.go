package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/docwatch/docwatch/internal/config"
	"github.com/docwatch/docwatch/internal/docreq"
	"github.com/docwatch/docwatch/internal/proxy"
	"github.com/docwatch/docwatch/internal/store"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Config string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard proxy server",
		Long: `Start the HTTP proxy that fronts the upstream document-processing API.

The proxy attaches cached bearer tokens to upstream calls, refreshes them
before expiry, guards its own endpoints with short-lived sessions, and serves
the locally stored reference collections.

Example:
  docwatch serve --config ./docwatch.yaml
  DOCWATCH_API_KEY=secret docwatch serve --config /etc/docwatch.yaml --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "docwatch.yaml", "path to configuration file")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	logger := newLogger(opts.RootOptions)
	slog.SetDefault(logger)

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load configuration", err)
	}

	slog.Info("opening database", "path", cfg.Database.Path)
	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	apiKey, err := cfg.Credentials()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to resolve upstream credentials", err)
	}
	tokens := proxy.NewCachingTokenSource(proxy.APIKeyRefresh(cfg.Upstream.TokenURL, apiKey, nil))
	upstream := docreq.NewClient(cfg.Upstream.BaseURL, tokens, nil)
	sessions := proxy.NewSessions(cfg.Session.TTL.Std())

	// Setup signal handling for graceful shutdown
	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan) // Prevent signal handler leak

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
			// Parent context cancelled (e.g., from test)
		}
	}()

	go sessions.Run(ctx, cfg.Session.SweepInterval.Std())

	srv := &http.Server{
		Addr: cfg.Listen,
		Handler: proxy.NewServer(proxy.Config{
			Logger:   logger,
			Upstream: upstream,
			Tokens:   tokens,
			Store:    st,
			Sessions: sessions,
		}),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("error shutting down server", "error", err)
		}
	}()

	slog.Info("proxy listening", "addr", cfg.Listen, "upstream", cfg.Upstream.BaseURL)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return WrapExitError(ExitFailure, "server error", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
