package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rc397/FlavorMap/internal/handler"
	"github.com/rc397/FlavorMap/internal/service"
	"github.com/rc397/FlavorMap/internal/static"
)

// Server timeouts.
const (
	readTimeout     = 10 * time.Second
	writeTimeout    = 10 * time.Second
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 15 * time.Second
)

type serveOptions struct {
	host string
	port int
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:          "serve",
		Short:        "Run the HTTP server",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, rootOpts, opts)
		},
	}

	cmd.Flags().StringVar(&opts.host, "host", "", "bind address (overrides FLAVORMAP_HOST)")
	cmd.Flags().IntVar(&opts.port, "port", 0, "listen port (overrides FLAVORMAP_PORT)")

	return cmd
}

func runServe(cmd *cobra.Command, rootOpts *RootOptions, opts *serveOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := loadApp(ctx, rootOpts)
	if err != nil {
		return err
	}
	defer app.Close()

	cfg := app.Config
	if opts.host != "" {
		cfg.Host = opts.host
	}
	if opts.port != 0 {
		cfg.Port = opts.port
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	logger := app.Logger

	assets, err := static.New(cfg.StaticDir)
	if err != nil {
		logger.Warn("static bundle unavailable; only the API is served",
			zap.String("static_dir", cfg.StaticDir), zap.Error(err))
	}

	router := handler.NewRouter(handler.Options{
		Spots:        service.NewSpotService(app.Store),
		Static:       assets,
		Logger:       logger,
		MaxBodyBytes: cfg.MaxBodyBytes,
		CORSOrigins:  cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr), zap.String("store", cfg.Store.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
