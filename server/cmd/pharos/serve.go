package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rexzheng324-c/pharos/server/internal/api"
	"github.com/rexzheng324-c/pharos/server/internal/config"
	"github.com/rexzheng324-c/pharos/server/internal/location"
	"github.com/rexzheng324-c/pharos/server/internal/logging"
	"github.com/rexzheng324-c/pharos/server/internal/metrics"
	"github.com/rexzheng324-c/pharos/server/internal/storage"
	"github.com/rexzheng324-c/pharos/server/internal/store"
	"github.com/rexzheng324-c/pharos/server/internal/view"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Load the dataset and serve the query API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, fromFile, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			watchPath := ""
			if fromFile {
				watchPath = opts.configPath
			}
			return serve(ctx, cfg, watchPath)
		},
	}
	opts.bind(cmd.Flags())
	cmd.Flags().IntVar(&opts.httpPort, "http-port", config.DefaultHTTPPort, "HTTP listen port (overrides server.http_port)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", config.DefaultLogLevel, "debug|info|warn|error (overrides log.level)")
	return cmd
}

// serve runs the HTTP server until ctx is cancelled or the dataset fails to
// load. Dataset routes answer 503 until loading completes.
func serve(ctx context.Context, cfg *config.Config, watchPath string) error {
	log, err := logging.New(cfg.Log, os.Stdout)
	if err != nil {
		return err
	}
	log.Info().
		Int("http_port", cfg.Server.HTTPPort).
		Str("manifest", cfg.Dataset.Manifest).
		Str("source", cfg.Dataset.Source).
		Str("backend", cfg.Storage.Backend).
		Msg("pharos starting")

	backend, err := storage.New(ctx, cfg.Storage.Backend, cfg.Storage)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	st := store.New()
	reg := metrics.New(st.Ready)
	views := view.New(st, location.NewResolver(backend), cfg.Dataset.ResolveConcurrency)
	handler := api.New(st, views, api.Options{
		Log:            log,
		Metrics:        reg,
		RequestTimeout: cfg.Server.RequestTimeout,
		RateLimit:      cfg.Server.RateLimit,
		RateBurst:      cfg.Server.RateBurst,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		log.Info().Int("port", cfg.Server.HTTPPort).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	go func() {
		start := time.Now()
		ds, err := loadDataset(ctx, cfg, backend)
		if err == nil {
			err = st.Init(ds)
		}
		if err != nil {
			errCh <- fmt.Errorf("load dataset: %w", err)
			return
		}
		log.Info().
			Str("mode", ds.Mode().String()).
			Int("segments", ds.Len()).
			Dur("took", time.Since(start)).
			Msg("dataset loaded")
	}()

	if watchPath != "" {
		go watchConfig(ctx, watchPath, cfg, log)
	}

	var runErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("pharos shutting down")
	case runErr = <-errCh:
		log.Error().Err(runErr).Msg("pharos stopping")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("HTTP shutdown incomplete")
	}
	return runErr
}

// watchConfig applies log level changes live and warns about the rest.
func watchConfig(ctx context.Context, path string, current *config.Config, log zerolog.Logger) {
	err := config.Watch(ctx, path, log, func(updated *config.Config) {
		if updated.Log.Level != current.Log.Level {
			if err := logging.SetLevel(updated.Log.Level); err != nil {
				log.Error().Err(err).Msg("config: apply log level")
				return
			}
			log.Info().Str("level", updated.Log.Level).Msg("config: log level changed")
		}
		if sections := config.RestartRequired(current, updated); len(sections) > 0 {
			log.Warn().Strs("sections", sections).Msg("config: changes require a restart")
		}
		current = updated
	})
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("config: watch failed")
	}
}
