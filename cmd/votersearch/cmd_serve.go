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

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-voter-search/api"
)

const shutdownTimeout = 10 * time.Second

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP search service",
	Long: `Starts the HTTP service. Unless storage.lazy_load is set, every partition is
loaded before the port is opened; partitions that fail to load are reported as
unavailable and do not stop the service.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Port to listen on (overrides server.port)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if servePort != "" {
		settings.Server.Port = servePort
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, settings, logger)
	if err != nil {
		return err
	}

	logger.Info("Starting voter search",
		zap.String("version", version),
		zap.String("base_dir", settings.Storage.BaseDir),
		zap.Int("partitions", a.registry.Len()),
		zap.Bool("lazy_load", settings.Storage.LazyLoad))

	if !settings.Storage.LazyLoad {
		if _, err := a.engine.Preload(ctx, settings.Storage.PreloadConcurrency); err != nil {
			return fmt.Errorf("preload interrupted: %w", err)
		}
	}

	gin.SetMode(settings.Server.Mode)
	router := api.NewRouter(a.engine, settings.Server, api.Options{
		Messages: settings.Messages,
		Logger:   logger.Named("http"),
		Gatherer: a.gatherer,
	})

	srv := &http.Server{
		Addr:              ":" + settings.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
