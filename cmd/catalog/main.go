package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/narwhalmedia/catalog/internal/container"
	gormrepo "github.com/narwhalmedia/catalog/internal/infrastructure/persistence/gorm"
	"github.com/narwhalmedia/catalog/pkg/config"
)

func main() {
	cfg, err := config.Load(config.DefaultServiceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := cfg.Logger.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	app, cleanup, err := container.InitializeCatalog(cfg, log)
	if err != nil {
		log.Zap().Fatal("failed to initialize service", zap.Error(err))
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, app); err != nil {
		log.Zap().Error("service stopped with error", zap.Error(err))
		os.Exit(1)
	}
	log.Zap().Info("service stopped")
}

// run serves HTTP, gRPC and the encoder consumer until ctx is canceled or
// one of them fails.
func run(ctx context.Context, app *container.Catalog) error {
	cfg, log := app.Config, app.Logger
	g, ctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr(),
		Handler:           app.Router,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
	}
	g.Go(func() error {
		log.Info("HTTP server listening",
			zap.String("addr", srv.Addr),
			zap.String("version", cfg.Service.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.GRPC.Port > 0 {
		g.Go(func() error {
			return app.GRPC.ListenAndServe(ctx, cfg.GRPC.Addr())
		})
		g.Go(func() error {
			app.GRPC.WatchReadiness(ctx, func(ctx context.Context) error {
				return gormrepo.Ping(ctx, app.DB)
			}, container.ReadinessInterval)
			return nil
		})
	}

	if app.Broker.Subscriber != nil {
		g.Go(func() error {
			log.Info("consuming encoder results",
				zap.String("driver", cfg.Broker.Driver),
				zap.String("routing_key", cfg.Broker.ConvertRoutingKey))
			if err := app.Broker.Subscriber.Consume(ctx, app.Convert.Handle); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("consumer: %w", err)
			}
			return nil
		})
	}

	return g.Wait()
}
