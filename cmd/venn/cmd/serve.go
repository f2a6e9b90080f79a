package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/msto63/venn/internal/venn/server"
	"github.com/msto63/venn/pkg/core/config"
	"github.com/msto63/venn/pkg/core/health"
	"github.com/msto63/venn/pkg/core/logging"
	"github.com/msto63/venn/pkg/core/version"
)

const serveCmdName = "serve"

// pruneInterval is how often history older than the retention is removed
const pruneInterval = time.Hour

var serveCmd = &cobra.Command{
	Use:   serveCmdName,
	Short: "Startet den venn-Server (gRPC und HTTP)",
	Long: `Startet den venn-Server.

Dienste:
  gRPC        venn.v1.VennService und Health  (default :9310)
  HTTP        REST-API und WebSocket           (default :8310)

Aufgabendateien werden beim Start geladen und, wenn
exercises.watch gesetzt ist, bei Änderungen neu eingelesen.

Beispiele:
  venn serve
  venn serve --config configs/config.toml`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, appConfig)
}

// serve runs all listeners and background loops until ctx is cancelled or
// one of them fails
func serve(ctx context.Context, cfg *config.Config) error {
	logger := logging.New("venn")
	logger.Info("Starting venn", "version", version.Version, "environment", cfg.General.Environment)

	rt, err := openRuntime(cfg, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	registry := health.NewRegistry("venn", version.Version)
	registry.RegisterFunc("exercises", func(ctx context.Context) health.CheckResult {
		n := rt.registry.Len()
		return health.CheckResult{
			Name:    "exercises",
			Status:  health.StatusHealthy,
			Message: fmt.Sprintf("%d loaded", n),
		}
	})
	if h := rt.service.HistoryStore(); h != nil {
		registry.Register(health.PingCheck("history", h))
	}

	grpcCfg := server.DefaultConfig()
	grpcCfg.GRPC.Host = cfg.Server.Host
	grpcCfg.GRPC.Port = cfg.Server.GRPCPort
	grpcSrv := server.New(grpcCfg, rt.service, registry)

	httpSrv := server.NewHTTP(server.HTTPConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.HTTPPort,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}, rt.service, registry)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := grpcSrv.Start(); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return err
		}
		return nil
	})
	g.Go(httpSrv.Start)
	g.Go(func() error {
		grpcSrv.RunHealth(gctx)
		return nil
	})

	if cfg.Exercises.Watch {
		if _, err := os.Stat(cfg.Exercises.Dir); err == nil {
			g.Go(func() error { return rt.loader.Watch(gctx) })
		} else {
			logger.Warn("Exercise directory not found, hot reload disabled", "dir", cfg.Exercises.Dir)
		}
	}

	if rt.service.HistoryStore() != nil {
		g.Go(func() error {
			pruneLoop(gctx, rt, logger)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down venn", "timeout", cfg.Server.ShutdownTimeout.Duration)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration)
		defer cancel()

		grpcSrv.Stop(shutdownCtx)
		return httpSrv.Shutdown(shutdownCtx)
	})

	logger.Info("venn started",
		"grpc", cfg.GRPCAddress(),
		"http", cfg.HTTPAddress(),
		"exercises", rt.registry.Len(),
		"history", rt.service.HistoryStore() != nil,
	)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("venn stopped with error", "error", err)
		return err
	}
	logger.Info("venn stopped")
	return nil
}

// pruneLoop prunes the history once at startup and then every pruneInterval
func pruneLoop(ctx context.Context, rt *appRuntime, logger *logging.Logger) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

	for {
		if _, err := rt.service.PruneHistory(ctx); err != nil && ctx.Err() == nil {
			logger.Warn("History pruning failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
