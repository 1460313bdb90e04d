package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/dwikikusuma/credpos/internal/storage"
	"github.com/dwikikusuma/credpos/pkg/config"
	"github.com/dwikikusuma/credpos/pkg/logger"
	"github.com/dwikikusuma/credpos/pkg/shutdown"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// probeInterval is how often the gRPC health status is refreshed from the
// store.
const probeInterval = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{Service: "credpos", Env: cfg.AppEnv, Level: cfg.LogLevel, AddSource: true})

	ctx, cancel := shutdown.WithSignals(context.Background(), func(sig os.Signal) {
		log.Info("signal received", slog.String("signal", sig.String()))
	})
	defer cancel()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("credpos stopped with error", slog.Any("err", err))
		os.Exit(1)
	}
	log.Info("bye")
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	store, err := storage.Open(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()
	log.Info("store opened", slog.String("driver", cfg.Store.Driver))

	a, err := wire(store, cfg.Location(), log)
	if err != nil {
		return err
	}

	if cfg.SeedDemo {
		if err := seedDemo(ctx, a); err != nil {
			return fmt.Errorf("seed demo: %w", err)
		}
	}

	httpAddr := fmt.Sprintf(":%d", cfg.HTTPPort)
	httpServer := &http.Server{
		Addr:              httpAddr,
		Handler:           newRouter(a, cfg.RequestTimeout),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	grpcAddr := fmt.Sprintf(":%d", cfg.GRPCPort)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", grpcAddr, err)
	}

	healthSrv := health.NewServer()
	grpcServer := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	reflection.Register(grpcServer)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("http server starting", slog.String("addr", httpAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		log.Info("grpc health starting", slog.String("addr", grpcAddr))
		if err := grpcServer.Serve(lis); err != nil {
			return fmt.Errorf("grpc serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		probeStore(gctx, store, healthSrv, log)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown requested")
		healthSrv.Shutdown()

		stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer stopCancel()

		if err := httpServer.Shutdown(stopCtx); err != nil {
			log.Error("http shutdown error", slog.Any("err", err))
		}

		stopped := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopCtx.Done():
			log.Warn("graceful stop timeout, forcing stop")
			grpcServer.Stop()
		case <-stopped:
		}
		return nil
	})

	return g.Wait()
}

// probeStore keeps the overall gRPC health status in line with store
// reachability until ctx is done.
func probeStore(ctx context.Context, store storage.Store, healthSrv *health.Server, log *slog.Logger) {
	ticker := time.NewTicker(probeInterval)
	defer ticker.Stop()

	last := healthpb.HealthCheckResponse_UNKNOWN
	for {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := store.Ping(pingCtx)
		cancel()

		next := healthpb.HealthCheckResponse_SERVING
		if err != nil {
			next = healthpb.HealthCheckResponse_NOT_SERVING
		}
		if next != last {
			if err != nil {
				log.Warn("store unreachable", slog.Any("err", err))
			}
			healthSrv.SetServingStatus("", next)
			last = next
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// seedDemo prepares the demo account and data without opening a session.
func seedDemo(ctx context.Context, a *application) error {
	demo := a.seeder.DemoAccount()
	demo.CreatedAt = time.Now().UTC().Round(0)

	acc, err := a.accounts.Ensure(ctx, demo)
	if err != nil {
		return err
	}
	return a.seeder.Seed(ctx, acc.ID)
}
