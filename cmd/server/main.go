package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/luk-gg/lukchan/internal/cache"
	"github.com/luk-gg/lukchan/internal/codec"
	"github.com/luk-gg/lukchan/internal/config"
	"github.com/luk-gg/lukchan/internal/embed"
	"github.com/luk-gg/lukchan/internal/httpapi"
	"github.com/luk-gg/lukchan/internal/watch"
	"github.com/luk-gg/lukchan/internal/ws"
)

func main() {
	cfg := config.Load()

	logger, err := buildLogger(cfg.DevLog)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := cache.New(cfg.CacheSize, cfg.CacheTTL, logger.Named("cache"))
	hub := watch.NewHub(ctx)

	cdc := codec.New(cfg.TokenHost, cfg.TokenPath, codec.VersionFromInt(cfg.CodecVersion))
	renderer := embed.NewRenderer(embed.DefaultAssets(), cdc)

	gw := httpapi.NewGateway(logger.Named("gateway"), store, renderer, hub)
	handler := httpapi.SetupRoutes(gw, ws.Handler(hub, logger.Named("ws")), logger.Named("http"))

	srv := &http.Server{Addr: cfg.Addr, Handler: handler}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func buildLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
