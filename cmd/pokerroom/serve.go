package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gamehub/pokerroom/cmd/pokerroom/shared"
	"github.com/gamehub/pokerroom/internal/config"
	"github.com/gamehub/pokerroom/internal/gateway"
	"github.com/gamehub/pokerroom/internal/hub"
	"github.com/gamehub/pokerroom/internal/store"
)

// ServeCmd runs the websocket gateway and the admin API.
type ServeCmd struct {
	Config   string `kong:"default='pokerroom.hcl',help='Path to HCL configuration file'"`
	Addr     string `kong:"help='Override the websocket listen address'"`
	LogLevel string `kong:"help='Override the configured log level'"`
}

func (c *ServeCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if c.Addr != "" {
		cfg.Server.Address = c.Addr
	}
	if c.LogLevel != "" {
		cfg.Server.LogLevel = c.LogLevel
	}

	logger := shared.SetupLogger(cfg.Server.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}

	h := hub.New(st, logger, hub.Config{
		SmallBlind:  cfg.Rooms.SmallBlind,
		BigBlind:    cfg.Rooms.BigBlind,
		BuyIn:       cfg.Rooms.BuyIn,
		TurnTimeout: cfg.Rooms.TurnTimeout(),
	})
	defer h.Close()

	gw := gateway.New(h, logger)

	wsServer := &http.Server{Addr: cfg.Server.Address, Handler: gw.Handler()}
	adminServer := &http.Server{Addr: cfg.Server.AdminAddress, Handler: gw.AdminHandler()}

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("websocket gateway listening", "address", cfg.Server.Address)
		if err := wsServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		logger.Info("admin api listening", "address", cfg.Server.AdminAddress)
		if err := adminServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		gw.Run(gctx)
		return nil
	})
	group.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = wsServer.Shutdown(shutdownCtx)
		_ = adminServer.Shutdown(shutdownCtx)
		return nil
	})

	return group.Wait()
}

// openStore builds the configured persistence backend.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case "redis":
		return store.NewRedisStore(ctx, cfg.Store.RedisAddress, cfg.Store.RedisPassword, cfg.Store.RedisDB)
	case "postgres":
		return store.NewPostgresStore(ctx, cfg.Store.PostgresDSN)
	default:
		return store.NewMemoryStore(), nil
	}
}
