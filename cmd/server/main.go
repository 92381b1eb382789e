package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ananyev/craftmarket/internal/config"
	"github.com/ananyev/craftmarket/internal/lib/jwt"
	"github.com/ananyev/craftmarket/internal/lib/ratelimit"
	"github.com/ananyev/craftmarket/internal/logger"
	"github.com/ananyev/craftmarket/internal/notify"
	"github.com/ananyev/craftmarket/internal/server"
	"github.com/ananyev/craftmarket/internal/services/auth"
	"github.com/ananyev/craftmarket/internal/services/contact"
	"github.com/ananyev/craftmarket/internal/services/moderation"
	"github.com/ananyev/craftmarket/internal/services/review"
	"github.com/ananyev/craftmarket/internal/storage/postgres"
	"github.com/ananyev/craftmarket/pkg/pgx"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	runner, ctx := errgroup.WithContext(ctx)

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal(err, "Load config")
	}

	loggerSvc, err := logger.Initialize(cfg.Logger)
	if err != nil {
		log.Fatal(err, "Init logger")
	}
	ctx = loggerSvc.Zerolog().WithContext(ctx)

	jwtCfg, err := jwt.NewConfig()
	if err != nil {
		log.Fatal(err)
	}
	jwt.Initialize(jwtCfg)

	db, err := pgx.NewPostgres(ctx, cfg.DB)
	if err != nil {
		log.Fatal(err, "Init db")
	}
	if err := db.Start(ctx, runner); err != nil {
		log.Fatal(err, "Start db")
	}

	storage := postgres.NewStorage(ctx, db)

	var limiter ratelimit.Limiter
	if cfg.RedisAddress != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddress})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal(err, "Ping redis")
		}
		limiter = ratelimit.NewRedis(rdb, cfg.RateLimit.MaxPerWindow, cfg.RateLimit.Window)
	} else {
		limiter = ratelimit.NewMemory(cfg.RateLimit.MaxPerWindow, cfg.RateLimit.Window)
	}

	hub := notify.NewHub()

	authSvc := auth.New(storage)
	reviewSvc := review.New(storage, review.NewEngine(limiter), hub)
	modSvc := moderation.New(storage)
	contactSvc := contact.New(storage, hub)

	httpSrv := server.NewServer(cfg.ServerAddress, authSvc, reviewSvc, modSvc, contactSvc, hub)
	httpSrv.Run(ctx, runner)

	runner.Go(func() error {
		<-ctx.Done()

		if err := db.Shutdown(ctx); err != nil {
			loggerSvc.Zerolog().Error().Err(err).Msg("Shutdown db")
			return err
		}
		return httpSrv.Shutdown(ctx)
	})

	runner.Wait()
}
