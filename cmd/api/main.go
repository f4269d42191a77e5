package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"workpulse/internal/cache"
	"workpulse/internal/config"
	"workpulse/internal/events"
	"workpulse/internal/handlers"
	"workpulse/internal/jobs"
	"workpulse/internal/log"
	"workpulse/internal/security"
	"workpulse/internal/server"
	"workpulse/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment, cfg.Logging.Level)

	ctx := context.Background()

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}

	verifier, err := security.NewPasswordVerifier(cfg.Security.PasswordScheme)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid password scheme")
	}

	var (
		publisher events.Publisher = events.NopPublisher{}
		cooldown  cache.Cooldown   = cache.NewMemoryCooldown()
	)
	if redisClient != nil {
		publisher = events.NewRedisPublisher(redisClient, cfg.Redis.Stream, cfg.Redis.MaxLen)
		cooldown = cache.NewRedisCooldown(redisClient, "workpulse:cooldown:")
	} else {
		logger.Warn().Msg("redis disabled: events are dropped and cooldowns are per process")
	}

	if cfg.Demo.AllowRoleSwitch {
		logger.Warn().Msg("demo role switching is enabled")
	}

	svc, err := service.NewContainer(ctx, service.Dependencies{
		Verifier:           verifier,
		Events:             publisher,
		Logger:             logger,
		PlatformOwnerEmail: cfg.Demo.PlatformOwnerEmail,
		AllowRoleSwitch:    cfg.Demo.AllowRoleSwitch,
		Seed:               cfg.Demo.Seed,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build services")
	}

	handlerSet := handlers.NewHandlerSet(logger, redisClient, cfg, handlers.Services{
		Credentials: svc.Credentials,
		Clients:     svc.Clients,
		OTP:         svc.OTP,
		Invites:     svc.Invites,
		Cooldown:    cooldown,
	})
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	scheduler := jobs.NewScheduler(svc.Clients, cfg.Sessions.PruneSchedule, cfg.Sessions.IdleTimeout, logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, redisClient)
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	select {
	case <-scheduler.Stop().Done():
	case <-shutdownCtx.Done():
		logger.Warn().Msg("scheduler jobs still running at exit")
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("redis close error")
		}
	}

	logger.Info().Msg("server exited cleanly")
}
