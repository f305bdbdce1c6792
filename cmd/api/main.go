package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	v1 "go-convo/cmd/api/router/v1"
	"go-convo/internal/config"
	cacheAdapter "go-convo/internal/infrastructure/cache/adapter"
	"go-convo/internal/infrastructure/database"
	"go-convo/internal/infrastructure/logger"
	"go-convo/internal/infrastructure/middleware"
	"go-convo/internal/infrastructure/pubsub"
	qAdapter "go-convo/internal/infrastructure/queue/adapter"
	qport "go-convo/internal/infrastructure/queue/port"
	"go-convo/internal/infrastructure/realtime"
	"go-convo/internal/infrastructure/session"
	"go-convo/internal/pkg/chat/application/task"
	notifierAdapter "go-convo/internal/pkg/chat/notification/adapter"
	chatRepo "go-convo/internal/pkg/chat/persistence/repository/adapter"
	chatHTTP "go-convo/internal/pkg/chat/presentation/http"
	"go-convo/internal/pkg/directory/application/usecase"
	dirRepo "go-convo/internal/pkg/directory/persistence/repository/adapter"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// logger not configured yet
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logger.New(cfg.Env, cfg.LogLevel)

	if cfg.RunMigrations {
		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
		log.Info().Msg("migrations applied")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	pool, err := database.Connect(ctx, cfg.DatabaseURL, database.WithMaxConns(10))
	if err != nil {
		cancel()
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	cache, err := cacheAdapter.NewRedisAdapter(ctx, cfg.RedisURL)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer cache.Close()

	rt := realtime.NewRouter()
	defer rt.Close()

	// Cross-node delivery is optional; a single node delivers locally.
	var publisher notifierAdapter.Publisher
	if cfg.NATSURL != "" {
		bus, err := pubsub.NewNATSBus(cfg.NATSURL, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to nats")
		}
		defer bus.Close()
		if err := bus.Subscribe(rt.NotifyUser); err != nil {
			log.Fatal().Err(err).Msg("failed to subscribe to deliveries")
		}
		publisher = bus
		log.Info().Str("url", cfg.NATSURL).Msg("nats delivery enabled")
	}
	notifier := notifierAdapter.NewRealtimeNotifier(rt, publisher, log)

	var queue qport.Client
	queueClient, err := qAdapter.NewAsynqClient(cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("queue unavailable, announcements run inline")
	} else {
		defer queueClient.Close()
		queue = queueClient
	}

	worker, err := qAdapter.NewAsynqServer(cfg.RedisURL, cfg.AsynqConcurrency, cfg.AsynqQueues, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create task server")
	}
	task.RegisterConversationOpenedTask(worker, notifier, log)

	users := dirRepo.NewPgUserRepository(pool)
	lookup := usecase.NewLookupUserUseCase(users)
	conversations := chatRepo.NewPgChatRepository(pool)
	drafts := chatRepo.NewCacheDraftRepository(cache, cfg.DraftTTL)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(log), middleware.Metrics(), middleware.CORS(cfg.CORSAllowedOrigins))

	r.GET("/healthz", func(c *gin.Context) {
		hctx, hcancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer hcancel()
		checks := gin.H{"postgres": "ok", "redis": "ok"}
		status := http.StatusOK
		if err := pool.Ping(hctx); err != nil {
			checks["postgres"] = err.Error()
			status = http.StatusServiceUnavailable
		}
		if err := cache.Ping(hctx); err != nil {
			checks["redis"] = err.Error()
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, checks)
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1.RegisterRoutes(r, v1.Deps{
		Sessions: session.NewManager(cfg.SessionSecret, cfg.SessionTTL),
		Users:    users,
		Lookup:   lookup,
		Chat: chatHTTP.Dependencies{
			Conversations:  conversations,
			Drafts:         drafts,
			Users:          lookup,
			Notifier:       notifier,
			Queue:          queue,
			Router:         rt,
			Log:            log,
			Timeout:        cfg.RequestTimeout,
			AllowedOrigins: cfg.CORSAllowedOrigins,
		},
		Log:     log,
		Timeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := worker.Run(runCtx); err != nil {
			log.Error().Err(err).Msg("task server stopped")
		}
	}()

	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server failed")
			stop()
		}
	}()

	<-runCtx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
