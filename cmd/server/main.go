package main

import (
    "context"
    "fmt"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/getsentry/sentry-go"
    "github.com/redis/go-redis/v9"
    "go.uber.org/zap"

    "github.com/d60-Lab/social-graph/config"
    _ "github.com/d60-Lab/social-graph/docs"
    "github.com/d60-Lab/social-graph/internal/api"
    "github.com/d60-Lab/social-graph/internal/api/handler"
    "github.com/d60-Lab/social-graph/internal/cache"
    "github.com/d60-Lab/social-graph/internal/partition"
    "github.com/d60-Lab/social-graph/internal/repository"
    "github.com/d60-Lab/social-graph/internal/service"
    "github.com/d60-Lab/social-graph/pkg/database"
    "github.com/d60-Lab/social-graph/pkg/logger"
    "github.com/d60-Lab/social-graph/pkg/tracer"
)

func main() {
    cfg, err := config.Load()
    if err != nil {
        fmt.Fprintf(os.Stderr, "load config: %v\n", err)
        os.Exit(1)
    }
    if err := logger.Init(cfg.Log.Level, cfg.Server.Mode); err != nil {
        fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
        os.Exit(1)
    }
    defer logger.Sync()

    if cfg.Sentry.DSN != "" {
        if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
            logger.Warn("sentry init failed", zap.Error(err))
        }
        defer sentry.Flush(2 * time.Second)
    }

    ctx := context.Background()
    if cfg.Trace.Enabled {
        shutdown, err := tracer.Init(ctx, cfg.Trace.Endpoint)
        if err != nil {
            logger.Warn("tracer init failed", zap.Error(err))
        } else {
            defer func() { _ = shutdown(ctx) }()
        }
    }

    stores, err := database.Init(cfg)
    if err != nil {
        logger.Error("open stores", zap.Error(err))
        os.Exit(1)
    }
    defer stores.Close()
    if err := stores.Migrate(); err != nil {
        logger.Error("migrate", zap.Error(err))
        os.Exit(1)
    }

    var rdb *redis.Client
    if cfg.Redis.Addr != "" {
        rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
        if err := rdb.Ping(ctx).Err(); err != nil {
            logger.Warn("redis unreachable, unread cache disabled", zap.Error(err))
            rdb = nil
        }
    }

    registry := partition.NewRegistry(map[partition.Tag]partition.UserStore{
        partition.TagDoctor:  repository.NewDoctorStore(stores.Doctor),
        partition.TagPatient: repository.NewPatientStore(stores.Patient),
        partition.TagAdmin:   repository.NewAdminStore(stores.Admin),
    })

    edgeRepo := repository.NewFollowRepository(stores.Core)
    notifRepo := repository.NewNotificationRepository(stores.Core)
    unread := cache.NewUnreadCounter(rdb, time.Duration(cfg.Notification.UnreadTTLSec)*time.Second)

    relSvc := service.NewRelationshipService(edgeRepo, registry)
    fanout := service.NewFanoutService(relSvc, notifRepo, unread,
        time.Duration(cfg.Notification.RetentionDays)*24*time.Hour)
    notifSvc := service.NewNotificationService(notifRepo, registry, unread)
    publisher := service.NewPublisher(stores.Core)

    notifier := service.NewOutboxNotifier(stores.Core, fanout,
        cfg.Fanout.Workers, cfg.Fanout.ClaimLimit,
        time.Duration(cfg.Fanout.PollIntervalMS)*time.Millisecond)
    stopNotifier := notifier.Start()

    h := handler.New(relSvc, notifSvc, fanout, publisher)
    r := api.NewRouter(cfg, h)

    srv := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Server.Port), Handler: r}
    go func() {
        logger.Info("server listening", zap.Int("port", cfg.Server.Port))
        if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
            logger.Error("server stopped", zap.Error(err))
        }
    }()

    quit := make(chan os.Signal, 1)
    signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
    <-quit
    logger.Info("shutting down")

    shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
    defer cancel()
    _ = stopNotifier(shutdownCtx)
    _ = srv.Shutdown(shutdownCtx)
}
