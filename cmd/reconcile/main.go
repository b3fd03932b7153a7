package main

import (
    "context"
    "fmt"
    "os"

    "github.com/d60-Lab/social-graph/config"
    "github.com/d60-Lab/social-graph/internal/partition"
    "github.com/d60-Lab/social-graph/internal/repository"
    "github.com/d60-Lab/social-graph/internal/service"
    "github.com/d60-Lab/social-graph/pkg/database"
    "github.com/d60-Lab/social-graph/pkg/logger"
)

// 对账任务：以边表为准重算三个分区的关注/粉丝计数。
// 边写入与计数增量之间没有事务，漂移靠这里兜底，按 cron 周期执行。
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

    stores, err := database.Init(cfg)
    if err != nil {
        fmt.Fprintf(os.Stderr, "open stores: %v\n", err)
        os.Exit(1)
    }
    defer stores.Close()

    registry := partition.NewRegistry(map[partition.Tag]partition.UserStore{
        partition.TagDoctor:  repository.NewDoctorStore(stores.Doctor),
        partition.TagPatient: repository.NewPatientStore(stores.Patient),
        partition.TagAdmin:   repository.NewAdminStore(stores.Admin),
    })
    edges := repository.NewFollowRepository(stores.Core)

    rec := service.NewReconciler(edges, registry, cfg.Reconcile.BatchSize, cfg.Reconcile.RatePerSec)
    stats, err := rec.ReconcileAll(context.Background())
    if err != nil {
        fmt.Fprintf(os.Stderr, "reconcile: %v\n", err)
        os.Exit(1)
    }
    fmt.Printf("scanned=%d repaired=%d\n", stats.Scanned, stats.Repaired)
}
