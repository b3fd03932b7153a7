package service

import (
    "context"

    "go.uber.org/zap"
    "golang.org/x/time/rate"

    "github.com/d60-Lab/social-graph/internal/partition"
    "github.com/d60-Lab/social-graph/internal/repository"
    "github.com/d60-Lab/social-graph/pkg/logger"
)

// ReconcileStats 一轮对账的结果
type ReconcileStats struct {
    Scanned  int
    Repaired int
}

// Reconciler 计数对账：以边表为准重算每个用户的两个计数，
// 修复 Follow/Unfollow 与计数增量之间非原子导致的漂移。
// 限速扫描，避免压垮分区库。
type Reconciler struct {
    edges     repository.FollowRepository
    registry  *partition.Registry
    batchSize int
    limiter   *rate.Limiter
}

func NewReconciler(edges repository.FollowRepository, registry *partition.Registry, batchSize int, perSec float64) *Reconciler {
    if batchSize <= 0 {
        batchSize = 200
    }
    if perSec <= 0 {
        perSec = 50
    }
    return &Reconciler{
        edges:     edges,
        registry:  registry,
        batchSize: batchSize,
        limiter:   rate.NewLimiter(rate.Limit(perSec), 1),
    }
}

// ReconcileAll 扫描全部分区的全部用户
func (r *Reconciler) ReconcileAll(ctx context.Context) (ReconcileStats, error) {
    var stats ReconcileStats
    for _, tag := range r.registry.Tags() {
        s, err := r.reconcilePartition(ctx, tag)
        stats.Scanned += s.Scanned
        stats.Repaired += s.Repaired
        if err != nil {
            return stats, err
        }
    }
    logger.Info("reconcile finished",
        zap.Int("scanned", stats.Scanned), zap.Int("repaired", stats.Repaired))
    return stats, nil
}

func (r *Reconciler) reconcilePartition(ctx context.Context, tag partition.Tag) (ReconcileStats, error) {
    var stats ReconcileStats
    store, err := r.registry.Lookup(tag)
    if err != nil {
        return stats, err
    }
    for offset := 0; ; offset += r.batchSize {
        ids, err := store.ListIDs(ctx, offset, r.batchSize)
        if err != nil {
            return stats, err
        }
        if len(ids) == 0 {
            return stats, nil
        }
        for _, id := range ids {
            if err := r.limiter.Wait(ctx); err != nil {
                return stats, err
            }
            repaired, err := r.reconcileUser(ctx, store, partition.UserRef{ID: id, Partition: tag})
            if err != nil {
                return stats, err
            }
            stats.Scanned++
            if repaired {
                stats.Repaired++
            }
        }
        if len(ids) < r.batchSize {
            return stats, nil
        }
    }
}

func (r *Reconciler) reconcileUser(ctx context.Context, store partition.UserStore, ref partition.UserRef) (bool, error) {
    following, err := r.edges.CountBySide(ctx, ref, repository.SideFollower)
    if err != nil {
        return false, err
    }
    follower, err := r.edges.CountBySide(ctx, ref, repository.SideFollowing)
    if err != nil {
        return false, err
    }
    curFollowing, curFollower, err := store.GetCounts(ctx, ref.ID)
    if err != nil {
        return false, err
    }
    if curFollowing == following && curFollower == follower {
        return false, nil
    }
    if err := store.SetCounts(ctx, ref.ID, following, follower); err != nil {
        return false, err
    }
    logger.Info("counter drift repaired",
        zap.String("user", ref.ID), zap.String("partition", string(ref.Partition)),
        zap.Int64("following", following), zap.Int64("follower", follower))
    return true, nil
}
