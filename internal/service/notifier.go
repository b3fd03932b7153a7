package service

import (
    "context"
    "time"

    "go.uber.org/zap"
    "gorm.io/gorm"

    "github.com/d60-Lab/social-graph/internal/model"
    "github.com/d60-Lab/social-graph/internal/partition"
    "github.com/d60-Lab/social-graph/pkg/logger"
)

// OutboxNotifier 轮询 outbox，把发布事件交给 FanoutService 物化成通知。
// 单行 CAS（status=pending -> processing）认领，多 worker 不会重复处理；
// 扇出语义是 at-least-once，通知要么全写要么全不写。
type OutboxNotifier struct {
    db           *gorm.DB
    fanout       *FanoutService
    workers      int
    claimLimit   int
    pollInterval time.Duration
}

func NewOutboxNotifier(db *gorm.DB, fanout *FanoutService, workers, claimLimit int, pollInterval time.Duration) *OutboxNotifier {
    if workers <= 0 {
        workers = 2
    }
    if claimLimit <= 0 {
        claimLimit = 64
    }
    if pollInterval <= 0 {
        pollInterval = 200 * time.Millisecond
    }
    return &OutboxNotifier{db: db, fanout: fanout, workers: workers, claimLimit: claimLimit, pollInterval: pollInterval}
}

// Start 启动轮询 worker，返回停止函数
func (w *OutboxNotifier) Start() func(context.Context) error {
    stop := make(chan struct{})
    for i := 0; i < w.workers; i++ {
        go w.loop(stop)
    }
    return func(ctx context.Context) error { close(stop); return nil }
}

func (w *OutboxNotifier) loop(stop <-chan struct{}) {
    ticker := time.NewTicker(w.pollInterval)
    defer ticker.Stop()
    for {
        select {
        case <-stop:
            return
        case <-ticker.C:
            if err := w.ProcessOnce(context.Background()); err != nil {
                logger.Warn("outbox poll failed", zap.Error(err))
            }
        }
    }
}

// ProcessOnce 认领并处理一批 pending 事件
func (w *OutboxNotifier) ProcessOnce(ctx context.Context) error {
    var candidates []model.Outbox
    if err := w.db.WithContext(ctx).
        Where("status = ?", model.OutboxPending).
        Order("created_at").
        Limit(w.claimLimit).
        Find(&candidates).Error; err != nil {
        return err
    }

    for i := range candidates {
        ob := &candidates[i]
        // 单行条件更新即认领；没抢到说明别的 worker 正在处理
        res := w.db.WithContext(ctx).
            Model(&model.Outbox{}).
            Where("id = ? AND status = ?", ob.ID, model.OutboxPending).
            Update("status", model.OutboxProcessing)
        if res.Error != nil {
            return res.Error
        }
        if res.RowsAffected == 0 {
            continue
        }
        w.handle(ctx, ob)
    }
    return nil
}

func (w *OutboxNotifier) handle(ctx context.Context, ob *model.Outbox) {
    author := partition.UserRef{ID: ob.AuthorID, Partition: ob.AuthorPartition}
    count, err := w.fanout.NotifyFollowers(ctx, author, notificationType(ob.Kind), ob.ArticleID, ob.Title)
    now := time.Now()
    if err != nil {
        // 扇出失败只标记事件，绝不影响已发布的内容
        logger.Error("fanout failed",
            zap.String("outbox", ob.ID), zap.String("article", ob.ArticleID), zap.Error(err))
        _ = w.db.WithContext(ctx).Model(&model.Outbox{}).
            Where("id = ?", ob.ID).
            Updates(map[string]any{"status": model.OutboxFailed, "processed_at": now}).Error
        return
    }
    _ = w.db.WithContext(ctx).Model(&model.Outbox{}).
        Where("id = ?", ob.ID).
        Updates(map[string]any{"status": model.OutboxDone, "processed_at": now, "fanout_count": int64(count)}).Error
}

// notificationType 内容类型 -> 通知类型
func notificationType(kind string) string {
    if kind == model.ArticleKindCase {
        return model.NotificationNewCase
    }
    return model.NotificationNewArticle
}
