package service

import (
    "context"
    "time"

    "github.com/google/uuid"
    "go.uber.org/zap"

    "github.com/d60-Lab/social-graph/internal/cache"
    "github.com/d60-Lab/social-graph/internal/model"
    "github.com/d60-Lab/social-graph/internal/partition"
    "github.com/d60-Lab/social-graph/internal/repository"
    "github.com/d60-Lab/social-graph/pkg/logger"
)

// FanoutService 通知扇出：一次发布事件 -> 每个粉丝一条通知记录。
// 通知表是单一共享库，一次批量写要么全部落地要么全部失败，
// 不会出现部分分区成功的混合状态。
type FanoutService struct {
    rel       RelationshipService
    notifs    repository.NotificationRepository
    unread    *cache.UnreadCounter
    retention time.Duration
}

func NewFanoutService(rel RelationshipService, notifs repository.NotificationRepository, unread *cache.UnreadCounter, retention time.Duration) *FanoutService {
    if retention <= 0 {
        retention = 7 * 24 * time.Hour
    }
    return &FanoutService{rel: rel, notifs: notifs, unread: unread, retention: retention}
}

// NotifyFollowers 把一次内容发布物化为粉丝通知，返回写入条数。
// 由发布流程在内容落库之后调用；这里失败不影响已发布的内容。
func (s *FanoutService) NotifyFollowers(ctx context.Context, author partition.UserRef, typ, contentRef, title string) (int, error) {
    // 整页解析全部粉丝，量级受 maxEdgeFetch 兜底
    page, err := s.rel.GetFollowers(ctx, author, partition.UserRef{}, PageOptions{Page: 1, PageSize: maxEdgeFetch})
    if err != nil {
        return 0, err
    }
    if len(page.Items) == 0 {
        // 无粉丝：静默跳过，不算错误
        return 0, nil
    }

    now := time.Now()
    expires := now.Add(s.retention)
    records := make([]*model.Notification, 0, len(page.Items))
    receivers := make([]partition.UserRef, 0, len(page.Items))
    for _, it := range page.Items {
        ref := it.User.Ref()
        records = append(records, &model.Notification{
            ID:                uuid.New().String(),
            ReceiverID:        ref.ID,
            ReceiverPartition: ref.Partition,
            SenderID:          author.ID,
            SenderPartition:   author.Partition,
            Type:              typ,
            ContentRef:        contentRef,
            Title:             title,
            IsRead:            false,
            CreatedAt:         now,
            ExpiresAt:         expires,
        })
        receivers = append(receivers, ref)
    }

    if err := s.notifs.BulkCreate(ctx, records); err != nil {
        return 0, err
    }
    s.unread.Invalidate(ctx, receivers...)

    logger.Debug("fanout materialized",
        zap.String("author", author.ID), zap.String("partition", string(author.Partition)),
        zap.String("type", typ), zap.Int("receivers", len(records)))
    return len(records), nil
}
