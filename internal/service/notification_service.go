package service

import (
    "context"
    "errors"
    "time"

    "github.com/d60-Lab/social-graph/internal/cache"
    "github.com/d60-Lab/social-graph/internal/model"
    "github.com/d60-Lab/social-graph/internal/partition"
    "github.com/d60-Lab/social-graph/internal/repository"
)

// ErrUnauthorized 接收者试图操作别人的通知
var ErrUnauthorized = errors.New("notification belongs to another receiver")

// NotificationView 读取时充实后的通知：发送方名称/头像取当前值，
// 发送方改资料会追溯影响旧通知的展示。
type NotificationView struct {
    ID           string            `json:"id"`
    Sender       partition.UserRef `json:"sender"`
    SenderName   string            `json:"sender_name"`
    SenderAvatar string            `json:"sender_avatar"`
    Type         string            `json:"type"`
    ContentRef   string            `json:"content_ref"`
    Title        string            `json:"title"`
    IsRead       bool              `json:"is_read"`
    CreatedAt    time.Time         `json:"created_at"`
}

// NotificationPage 通知分页，按创建时间倒序
type NotificationPage struct {
    Items    []NotificationView `json:"items"`
    Total    int64              `json:"total"`
    Page     int                `json:"page"`
    PageSize int                `json:"page_size"`
    HasMore  bool               `json:"has_more"`
}

// NotificationService 已读状态与通知读取
type NotificationService interface {
    // MarkAsRead notificationID 为空时把 receiver 的全部未读置为已读
    MarkAsRead(ctx context.Context, receiver partition.UserRef, notificationID string) error
    GetUnreadCount(ctx context.Context, receiver partition.UserRef) (int64, error)
    ListNotifications(ctx context.Context, receiver partition.UserRef, page, pageSize int) (*NotificationPage, error)
}

type notificationService struct {
    repo     repository.NotificationRepository
    registry *partition.Registry
    unread   *cache.UnreadCounter
}

func NewNotificationService(repo repository.NotificationRepository, registry *partition.Registry, unread *cache.UnreadCounter) NotificationService {
    return &notificationService{repo: repo, registry: registry, unread: unread}
}

func (s *notificationService) MarkAsRead(ctx context.Context, receiver partition.UserRef, notificationID string) error {
    if notificationID == "" {
        if _, err := s.repo.MarkAllRead(ctx, receiver); err != nil {
            return err
        }
        s.unread.Invalidate(ctx, receiver)
        return nil
    }

    rows, err := s.repo.MarkRead(ctx, receiver, notificationID)
    if err != nil {
        return err
    }
    if rows == 0 {
        // 没更新到：要么记录不存在（可能已过保留期，视为无事发生），
        // 要么属于别的接收者
        n, err := s.repo.GetByID(ctx, notificationID)
        if err != nil {
            return err
        }
        if n != nil && !n.Receiver().Equal(receiver) {
            return ErrUnauthorized
        }
        return nil
    }
    s.unread.Invalidate(ctx, receiver)
    return nil
}

func (s *notificationService) GetUnreadCount(ctx context.Context, receiver partition.UserRef) (int64, error) {
    if n, ok := s.unread.Get(ctx, receiver); ok {
        return n, nil
    }
    n, err := s.repo.CountUnread(ctx, receiver)
    if err != nil {
        return 0, err
    }
    s.unread.Set(ctx, receiver, n)
    return n, nil
}

func (s *notificationService) ListNotifications(ctx context.Context, receiver partition.UserRef, page, pageSize int) (*NotificationPage, error) {
    if page < 1 {
        page = 1
    }
    if pageSize < 1 {
        pageSize = 10
    }
    offset := (page - 1) * pageSize

    records, err := s.repo.ListByReceiver(ctx, receiver, offset, pageSize)
    if err != nil {
        return nil, err
    }
    total, err := s.repo.CountByReceiver(ctx, receiver)
    if err != nil {
        return nil, err
    }

    senders, err := s.resolveSenders(ctx, records)
    if err != nil {
        return nil, err
    }

    items := make([]NotificationView, len(records))
    for i, n := range records {
        view := NotificationView{
            ID:         n.ID,
            Sender:     n.Sender(),
            Type:       n.Type,
            ContentRef: n.ContentRef,
            Title:      n.Title,
            IsRead:     n.IsRead,
            CreatedAt:  n.CreatedAt,
        }
        if sum, ok := senders[n.Sender()]; ok {
            view.SenderName = sum.Name
            view.SenderAvatar = sum.Avatar
        }
        items[i] = view
    }

    return &NotificationPage{
        Items:    items,
        Total:    total,
        Page:     page,
        PageSize: pageSize,
        HasMore:  int64(offset+len(items)) < total,
    }, nil
}

// resolveSenders 把本页涉及的发送者按分区分组后批量查当前摘要
func (s *notificationService) resolveSenders(ctx context.Context, records []*model.Notification) (map[partition.UserRef]partition.UserSummary, error) {
    groups := make(map[partition.Tag][]string)
    seen := make(map[partition.UserRef]struct{})
    for _, n := range records {
        ref := n.Sender()
        if _, ok := seen[ref]; ok {
            continue
        }
        seen[ref] = struct{}{}
        groups[ref.Partition] = append(groups[ref.Partition], ref.ID)
    }

    out := make(map[partition.UserRef]partition.UserSummary, len(seen))
    for tag, ids := range groups {
        store, err := s.registry.Lookup(tag)
        if err != nil {
            return nil, err
        }
        sums, err := store.FindSummaries(ctx, partition.SummaryQuery{IDs: ids})
        if err != nil {
            return nil, err
        }
        for _, sum := range sums {
            out[sum.Ref()] = sum
        }
    }
    return out, nil
}
