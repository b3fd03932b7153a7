package repository

import (
    "context"
    "errors"

    "gorm.io/gorm"

    "github.com/d60-Lab/social-graph/internal/model"
    "github.com/d60-Lab/social-graph/internal/partition"
)

// NotificationRepository 通知仓储。通知表是单一共享库，
// 批量写入天然要么全成要么全败。
type NotificationRepository interface {
    BulkCreate(ctx context.Context, records []*model.Notification) error
    // ListByReceiver 按创建时间倒序分页
    ListByReceiver(ctx context.Context, receiver partition.UserRef, offset, limit int) ([]*model.Notification, error)
    CountByReceiver(ctx context.Context, receiver partition.UserRef) (int64, error)
    CountUnread(ctx context.Context, receiver partition.UserRef) (int64, error)
    // MarkRead 只更新属于 receiver 的记录，返回影响行数
    MarkRead(ctx context.Context, receiver partition.UserRef, id string) (int64, error)
    MarkAllRead(ctx context.Context, receiver partition.UserRef) (int64, error)
    GetByID(ctx context.Context, id string) (*model.Notification, error)
}

type notificationRepository struct {
    db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
    return &notificationRepository{db: db}
}

func (r *notificationRepository) BulkCreate(ctx context.Context, records []*model.Notification) error {
    if len(records) == 0 {
        return nil
    }
    return r.db.WithContext(ctx).Create(&records).Error
}

func (r *notificationRepository) ListByReceiver(ctx context.Context, receiver partition.UserRef, offset, limit int) ([]*model.Notification, error) {
    var res []*model.Notification
    err := r.receiverQuery(ctx, receiver).
        Order("created_at DESC").
        Offset(offset).Limit(limit).
        Find(&res).Error
    return res, err
}

func (r *notificationRepository) CountByReceiver(ctx context.Context, receiver partition.UserRef) (int64, error) {
    var cnt int64
    err := r.receiverQuery(ctx, receiver).Count(&cnt).Error
    return cnt, err
}

func (r *notificationRepository) CountUnread(ctx context.Context, receiver partition.UserRef) (int64, error) {
    var cnt int64
    err := r.receiverQuery(ctx, receiver).Where("is_read = ?", false).Count(&cnt).Error
    return cnt, err
}

func (r *notificationRepository) MarkRead(ctx context.Context, receiver partition.UserRef, id string) (int64, error) {
    res := r.db.WithContext(ctx).
        Model(&model.Notification{}).
        Where("id = ? AND receiver_id = ? AND receiver_partition = ?", id, receiver.ID, receiver.Partition).
        Update("is_read", true)
    return res.RowsAffected, res.Error
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, receiver partition.UserRef) (int64, error) {
    res := r.db.WithContext(ctx).
        Model(&model.Notification{}).
        Where("receiver_id = ? AND receiver_partition = ? AND is_read = ?", receiver.ID, receiver.Partition, false).
        Update("is_read", true)
    return res.RowsAffected, res.Error
}

func (r *notificationRepository) GetByID(ctx context.Context, id string) (*model.Notification, error) {
    var n model.Notification
    err := r.db.WithContext(ctx).Where("id = ?", id).First(&n).Error
    if errors.Is(err, gorm.ErrRecordNotFound) {
        return nil, nil
    }
    if err != nil {
        return nil, err
    }
    return &n, nil
}

func (r *notificationRepository) receiverQuery(ctx context.Context, receiver partition.UserRef) *gorm.DB {
    return r.db.WithContext(ctx).
        Model(&model.Notification{}).
        Where("receiver_id = ? AND receiver_partition = ?", receiver.ID, receiver.Partition)
}
