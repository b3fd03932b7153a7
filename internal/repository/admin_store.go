package repository

import (
    "context"
    "errors"
    "strings"
    "time"

    "gorm.io/gorm"

    "github.com/d60-Lab/social-graph/internal/model"
    "github.com/d60-Lab/social-graph/internal/partition"
)

// adminStore admin 分区用户库实现
type adminStore struct {
    db *gorm.DB
}

func NewAdminStore(db *gorm.DB) partition.UserStore { return &adminStore{db: db} }

type adminRow struct {
    ID          string
    DisplayName string
    Avatar      string
    CreatedAt   time.Time
}

func (s *adminStore) FindSummaries(ctx context.Context, q partition.SummaryQuery) ([]partition.UserSummary, error) {
    if len(q.IDs) == 0 {
        return nil, nil
    }
    tx := s.db.WithContext(ctx).
        Model(&model.Admin{}).
        Select("id, display_name, avatar, created_at").
        Where("id IN ?", q.IDs)
    if q.NameFilter != "" {
        tx = tx.Where("LOWER(display_name) LIKE ?", "%"+strings.ToLower(q.NameFilter)+"%")
    }
    tx = tx.Order(orderClause("display_name", q.SortField, q.SortOrder))
    var rows []adminRow
    if err := tx.Scan(&rows).Error; err != nil {
        return nil, err
    }
    out := make([]partition.UserSummary, len(rows))
    for i, r := range rows {
        out[i] = partition.UserSummary{
            ID:        r.ID,
            Partition: partition.TagAdmin,
            Name:      r.DisplayName,
            Avatar:    r.Avatar,
            CreatedAt: r.CreatedAt,
        }
    }
    return out, nil
}

func (s *adminStore) GetSummary(ctx context.Context, id string) (*partition.UserSummary, error) {
    var a model.Admin
    err := s.db.WithContext(ctx).Where("id = ?", id).First(&a).Error
    if errors.Is(err, gorm.ErrRecordNotFound) {
        return nil, nil
    }
    if err != nil {
        return nil, err
    }
    return &partition.UserSummary{
        ID:        a.ID,
        Partition: partition.TagAdmin,
        Name:      a.DisplayName,
        Avatar:    a.Avatar,
        CreatedAt: a.CreatedAt,
    }, nil
}

func (s *adminStore) AddFollowingCount(ctx context.Context, id string, delta int) error {
    return addCount(ctx, s.db, &model.Admin{}, "following_count", id, delta)
}

func (s *adminStore) AddFollowerCount(ctx context.Context, id string, delta int) error {
    return addCount(ctx, s.db, &model.Admin{}, "follower_count", id, delta)
}

func (s *adminStore) SetCounts(ctx context.Context, id string, following, follower int64) error {
    return s.db.WithContext(ctx).
        Model(&model.Admin{}).
        Where("id = ?", id).
        Updates(map[string]any{"following_count": following, "follower_count": follower}).Error
}

func (s *adminStore) GetCounts(ctx context.Context, id string) (int64, int64, error) {
    var a model.Admin
    if err := s.db.WithContext(ctx).Select("following_count, follower_count").Where("id = ?", id).First(&a).Error; err != nil {
        return 0, 0, err
    }
    return a.FollowingCount, a.FollowerCount, nil
}

func (s *adminStore) ListIDs(ctx context.Context, offset, limit int) ([]string, error) {
    var ids []string
    err := s.db.WithContext(ctx).
        Model(&model.Admin{}).
        Order("id").Offset(offset).Limit(limit).
        Pluck("id", &ids).Error
    return ids, err
}
