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

// doctorStore doctor 分区用户库实现，负责把医生 schema 映射为 UserSummary
type doctorStore struct {
    db *gorm.DB
}

func NewDoctorStore(db *gorm.DB) partition.UserStore { return &doctorStore{db: db} }

type doctorRow struct {
    ID        string
    RealName  string
    AvatarURL string
    CreatedAt time.Time
}

func (s *doctorStore) FindSummaries(ctx context.Context, q partition.SummaryQuery) ([]partition.UserSummary, error) {
    if len(q.IDs) == 0 {
        return nil, nil
    }
    tx := s.db.WithContext(ctx).
        Model(&model.Doctor{}).
        Select("id, real_name, avatar_url, created_at").
        Where("id IN ?", q.IDs)
    if q.NameFilter != "" {
        tx = tx.Where("LOWER(real_name) LIKE ?", "%"+strings.ToLower(q.NameFilter)+"%")
    }
    tx = tx.Order(orderClause("real_name", q.SortField, q.SortOrder))
    var rows []doctorRow
    if err := tx.Scan(&rows).Error; err != nil {
        return nil, err
    }
    out := make([]partition.UserSummary, len(rows))
    for i, r := range rows {
        out[i] = partition.UserSummary{
            ID:        r.ID,
            Partition: partition.TagDoctor,
            Name:      r.RealName,
            Avatar:    r.AvatarURL,
            CreatedAt: r.CreatedAt,
        }
    }
    return out, nil
}

func (s *doctorStore) GetSummary(ctx context.Context, id string) (*partition.UserSummary, error) {
    var d model.Doctor
    err := s.db.WithContext(ctx).Where("id = ?", id).First(&d).Error
    if errors.Is(err, gorm.ErrRecordNotFound) {
        return nil, nil
    }
    if err != nil {
        return nil, err
    }
    return &partition.UserSummary{
        ID:        d.ID,
        Partition: partition.TagDoctor,
        Name:      d.RealName,
        Avatar:    d.AvatarURL,
        CreatedAt: d.CreatedAt,
    }, nil
}

func (s *doctorStore) AddFollowingCount(ctx context.Context, id string, delta int) error {
    return addCount(ctx, s.db, &model.Doctor{}, "following_count", id, delta)
}

func (s *doctorStore) AddFollowerCount(ctx context.Context, id string, delta int) error {
    return addCount(ctx, s.db, &model.Doctor{}, "follower_count", id, delta)
}

func (s *doctorStore) SetCounts(ctx context.Context, id string, following, follower int64) error {
    return s.db.WithContext(ctx).
        Model(&model.Doctor{}).
        Where("id = ?", id).
        Updates(map[string]any{"following_count": following, "follower_count": follower}).Error
}

func (s *doctorStore) GetCounts(ctx context.Context, id string) (int64, int64, error) {
    var d model.Doctor
    if err := s.db.WithContext(ctx).Select("following_count, follower_count").Where("id = ?", id).First(&d).Error; err != nil {
        return 0, 0, err
    }
    return d.FollowingCount, d.FollowerCount, nil
}

func (s *doctorStore) ListIDs(ctx context.Context, offset, limit int) ([]string, error) {
    var ids []string
    err := s.db.WithContext(ctx).
        Model(&model.Doctor{}).
        Order("id").Offset(offset).Limit(limit).
        Pluck("id", &ids).Error
    return ids, err
}
