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

// patientStore patient 分区用户库实现
type patientStore struct {
    db *gorm.DB
}

func NewPatientStore(db *gorm.DB) partition.UserStore { return &patientStore{db: db} }

type patientRow struct {
    ID         string
    Nickname   string
    AvatarPath string
    CreatedAt  time.Time
}

func (s *patientStore) FindSummaries(ctx context.Context, q partition.SummaryQuery) ([]partition.UserSummary, error) {
    if len(q.IDs) == 0 {
        return nil, nil
    }
    tx := s.db.WithContext(ctx).
        Model(&model.Patient{}).
        Select("id, nickname, avatar_path, created_at").
        Where("id IN ?", q.IDs)
    if q.NameFilter != "" {
        tx = tx.Where("LOWER(nickname) LIKE ?", "%"+strings.ToLower(q.NameFilter)+"%")
    }
    tx = tx.Order(orderClause("nickname", q.SortField, q.SortOrder))
    var rows []patientRow
    if err := tx.Scan(&rows).Error; err != nil {
        return nil, err
    }
    out := make([]partition.UserSummary, len(rows))
    for i, r := range rows {
        out[i] = partition.UserSummary{
            ID:        r.ID,
            Partition: partition.TagPatient,
            Name:      r.Nickname,
            Avatar:    r.AvatarPath,
            CreatedAt: r.CreatedAt,
        }
    }
    return out, nil
}

func (s *patientStore) GetSummary(ctx context.Context, id string) (*partition.UserSummary, error) {
    var p model.Patient
    err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
    if errors.Is(err, gorm.ErrRecordNotFound) {
        return nil, nil
    }
    if err != nil {
        return nil, err
    }
    return &partition.UserSummary{
        ID:        p.ID,
        Partition: partition.TagPatient,
        Name:      p.Nickname,
        Avatar:    p.AvatarPath,
        CreatedAt: p.CreatedAt,
    }, nil
}

func (s *patientStore) AddFollowingCount(ctx context.Context, id string, delta int) error {
    return addCount(ctx, s.db, &model.Patient{}, "following_count", id, delta)
}

func (s *patientStore) AddFollowerCount(ctx context.Context, id string, delta int) error {
    return addCount(ctx, s.db, &model.Patient{}, "follower_count", id, delta)
}

func (s *patientStore) SetCounts(ctx context.Context, id string, following, follower int64) error {
    return s.db.WithContext(ctx).
        Model(&model.Patient{}).
        Where("id = ?", id).
        Updates(map[string]any{"following_count": following, "follower_count": follower}).Error
}

func (s *patientStore) GetCounts(ctx context.Context, id string) (int64, int64, error) {
    var p model.Patient
    if err := s.db.WithContext(ctx).Select("following_count, follower_count").Where("id = ?", id).First(&p).Error; err != nil {
        return 0, 0, err
    }
    return p.FollowingCount, p.FollowerCount, nil
}

func (s *patientStore) ListIDs(ctx context.Context, offset, limit int) ([]string, error) {
    var ids []string
    err := s.db.WithContext(ctx).
        Model(&model.Patient{}).
        Order("id").Offset(offset).Limit(limit).
        Pluck("id", &ids).Error
    return ids, err
}
