package repository

import (
    "context"

    "github.com/google/uuid"
    "gorm.io/gorm"
    "gorm.io/gorm/clause"

    "github.com/d60-Lab/social-graph/internal/model"
    "github.com/d60-Lab/social-graph/internal/partition"
)

// EdgeSide 列边时的查询侧
type EdgeSide string

const (
    SideFollower  EdgeSide = "follower"  // ref 是 follower，列其关注的人
    SideFollowing EdgeSide = "following" // ref 是 following，列其粉丝
)

type FollowRepository interface {
    // Create 插入边；命中唯一键时不报错，created=false
    Create(ctx context.Context, follower, following partition.UserRef) (created bool, err error)
    // Delete 删除边；不存在时 deleted=false
    Delete(ctx context.Context, follower, following partition.UserRef) (deleted bool, err error)
    Exists(ctx context.Context, follower, following partition.UserRef) (bool, error)
    // ListBySide 按侧列出全部匹配边，无序，limit 为上限兜底
    ListBySide(ctx context.Context, ref partition.UserRef, side EdgeSide, limit int) ([]*model.FollowEdge, error)
    // FollowingSet 取 ref 的关注集合，供反向存在性批量判断
    FollowingSet(ctx context.Context, ref partition.UserRef, limit int) (map[partition.UserRef]struct{}, error)
    CountBySide(ctx context.Context, ref partition.UserRef, side EdgeSide) (int64, error)
}

type followRepository struct {
    db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository { return &followRepository{db: db} }

func (r *followRepository) Create(ctx context.Context, follower, following partition.UserRef) (bool, error) {
    e := &model.FollowEdge{
        ID:                 uuid.New().String(),
        FollowerID:         follower.ID,
        FollowerPartition:  follower.Partition,
        FollowingID:        following.ID,
        FollowingPartition: following.Partition,
    }
    // 唯一键冲突不报错，由 RowsAffected 区分重复关注
    res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(e)
    if res.Error != nil {
        return false, res.Error
    }
    return res.RowsAffected > 0, nil
}

func (r *followRepository) Delete(ctx context.Context, follower, following partition.UserRef) (bool, error) {
    res := r.db.WithContext(ctx).
        Where("follower_id = ? AND follower_partition = ? AND following_id = ? AND following_partition = ?",
            follower.ID, follower.Partition, following.ID, following.Partition).
        Delete(&model.FollowEdge{})
    if res.Error != nil {
        return false, res.Error
    }
    return res.RowsAffected > 0, nil
}

func (r *followRepository) Exists(ctx context.Context, follower, following partition.UserRef) (bool, error) {
    var cnt int64
    if err := r.db.WithContext(ctx).
        Model(&model.FollowEdge{}).
        Where("follower_id = ? AND follower_partition = ? AND following_id = ? AND following_partition = ?",
            follower.ID, follower.Partition, following.ID, following.Partition).
        Count(&cnt).Error; err != nil {
        return false, err
    }
    return cnt > 0, nil
}

func (r *followRepository) ListBySide(ctx context.Context, ref partition.UserRef, side EdgeSide, limit int) ([]*model.FollowEdge, error) {
    var res []*model.FollowEdge
    err := r.sideQuery(ctx, ref, side).Limit(limit).Find(&res).Error
    return res, err
}

func (r *followRepository) FollowingSet(ctx context.Context, ref partition.UserRef, limit int) (map[partition.UserRef]struct{}, error) {
    edges, err := r.ListBySide(ctx, ref, SideFollower, limit)
    if err != nil {
        return nil, err
    }
    set := make(map[partition.UserRef]struct{}, len(edges))
    for _, e := range edges {
        set[e.Following()] = struct{}{}
    }
    return set, nil
}

func (r *followRepository) CountBySide(ctx context.Context, ref partition.UserRef, side EdgeSide) (int64, error) {
    var cnt int64
    err := r.sideQuery(ctx, ref, side).Count(&cnt).Error
    return cnt, err
}

func (r *followRepository) sideQuery(ctx context.Context, ref partition.UserRef, side EdgeSide) *gorm.DB {
    q := r.db.WithContext(ctx).Model(&model.FollowEdge{})
    if side == SideFollower {
        return q.Where("follower_id = ? AND follower_partition = ?", ref.ID, ref.Partition)
    }
    return q.Where("following_id = ? AND following_partition = ?", ref.ID, ref.Partition)
}
