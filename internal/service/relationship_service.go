package service

import (
    "context"
    "errors"

    "go.uber.org/zap"

    "github.com/d60-Lab/social-graph/internal/partition"
    "github.com/d60-Lab/social-graph/internal/repository"
    "github.com/d60-Lab/social-graph/pkg/logger"
)

// maxEdgeFetch 单侧边列表的兜底上限。合并引擎按这个量级整页拉取后
// 内存重排，是当前明确接受的扩展性天花板。
const maxEdgeFetch = 1000

var (
    ErrSelfFollow       = errors.New("cannot follow self")
    ErrAlreadyFollowing = errors.New("already following")
    ErrNotFollowing     = errors.New("not following")
    // ErrPartialFetch 合并读取中任一分区失败，整个操作失败，不返回残缺列表
    ErrPartialFetch = errors.New("partition fetch failed")
)

// RelationshipService 跨分区关系链服务
type RelationshipService interface {
    Follow(ctx context.Context, follower, following partition.UserRef) error
    Unfollow(ctx context.Context, follower, following partition.UserRef) error
    IsFollowing(ctx context.Context, follower, following partition.UserRef) (bool, error)
    // GetFollowing / GetFollowers 跨三个分区合并出全局有序分页。
    // viewer 非零时对每条结果附带 viewer 是否已关注。
    GetFollowing(ctx context.Context, user, viewer partition.UserRef, opts PageOptions) (*UserPage, error)
    GetFollowers(ctx context.Context, user, viewer partition.UserRef, opts PageOptions) (*UserPage, error)
}

type relationshipService struct {
    edges    repository.FollowRepository
    registry *partition.Registry
}

func NewRelationshipService(edges repository.FollowRepository, registry *partition.Registry) RelationshipService {
    return &relationshipService{edges: edges, registry: registry}
}

func (s *relationshipService) Follow(ctx context.Context, follower, following partition.UserRef) error {
    if follower.Equal(following) {
        return ErrSelfFollow
    }
    followerStore, err := s.registry.Lookup(follower.Partition)
    if err != nil {
        return err
    }
    followingStore, err := s.registry.Lookup(following.Partition)
    if err != nil {
        return err
    }

    // 边先落库；唯一键是并发 Follow/Unfollow 之间唯一的同步点
    created, err := s.edges.Create(ctx, follower, following)
    if err != nil {
        return err
    }
    if !created {
        return ErrAlreadyFollowing
    }

    // 两个计数增量相互独立，落在各自分区库。失败只记日志不回滚：
    // 边表是事实，计数是可由对账修复的缓存。
    if err := followerStore.AddFollowingCount(ctx, follower.ID, 1); err != nil {
        logger.Warn("increment following_count failed",
            zap.String("user", follower.ID), zap.String("partition", string(follower.Partition)), zap.Error(err))
    }
    if err := followingStore.AddFollowerCount(ctx, following.ID, 1); err != nil {
        logger.Warn("increment follower_count failed",
            zap.String("user", following.ID), zap.String("partition", string(following.Partition)), zap.Error(err))
    }
    return nil
}

func (s *relationshipService) Unfollow(ctx context.Context, follower, following partition.UserRef) error {
    followerStore, err := s.registry.Lookup(follower.Partition)
    if err != nil {
        return err
    }
    followingStore, err := s.registry.Lookup(following.Partition)
    if err != nil {
        return err
    }

    deleted, err := s.edges.Delete(ctx, follower, following)
    if err != nil {
        return err
    }
    if !deleted {
        return ErrNotFollowing
    }

    if err := followerStore.AddFollowingCount(ctx, follower.ID, -1); err != nil {
        logger.Warn("decrement following_count failed",
            zap.String("user", follower.ID), zap.String("partition", string(follower.Partition)), zap.Error(err))
    }
    if err := followingStore.AddFollowerCount(ctx, following.ID, -1); err != nil {
        logger.Warn("decrement follower_count failed",
            zap.String("user", following.ID), zap.String("partition", string(following.Partition)), zap.Error(err))
    }
    return nil
}

func (s *relationshipService) IsFollowing(ctx context.Context, follower, following partition.UserRef) (bool, error) {
    return s.edges.Exists(ctx, follower, following)
}
