package service

import (
    "context"
    "fmt"
    "sort"
    "strings"
    "time"

    "github.com/d60-Lab/social-graph/internal/model"
    "github.com/d60-Lab/social-graph/internal/partition"
    "github.com/d60-Lab/social-graph/internal/repository"
)

// PageOptions 合并分页参数
type PageOptions struct {
    Page       int
    PageSize   int
    NameFilter string
    SortField  partition.SortField
    SortOrder  partition.SortOrder
}

func (o *PageOptions) normalize() {
    if o.Page < 1 {
        o.Page = 1
    }
    if o.PageSize < 1 {
        o.PageSize = 10
    }
    if o.SortField == "" {
        o.SortField = partition.SortByName
    }
    if o.SortOrder == "" {
        o.SortOrder = partition.OrderAsc
    }
}

// FollowListItem 合并结果单条
type FollowListItem struct {
    User        partition.UserSummary `json:"user"`
    EdgeID      string                `json:"edge_id"`
    FollowedAt  time.Time             `json:"followed_at"`
    IsFollowing bool                  `json:"is_following"`
}

// UserPage 跨分区合并后的全局分页
type UserPage struct {
    Items    []FollowListItem `json:"items"`
    Total    int              `json:"total"`
    Page     int              `json:"page"`
    PageSize int              `json:"page_size"`
    HasMore  bool             `json:"has_more"`
}

func (s *relationshipService) GetFollowing(ctx context.Context, user, viewer partition.UserRef, opts PageOptions) (*UserPage, error) {
    return s.mergeSide(ctx, user, viewer, repository.SideFollower, opts)
}

func (s *relationshipService) GetFollowers(ctx context.Context, user, viewer partition.UserRef, opts PageOptions) (*UserPage, error) {
    return s.mergeSide(ctx, user, viewer, repository.SideFollowing, opts)
}

// mergeSide 跨分区合并：整页取边 -> 对侧按分区分组 -> 逐分区查摘要
// -> 拼接 -> 全局重排 -> offset/limit。三个分区库之间没有共享索引，
// 也没有事务快照，读到的是近似时刻的数据。
func (s *relationshipService) mergeSide(ctx context.Context, user, viewer partition.UserRef, side repository.EdgeSide, opts PageOptions) (*UserPage, error) {
    opts.normalize()

    edges, err := s.edges.ListBySide(ctx, user, side, maxEdgeFetch)
    if err != nil {
        return nil, err
    }

    // 对侧 id 按分区分组；唯一键保证同一对侧引用只出现一次
    groups := make(map[partition.Tag][]string)
    edgeByRef := make(map[partition.UserRef]*model.FollowEdge, len(edges))
    for _, e := range edges {
        other := e.Following()
        if side == repository.SideFollowing {
            other = e.Follower()
        }
        groups[other.Partition] = append(groups[other.Partition], other.ID)
        edgeByRef[other] = e
    }

    // 每个非空分区一次查询；任一分区失败整体失败
    var merged []partition.UserSummary
    for tag, ids := range groups {
        store, err := s.registry.Lookup(tag)
        if err != nil {
            return nil, err
        }
        sums, err := store.FindSummaries(ctx, partition.SummaryQuery{
            IDs:        ids,
            NameFilter: opts.NameFilter,
            SortField:  opts.SortField,
            SortOrder:  opts.SortOrder,
        })
        if err != nil {
            return nil, fmt.Errorf("%w: partition %s: %v", ErrPartialFetch, tag, err)
        }
        merged = append(merged, sums...)
    }

    // 分区内排序不构成全局序，拼接后必须整体重排
    sortSummaries(merged, opts.SortField, opts.SortOrder)

    total := len(merged)
    offset := (opts.Page - 1) * opts.PageSize
    if offset > total {
        offset = total
    }
    end := offset + opts.PageSize
    if end > total {
        end = total
    }
    window := merged[offset:end]

    // 反向存在性：viewer 对每条结果是否已关注，一次取 viewer 的关注集合
    var viewerSet map[partition.UserRef]struct{}
    if viewer.ID != "" {
        viewerSet, err = s.edges.FollowingSet(ctx, viewer, maxEdgeFetch)
        if err != nil {
            return nil, err
        }
    }

    items := make([]FollowListItem, len(window))
    for i, sum := range window {
        item := FollowListItem{User: sum}
        if e, ok := edgeByRef[sum.Ref()]; ok {
            item.EdgeID = e.ID
            item.FollowedAt = e.CreatedAt
        }
        if viewerSet != nil {
            _, item.IsFollowing = viewerSet[sum.Ref()]
        }
        items[i] = item
    }

    return &UserPage{
        Items:    items,
        Total:    total,
        Page:     opts.Page,
        PageSize: opts.PageSize,
        HasMore:  offset+len(items) < total,
    }, nil
}

// sortSummaries 全局稳定重排；键相等时按 (partition, id) 定序，
// 保证跨分区翻页不漏不重
func sortSummaries(list []partition.UserSummary, field partition.SortField, order partition.SortOrder) {
    less := func(a, b partition.UserSummary) bool {
        var cmp int
        switch field {
        case partition.SortByCreatedAt:
            switch {
            case a.CreatedAt.Before(b.CreatedAt):
                cmp = -1
            case a.CreatedAt.After(b.CreatedAt):
                cmp = 1
            }
        default:
            cmp = strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
        }
        if cmp == 0 {
            cmp = strings.Compare(string(a.Partition)+a.ID, string(b.Partition)+b.ID)
        }
        if order == partition.OrderDesc {
            return cmp > 0
        }
        return cmp < 0
    }
    sort.SliceStable(list, func(i, j int) bool { return less(list[i], list[j]) })
}
