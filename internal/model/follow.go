package model

import (
    "time"

    "github.com/d60-Lab/social-graph/internal/partition"
)

// FollowEdge 跨分区关注边（follower 关注 following）。
// 四列复合唯一键保证同一有向对至多一条边，
// 也是 Follow/Unfollow 并发时唯一的同步点。
// idx_edge_pair = (follower_id, follower_partition, following_id, following_partition)
type FollowEdge struct {
    ID                 string        `gorm:"primaryKey;type:varchar(36)"`
    FollowerID         string        `gorm:"type:varchar(36);not null;index:idx_edge_follower;index:idx_edge_pair,unique"`
    FollowerPartition  partition.Tag `gorm:"type:varchar(16);not null;index:idx_edge_follower;index:idx_edge_pair,unique"`
    FollowingID        string        `gorm:"type:varchar(36);not null;index:idx_edge_following;index:idx_edge_pair,unique"`
    FollowingPartition partition.Tag `gorm:"type:varchar(16);not null;index:idx_edge_following;index:idx_edge_pair,unique"`
    CreatedAt          time.Time
}

func (FollowEdge) TableName() string { return "follow_edges" }

// Follower 边的 follower 侧引用
func (e *FollowEdge) Follower() partition.UserRef {
    return partition.UserRef{ID: e.FollowerID, Partition: e.FollowerPartition}
}

// Following 边的 following 侧引用
func (e *FollowEdge) Following() partition.UserRef {
    return partition.UserRef{ID: e.FollowingID, Partition: e.FollowingPartition}
}
