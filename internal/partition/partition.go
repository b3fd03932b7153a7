package partition

import (
    "context"
    "errors"
    "time"
)

// Tag 分区标识（按角色划分的三个独立用户库）
type Tag string

const (
    TagDoctor  Tag = "doctor"
    TagPatient Tag = "patient"
    TagAdmin   Tag = "admin"
)

// ErrUnknownPartition 未注册的分区标识
var ErrUnknownPartition = errors.New("unknown partition tag")

// KnownTag 静态校验 tag 是否是三个已知分区之一
func KnownTag(t Tag) bool {
    switch t {
    case TagDoctor, TagPatient, TagAdmin:
        return true
    }
    return false
}

// UserRef 跨分区用户引用。ID 仅在分区内唯一，
// 相同 ID 不同分区指向两个不相关的用户。
type UserRef struct {
    ID        string `json:"id"`
    Partition Tag    `json:"partition"`
}

func (r UserRef) Equal(o UserRef) bool {
    return r.ID == o.ID && r.Partition == o.Partition
}

// UserSummary 各分区查询后统一映射出的用户摘要
type UserSummary struct {
    ID        string    `json:"id"`
    Partition Tag       `json:"partition"`
    Name      string    `json:"name"`
    Avatar    string    `json:"avatar"`
    CreatedAt time.Time `json:"created_at"`
}

func (s UserSummary) Ref() UserRef { return UserRef{ID: s.ID, Partition: s.Partition} }

// SortField 摘要查询排序字段
type SortField string

const (
    SortByName      SortField = "name"
    SortByCreatedAt SortField = "created_at"
)

// SortOrder 排序方向
type SortOrder string

const (
    OrderAsc  SortOrder = "asc"
    OrderDesc SortOrder = "desc"
)

// SummaryQuery 单分区摘要查询：ID 集合 + 可选名称子串过滤（不区分大小写）+ 分区内排序
type SummaryQuery struct {
    IDs        []string
    NameFilter string
    SortField  SortField
    SortOrder  SortOrder
}

// UserStore 单个分区用户库。三个分区 schema 互不兼容，
// 由各自实现负责把本分区字段映射为 UserSummary。
type UserStore interface {
    FindSummaries(ctx context.Context, q SummaryQuery) ([]UserSummary, error)
    GetSummary(ctx context.Context, id string) (*UserSummary, error)

    // 计数缓存维护。delta 可为负；减到 0 以下时不生效。
    AddFollowingCount(ctx context.Context, id string, delta int) error
    AddFollowerCount(ctx context.Context, id string, delta int) error
    SetCounts(ctx context.Context, id string, following, follower int64) error
    GetCounts(ctx context.Context, id string) (following, follower int64, err error)

    // ListIDs 供对账任务分页扫描
    ListIDs(ctx context.Context, offset, limit int) ([]string, error)
}
