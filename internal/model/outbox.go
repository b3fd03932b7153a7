package model

import (
    "time"

    "github.com/d60-Lab/social-graph/internal/partition"
)

// Outbox 状态流转 pending -> processing -> done / failed
const (
    OutboxPending    = "pending"
    OutboxProcessing = "processing"
    OutboxDone       = "done"
    OutboxFailed     = "failed"
)

// Outbox 发布事件外发盒：发布事务内落一行，
// 通知 worker 异步认领并扇出，失败不回滚发布。
type Outbox struct {
    ID              string        `gorm:"primaryKey;type:varchar(36)"`
    ArticleID       string        `gorm:"type:varchar(36);uniqueIndex"`
    AuthorID        string        `gorm:"type:varchar(36);index:idx_outbox_author"`
    AuthorPartition partition.Tag `gorm:"type:varchar(16);index:idx_outbox_author"`
    Kind            string        `gorm:"type:varchar(16)"`
    Title           string        `gorm:"type:varchar(255)"`
    CreatedAt       time.Time     `gorm:"index"`
    Status          string        `gorm:"type:varchar(16);index"` // pending, processing, done, failed
    ProcessedAt     *time.Time
    FanoutCount     int64
}

func (Outbox) TableName() string { return "outbox" }
