package model

import (
    "time"

    "github.com/d60-Lab/social-graph/internal/partition"
)

// 通知类型，可扩展
const (
    NotificationNewCase    = "new_case"
    NotificationNewArticle = "new_article"
)

// Notification 通知记录，发布时由 fanout 批量写入。
// 收发双方都带分区标记，读取时无需再 join 边表。
// ExpiresAt 是保留期（7 天）回收任务的筛选键，回收本身由外部负责。
// idx_notif_receiver = (receiver_id, receiver_partition, created_at)
type Notification struct {
    ID                string        `gorm:"primaryKey;type:varchar(36)"`
    ReceiverID        string        `gorm:"type:varchar(36);not null;index:idx_notif_receiver,priority:1"`
    ReceiverPartition partition.Tag `gorm:"type:varchar(16);not null;index:idx_notif_receiver,priority:2"`
    SenderID          string        `gorm:"type:varchar(36);not null;index:idx_notif_sender"`
    SenderPartition   partition.Tag `gorm:"type:varchar(16);not null;index:idx_notif_sender"`
    Type              string        `gorm:"type:varchar(32);not null"`
    // ContentRef 不透明内容引用，可能是复合形式如 "{caseID}:{sectionID}"
    ContentRef string `gorm:"type:varchar(128);not null"`
    // Title 创建时冻结的展示文案
    Title     string    `gorm:"type:varchar(255)"`
    IsRead    bool      `gorm:"not null;default:false;index"`
    CreatedAt time.Time `gorm:"index:idx_notif_receiver,priority:3"`
    ExpiresAt time.Time `gorm:"index"`
}

func (Notification) TableName() string { return "notifications" }

// Receiver 通知接收方引用
func (n *Notification) Receiver() partition.UserRef {
    return partition.UserRef{ID: n.ReceiverID, Partition: n.ReceiverPartition}
}

// Sender 通知发送方引用
func (n *Notification) Sender() partition.UserRef {
    return partition.UserRef{ID: n.SenderID, Partition: n.SenderPartition}
}
