package model

import "time"

// Admin 管理端用户（admin 分区）
type Admin struct {
    ID          string `gorm:"primaryKey;type:varchar(36)"`
    DisplayName string `gorm:"type:varchar(64);index;not null"`
    Avatar      string `gorm:"type:varchar(255)"`
    Email       string `gorm:"type:varchar(128);uniqueIndex"`
    Password    string `gorm:"type:varchar(128)"`
    // 派生计数缓存
    FollowingCount int64 `gorm:"not null;default:0"`
    FollowerCount  int64 `gorm:"not null;default:0"`
    CreatedAt      time.Time
    UpdatedAt      time.Time
}

func (Admin) TableName() string { return "admins" }
