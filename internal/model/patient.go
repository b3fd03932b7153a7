package model

import "time"

// Patient 患者分区用户（patient 分区），schema 与其他分区不兼容
type Patient struct {
    ID         string `gorm:"primaryKey;type:varchar(36)"`
    Nickname   string `gorm:"type:varchar(64);index;not null"`
    AvatarPath string `gorm:"type:varchar(255)"`
    Phone      string `gorm:"type:varchar(32);uniqueIndex"`
    Password   string `gorm:"type:varchar(128)"`
    Region     string `gorm:"type:varchar(64)"`
    // 派生计数缓存
    FollowingCount int64 `gorm:"not null;default:0"`
    FollowerCount  int64 `gorm:"not null;default:0"`
    CreatedAt      time.Time
    UpdatedAt      time.Time
}

func (Patient) TableName() string { return "patients" }
