package model

import "time"

// Doctor 医生分区用户（doctor 分区）
type Doctor struct {
    ID         string `gorm:"primaryKey;type:varchar(36)"`
    RealName   string `gorm:"type:varchar(64);index;not null"`
    Title      string `gorm:"type:varchar(64)"`
    Hospital   string `gorm:"type:varchar(128)"`
    Department string `gorm:"type:varchar(64)"`
    AvatarURL  string `gorm:"type:varchar(255)"`
    Email      string `gorm:"type:varchar(128);uniqueIndex"`
    Password   string `gorm:"type:varchar(128)"`
    // 派生计数缓存，以边表为准，由对账任务修复
    FollowingCount int64 `gorm:"not null;default:0"`
    FollowerCount  int64 `gorm:"not null;default:0"`
    CreatedAt      time.Time
    UpdatedAt      time.Time
}

func (Doctor) TableName() string { return "doctors" }
