package model

import (
    "time"

    "github.com/d60-Lab/social-graph/internal/partition"
)

// 内容类型
const (
    ArticleKindCase    = "case"
    ArticleKindArticle = "article"
)

// Article 内容主体（病例/文章，仅核心所需字段）
type Article struct {
    ID              string        `gorm:"primaryKey;type:varchar(36)"`
    AuthorID        string        `gorm:"type:varchar(36);not null;index:idx_article_author"`
    AuthorPartition partition.Tag `gorm:"type:varchar(16);not null;index:idx_article_author"`
    Kind            string        `gorm:"type:varchar(16);not null"`
    Title           string        `gorm:"type:varchar(255);not null"`
    Payload         string        `gorm:"type:text"`
    CreatedAt       time.Time
    UpdatedAt       time.Time
}

func (Article) TableName() string { return "articles" }
