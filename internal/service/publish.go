package service

import (
    "context"
    "time"

    "github.com/google/uuid"
    "gorm.io/gorm"

    "github.com/d60-Lab/social-graph/internal/model"
    "github.com/d60-Lab/social-graph/internal/partition"
)

// Publisher 内容发布：同一核心库事务内落 Article 与 Outbox 事件。
// 通知扇出由 OutboxNotifier 异步消费，扇出失败不回滚发布。
type Publisher struct {
    db *gorm.DB
}

func NewPublisher(db *gorm.DB) *Publisher { return &Publisher{db: db} }

// Publish 发布一篇内容，返回内容 ID
func (p *Publisher) Publish(ctx context.Context, author partition.UserRef, kind, title, payload string) (string, error) {
    articleID := uuid.New().String()
    now := time.Now()
    err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
        article := &model.Article{
            ID:              articleID,
            AuthorID:        author.ID,
            AuthorPartition: author.Partition,
            Kind:            kind,
            Title:           title,
            Payload:         payload,
            CreatedAt:       now,
            UpdatedAt:       now,
        }
        if err := tx.Create(article).Error; err != nil {
            return err
        }
        out := &model.Outbox{
            ID:              uuid.New().String(),
            ArticleID:       articleID,
            AuthorID:        author.ID,
            AuthorPartition: author.Partition,
            Kind:            kind,
            Title:           title,
            CreatedAt:       now,
            Status:          model.OutboxPending,
        }
        return tx.Create(out).Error
    })
    if err != nil {
        return "", err
    }
    return articleID, nil
}
