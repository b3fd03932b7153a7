package service

import (
    "context"
    "testing"
    "time"

    "github.com/stretchr/testify/require"

    "github.com/d60-Lab/social-graph/internal/model"
    "github.com/d60-Lab/social-graph/internal/partition"
)

func TestNotifyFollowersFanout(t *testing.T) {
    env := setupEnv(t)
    ctx := context.Background()
    author := env.addDoctor(t, "d0", "作者")
    f1 := env.addPatient(t, "p1", "fan-a")
    f2 := env.addAdmin(t, "a1", "fan-b")
    require.NoError(t, env.rel.Follow(ctx, f1, author))
    require.NoError(t, env.rel.Follow(ctx, f2, author))

    n, err := env.fanout.NotifyFollowers(ctx, author, model.NotificationNewCase, "case-42", "一个疑难病例")
    require.NoError(t, err)
    require.Equal(t, 2, n)

    // 每个粉丝恰好一条，打上各自分区，未读
    for _, f := range []partition.UserRef{f1, f2} {
        records, err := env.notifs.ListByReceiver(ctx, f, 0, 10)
        require.NoError(t, err)
        require.Len(t, records, 1)
        rec := records[0]
        require.Equal(t, f.ID, rec.ReceiverID)
        require.Equal(t, f.Partition, rec.ReceiverPartition)
        require.Equal(t, author.ID, rec.SenderID)
        require.Equal(t, author.Partition, rec.SenderPartition)
        require.Equal(t, model.NotificationNewCase, rec.Type)
        require.Equal(t, "case-42", rec.ContentRef)
        require.Equal(t, "一个疑难病例", rec.Title)
        require.False(t, rec.IsRead)
        // 保留期字段已设置，回收任务按它删除
        require.WithinDuration(t, time.Now().Add(7*24*time.Hour), rec.ExpiresAt, time.Minute)
    }
}

func TestNotifyFollowersNoFollowersIsNoop(t *testing.T) {
    env := setupEnv(t)
    author := env.addDoctor(t, "d0", "作者")

    n, err := env.fanout.NotifyFollowers(context.Background(), author, model.NotificationNewArticle, "art-1", "无人问津")
    require.NoError(t, err)
    require.Zero(t, n)

    var cnt int64
    require.NoError(t, env.db.Model(&model.Notification{}).Count(&cnt).Error)
    require.Zero(t, cnt)
}

// 发布场景：u1（患者）关注 u2（医生）和 u3（患者）；
// u2 发布 -> u1 收到一条 new_case；u3 没有任何通知
func TestPublishTriggersFanoutThroughOutbox(t *testing.T) {
    env := setupEnv(t)
    ctx := context.Background()
    u1 := env.addPatient(t, "p1", "u1")
    u2 := env.addDoctor(t, "d2", "u2")
    u3 := env.addPatient(t, "p3", "u3")

    require.NoError(t, env.rel.Follow(ctx, u1, u2))
    require.NoError(t, env.rel.Follow(ctx, u1, u3))

    publisher := NewPublisher(env.db)
    articleID, err := publisher.Publish(ctx, u2, model.ArticleKindCase, "罕见病例分享", "...")
    require.NoError(t, err)

    // 发布只落 article + outbox，通知由 worker 扇出
    var pending int64
    require.NoError(t, env.db.Model(&model.Outbox{}).Where("status = ?", model.OutboxPending).Count(&pending).Error)
    require.EqualValues(t, 1, pending)

    notifier := NewOutboxNotifier(env.db, env.fanout, 1, 10, time.Millisecond)
    require.NoError(t, notifier.ProcessOnce(ctx))

    records, err := env.notifs.ListByReceiver(ctx, u1, 0, 10)
    require.NoError(t, err)
    require.Len(t, records, 1)
    require.Equal(t, model.NotificationNewCase, records[0].Type)
    require.Equal(t, articleID, records[0].ContentRef)
    require.Equal(t, u2.ID, records[0].SenderID)

    u3Records, err := env.notifs.ListByReceiver(ctx, u3, 0, 10)
    require.NoError(t, err)
    require.Empty(t, u3Records)

    var ob model.Outbox
    require.NoError(t, env.db.Where("article_id = ?", articleID).First(&ob).Error)
    require.Equal(t, model.OutboxDone, ob.Status)
    require.EqualValues(t, 1, ob.FanoutCount)
    require.NotNil(t, ob.ProcessedAt)
}

// 重复认领：第二次 ProcessOnce 不应重复扇出
func TestOutboxClaimIsExactlyOncePerRow(t *testing.T) {
    env := setupEnv(t)
    ctx := context.Background()
    u1 := env.addPatient(t, "p1", "u1")
    u2 := env.addDoctor(t, "d2", "u2")
    require.NoError(t, env.rel.Follow(ctx, u1, u2))

    publisher := NewPublisher(env.db)
    _, err := publisher.Publish(ctx, u2, model.ArticleKindArticle, "标题", "...")
    require.NoError(t, err)

    notifier := NewOutboxNotifier(env.db, env.fanout, 1, 10, time.Millisecond)
    require.NoError(t, notifier.ProcessOnce(ctx))
    require.NoError(t, notifier.ProcessOnce(ctx))

    records, err := env.notifs.ListByReceiver(ctx, u1, 0, 10)
    require.NoError(t, err)
    require.Len(t, records, 1)
}
