package service

import (
    "context"
    "errors"
    "fmt"
    "testing"
    "time"

    "github.com/stretchr/testify/require"
    "gorm.io/driver/sqlite"
    "gorm.io/gorm"

    "github.com/d60-Lab/social-graph/internal/cache"
    "github.com/d60-Lab/social-graph/internal/model"
    "github.com/d60-Lab/social-graph/internal/partition"
    "github.com/d60-Lab/social-graph/internal/repository"
)

type testEnv struct {
    db       *gorm.DB
    registry *partition.Registry
    edges    repository.FollowRepository
    notifs   repository.NotificationRepository
    rel      RelationshipService
    fanout   *FanoutService
    notifSvc NotificationService
    unread   *cache.UnreadCounter
}

// 测试里四个逻辑库共用一个内存 sqlite；库之间本就没有事务耦合，
// 共库不改变被测语义
func setupEnv(t *testing.T) *testEnv {
    t.Helper()
    db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
    require.NoError(t, err)
    require.NoError(t, db.AutoMigrate(
        &model.FollowEdge{}, &model.Notification{}, &model.Article{}, &model.Outbox{},
        &model.Doctor{}, &model.Patient{}, &model.Admin{},
    ))

    registry := partition.NewRegistry(map[partition.Tag]partition.UserStore{
        partition.TagDoctor:  repository.NewDoctorStore(db),
        partition.TagPatient: repository.NewPatientStore(db),
        partition.TagAdmin:   repository.NewAdminStore(db),
    })
    edges := repository.NewFollowRepository(db)
    notifs := repository.NewNotificationRepository(db)
    unread := cache.NewUnreadCounter(nil, 0)
    rel := NewRelationshipService(edges, registry)

    return &testEnv{
        db:       db,
        registry: registry,
        edges:    edges,
        notifs:   notifs,
        rel:      rel,
        fanout:   NewFanoutService(rel, notifs, unread, 7*24*time.Hour),
        notifSvc: NewNotificationService(notifs, registry, unread),
        unread:   unread,
    }
}

func (e *testEnv) addDoctor(t *testing.T, id, name string) partition.UserRef {
    t.Helper()
    require.NoError(t, e.db.Create(&model.Doctor{
        ID: id, RealName: name, Email: id + "@hospital.example.com",
    }).Error)
    return partition.UserRef{ID: id, Partition: partition.TagDoctor}
}

func (e *testEnv) addPatient(t *testing.T, id, name string) partition.UserRef {
    t.Helper()
    require.NoError(t, e.db.Create(&model.Patient{
        ID: id, Nickname: name, Phone: "138" + id,
    }).Error)
    return partition.UserRef{ID: id, Partition: partition.TagPatient}
}

func (e *testEnv) addAdmin(t *testing.T, id, name string) partition.UserRef {
    t.Helper()
    require.NoError(t, e.db.Create(&model.Admin{
        ID: id, DisplayName: name, Email: id + "@example.com",
    }).Error)
    return partition.UserRef{ID: id, Partition: partition.TagAdmin}
}

func (e *testEnv) counts(t *testing.T, ref partition.UserRef) (int64, int64) {
    t.Helper()
    store, err := e.registry.Lookup(ref.Partition)
    require.NoError(t, err)
    following, follower, err := store.GetCounts(context.Background(), ref.ID)
    require.NoError(t, err)
    return following, follower
}

func TestFollowUnfollowRoundTrip(t *testing.T) {
    env := setupEnv(t)
    ctx := context.Background()
    a := env.addDoctor(t, "d1", "张三")
    b := env.addPatient(t, "p1", "李四")

    require.NoError(t, env.rel.Follow(ctx, a, b))
    ok, err := env.rel.IsFollowing(ctx, a, b)
    require.NoError(t, err)
    require.True(t, ok)

    require.NoError(t, env.rel.Unfollow(ctx, a, b))
    ok, err = env.rel.IsFollowing(ctx, a, b)
    require.NoError(t, err)
    require.False(t, ok)

    // 第三次取关：边已不存在
    err = env.rel.Unfollow(ctx, a, b)
    require.ErrorIs(t, err, ErrNotFollowing)
}

func TestDoubleFollowYieldsOneEdge(t *testing.T) {
    env := setupEnv(t)
    ctx := context.Background()
    a := env.addDoctor(t, "d1", "张三")
    b := env.addPatient(t, "p1", "李四")

    require.NoError(t, env.rel.Follow(ctx, a, b))
    err := env.rel.Follow(ctx, a, b)
    require.ErrorIs(t, err, ErrAlreadyFollowing)

    cnt, err := env.edges.CountBySide(ctx, a, repository.SideFollower)
    require.NoError(t, err)
    require.EqualValues(t, 1, cnt)

    // 重复关注不会二次加计数
    following, _ := env.counts(t, a)
    require.EqualValues(t, 1, following)
}

func TestSelfFollowRejected(t *testing.T) {
    env := setupEnv(t)
    a := env.addDoctor(t, "d1", "张三")
    err := env.rel.Follow(context.Background(), a, a)
    require.ErrorIs(t, err, ErrSelfFollow)
}

func TestFollowUnknownPartition(t *testing.T) {
    env := setupEnv(t)
    a := env.addDoctor(t, "d1", "张三")
    ghost := partition.UserRef{ID: "x", Partition: "nurse"}
    err := env.rel.Follow(context.Background(), a, ghost)
    require.ErrorIs(t, err, partition.ErrUnknownPartition)
}

func TestCountersMaintained(t *testing.T) {
    env := setupEnv(t)
    ctx := context.Background()
    a := env.addDoctor(t, "d1", "张三")
    b := env.addPatient(t, "p1", "李四")

    require.NoError(t, env.rel.Follow(ctx, a, b))
    aFollowing, aFollower := env.counts(t, a)
    require.EqualValues(t, 1, aFollowing)
    require.EqualValues(t, 0, aFollower)
    bFollowing, bFollower := env.counts(t, b)
    require.EqualValues(t, 0, bFollowing)
    require.EqualValues(t, 1, bFollower)

    require.NoError(t, env.rel.Unfollow(ctx, a, b))
    aFollowing, _ = env.counts(t, a)
    require.EqualValues(t, 0, aFollowing)
    _, bFollower = env.counts(t, b)
    require.EqualValues(t, 0, bFollower)
}

func TestCounterDecrementDoesNotGoNegative(t *testing.T) {
    env := setupEnv(t)
    ctx := context.Background()
    a := env.addDoctor(t, "d1", "张三")
    b := env.addPatient(t, "p1", "李四")
    require.NoError(t, env.rel.Follow(ctx, a, b))

    // 人为制造漂移：计数已经是 0，取关不应减成负数
    store, err := env.registry.Lookup(b.Partition)
    require.NoError(t, err)
    require.NoError(t, store.SetCounts(ctx, b.ID, 0, 0))

    require.NoError(t, env.rel.Unfollow(ctx, a, b))
    _, follower := env.counts(t, b)
    require.EqualValues(t, 0, follower)
}

func TestGetFollowersPaginationCompleteness(t *testing.T) {
    env := setupEnv(t)
    ctx := context.Background()
    u0 := env.addDoctor(t, "d0", "目标")

    // 9 个粉丝均匀散在三个分区
    var refs []partition.UserRef
    for i := 0; i < 3; i++ {
        refs = append(refs, env.addDoctor(t, fmt.Sprintf("d%d", i+1), fmt.Sprintf("doc-%d", i)))
        refs = append(refs, env.addPatient(t, fmt.Sprintf("p%d", i+1), fmt.Sprintf("pat-%d", i)))
        refs = append(refs, env.addAdmin(t, fmt.Sprintf("a%d", i+1), fmt.Sprintf("adm-%d", i)))
    }
    for _, f := range refs {
        require.NoError(t, env.rel.Follow(ctx, f, u0))
    }

    seen := make(map[partition.UserRef]int)
    var prevName string
    for page := 1; page <= 3; page++ {
        res, err := env.rel.GetFollowers(ctx, u0, partition.UserRef{}, PageOptions{Page: page, PageSize: 4})
        require.NoError(t, err)
        require.Equal(t, 9, res.Total)
        require.Equal(t, page < 3, res.HasMore)
        if page < 3 {
            require.Len(t, res.Items, 4)
        } else {
            require.Len(t, res.Items, 1)
        }
        for _, it := range res.Items {
            seen[it.User.Ref()]++
            // 全局 name 升序，跨页也单调
            require.GreaterOrEqual(t, it.User.Name, prevName)
            prevName = it.User.Name
        }
    }
    // 每个粉丝恰好出现一次
    require.Len(t, seen, 9)
    for _, n := range seen {
        require.Equal(t, 1, n)
    }
}

func TestGetFollowingNameFilter(t *testing.T) {
    env := setupEnv(t)
    ctx := context.Background()
    u0 := env.addPatient(t, "p0", "浏览者")

    targets := []partition.UserRef{
        env.addDoctor(t, "d1", "王医生"),
        env.addDoctor(t, "d2", "刘医生"),
        env.addAdmin(t, "a1", "wang-admin"),
    }
    for _, target := range targets {
        require.NoError(t, env.rel.Follow(ctx, u0, target))
    }

    // 过滤是"在边集合中"与"名称匹配"的交集，跨分区大小写不敏感
    res, err := env.rel.GetFollowing(ctx, u0, partition.UserRef{}, PageOptions{Page: 1, PageSize: 10, NameFilter: "WANG"})
    require.NoError(t, err)
    require.Equal(t, 1, res.Total)
    require.Equal(t, "wang-admin", res.Items[0].User.Name)

    res, err = env.rel.GetFollowing(ctx, u0, partition.UserRef{}, PageOptions{Page: 1, PageSize: 10, NameFilter: "医生"})
    require.NoError(t, err)
    require.Equal(t, 2, res.Total)
}

func TestGetFollowingSortByCreatedAtDesc(t *testing.T) {
    env := setupEnv(t)
    ctx := context.Background()
    u0 := env.addAdmin(t, "a0", "admin")

    base := time.Now().Add(-time.Hour)
    mk := func(id, name string, at time.Time) partition.UserRef {
        require.NoError(t, env.db.Create(&model.Doctor{
            ID: id, RealName: name, Email: id + "@hospital.example.com", CreatedAt: at,
        }).Error)
        return partition.UserRef{ID: id, Partition: partition.TagDoctor}
    }
    oldest := mk("d1", "c", base)
    mid := mk("d2", "a", base.Add(10*time.Minute))
    newest := mk("d3", "b", base.Add(20*time.Minute))
    for _, target := range []partition.UserRef{oldest, mid, newest} {
        require.NoError(t, env.rel.Follow(ctx, u0, target))
    }

    res, err := env.rel.GetFollowing(ctx, u0, partition.UserRef{}, PageOptions{
        Page: 1, PageSize: 10,
        SortField: partition.SortByCreatedAt, SortOrder: partition.OrderDesc,
    })
    require.NoError(t, err)
    require.Len(t, res.Items, 3)
    require.Equal(t, newest.ID, res.Items[0].User.ID)
    require.Equal(t, mid.ID, res.Items[1].User.ID)
    require.Equal(t, oldest.ID, res.Items[2].User.ID)
    // 关注方向每条带边 ID
    for _, it := range res.Items {
        require.NotEmpty(t, it.EdgeID)
    }
}

func TestGetFollowersViewerEnrichment(t *testing.T) {
    env := setupEnv(t)
    ctx := context.Background()
    u0 := env.addDoctor(t, "d0", "目标")
    f1 := env.addPatient(t, "p1", "fan-1")
    f2 := env.addAdmin(t, "a1", "fan-2")
    viewer := env.addDoctor(t, "d9", "viewer")

    require.NoError(t, env.rel.Follow(ctx, f1, u0))
    require.NoError(t, env.rel.Follow(ctx, f2, u0))
    // viewer 只关注了 f1
    require.NoError(t, env.rel.Follow(ctx, viewer, f1))

    res, err := env.rel.GetFollowers(ctx, u0, viewer, PageOptions{Page: 1, PageSize: 10})
    require.NoError(t, err)
    require.Len(t, res.Items, 2)
    byID := make(map[string]FollowListItem)
    for _, it := range res.Items {
        byID[it.User.ID] = it
    }
    require.True(t, byID[f1.ID].IsFollowing)
    require.False(t, byID[f2.ID].IsFollowing)
}

// failingStore 模拟分区库故障
type failingStore struct{}

func (failingStore) FindSummaries(context.Context, partition.SummaryQuery) ([]partition.UserSummary, error) {
    return nil, errors.New("store down")
}
func (failingStore) GetSummary(context.Context, string) (*partition.UserSummary, error) {
    return nil, errors.New("store down")
}
func (failingStore) AddFollowingCount(context.Context, string, int) error { return nil }
func (failingStore) AddFollowerCount(context.Context, string, int) error  { return nil }
func (failingStore) SetCounts(context.Context, string, int64, int64) error {
    return nil
}
func (failingStore) GetCounts(context.Context, string) (int64, int64, error) { return 0, 0, nil }
func (failingStore) ListIDs(context.Context, int, int) ([]string, error)     { return nil, nil }

func TestMergeFailsFastOnPartitionError(t *testing.T) {
    env := setupEnv(t)
    ctx := context.Background()

    registry := partition.NewRegistry(map[partition.Tag]partition.UserStore{
        partition.TagDoctor:  repository.NewDoctorStore(env.db),
        partition.TagPatient: failingStore{},
        partition.TagAdmin:   repository.NewAdminStore(env.db),
    })
    rel := NewRelationshipService(env.edges, registry)

    u0 := env.addDoctor(t, "d0", "目标")
    f1 := env.addDoctor(t, "d1", "doc-fan")
    f2 := env.addPatient(t, "p1", "pat-fan")
    require.NoError(t, rel.Follow(ctx, f1, u0))
    require.NoError(t, rel.Follow(ctx, f2, u0))

    // patient 分区故障：整页失败而不是悄悄截断
    _, err := rel.GetFollowers(ctx, u0, partition.UserRef{}, PageOptions{Page: 1, PageSize: 10})
    require.ErrorIs(t, err, ErrPartialFetch)
}
