package service

import (
    "context"
    "testing"

    "github.com/stretchr/testify/require"
)

func TestReconcilerRepairsDrift(t *testing.T) {
    env := setupEnv(t)
    ctx := context.Background()
    a := env.addDoctor(t, "d1", "张三")
    b := env.addPatient(t, "p1", "李四")
    c := env.addAdmin(t, "a1", "admin")

    require.NoError(t, env.rel.Follow(ctx, a, b))
    require.NoError(t, env.rel.Follow(ctx, a, c))
    require.NoError(t, env.rel.Follow(ctx, b, c))

    // 人为漂移：崩溃在边写入与计数增量之间会留下这种状态
    storeA, _ := env.registry.Lookup(a.Partition)
    require.NoError(t, storeA.SetCounts(ctx, a.ID, 0, 5))
    storeC, _ := env.registry.Lookup(c.Partition)
    require.NoError(t, storeC.SetCounts(ctx, c.ID, 1, 0))

    rec := NewReconciler(env.edges, env.registry, 10, 1000)
    stats, err := rec.ReconcileAll(ctx)
    require.NoError(t, err)
    require.Equal(t, 3, stats.Scanned)
    require.Equal(t, 2, stats.Repaired)

    // 对账后计数与边集合一致
    following, follower := env.counts(t, a)
    require.EqualValues(t, 2, following)
    require.EqualValues(t, 0, follower)
    following, follower = env.counts(t, b)
    require.EqualValues(t, 1, following)
    require.EqualValues(t, 1, follower)
    following, follower = env.counts(t, c)
    require.EqualValues(t, 0, following)
    require.EqualValues(t, 2, follower)
}

func TestReconcilerIdempotent(t *testing.T) {
    env := setupEnv(t)
    ctx := context.Background()
    a := env.addDoctor(t, "d1", "张三")
    b := env.addPatient(t, "p1", "李四")
    require.NoError(t, env.rel.Follow(ctx, a, b))

    rec := NewReconciler(env.edges, env.registry, 10, 1000)
    stats, err := rec.ReconcileAll(ctx)
    require.NoError(t, err)
    require.Zero(t, stats.Repaired)
}
