package partition

import (
    "context"
    "testing"

    "github.com/stretchr/testify/require"
)

type stubStore struct{ tag Tag }

func (stubStore) FindSummaries(context.Context, SummaryQuery) ([]UserSummary, error) {
    return nil, nil
}
func (stubStore) GetSummary(context.Context, string) (*UserSummary, error)  { return nil, nil }
func (stubStore) AddFollowingCount(context.Context, string, int) error      { return nil }
func (stubStore) AddFollowerCount(context.Context, string, int) error       { return nil }
func (stubStore) SetCounts(context.Context, string, int64, int64) error     { return nil }
func (stubStore) GetCounts(context.Context, string) (int64, int64, error)   { return 0, 0, nil }
func (stubStore) ListIDs(context.Context, int, int) ([]string, error)       { return nil, nil }

func TestRegistryLookup(t *testing.T) {
    doctor := stubStore{tag: TagDoctor}
    patient := stubStore{tag: TagPatient}
    r := NewRegistry(map[Tag]UserStore{
        TagDoctor:  doctor,
        TagPatient: patient,
    })

    s, err := r.Lookup(TagDoctor)
    require.NoError(t, err)
    require.Equal(t, doctor, s)

    _, err = r.Lookup("nurse")
    require.ErrorIs(t, err, ErrUnknownPartition)
    // 未注册的已知 tag 同样查不到
    _, err = r.Lookup(TagAdmin)
    require.ErrorIs(t, err, ErrUnknownPartition)

    require.Equal(t, []Tag{TagDoctor, TagPatient}, r.Tags())
    require.True(t, r.Valid(TagPatient))
    require.False(t, r.Valid(TagAdmin))

    tag, ok := r.TagOf(patient)
    require.True(t, ok)
    require.Equal(t, TagPatient, tag)
}

func TestUserRefEquality(t *testing.T) {
    a := UserRef{ID: "u1", Partition: TagDoctor}
    b := UserRef{ID: "u1", Partition: TagPatient}
    // 相同 id 不同分区不是同一个实体
    require.False(t, a.Equal(b))
    require.True(t, a.Equal(UserRef{ID: "u1", Partition: TagDoctor}))
}

func TestKnownTag(t *testing.T) {
    require.True(t, KnownTag(TagDoctor))
    require.True(t, KnownTag(TagPatient))
    require.True(t, KnownTag(TagAdmin))
    require.False(t, KnownTag("nurse"))
    require.False(t, KnownTag(""))
}
