package partition

import "fmt"

// Registry 分区注册表：tag -> 用户库 的静态映射，纯查找无状态。
// 所有跨分区访问都必须经过这里按 tag 分发。
type Registry struct {
    stores map[Tag]UserStore
    order  []Tag
}

func NewRegistry(stores map[Tag]UserStore) *Registry {
    r := &Registry{stores: make(map[Tag]UserStore, len(stores))}
    for _, t := range []Tag{TagDoctor, TagPatient, TagAdmin} {
        if s, ok := stores[t]; ok {
            r.stores[t] = s
            r.order = append(r.order, t)
        }
    }
    return r
}

// Lookup 按 tag 取对应分区库；未注册返回 ErrUnknownPartition。
func (r *Registry) Lookup(tag Tag) (UserStore, error) {
    s, ok := r.stores[tag]
    if !ok {
        return nil, fmt.Errorf("%w: %q", ErrUnknownPartition, tag)
    }
    return s, nil
}

// TagOf 反向查找：库句柄 -> tag。
func (r *Registry) TagOf(store UserStore) (Tag, bool) {
    for t, s := range r.stores {
        if s == store {
            return t, true
        }
    }
    return "", false
}

// Tags 已注册分区，顺序固定。
func (r *Registry) Tags() []Tag { return r.order }

// Valid 判断 tag 是否已注册。
func (r *Registry) Valid(tag Tag) bool {
    _, ok := r.stores[tag]
    return ok
}
