package handler

import (
    "errors"
    "strconv"

    "github.com/gin-gonic/gin"

    "github.com/d60-Lab/social-graph/internal/partition"
    "github.com/d60-Lab/social-graph/internal/service"
    "github.com/d60-Lab/social-graph/pkg/middleware"
    "github.com/d60-Lab/social-graph/pkg/response"
)

type followRequest struct {
    FollowerID         string `json:"follower_id" binding:"required"`
    FollowerPartition  string `json:"follower_partition" binding:"required,partition"`
    FollowingID        string `json:"following_id" binding:"required"`
    FollowingPartition string `json:"following_partition" binding:"required,partition"`
}

func (r *followRequest) refs() (follower, following partition.UserRef) {
    follower = partition.UserRef{ID: r.FollowerID, Partition: partition.Tag(r.FollowerPartition)}
    following = partition.UserRef{ID: r.FollowingID, Partition: partition.Tag(r.FollowingPartition)}
    return
}

// Follow 建立关注
// @Summary 关注用户（跨分区）
// @Tags 关系链
// @Accept json
// @Produce json
// @Param request body followRequest true "关注信息"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/relations/follow [post]
func (h *Handler) Follow(c *gin.Context) {
    var req followRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        response.BadRequest(c, err.Error())
        return
    }
    follower, following := req.refs()
    if err := h.relService.Follow(c.Request.Context(), follower, following); err != nil {
        switch {
        case errors.Is(err, service.ErrAlreadyFollowing):
            response.Conflict(c, err.Error())
        case errors.Is(err, service.ErrSelfFollow), errors.Is(err, partition.ErrUnknownPartition):
            response.BadRequest(c, err.Error())
        default:
            response.InternalError(c, err)
        }
        return
    }
    response.Success(c, nil)
}

// Unfollow 取消关注
// @Summary 取消关注
// @Tags 关系链
// @Accept json
// @Produce json
// @Param request body followRequest true "取消关注信息"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/relations/unfollow [post]
func (h *Handler) Unfollow(c *gin.Context) {
    var req followRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        response.BadRequest(c, err.Error())
        return
    }
    follower, following := req.refs()
    if err := h.relService.Unfollow(c.Request.Context(), follower, following); err != nil {
        switch {
        case errors.Is(err, service.ErrNotFollowing):
            response.Conflict(c, err.Error())
        case errors.Is(err, partition.ErrUnknownPartition):
            response.BadRequest(c, err.Error())
        default:
            response.InternalError(c, err)
        }
        return
    }
    response.Success(c, nil)
}

// IsFollowing 关注关系存在性
// @Summary 查询是否已关注
// @Tags 关系链
// @Param follower_id query string true "follower ID"
// @Param follower_partition query string true "follower 分区"
// @Param following_id query string true "following ID"
// @Param following_partition query string true "following 分区"
// @Success 200 {object} response.Response{data=map[string]bool}
// @Router /api/v1/relations/check [get]
func (h *Handler) IsFollowing(c *gin.Context) {
    follower := partition.UserRef{ID: c.Query("follower_id"), Partition: partition.Tag(c.Query("follower_partition"))}
    following := partition.UserRef{ID: c.Query("following_id"), Partition: partition.Tag(c.Query("following_partition"))}
    if follower.ID == "" || following.ID == "" {
        response.BadRequest(c, "follower_id and following_id are required")
        return
    }
    ok, err := h.relService.IsFollowing(c.Request.Context(), follower, following)
    if err != nil {
        response.InternalError(c, err)
        return
    }
    response.Success(c, gin.H{"is_following": ok})
}

// ListFollowing 查询某用户关注的人（跨分区合并分页）
// @Summary 查询关注列表
// @Tags 关系链
// @Param partition path string true "用户分区"
// @Param user_id path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Param name query string false "名称子串过滤"
// @Param sort_by query string false "排序字段 name/created_at" default(name)
// @Param order query string false "排序方向 asc/desc" default(asc)
// @Success 200 {object} response.Response{data=service.UserPage}
// @Router /api/v1/relations/{partition}/{user_id}/following [get]
func (h *Handler) ListFollowing(c *gin.Context) {
    h.listSide(c, true)
}

// ListFollowers 查询某用户的粉丝（跨分区合并分页）
// @Summary 查询粉丝列表
// @Tags 关系链
// @Param partition path string true "用户分区"
// @Param user_id path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Param name query string false "名称子串过滤"
// @Param sort_by query string false "排序字段 name/created_at" default(name)
// @Param order query string false "排序方向 asc/desc" default(asc)
// @Success 200 {object} response.Response{data=service.UserPage}
// @Router /api/v1/relations/{partition}/{user_id}/followers [get]
func (h *Handler) ListFollowers(c *gin.Context) {
    h.listSide(c, false)
}

func (h *Handler) listSide(c *gin.Context, following bool) {
    tag := partition.Tag(c.Param("partition"))
    if !partition.KnownTag(tag) {
        response.BadRequest(c, "unknown partition")
        return
    }
    user := partition.UserRef{ID: c.Param("user_id"), Partition: tag}

    page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
    pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
    opts := service.PageOptions{
        Page:       page,
        PageSize:   pageSize,
        NameFilter: c.Query("name"),
        SortField:  partition.SortField(c.DefaultQuery("sort_by", "name")),
        SortOrder:  partition.SortOrder(c.DefaultQuery("order", "asc")),
    }

    // 浏览者身份来自令牌，用于渲染关注/取关按钮状态
    viewer, _ := middleware.CurrentUser(c)

    var (
        res *service.UserPage
        err error
    )
    if following {
        res, err = h.relService.GetFollowing(c.Request.Context(), user, viewer, opts)
    } else {
        res, err = h.relService.GetFollowers(c.Request.Context(), user, viewer, opts)
    }
    if err != nil {
        // 分区读取失败整页失败，不吐残缺列表
        response.InternalError(c, err)
        return
    }
    response.Success(c, res)
}
