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

// ListNotifications 当前用户的通知流，按时间倒序，发送方信息实时充实
// @Summary 查询通知列表
// @Tags 通知
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=service.NotificationPage}
// @Security BearerAuth
// @Router /api/v1/notifications [get]
func (h *Handler) ListNotifications(c *gin.Context) {
    receiver, ok := middleware.CurrentUser(c)
    if !ok {
        response.Unauthorized(c, "login required")
        return
    }
    page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
    pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
    res, err := h.notifService.ListNotifications(c.Request.Context(), receiver, page, pageSize)
    if err != nil {
        response.InternalError(c, err)
        return
    }
    response.Success(c, res)
}

// GetUnreadCount 未读数
// @Summary 查询未读通知数
// @Tags 通知
// @Success 200 {object} response.Response{data=map[string]int64}
// @Security BearerAuth
// @Router /api/v1/notifications/unread_count [get]
func (h *Handler) GetUnreadCount(c *gin.Context) {
    receiver, ok := middleware.CurrentUser(c)
    if !ok {
        response.Unauthorized(c, "login required")
        return
    }
    n, err := h.notifService.GetUnreadCount(c.Request.Context(), receiver)
    if err != nil {
        response.InternalError(c, err)
        return
    }
    response.Success(c, gin.H{"unread": n})
}

type markReadRequest struct {
    // NotificationID 为空表示全部标记已读
    NotificationID string `json:"notification_id"`
}

// MarkAsRead 标记已读（单条或全部）
// @Summary 标记通知已读
// @Tags 通知
// @Accept json
// @Produce json
// @Param request body markReadRequest false "通知ID，缺省全部"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Security BearerAuth
// @Router /api/v1/notifications/read [post]
func (h *Handler) MarkAsRead(c *gin.Context) {
    receiver, ok := middleware.CurrentUser(c)
    if !ok {
        response.Unauthorized(c, "login required")
        return
    }
    var req markReadRequest
    if c.Request.ContentLength > 0 {
        if err := c.ShouldBindJSON(&req); err != nil {
            response.BadRequest(c, err.Error())
            return
        }
    }
    if err := h.notifService.MarkAsRead(c.Request.Context(), receiver, req.NotificationID); err != nil {
        if errors.Is(err, service.ErrUnauthorized) {
            response.Forbidden(c, err.Error())
            return
        }
        response.InternalError(c, err)
        return
    }
    response.Success(c, nil)
}

type notifyRequest struct {
    AuthorID        string `json:"author_id" binding:"required"`
    AuthorPartition string `json:"author_partition" binding:"required,partition"`
    Type            string `json:"type" binding:"required"`
    ContentRef      string `json:"content_ref" binding:"required"`
    Title           string `json:"title"`
}

// NotifyFollowers 内容发布后的同步扇出入口（由发布流程调用）
// @Summary 向作者粉丝扇出通知
// @Tags 通知
// @Accept json
// @Produce json
// @Param request body notifyRequest true "发布事件"
// @Success 200 {object} response.Response{data=map[string]int}
// @Failure 400 {object} response.Response
// @Router /api/v1/notifications/fanout [post]
func (h *Handler) NotifyFollowers(c *gin.Context) {
    var req notifyRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        response.BadRequest(c, err.Error())
        return
    }
    author := partition.UserRef{ID: req.AuthorID, Partition: partition.Tag(req.AuthorPartition)}
    count, err := h.fanout.NotifyFollowers(c.Request.Context(), author, req.Type, req.ContentRef, req.Title)
    if err != nil {
        response.InternalError(c, err)
        return
    }
    response.Success(c, gin.H{"materialized": count})
}

type publishRequest struct {
    Kind    string `json:"kind" binding:"required,oneof=case article"`
    Title   string `json:"title" binding:"required"`
    Payload string `json:"payload"`
}

// PublishArticle 发布内容：事务内落内容 + outbox，通知由 worker 异步扇出
// @Summary 发布病例/文章
// @Tags 内容
// @Accept json
// @Produce json
// @Param request body publishRequest true "内容"
// @Success 200 {object} response.Response{data=map[string]string}
// @Security BearerAuth
// @Router /api/v1/articles [post]
func (h *Handler) PublishArticle(c *gin.Context) {
    author, ok := middleware.CurrentUser(c)
    if !ok {
        response.Unauthorized(c, "login required")
        return
    }
    var req publishRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        response.BadRequest(c, err.Error())
        return
    }
    id, err := h.publisher.Publish(c.Request.Context(), author, req.Kind, req.Title, req.Payload)
    if err != nil {
        response.InternalError(c, err)
        return
    }
    response.Success(c, gin.H{"article_id": id})
}
