package handler

import (
    "github.com/d60-Lab/social-graph/internal/service"
)

// Handler 聚合全部 HTTP 处理器依赖
type Handler struct {
    relService   service.RelationshipService
    notifService service.NotificationService
    fanout       *service.FanoutService
    publisher    *service.Publisher
}

func New(rel service.RelationshipService, notif service.NotificationService, fanout *service.FanoutService, publisher *service.Publisher) *Handler {
    return &Handler{relService: rel, notifService: notif, fanout: fanout, publisher: publisher}
}
