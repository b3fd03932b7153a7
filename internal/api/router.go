package api

import (
    sentrygin "github.com/getsentry/sentry-go/gin"
    "github.com/gin-contrib/gzip"
    "github.com/gin-gonic/gin"
    swaggerFiles "github.com/swaggo/files"
    ginSwagger "github.com/swaggo/gin-swagger"
    "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

    "github.com/d60-Lab/social-graph/config"
    "github.com/d60-Lab/social-graph/internal/api/handler"
    "github.com/d60-Lab/social-graph/pkg/middleware"
)

// NewRouter 组装路由与中间件
func NewRouter(cfg *config.Config, h *handler.Handler) *gin.Engine {
    if cfg.Server.Mode == "release" {
        gin.SetMode(gin.ReleaseMode)
    }
    RegisterValidators()

    r := gin.New()
    r.Use(gin.Recovery())
    r.Use(gzip.Gzip(gzip.DefaultCompression))
    r.Use(otelgin.Middleware("social-graph"))
    if cfg.Sentry.DSN != "" {
        r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
    }

    r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
    r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

    v1 := r.Group("/api/v1")

    rel := v1.Group("/relations")
    rel.Use(middleware.OptionalAuth(cfg.JWT.Secret))
    {
        rel.POST("/follow", h.Follow)
        rel.POST("/unfollow", h.Unfollow)
        rel.GET("/check", h.IsFollowing)
        rel.GET("/:partition/:user_id/following", h.ListFollowing)
        rel.GET("/:partition/:user_id/followers", h.ListFollowers)
    }

    notif := v1.Group("/notifications")
    {
        // 扇出入口给发布流程内部调用，不要求用户令牌
        notif.POST("/fanout", h.NotifyFollowers)

        authed := notif.Group("")
        authed.Use(middleware.Auth(cfg.JWT.Secret))
        {
            authed.GET("", h.ListNotifications)
            authed.GET("/unread_count", h.GetUnreadCount)
            authed.POST("/read", h.MarkAsRead)
        }
    }

    articles := v1.Group("/articles")
    articles.Use(middleware.Auth(cfg.JWT.Secret))
    {
        articles.POST("", h.PublishArticle)
    }

    return r
}
