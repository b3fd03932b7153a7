package middleware

import (
    "errors"
    "strings"

    "github.com/gin-gonic/gin"
    "github.com/golang-jwt/jwt/v5"

    "github.com/d60-Lab/social-graph/internal/partition"
    "github.com/d60-Lab/social-graph/pkg/response"
)

const (
    ctxUserID        = "auth_user_id"
    ctxUserPartition = "auth_user_partition"
)

// Claims 令牌携带调用方身份：分区内 id + 分区 tag
type Claims struct {
    UserID    string `json:"user_id"`
    Partition string `json:"partition"`
    jwt.RegisteredClaims
}

// Auth 强制鉴权；令牌无效直接 401
func Auth(secret string) gin.HandlerFunc {
    return func(c *gin.Context) {
        ref, err := parseToken(c, secret)
        if err != nil {
            response.Unauthorized(c, err.Error())
            c.Abort()
            return
        }
        c.Set(ctxUserID, ref.ID)
        c.Set(ctxUserPartition, string(ref.Partition))
        c.Next()
    }
}

// OptionalAuth 带令牌则解析身份，不带也放行（用于浏览接口的关注状态渲染）
func OptionalAuth(secret string) gin.HandlerFunc {
    return func(c *gin.Context) {
        if ref, err := parseToken(c, secret); err == nil {
            c.Set(ctxUserID, ref.ID)
            c.Set(ctxUserPartition, string(ref.Partition))
        }
        c.Next()
    }
}

// CurrentUser 取当前请求的调用方引用
func CurrentUser(c *gin.Context) (partition.UserRef, bool) {
    id := c.GetString(ctxUserID)
    tag := partition.Tag(c.GetString(ctxUserPartition))
    if id == "" || !partition.KnownTag(tag) {
        return partition.UserRef{}, false
    }
    return partition.UserRef{ID: id, Partition: tag}, true
}

func parseToken(c *gin.Context, secret string) (partition.UserRef, error) {
    auth := c.GetHeader("Authorization")
    if !strings.HasPrefix(auth, "Bearer ") {
        return partition.UserRef{}, errors.New("missing bearer token")
    }
    raw := strings.TrimPrefix(auth, "Bearer ")

    var claims Claims
    token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, errors.New("unexpected signing method")
        }
        return []byte(secret), nil
    })
    if err != nil || !token.Valid {
        return partition.UserRef{}, errors.New("invalid token")
    }
    tag := partition.Tag(claims.Partition)
    if claims.UserID == "" || !partition.KnownTag(tag) {
        return partition.UserRef{}, errors.New("invalid identity claims")
    }
    return partition.UserRef{ID: claims.UserID, Partition: tag}, nil
}
