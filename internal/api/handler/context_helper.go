package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/fmandres92/schoolmate-backend-sub002/internal/api/middleware"
	"github.com/fmandres92/schoolmate-backend-sub002/pkg/jwt"
	"github.com/fmandres92/schoolmate-backend-sub002/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	return mustGetString(c, middleware.ContextUserID)
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	return mustGetString(c, middleware.ContextRole)
}

// MustGetCaller 一次取出 user_id 与是否管理员
func MustGetCaller(c *gin.Context) (userID string, isAdmin bool, ok bool) {
	if userID, ok = MustGetUserID(c); !ok {
		return "", false, false
	}
	role, ok := MustGetRole(c)
	if !ok {
		return "", false, false
	}
	return userID, role == jwt.RoleAdmin, true
}

func mustGetString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}
