package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"skill_console/internal/access"
	"skill_console/internal/model"
	"skill_console/internal/util"
	"skill_console/pkg/logger"
	"skill_console/pkg/monitoring"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionSource 会话读取与注销，由 AuthService 实现
type SessionSource interface {
	CurrentSession(ctx context.Context, sid string) *model.Session
	Token(ctx context.Context, sid string) (string, error)
	Logout(ctx context.Context, sid string) error
}

// SessionMiddleware 根据 Cookie 加载会话和令牌；没有会话时照常放行
func SessionMiddleware(src SessionSource, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(cookieName)
		if err != nil || sid == "" {
			c.Next()
			return
		}
		c.Set(util.CtxSessionID, sid)

		ctx := c.Request.Context()
		if session := src.CurrentSession(ctx, sid); session != nil {
			if token, err := src.Token(ctx, sid); err == nil && token != "" {
				c.Set(util.CtxSession, session)
				c.Set(util.CtxToken, token)
			}
		}
		c.Next()
	}
}

func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if util.GetSessionFromContext(c) == nil {
			if isPrintRoute(c) {
				c.Redirect(http.StatusFound, "/login")
				c.Abort()
				return
			}
			util.Unauthorized(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRoles 角色不在集合内时，接口返回 403 和跳转目标，打印页面直接 302
func RequireRoles(policy *access.Policy, roles model.RoleSet) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := util.GetSessionFromContext(c)
		if access.IsRouteAllowed(session, roles) {
			c.Next()
			return
		}

		target := "/login"
		if session != nil {
			target = policy.RedirectTarget(session)
		}

		if isPrintRoute(c) {
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}
		if session == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}
		util.ErrorWithData(c, http.StatusForbidden, "Forbidden", gin.H{"redirect": target})
		c.Abort()
	}
}

func isPrintRoute(c *gin.Context) bool {
	return strings.HasSuffix(c.FullPath(), "/print")
}

// LogoutOnUnauthorized 后端对任意请求返回 401 时注销当前会话
func LogoutOnUnauthorized(src SessionSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		sid := util.GetSessionIDFromContext(c)
		if sid == "" {
			return
		}
		for _, e := range c.Errors {
			var authErr *util.AuthError
			if errors.As(e.Err, &authErr) {
				continue
			}
			if !errors.Is(e.Err, util.ErrUnauthorized) {
				continue
			}
			if err := src.Logout(c.Request.Context(), sid); err != nil {
				logger.Log.Warn("Failed to clear session after backend 401", zap.Error(err))
				return
			}
			monitoring.ForcedLogouts.Inc()
			logger.Log.Info("Session cleared after backend 401", zap.String("path", c.Request.URL.Path))
			return
		}
	}
}
