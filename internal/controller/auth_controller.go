package controller

import (
	"net/http"

	"skill_console/internal/access"
	"skill_console/internal/config"
	"skill_console/internal/service"
	"skill_console/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
	Policy      *access.Policy
	Cookie      config.SessionConfig
}

func NewAuthController(authService *service.AuthService, policy *access.Policy, cookie config.SessionConfig) *AuthController {
	return &AuthController{
		AuthService: authService,
		Policy:      policy,
		Cookie:      cookie,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *AuthController) setCookie(ctx *gin.Context, sid string, maxAge int) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(c.Cookie.CookieName, sid, maxAge, "/", "", c.Cookie.Secure, true)
}

// Login godoc
// @Summary 登录控制台
// @Tags 认证
// @Accept json
// @Produce json
// @Param body body LoginRequest true "邮箱和密码"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "缺少必填字段"
// @Failure 401 {object} util.Response "凭据被拒绝"
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Invalid request body")
		return
	}

	// 每次登录都换新的会话 ID；凭据被拒绝时保留原会话
	sid := c.AuthService.NewSessionID()
	session, err := c.AuthService.Login(ctx.Request.Context(), sid, req.Email, req.Password)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	if old := util.GetSessionIDFromContext(ctx); old != "" {
		_ = c.AuthService.Logout(ctx.Request.Context(), old)
	}

	c.setCookie(ctx, sid, int(c.Cookie.TTL.Seconds()))
	util.Success(ctx, gin.H{
		"session":    session,
		"navigation": c.Policy.Navigation(session),
		"landing":    c.Policy.RedirectTarget(session),
	})
}

func (c *AuthController) Logout(ctx *gin.Context) {
	if sid := util.GetSessionIDFromContext(ctx); sid != "" {
		if err := c.AuthService.Logout(ctx.Request.Context(), sid); err != nil {
			util.LogInternalError(ctx, err)
			return
		}
	}
	c.setCookie(ctx, "", -1)
	util.Success(ctx, nil)
}

// Session 当前会话，未登录时 session 为 null
func (c *AuthController) Session(ctx *gin.Context) {
	session := util.GetSessionFromContext(ctx)
	util.Success(ctx, gin.H{
		"session":    session,
		"navigation": c.Policy.Navigation(session),
	})
}
