package controller

import (
	"skill_console/internal/access"
	"skill_console/internal/util"

	"github.com/gin-gonic/gin"
)

type AccessController struct {
	Policy *access.Policy
}

func NewAccessController(policy *access.Policy) *AccessController {
	return &AccessController{Policy: policy}
}

// Check 浏览器端切换页面前询问能否进入
func (c *AccessController) Check(ctx *gin.Context) {
	path := ctx.Query("path")
	if path == "" {
		util.BadRequest(ctx, "path is required")
		return
	}
	util.Success(ctx, c.Policy.Check(util.GetSessionFromContext(ctx), path))
}

func (c *AccessController) Navigation(ctx *gin.Context) {
	util.Success(ctx, c.Policy.Navigation(util.GetSessionFromContext(ctx)))
}
