package controller

import (
	"skill_console/internal/service"
	"skill_console/internal/util"

	"github.com/gin-gonic/gin"
)

type SkillGapController struct {
	Gap *service.SkillGapService
}

func NewSkillGapController(gap *service.SkillGapService) *SkillGapController {
	return &SkillGapController{Gap: gap}
}

// Report 技能差距报表，查询参数原样转给后端用于过滤
func (c *SkillGapController) Report(ctx *gin.Context) {
	report, err := c.Gap.Report(ctx.Request.Context(), util.GetTokenFromContext(ctx), ctx.Request.URL.Query())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, report)
}
