package controller

import (
	"net/http"

	"skill_console/internal/service"
	"skill_console/internal/util"

	"github.com/gin-gonic/gin"
)

// DashboardController 仪表盘统计和报表下载
type DashboardController struct {
	Reports *service.ReportService
}

func NewDashboardController(reports *service.ReportService) *DashboardController {
	return &DashboardController{Reports: reports}
}

// Summary godoc
// @Summary 仪表盘统计
// @Tags 报表
// @Produce json
// @Success 200 {object} util.Response{data=model.ReportSummary}
// @Router /api/dashboard/summary [get]
func (c *DashboardController) Summary(ctx *gin.Context) {
	summary, err := c.Reports.Summary(ctx.Request.Context(), util.GetTokenFromContext(ctx), ctx.Request.URL.Query())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}

func (c *DashboardController) Catalog(ctx *gin.Context) {
	entries, err := c.Reports.Catalog(ctx.Request.Context(), util.GetTokenFromContext(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}

// Export 透传后端生成的报表文件
func (c *DashboardController) Export(ctx *gin.Context) {
	resp, err := c.Reports.Export(ctx.Request.Context(), util.GetTokenFromContext(ctx), ctx.Param("key"), ctx.Request.URL.Query())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	extra := map[string]string{}
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		extra["Content-Disposition"] = cd
	}
	ctx.DataFromReader(http.StatusOK, resp.ContentLength, contentType, resp.Body, extra)
}
