package app

import (
	"skill_console/internal/access"
	"skill_console/internal/middleware"
	"skill_console/internal/model"
	"skill_console/pkg/monitoring"
	"skill_console/pkg/security"

	"github.com/gin-gonic/gin"
)

var (
	adminHR          = model.NewRoleSet(model.RoleAdmin, model.RoleHR)
	adminHRHOD       = model.NewRoleSet(model.RoleAdmin, model.RoleHR, model.RoleHOD)
	matrixViewers    = model.NewRoleSet(model.RoleAdmin, model.RoleHR, model.RoleHOD, model.RoleEmployee)
	calendarManagers = adminHR
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	api.Use(
		middleware.SessionMiddleware(a.services.auth, a.Config.Session.CookieName),
		middleware.LogoutOnUnauthorized(a.services.auth),
	)

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(api, c)

	// 2. 需要登录的路由，角色在各分组上限定
	authGroup := api.Group("")
	authGroup.Use(middleware.RequireSession())
	{
		a.registerMatrixRoutes(authGroup, c)
		a.registerMasterDataRoutes(authGroup, c)
		a.registerReportRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/health", c.health.HealthCheck)

	auth := rg.Group("/auth")
	auth.Use(security.NoStore())
	{
		auth.POST("/login", c.auth.Login)
		auth.POST("/logout", c.auth.Logout)
		auth.GET("/session", c.auth.Session)
	}

	rg.GET("/access/check", c.access.Check)
	rg.GET("/navigation", c.access.Navigation)
}

func (a *App) registerMatrixRoutes(rg *gin.RouterGroup, c *controllers) {
	matrix := rg.Group("/skill-matrix")
	{
		// 员工只能查看自己的矩阵，在控制器中校验
		own := matrix.Group("")
		own.Use(middleware.RequireRoles(a.Policy, matrixViewers))
		{
			own.GET("/me", c.matrix.User)
			own.GET("/me/print", c.matrix.UserPrint)
			own.GET("/user/:id", c.matrix.User)
			own.GET("/user/:id/print", c.matrix.UserPrint)
		}

		org := matrix.Group("/org")
		org.Use(middleware.RequireRoles(a.Policy, access.OrgMatrixRoles))
		{
			org.GET("", c.matrix.Org)
			org.GET("/print", c.matrix.OrgPrint)
			org.GET("/export", c.matrix.OrgExport)
		}
	}

	rg.GET("/skill-gap", middleware.RequireRoles(a.Policy, adminHRHOD), c.gap.Report)

	exports := rg.Group("/exports")
	exports.Use(middleware.RequireRoles(a.Policy, adminHRHOD))
	{
		exports.GET("", c.matrix.History)
		exports.GET("/files/*name", c.matrix.ExportFile)
	}
}

// registerMasterDataRoutes 读写权限按资源区分，由服务层判断
func (a *App) registerMasterDataRoutes(rg *gin.RouterGroup, c *controllers) {
	master := rg.Group("/master")
	{
		master.GET("", c.masterData.Resources)
		master.GET("/:resource", c.masterData.List)
		master.GET("/:resource/:id", c.masterData.Get)
		master.POST("/:resource", c.masterData.Create)
		master.PUT("/:resource/:id", c.masterData.Update)
		master.DELETE("/:resource/:id", c.masterData.Delete)
	}

	calendar := rg.Group("/training-calendar")
	calendar.Use(middleware.RequireRoles(a.Policy, calendarManagers))
	{
		calendar.GET("", c.imports.List)
		calendar.GET("/template", c.imports.Template)
		calendar.POST("/preview", c.imports.Preview)
		calendar.POST("/import", c.imports.Upload)
	}
}

func (a *App) registerReportRoutes(rg *gin.RouterGroup, c *controllers) {
	reports := rg.Group("")
	reports.Use(middleware.RequireRoles(a.Policy, adminHR))
	{
		reports.GET("/dashboard/summary", c.dashboard.Summary)
		reports.GET("/reports", c.dashboard.Catalog)
		reports.GET("/reports/:key/export", c.dashboard.Export)
	}
}
