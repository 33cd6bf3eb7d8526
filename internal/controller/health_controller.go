package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"skill_console/internal/repository"
	"skill_console/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// HealthController 数据库和 Redis 为可选组件，未启用时不检查
type HealthController struct {
	Client *repository.APIClient
	DB     *gorm.DB
	Redis  *redis.Client
}

func NewHealthController(client *repository.APIClient, db *gorm.DB, rdb *redis.Client) *HealthController {
	return &HealthController{Client: client, DB: db, Redis: rdb}
}

// @Summary 健康检查
// @Description 检查后端 API、数据库和 Redis 状态
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	components := gin.H{}
	healthy := true

	// 后端返回任何 HTTP 响应都说明可达
	_, err := c.Client.Get(checkCtx, "/health", "", nil)
	var reqErr *util.RequestError
	if err == nil || errors.As(err, &reqErr) {
		components["backend"] = "up"
	} else {
		components["backend"] = "down"
		healthy = false
	}

	if c.DB != nil {
		components["database"] = "up"
		sqlDB, err := c.DB.DB()
		if err != nil || sqlDB.PingContext(checkCtx) != nil {
			components["database"] = "down"
			healthy = false
		}
	}

	if c.Redis != nil {
		components["redis"] = "up"
		if err := c.Redis.Ping(checkCtx).Err(); err != nil {
			components["redis"] = "down"
			healthy = false
		}
	}

	if !healthy {
		util.ErrorWithData(ctx, http.StatusServiceUnavailable, "Service degraded", gin.H{
			"status":     "degraded",
			"components": components,
		})
		return
	}
	util.Success(ctx, gin.H{
		"status":     "ok",
		"components": components,
	})
}
