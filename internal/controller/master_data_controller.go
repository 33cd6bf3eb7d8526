package controller

import (
	"skill_console/internal/model"
	"skill_console/internal/service"
	"skill_console/internal/util"

	"github.com/gin-gonic/gin"
)

// MasterDataController 用户、部门、岗位、技能、培训等主数据
type MasterDataController struct {
	Master *service.MasterDataService
}

func NewMasterDataController(master *service.MasterDataService) *MasterDataController {
	return &MasterDataController{Master: master}
}

func (c *MasterDataController) Resources(ctx *gin.Context) {
	util.Success(ctx, c.Master.Resources(util.GetSessionFromContext(ctx)))
}

func (c *MasterDataController) List(ctx *gin.Context) {
	items, err := c.Master.List(ctx.Request.Context(), util.GetSessionFromContext(ctx), util.GetTokenFromContext(ctx),
		ctx.Param("resource"), ctx.Request.URL.Query())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, items)
}

func (c *MasterDataController) Get(ctx *gin.Context) {
	item, err := c.Master.Get(ctx.Request.Context(), util.GetSessionFromContext(ctx), util.GetTokenFromContext(ctx),
		ctx.Param("resource"), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, item)
}

func (c *MasterDataController) Create(ctx *gin.Context) {
	var payload model.Raw
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		util.BadRequest(ctx, "Invalid request body")
		return
	}
	item, err := c.Master.Create(ctx.Request.Context(), util.GetSessionFromContext(ctx), util.GetTokenFromContext(ctx),
		ctx.Param("resource"), payload)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, item)
}

func (c *MasterDataController) Update(ctx *gin.Context) {
	var payload model.Raw
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		util.BadRequest(ctx, "Invalid request body")
		return
	}
	item, err := c.Master.Update(ctx.Request.Context(), util.GetSessionFromContext(ctx), util.GetTokenFromContext(ctx),
		ctx.Param("resource"), ctx.Param("id"), payload)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, item)
}

func (c *MasterDataController) Delete(ctx *gin.Context) {
	err := c.Master.Delete(ctx.Request.Context(), util.GetSessionFromContext(ctx), util.GetTokenFromContext(ctx),
		ctx.Param("resource"), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
