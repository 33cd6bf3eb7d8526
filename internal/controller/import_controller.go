package controller

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"skill_console/internal/service"
	"skill_console/internal/util"

	"github.com/gin-gonic/gin"
)

const maxImportSize = 10 << 20

// ImportController 年度培训计划的模板、预检和导入
type ImportController struct {
	Import *service.ImportService
}

func NewImportController(importService *service.ImportService) *ImportController {
	return &ImportController{Import: importService}
}

func (c *ImportController) Template(ctx *gin.Context) {
	content, err := c.Import.Template()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	ctx.Header("Content-Disposition", `attachment; filename="training-calendar-template.csv"`)
	ctx.Data(http.StatusOK, util.MimeCSV, content)
}

func (c *ImportController) List(ctx *gin.Context) {
	items, err := c.Import.List(ctx.Request.Context(), util.GetTokenFromContext(ctx), ctx.Request.URL.Query())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, items)
}

func readUpload(ctx *gin.Context) (string, []byte, bool) {
	fh, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return "", nil, false
	}
	if fh.Size > maxImportSize {
		util.BadRequest(ctx, fmt.Sprintf("file exceeds %d MB", maxImportSize>>20))
		return "", nil, false
	}
	f, err := fh.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return "", nil, false
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, maxImportSize))
	if err != nil {
		util.LogInternalError(ctx, err)
		return "", nil, false
	}
	return fh.Filename, content, true
}

// Preview 缺少必填列时返回 400，并附带解析出的表头
func (c *ImportController) Preview(ctx *gin.Context) {
	filename, content, ok := readUpload(ctx)
	if !ok {
		return
	}
	preview, err := c.Import.Preview(filename, content)
	if err != nil {
		var validationErr *util.ValidationError
		if errors.As(err, &validationErr) && preview != nil {
			util.ErrorWithData(ctx, http.StatusBadRequest, "Missing required columns", preview)
			return
		}
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, preview)
}

// Upload 后端的导入结果原样返回，包括逐行错误
func (c *ImportController) Upload(ctx *gin.Context) {
	filename, content, ok := readUpload(ctx)
	if !ok {
		return
	}
	result, err := c.Import.Import(ctx.Request.Context(), util.GetTokenFromContext(ctx), filename, content, ctx.PostForm("year"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
