package controller

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"skill_console/internal/model"
	"skill_console/internal/service"
	"skill_console/internal/util"
	"skill_console/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SkillMatrixController struct {
	Matrix *service.SkillMatrixService
}

func NewSkillMatrixController(matrix *service.SkillMatrixService) *SkillMatrixController {
	return &SkillMatrixController{Matrix: matrix}
}

// subjectID 员工只能查看自己的矩阵
func (c *SkillMatrixController) subjectID(ctx *gin.Context) (uint, bool) {
	session := util.GetSessionFromContext(ctx)
	raw := ctx.Param("id")
	if raw == "" || raw == "me" {
		raw = session.SubjectID
	}
	id := util.MustParseUint(raw)
	if id == 0 {
		util.BadRequest(ctx, "Invalid user id")
		return 0, false
	}
	if session.HasRole(model.RoleEmployee) && strconv.FormatUint(uint64(id), 10) != session.SubjectID {
		util.HandleError(ctx, util.ErrPermissionDenied)
		return 0, false
	}
	return id, true
}

func (c *SkillMatrixController) printFriendly(ctx *gin.Context) bool {
	if v, err := strconv.ParseBool(ctx.Query("printFriendly")); err == nil {
		return v
	}
	return c.Matrix.Options().PrintFriendly
}

func wantsArchive(ctx *gin.Context) bool {
	v, _ := strconv.ParseBool(ctx.Query("archive"))
	return v
}

// User godoc
// @Summary 单个员工的技能矩阵
// @Tags 技能矩阵
// @Produce json
// @Param id path string true "员工 ID，me 表示当前用户"
// @Success 200 {object} util.Response
// @Router /api/skill-matrix/user/{id} [get]
func (c *SkillMatrixController) User(ctx *gin.Context) {
	id, ok := c.subjectID(ctx)
	if !ok {
		return
	}
	matrix, err := c.Matrix.Individual(ctx.Request.Context(), util.GetTokenFromContext(ctx), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, matrix)
}

func (c *SkillMatrixController) UserPrint(ctx *gin.Context) {
	id, ok := c.subjectID(ctx)
	if !ok {
		return
	}
	page, err := c.Matrix.IndividualDocument(ctx.Request.Context(), util.GetTokenFromContext(ctx), id, c.printFriendly(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	if wantsArchive(ctx) {
		c.archive(ctx, service.ArchiveRequest{
			Kind:        model.ExportIndividualMatrix,
			SubjectID:   strconv.FormatUint(uint64(id), 10),
			Content:     []byte(page),
			Extension:   ".html",
			ContentType: util.MimeHTML,
		})
	}
	ctx.Data(http.StatusOK, util.MimeHTML, []byte(page))
}

func (c *SkillMatrixController) Org(ctx *gin.Context) {
	view, err := c.Matrix.Org(ctx.Request.Context(), util.GetTokenFromContext(ctx), ctx.Request.URL.Query())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// OrgPrint 分页打印版，页数放在 X-Print-Pages 头里
func (c *SkillMatrixController) OrgPrint(ctx *gin.Context) {
	query := ctx.Request.URL.Query()
	page, pages, err := c.Matrix.OrgDocument(ctx.Request.Context(), util.GetTokenFromContext(ctx), query, c.printFriendly(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	if wantsArchive(ctx) {
		c.archive(ctx, service.ArchiveRequest{
			Kind:        model.ExportOrgMatrix,
			Content:     []byte(page),
			Extension:   ".html",
			ContentType: util.MimeHTML,
			Pages:       pages,
		})
	}
	ctx.Header("X-Print-Pages", strconv.Itoa(pages))
	ctx.Data(http.StatusOK, util.MimeHTML, []byte(page))
}

func (c *SkillMatrixController) OrgExport(ctx *gin.Context) {
	content, err := c.Matrix.OrgWorkbook(ctx.Request.Context(), util.GetTokenFromContext(ctx), ctx.Request.URL.Query())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	if wantsArchive(ctx) {
		c.archive(ctx, service.ArchiveRequest{
			Kind:        model.ExportOrgWorkbook,
			Content:     content,
			Extension:   ".xlsx",
			ContentType: util.MimeXLSX,
		})
	}
	filename := fmt.Sprintf("skill-matrix-%s.xlsx", time.Now().Format(util.DateFormat))
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	ctx.Data(http.StatusOK, util.MimeXLSX, content)
}

// archive 归档失败不影响本次下载，只记录日志
func (c *SkillMatrixController) archive(ctx *gin.Context, req service.ArchiveRequest) {
	req.Session = util.GetSessionFromContext(ctx)
	record, err := c.Matrix.Archive(ctx.Request.Context(), req)
	if err != nil {
		logger.Log.Error("Failed to archive export", zap.String("kind", string(req.Kind)), zap.Error(err))
		return
	}
	ctx.Header("X-Export-URL", record.URL)
}

func (c *SkillMatrixController) History(ctx *gin.Context) {
	limit := util.QueryInt(ctx.Query("limit"), 0)
	records, err := c.Matrix.History(model.ExportKind(ctx.Query("kind")), limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, records)
}

// ExportFile 下载归档文件
func (c *SkillMatrixController) ExportFile(ctx *gin.Context) {
	name := strings.TrimPrefix(ctx.Param("name"), "/")
	if name == "" || strings.Contains(name, "..") {
		util.BadRequest(ctx, "Invalid file name")
		return
	}

	reader, err := c.Matrix.OpenExport(ctx.Request.Context(), name)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	defer reader.Close()

	contentType := "application/octet-stream"
	switch {
	case strings.HasSuffix(name, ".html"):
		contentType = util.MimeHTML
	case strings.HasSuffix(name, ".xlsx"):
		contentType = util.MimeXLSX
		ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name[strings.LastIndex(name, "/")+1:]))
	}
	ctx.DataFromReader(http.StatusOK, -1, contentType, reader, nil)
}
