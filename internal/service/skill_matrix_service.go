package service

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"skill_console/internal/config"
	"skill_console/internal/model"
	"skill_console/internal/printdoc"
	"skill_console/internal/repository"
	"skill_console/internal/scoring"
	"skill_console/internal/util"
	"skill_console/pkg/logger"
	"skill_console/pkg/monitoring"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// MatrixOptions 矩阵展示参数，配置文件变更时整体替换
type MatrixOptions struct {
	RequiredLevel  int
	ColumnsPerPage int
	PrintFriendly  bool
}

func MatrixOptionsFromConfig(cfg config.MatrixConfig) MatrixOptions {
	return MatrixOptions{
		RequiredLevel:  cfg.RequiredLevel,
		ColumnsPerPage: cfg.ColumnsPerPage,
		PrintFriendly:  cfg.PrintFriendly,
	}
}

// ExportRecorder 导出历史，未启用数据库时为 nil
type ExportRecorder interface {
	Create(record *model.ExportRecord) error
	FindRecent(kind model.ExportKind, limit int) ([]model.ExportRecord, error)
}

type SkillMatrixService struct {
	MatrixRepo *repository.SkillMatrixRepository
	Storage    *StorageService
	Exports    ExportRecorder

	mu   sync.RWMutex
	opts MatrixOptions
}

func NewSkillMatrixService(
	matrixRepo *repository.SkillMatrixRepository,
	storage *StorageService,
	exports ExportRecorder,
	cfg config.MatrixConfig,
) *SkillMatrixService {
	return &SkillMatrixService{
		MatrixRepo: matrixRepo,
		Storage:    storage,
		Exports:    exports,
		opts:       MatrixOptionsFromConfig(cfg),
	}
}

func (s *SkillMatrixService) Options() MatrixOptions {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opts
}

func (s *SkillMatrixService) SetOptions(opts MatrixOptions) {
	s.mu.Lock()
	s.opts = opts
	s.mu.Unlock()
}

// CellView 单元格加上展示用的颜色和优先级
type CellView struct {
	model.SkillLevelCell
	LevelLabel string                 `json:"levelLabel,omitempty"`
	Color      *scoring.ColorPair     `json:"color,omitempty"`
	Priority   *scoring.PriorityClass `json:"priority,omitempty"`
}

type IndividualMatrix struct {
	SubjectID     uint                  `json:"subjectId"`
	Name          string                `json:"name"`
	EmployeeCode  string                `json:"employeeCode,omitempty"`
	Department    string                `json:"department,omitempty"`
	Designation   string                `json:"designation,omitempty"`
	RequiredLevel int                   `json:"requiredLevel"`
	Cells         []CellView            `json:"cells"`
	Summary       scoring.MatrixSummary `json:"summary"`
}

type OrgRowView struct {
	model.MatrixRow
	Summary    scoring.MatrixSummary `json:"summary"`
	Completion scoring.PercentBucket `json:"completion"`
}

type OrgMatrixView struct {
	Skills        []model.Skill `json:"skills"`
	Rows          []OrgRowView  `json:"rows"`
	RequiredLevel int           `json:"requiredLevel"`
	Pages         int           `json:"pages"`
}

func newCellView(cell model.SkillLevelCell, printFriendly bool) CellView {
	view := CellView{SkillLevelCell: cell}
	if cell.Unmapped {
		return view
	}
	p := scoring.PriorityFromLevel(cell.CurrentLevel)
	view.Priority = &p
	if cell.CurrentLevel != nil {
		c := scoring.Palette(printFriendly)(*cell.CurrentLevel)
		view.Color = &c
		view.LevelLabel = scoring.LevelLabel(*cell.CurrentLevel)
	}
	return view
}

func (s *SkillMatrixService) Individual(ctx context.Context, token string, userID uint) (*IndividualMatrix, error) {
	opts := s.Options()
	row, err := s.MatrixRepo.FindByUser(ctx, token, userID)
	if err != nil {
		return nil, err
	}

	cells := make([]CellView, len(row.Cells))
	for i, cell := range row.Cells {
		cells[i] = newCellView(cell, opts.PrintFriendly)
	}
	return &IndividualMatrix{
		SubjectID:     row.SubjectID,
		Name:          row.Name,
		EmployeeCode:  row.EmployeeCode,
		Department:    row.Department,
		Designation:   row.Designation,
		RequiredLevel: opts.RequiredLevel,
		Cells:         cells,
		Summary:       scoring.ComputeCompletion(row.Cells, opts.RequiredLevel),
	}, nil
}

func (s *SkillMatrixService) Org(ctx context.Context, token string, query url.Values) (*OrgMatrixView, error) {
	opts := s.Options()
	org, err := s.MatrixRepo.FindOrg(ctx, token, query)
	if err != nil {
		return nil, err
	}

	rows := make([]OrgRowView, len(org.Rows))
	for i, row := range org.Rows {
		summary := scoring.ComputeCompletion(row.Cells, opts.RequiredLevel)
		rows[i] = OrgRowView{
			MatrixRow:  row,
			Summary:    summary,
			Completion: scoring.PercentColor(summary.CompletionPercentage),
		}
	}
	return &OrgMatrixView{
		Skills:        org.Skills,
		Rows:          rows,
		RequiredLevel: opts.RequiredLevel,
		Pages:         printdoc.PageCount(len(org.Skills), opts.ColumnsPerPage),
	}, nil
}

func generatedAt() string {
	return time.Now().Format("2006-01-02 15:04")
}

// IndividualDocument 单个员工矩阵的可打印页面
func (s *SkillMatrixService) IndividualDocument(ctx context.Context, token string, userID uint, printFriendly bool) (string, error) {
	opts := s.Options()
	row, err := s.MatrixRepo.FindByUser(ctx, token, userID)
	if err != nil {
		return "", err
	}

	summary := scoring.ComputeCompletion(row.Cells, opts.RequiredLevel)
	title := "Skill Matrix"
	if row.Name != "" {
		title = "Skill Matrix - " + row.Name
	}
	fragment := printdoc.BuildMatrixDocument(row.Cells, &summary, printdoc.Options{
		Title: title,
		Meta: []printdoc.MetaField{
			{Label: "Employee", Value: row.Name},
			{Label: "Employee Code", Value: row.EmployeeCode},
			{Label: "Department", Value: row.Department},
			{Label: "Designation", Value: row.Designation},
		},
		GeneratedAt:   generatedAt(),
		PrintFriendly: printFriendly,
		RequiredLevel: opts.RequiredLevel,
	})
	return printdoc.WrapPage(title, fragment), nil
}

// OrgDocument 组织矩阵的可打印页面及页数
func (s *SkillMatrixService) OrgDocument(ctx context.Context, token string, query url.Values, printFriendly bool) (string, int, error) {
	opts := s.Options()
	org, err := s.MatrixRepo.FindOrg(ctx, token, query)
	if err != nil {
		return "", 0, err
	}

	var meta []printdoc.MetaField
	for _, key := range []string{"department", "designation"} {
		if v := query.Get(key); v != "" {
			meta = append(meta, printdoc.MetaField{Label: strings.ToUpper(key[:1]) + key[1:], Value: v})
		}
	}
	meta = append(meta, printdoc.MetaField{Label: "Employees", Value: strconv.Itoa(len(org.Rows))})

	title := "Organization Skill Matrix"
	fragment := printdoc.BuildOrgMatrixDocument(org.Rows, org.Skills, printdoc.Options{
		Title:          title,
		Meta:           meta,
		GeneratedAt:    generatedAt(),
		PrintFriendly:  printFriendly,
		RequiredLevel:  opts.RequiredLevel,
		ColumnsPerPage: opts.ColumnsPerPage,
	})
	return printdoc.WrapPage(title, fragment), printdoc.PageCount(len(org.Skills), opts.ColumnsPerPage), nil
}

const workbookSheet = "Skill Matrix"

// OrgWorkbook 组织矩阵导出为 Excel，单元格按水平着色
func (s *SkillMatrixService) OrgWorkbook(ctx context.Context, token string, query url.Values) ([]byte, error) {
	opts := s.Options()
	org, err := s.MatrixRepo.FindOrg(ctx, token, query)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", workbookSheet); err != nil {
		return nil, err
	}

	styles, err := newWorkbookStyles(f, opts.PrintFriendly)
	if err != nil {
		return nil, err
	}

	header := []any{"#", "Employee", "Employee Code", "Department", "Designation"}
	for _, sk := range org.Skills {
		header = append(header, sk.Name)
	}
	header = append(header, "Completion %")
	if err := f.SetSheetRow(workbookSheet, "A1", &header); err != nil {
		return nil, err
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(workbookSheet, "A1", lastHeader, styles.header); err != nil {
		return nil, err
	}

	fixed := 5
	for i, row := range org.Rows {
		r := i + 2
		values := []any{i + 1, row.Name, row.EmployeeCode, row.Department, row.Designation}
		start, _ := excelize.CoordinatesToCellName(1, r)
		if err := f.SetSheetRow(workbookSheet, start, &values); err != nil {
			return nil, err
		}

		for j, sk := range org.Skills {
			cellName, _ := excelize.CoordinatesToCellName(fixed+j+1, r)
			if err := writeLevelCell(f, styles, cellName, row, sk.ID); err != nil {
				return nil, err
			}
		}

		summary := scoring.ComputeCompletion(row.Cells, opts.RequiredLevel)
		pctCell, _ := excelize.CoordinatesToCellName(fixed+len(org.Skills)+1, r)
		if err := f.SetCellValue(workbookSheet, pctCell, summary.CompletionPercentage); err != nil {
			return nil, err
		}
		bucket := scoring.PercentColor(summary.CompletionPercentage).Bucket
		if err := f.SetCellStyle(workbookSheet, pctCell, pctCell, styles.buckets[bucket]); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(workbookSheet, "B", "E", 22); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeLevelCell 未分配写 N/A，未评定写 -，其余写水平并按水平着色
func writeLevelCell(f *excelize.File, styles *workbookStyles, cellName string, row model.MatrixRow, skillID uint) error {
	cell, ok := row.CellFor(skillID)
	if !ok || cell.Unmapped {
		return f.SetCellValue(workbookSheet, cellName, "N/A")
	}
	if cell.CurrentLevel == nil {
		return f.SetCellValue(workbookSheet, cellName, "-")
	}
	level := scoring.ClampLevel(*cell.CurrentLevel)
	if err := f.SetCellValue(workbookSheet, cellName, level); err != nil {
		return err
	}
	return f.SetCellStyle(workbookSheet, cellName, cellName, styles.levels[level])
}

type workbookStyles struct {
	header  int
	levels  [scoring.MaxLevel + 1]int
	buckets map[scoring.Bucket]int
}

func fillStyle(f *excelize.File, c scoring.ColorPair) (int, error) {
	return f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{strings.TrimPrefix(c.Background, "#")}},
		Font:      &excelize.Font{Color: strings.TrimPrefix(c.Foreground, "#")},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
}

func newWorkbookStyles(f *excelize.File, printFriendly bool) (*workbookStyles, error) {
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	styles := &workbookStyles{header: header, buckets: map[scoring.Bucket]int{}}

	palette := scoring.Palette(printFriendly)
	for level := scoring.MinLevel; level <= scoring.MaxLevel; level++ {
		id, err := fillStyle(f, palette(level))
		if err != nil {
			return nil, err
		}
		styles.levels[level] = id
	}
	for _, pct := range []float64{0, 50, 75, 90, 100} {
		b := scoring.PercentColor(pct)
		id, err := fillStyle(f, b.ColorPair)
		if err != nil {
			return nil, err
		}
		styles.buckets[b.Bucket] = id
	}
	return styles, nil
}

// ArchiveRequest 需要归档的已生成文档
type ArchiveRequest struct {
	Kind        model.ExportKind
	SubjectID   string
	Session     *model.Session
	Content     []byte
	Extension   string
	ContentType string
	Pages       int
}

// Archive 把文档写入对象存储，启用数据库时记录导出历史
func (s *SkillMatrixService) Archive(ctx context.Context, req ArchiveRequest) (*model.ExportRecord, error) {
	if req.Session == nil {
		return nil, util.ErrNoSession
	}
	objectName := fmt.Sprintf("%s/%s%s", req.Kind, model.GenerateUUID(), req.Extension)
	if _, err := s.Storage.Save(ctx, objectName, req.Content, req.ContentType); err != nil {
		return nil, err
	}

	pages := req.Pages
	if pages <= 0 {
		pages = 1
	}
	record := &model.ExportRecord{
		Kind:        req.Kind,
		SubjectID:   req.SubjectID,
		RequestedBy: req.Session.Email,
		Role:        req.Session.Role,
		ObjectName:  objectName,
		URL:         s.Storage.GetURL(objectName),
		Pages:       pages,
	}
	if s.Exports != nil {
		if err := s.Exports.Create(record); err != nil {
			logger.Log.Error("Failed to record export", zap.String("object", objectName), zap.Error(err))
			return nil, err
		}
	}
	monitoring.ExportsTotal.WithLabelValues(string(req.Kind)).Inc()
	return record, nil
}

// History 最近的导出记录，未启用数据库时为空
func (s *SkillMatrixService) History(kind model.ExportKind, limit int) ([]model.ExportRecord, error) {
	if s.Exports == nil {
		return []model.ExportRecord{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.Exports.FindRecent(kind, limit)
}

func (s *SkillMatrixService) OpenExport(ctx context.Context, objectName string) (io.ReadCloser, error) {
	return s.Storage.Open(ctx, objectName)
}
