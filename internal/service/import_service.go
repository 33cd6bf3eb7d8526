package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"skill_console/internal/model"
	"skill_console/internal/repository"
	"skill_console/internal/util"

	"github.com/xuri/excelize/v2"
)

// CalendarTemplateHeaders 年度培训计划模板的列
var CalendarTemplateHeaders = []string{
	"Training Name", "Skill", "Month", "Start Date", "End Date", "Trainer", "Mode", "Department", "Remarks",
}

var requiredCalendarColumns = []string{"training name", "month"}

const previewSampleRows = 10

type CalendarPreview struct {
	Headers        []string               `json:"headers"`
	MissingColumns []string               `json:"missingColumns"`
	TotalRows      int                    `json:"totalRows"`
	Sample         [][]string             `json:"sample"`
	Issues         []model.ImportRowError `json:"issues"`
	Valid          bool                   `json:"valid"`
}

type ImportService struct {
	CalendarRepo *repository.CalendarRepository
}

func NewImportService(calendarRepo *repository.CalendarRepository) *ImportService {
	return &ImportService{CalendarRepo: calendarRepo}
}

// Template 带一行示例的 CSV 模板
func (s *ImportService) Template() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(CalendarTemplateHeaders); err != nil {
		return nil, err
	}
	example := []string{"Safety Induction", "Workplace Safety", "January", "2025-01-15", "2025-01-16", "Jane Doe", "Classroom", "Operations", ""}
	if err := w.Write(example); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *ImportService) List(ctx context.Context, token string, query url.Values) ([]model.Raw, error) {
	return s.CalendarRepo.List(ctx, token, query)
}

// Preview 解析表头并逐行检查必填列，缺少必填列时返回 ValidationError
func (s *ImportService) Preview(filename string, content []byte) (*CalendarPreview, error) {
	mimeType, err := util.ValidateImportFile(filename, bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	rows, err := readRows(mimeType, content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrUnsupportedImportFile, err)
	}
	return buildPreview(rows)
}

// Import 预检通过后以 multipart 转发给后端，结果原样返回
func (s *ImportService) Import(ctx context.Context, token, filename string, content []byte, year string) (*model.ImportResult, error) {
	if year != "" {
		if _, err := strconv.Atoi(year); err != nil {
			return nil, util.NewValidationError("year")
		}
	}
	if _, err := s.Preview(filename, content); err != nil {
		return nil, err
	}
	result, err := s.CalendarRepo.Import(ctx, token, filename, content, year)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func readRows(mimeType string, content []byte) ([][]string, error) {
	if mimeType == util.MimeXLSX {
		f, err := excelize.OpenReader(bytes.NewReader(content))
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()

		sheetName := f.GetSheetName(0)
		if sheetName == "" {
			return nil, fmt.Errorf("no worksheet found")
		}
		return f.GetRows(sheetName)
	}

	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, record)
	}
	return rows, nil
}

func normalizeHeader(header string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header, "\ufeff")))
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func buildPreview(rows [][]string) (*CalendarPreview, error) {
	preview := &CalendarPreview{
		Headers:        []string{},
		MissingColumns: []string{},
		Sample:         [][]string{},
		Issues:         []model.ImportRowError{},
	}

	headerIndex := map[string]int{}
	if len(rows) > 0 {
		for i, header := range rows[0] {
			preview.Headers = append(preview.Headers, strings.TrimSpace(strings.TrimPrefix(header, "\ufeff")))
			if _, dup := headerIndex[normalizeHeader(header)]; !dup {
				headerIndex[normalizeHeader(header)] = i
			}
		}
	}
	for _, col := range requiredCalendarColumns {
		if _, ok := headerIndex[col]; !ok {
			preview.MissingColumns = append(preview.MissingColumns, col)
		}
	}
	if len(preview.MissingColumns) > 0 {
		return preview, util.NewValidationError(preview.MissingColumns...)
	}

	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		line := i + 2
		preview.TotalRows++
		if len(preview.Sample) < previewSampleRows {
			preview.Sample = append(preview.Sample, row)
		}

		if cellValue(row, headerIndex["training name"]) == "" {
			preview.Issues = append(preview.Issues, model.ImportRowError{Row: line, Message: "Training Name is required"})
		}
		month := cellValue(row, headerIndex["month"])
		if month == "" {
			preview.Issues = append(preview.Issues, model.ImportRowError{Row: line, Message: "Month is required"})
		} else if _, ok := ParseMonth(month); !ok {
			preview.Issues = append(preview.Issues, model.ImportRowError{Row: line, Message: fmt.Sprintf("Invalid month %q", month)})
		}
	}
	preview.Valid = len(preview.Issues) == 0
	return preview, nil
}

// ParseMonth 接受 1-12、英文全称或三字母缩写
func ParseMonth(s string) (time.Month, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 1 && n <= 12 {
			return time.Month(n), true
		}
		return 0, false
	}
	lower := strings.ToLower(s)
	for m := time.January; m <= time.December; m++ {
		name := strings.ToLower(m.String())
		if lower == name || lower == name[:3] {
			return m, true
		}
	}
	return 0, false
}
