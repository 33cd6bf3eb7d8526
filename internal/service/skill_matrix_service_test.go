package service

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"skill_console/internal/config"
	"skill_console/internal/model"
	"skill_console/internal/repository"
	"skill_console/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const orgFixture = `{"data":{
	"skills":[{"id":1,"name":"Go"},{"id":2,"name":"SQL"},{"id":3,"name":"Docker"}],
	"rows":[
		{"userId":10,"name":"Al","employeeCode":"E10","department":{"name":"Ops"},"cells":[
			{"skillId":1,"currentLevel":4},
			{"skillId":2,"currentLevel":2},
			{"skillId":3,"isMapped":false}
		]},
		{"userId":11,"name":"Bea","cells":[
			{"skillId":1,"currentLevel":null},
			{"skillId":2,"currentLevel":1}
		]}
	]
}}`

type fakeRecorder struct {
	records []model.ExportRecord
	limit   int
}

func (f *fakeRecorder) Create(record *model.ExportRecord) error {
	record.ID = uint(len(f.records) + 1)
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeRecorder) FindRecent(kind model.ExportKind, limit int) ([]model.ExportRecord, error) {
	f.limit = limit
	return f.records, nil
}

func newMatrixService(t *testing.T, exports ExportRecorder) *SkillMatrixService {
	t.Helper()
	client := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/skill-matrix/org":
			w.Write([]byte(orgFixture))
		case "/skill-matrix/user/7":
			w.Write([]byte(`{"data":{"name":"Cy","designation":"Fitter","skills":[
				{"skillId":1,"skillName":"Go","currentLevel":3},
				{"skillId":2,"skillName":"SQL","currentLevel":null},
				{"skillId":3,"skillName":"Docker","isMapped":false}
			]}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	cfg := &config.Config{Storage: config.StorageConfig{Type: "local", LocalPath: t.TempDir()}}
	return NewSkillMatrixService(
		repository.NewSkillMatrixRepository(client),
		NewStorageService(cfg),
		exports,
		config.MatrixConfig{RequiredLevel: 4, ColumnsPerPage: 2},
	)
}

func TestIndividualMatrix(t *testing.T) {
	svc := newMatrixService(t, nil)

	m, err := svc.Individual(context.Background(), "tok", 7)
	require.NoError(t, err)
	assert.Equal(t, uint(7), m.SubjectID, "falls back to the requested id")
	assert.Equal(t, "Cy", m.Name)
	assert.Equal(t, 4, m.RequiredLevel)
	require.Len(t, m.Cells, 3)

	require.NotNil(t, m.Cells[0].Priority)
	assert.NotEmpty(t, m.Cells[0].LevelLabel)
	assert.NotNil(t, m.Cells[0].Color)

	require.NotNil(t, m.Cells[1].Priority)
	assert.Equal(t, "LOW", m.Cells[1].Priority.Key.String(), "unassessed skills are low priority")
	assert.Nil(t, m.Cells[1].Color)

	assert.Nil(t, m.Cells[2].Priority, "unmapped skills carry no styling")

	assert.Equal(t, 2, m.Summary.TotalSkills)
	assert.Equal(t, 3, m.Summary.TotalCurrentScore)
	assert.Equal(t, 37.5, m.Summary.CompletionPercentage)
}

func TestIndividualMatrixBackendError(t *testing.T) {
	svc := newMatrixService(t, nil)
	_, err := svc.Individual(context.Background(), "tok", 8)
	var reqErr *util.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusNotFound, reqErr.Status)
}

func TestOrgMatrix(t *testing.T) {
	svc := newMatrixService(t, nil)

	m, err := svc.Org(context.Background(), "tok", nil)
	require.NoError(t, err)
	assert.Len(t, m.Skills, 3)
	assert.Equal(t, 2, m.Pages)
	require.Len(t, m.Rows, 2)
	assert.Equal(t, "Ops", m.Rows[0].Department)
	assert.Equal(t, 75.0, m.Rows[0].Summary.CompletionPercentage)
	assert.Equal(t, 12.5, m.Rows[1].Summary.CompletionPercentage)
}

func TestOrgDocumentPaginatesColumns(t *testing.T) {
	svc := newMatrixService(t, nil)

	doc, pages, err := svc.OrgDocument(context.Background(), "tok", url.Values{"department": {"Ops"}}, true)
	require.NoError(t, err)
	assert.Equal(t, 2, pages)
	assert.True(t, strings.HasPrefix(doc, "<!DOCTYPE html>"))
	assert.Contains(t, doc, `data-page="2"`)
	assert.Contains(t, doc, "Organization Skill Matrix")
	assert.Contains(t, doc, "Ops")
}

func TestIndividualDocumentEscapesNames(t *testing.T) {
	client := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"<b>Eve</b>","cells":[]}`))
	}))
	svc := NewSkillMatrixService(repository.NewSkillMatrixRepository(client), nil, nil, config.MatrixConfig{RequiredLevel: 4})

	doc, err := svc.IndividualDocument(context.Background(), "tok", 3, false)
	require.NoError(t, err)
	assert.NotContains(t, doc, "<b>Eve</b>")
	assert.Contains(t, doc, "&lt;b&gt;Eve&lt;/b&gt;")
}

func TestOrgWorkbook(t *testing.T) {
	svc := newMatrixService(t, nil)

	content, err := svc.OrgWorkbook(context.Background(), "tok", nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Skill Matrix")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"#", "Employee", "Employee Code", "Department", "Designation", "Go", "SQL", "Docker", "Completion %"}, rows[0])
	assert.Equal(t, []string{"1", "Al", "E10", "Ops", "", "4", "2", "N/A", "75"}, rows[1])
	assert.Equal(t, []string{"2", "Bea", "", "", "", "-", "1", "N/A", "12.5"}, rows[2])
}

func TestArchiveStoresAndRecords(t *testing.T) {
	recorder := &fakeRecorder{}
	svc := newMatrixService(t, recorder)
	ctx := context.Background()

	record, err := svc.Archive(ctx, ArchiveRequest{
		Kind:        model.ExportOrgMatrix,
		Session:     sessionAs(model.RoleHR, "2"),
		Content:     []byte("<html></html>"),
		Extension:   ".html",
		ContentType: "text/html",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(record.ObjectName, "org_matrix/"))
	assert.True(t, strings.HasSuffix(record.ObjectName, ".html"))
	assert.Equal(t, "/api/exports/files/"+record.ObjectName, record.URL)
	assert.Equal(t, "2@example.com", record.RequestedBy)
	assert.Equal(t, 1, record.Pages)
	require.Len(t, recorder.records, 1)

	rc, err := svc.OpenExport(ctx, record.ObjectName)
	require.NoError(t, err)
	defer rc.Close()
	stored, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(stored))

	history, err := svc.History(model.ExportOrgMatrix, 500)
	require.NoError(t, err)
	assert.Len(t, history, 1)
	assert.Equal(t, 20, recorder.limit, "out of range limits fall back to the default")
}

func TestArchiveRequiresSession(t *testing.T) {
	svc := newMatrixService(t, nil)
	_, err := svc.Archive(context.Background(), ArchiveRequest{Kind: model.ExportOrgMatrix, Content: []byte("x")})
	assert.ErrorIs(t, err, util.ErrNoSession)
}

func TestHistoryWithoutDatabase(t *testing.T) {
	svc := newMatrixService(t, nil)
	history, err := svc.History(model.ExportOrgWorkbook, 0)
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}

func TestSetOptions(t *testing.T) {
	svc := newMatrixService(t, nil)
	svc.SetOptions(MatrixOptions{RequiredLevel: 2, ColumnsPerPage: 10})

	m, err := svc.Org(context.Background(), "tok", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, m.RequiredLevel)
	assert.Equal(t, 1, m.Pages)
	assert.Equal(t, 100.0, m.Rows[0].Summary.CompletionPercentage)
}

var _ ExportRecorder = (*repository.ExportRepository)(nil)

func TestWriteLevelCell(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", workbookSheet))
	styles, err := newWorkbookStyles(f, false)
	require.NoError(t, err)

	row := model.MatrixRow{Cells: []model.SkillLevelCell{
		{SkillID: 1, CurrentLevel: model.IntPtr(7)},
		{SkillID: 2},
		{SkillID: 3, Unmapped: true},
	}}
	for cellName, skillID := range map[string]uint{"A1": 1, "B1": 2, "C1": 3, "D1": 4} {
		require.NoError(t, writeLevelCell(f, styles, cellName, row, skillID))
	}

	rows, err := f.GetRows(workbookSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"4", "-", "N/A", "N/A"}}, rows)

	styleID, err := f.GetCellStyle(workbookSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, styles.levels[4], styleID)
}

func TestWriteLevelCellReportsWriteErrors(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	styles, err := newWorkbookStyles(f, false)
	require.NoError(t, err)

	row := model.MatrixRow{Cells: []model.SkillLevelCell{{SkillID: 1, CurrentLevel: model.IntPtr(2)}}}
	// 工作表尚未重命名，写入目标不存在
	assert.Error(t, writeLevelCell(f, styles, "A1", row, 1))
	assert.Error(t, writeLevelCell(f, styles, "A1", row, 9))
}
