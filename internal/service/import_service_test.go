package service

import (
	"bytes"
	"context"
	"net/http"
	"testing"
	"time"

	"skill_console/internal/model"
	"skill_console/internal/repository"
	"skill_console/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestTemplateHasHeaderAndExample(t *testing.T) {
	svc := NewImportService(nil)
	content, err := svc.Template()
	require.NoError(t, err)

	preview, err := svc.Preview("template.csv", content)
	require.NoError(t, err)
	assert.Equal(t, CalendarTemplateHeaders, preview.Headers)
	assert.Equal(t, 1, preview.TotalRows)
	assert.True(t, preview.Valid)
}

func TestPreviewReportsRowIssues(t *testing.T) {
	csv := "\ufeffTraining Name,Month,Trainer\n" +
		"Safety,January,Jane\n" +
		",3,Raj\n" +
		"Forklift,,\n" +
		"First Aid,Smarch,Lee\n"

	preview, err := NewImportService(nil).Preview("calendar.csv", []byte(csv))
	require.NoError(t, err)

	assert.Equal(t, []string{"Training Name", "Month", "Trainer"}, preview.Headers)
	assert.Equal(t, 4, preview.TotalRows)
	assert.Len(t, preview.Sample, 4)
	assert.False(t, preview.Valid)
	assert.Equal(t, []model.ImportRowError{
		{Row: 3, Message: "Training Name is required"},
		{Row: 4, Message: "Month is required"},
		{Row: 5, Message: `Invalid month "Smarch"`},
	}, preview.Issues)
}

func TestPreviewMissingColumns(t *testing.T) {
	preview, err := NewImportService(nil).Preview("calendar.csv", []byte("Name,Trainer\nSafety,Jane\n"))

	var ve *util.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"training name", "month"}, ve.Fields)
	require.NotNil(t, preview)
	assert.Equal(t, []string{"training name", "month"}, preview.MissingColumns)
}

func TestPreviewXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Training Name", "Month", "Mode"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"Safety", "Feb", "Online"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"Welding", 13, "Classroom"}))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	preview, err := NewImportService(nil).Preview("calendar.xlsx", buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 2, preview.TotalRows)
	assert.Equal(t, []model.ImportRowError{{Row: 3, Message: `Invalid month "13"`}}, preview.Issues)
}

func TestPreviewRejectsUnsupportedFiles(t *testing.T) {
	svc := NewImportService(nil)

	_, err := svc.Preview("calendar.pdf", []byte("%PDF-1.4"))
	assert.ErrorIs(t, err, util.ErrUnsupportedImportFile)

	_, err = svc.Preview("calendar.csv", nil)
	assert.ErrorIs(t, err, util.ErrUnsupportedImportFile)

	_, err = svc.Preview("calendar.xlsx", []byte("Training Name,Month\n"))
	assert.ErrorIs(t, err, util.ErrUnsupportedImportFile, "extension must match the content")
}

func TestImportForwardsMultipart(t *testing.T) {
	content := []byte("Training Name,Month\nSafety,1\n")
	client := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/annual-training-calendar/import", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "2026", r.FormValue("year"))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "plan.csv", header.Filename)

		w.Write([]byte(`{"data":{"inserted":1,"skipped":2,"errors":[{"row":4,"message":"duplicate"}]}}`))
	}))
	svc := NewImportService(repository.NewCalendarRepository(client))

	result, err := svc.Import(context.Background(), "tok", "plan.csv", content, "2026")
	require.NoError(t, err)
	assert.Equal(t, model.ImportResult{
		Inserted: 1,
		Skipped:  2,
		Errors:   []model.ImportRowError{{Row: 4, Message: "duplicate"}},
	}, *result)
}

func TestImportRejectsBadYear(t *testing.T) {
	_, err := NewImportService(nil).Import(context.Background(), "tok", "plan.csv", []byte("Training Name,Month\n"), "next")
	var ve *util.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"year"}, ve.Fields)
}

func TestParseMonth(t *testing.T) {
	cases := map[string]time.Month{
		"1":         time.January,
		" 12 ":      time.December,
		"march":     time.March,
		"SEP":       time.September,
		"September": time.September,
	}
	for in, want := range cases {
		got, ok := ParseMonth(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"0", "13", "Sept", ""} {
		_, ok := ParseMonth(in)
		assert.False(t, ok, in)
	}
}
