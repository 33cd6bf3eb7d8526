package service

import (
	"context"
	"io"
	"net/http"
	"testing"

	"skill_console/internal/repository"
	"skill_console/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReportService(t *testing.T) *ReportService {
	t.Helper()
	client := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/reports":
			w.Write([]byte(`{"data":[
				{"key":"skill-gap","title":"Skill Gap","formats":["xlsx","csv"]},
				{"id":"attendance"},
				{"name":"No key"}
			]}`))
		case "/reports/skill-gap/export":
			assert.Equal(t, "xlsx", r.URL.Query().Get("format"))
			w.Header().Set("Content-Disposition", `attachment; filename="skill-gap.xlsx"`)
			w.Write([]byte("PK-bytes"))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"Report not found"}`))
		}
	}))
	return NewReportService(repository.NewReportRepository(client))
}

func TestReportCatalog(t *testing.T) {
	entries, err := newReportService(t).Catalog(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, []ReportEntry{
		{Key: "skill-gap", Name: "Skill Gap", Formats: []string{"xlsx", "csv"}},
		{Key: "attendance", Name: "attendance"},
	}, entries)
}

func TestReportExportStreams(t *testing.T) {
	svc := newReportService(t)

	resp, err := svc.Export(context.Background(), "tok", "skill-gap", map[string][]string{"format": {"xlsx"}})
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "PK-bytes", string(body))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "skill-gap.xlsx")

	_, err = svc.Export(context.Background(), "tok", "missing", nil)
	var reqErr *util.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "Report not found", reqErr.Message)

	_, err = svc.Export(context.Background(), "tok", "  ", nil)
	assert.IsType(t, &util.ValidationError{}, err)
}
