package service

import (
	"context"
	"net/http"
	"testing"

	"skill_console/internal/config"
	"skill_console/internal/model"
	"skill_console/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func levelOf(userID uint, user string, skillID uint, skill string, level *int) model.UserSkillLevel {
	return model.UserSkillLevel{
		UserID:   userID,
		UserName: user,
		Cell:     model.SkillLevelCell{SkillID: skillID, SkillName: skill, CurrentLevel: level},
	}
}

func TestBuildSkillGapReport(t *testing.T) {
	levels := []model.UserSkillLevel{
		levelOf(2, "Bea", 1, "Go", model.IntPtr(1)),
		levelOf(2, "Bea", 2, "SQL", nil),
		levelOf(1, "Al", 1, "Go", model.IntPtr(0)),
		levelOf(1, "Al", 3, "Docker", model.IntPtr(2)),
		levelOf(1, "Al", 4, "Linux", model.IntPtr(4)),
		{UserID: 1, UserName: "Al", Cell: model.SkillLevelCell{SkillID: 5, SkillName: "Rust", Unmapped: true}},
		levelOf(1, "Al", 1, "Go", model.IntPtr(3)),
	}

	report := BuildSkillGapReport(levels, 4)

	type row struct {
		user, skill, priority string
		gap                   int
	}
	var got []row
	for _, e := range report.Entries {
		got = append(got, row{e.UserName, e.SkillName, e.Priority, e.Gap})
	}
	assert.Equal(t, []row{
		{"Al", "Go", "HIGH", 4},
		{"Bea", "Go", "HIGH", 3},
		{"Al", "Docker", "MEDIUM", 2},
		{"Bea", "SQL", "LOW", 4},
	}, got)
	assert.Equal(t, 2, report.High)
	assert.Equal(t, 1, report.Medium)
	assert.Equal(t, 1, report.Low)
	assert.Equal(t, 4, report.RequiredLevel)
	assert.Nil(t, report.Entries[3].CurrentLevel, "unassessed level stays nil in the report")
}

func TestBuildSkillGapReportClampsRequiredLevel(t *testing.T) {
	report := BuildSkillGapReport([]model.UserSkillLevel{
		levelOf(1, "Al", 1, "Go", model.IntPtr(4)),
		levelOf(1, "Al", 2, "SQL", model.IntPtr(-3)),
	}, 9)

	assert.Equal(t, 4, report.RequiredLevel)
	require.Len(t, report.Entries, 1)
	assert.Equal(t, "SQL", report.Entries[0].SkillName)
	assert.Equal(t, 4, report.Entries[0].Gap)
	assert.Equal(t, "LOW", report.Entries[0].Priority, "negative levels are not treated as urgent")
}

func TestBuildSkillGapReportFirstOccurrenceWins(t *testing.T) {
	report := BuildSkillGapReport([]model.UserSkillLevel{
		{UserID: 1, UserName: "Al", Cell: model.SkillLevelCell{SkillID: 1, SkillName: "Go", Unmapped: true}},
		levelOf(1, "Al", 1, "Go", model.IntPtr(0)),
	}, 4)
	assert.Empty(t, report.Entries)
}

func TestBuildSkillGapReportEmpty(t *testing.T) {
	report := BuildSkillGapReport(nil, 4)
	assert.NotNil(t, report.Entries)
	assert.Empty(t, report.Entries)
}

func TestSkillGapServiceReport(t *testing.T) {
	client := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user-skill-levels", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "3", r.URL.Query().Get("departmentId"))
		w.Write([]byte(`{"data":[
			{"id":90,"userId":1,"userName":"Al","skillId":1,"skillName":"Go","level":1},
			{"id":91,"user":{"id":2,"name":"Bea"},"skill":{"id":1,"name":"Go"},"level":3}
		]}`))
	}))
	matrix := NewSkillMatrixService(nil, nil, nil, config.MatrixConfig{RequiredLevel: 3})
	svc := NewSkillGapService(repository.NewResourceRepository(client, "/user-skill-levels"), matrix)

	report, err := svc.Report(context.Background(), "tok", map[string][]string{"departmentId": {"3"}})
	require.NoError(t, err)
	require.Len(t, report.Entries, 1)
	e := report.Entries[0]
	assert.Equal(t, uint(1), e.UserID)
	assert.Equal(t, uint(1), e.SkillID, "record id is not used as skill id")
	assert.Equal(t, 2, e.Gap)
	assert.Equal(t, 3, report.RequiredLevel)
}
