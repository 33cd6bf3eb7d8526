package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) Raw {
	t.Helper()
	var raw Raw
	require.NoError(t, json.Unmarshal([]byte(s), &raw))
	return raw
}

func TestNormalizeSkillLevelCellFieldVariants(t *testing.T) {
	cases := []struct {
		name    string
		json    string
		skillID uint
		level   *int
	}{
		{"camel", `{"skillId":4,"currentLevel":3}`, 4, IntPtr(3)},
		{"snake", `{"skill_id":"5","current_level":"2"}`, 5, IntPtr(2)},
		{"nested", `{"skill":{"id":6},"level":1}`, 6, IntPtr(1)},
		{"unset", `{"skillId":7,"currentLevel":null}`, 7, nil},
		{"non numeric", `{"skillId":8,"currentLevel":"n/a"}`, 8, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cell := NormalizeSkillLevelCell(decode(t, tc.json))
			assert.Equal(t, tc.skillID, cell.SkillID)
			assert.Equal(t, tc.level, cell.CurrentLevel)
			assert.False(t, cell.Unmapped)
		})
	}

	unmapped := NormalizeSkillLevelCell(decode(t, `{"skillId":9,"assigned":false}`))
	assert.True(t, unmapped.Unmapped)
}

func TestNormalizeEmployee(t *testing.T) {
	e := NormalizeEmployee(decode(t, `{
		"user_id": 12, "full_name": "Ravi Kumar", "email": "ravi@example.com",
		"role": "hod", "department": {"id": 3, "name": "Assembly"},
		"designation_name": "Supervisor", "is_active": false
	}`))
	assert.Equal(t, uint(12), e.ID)
	assert.Equal(t, "Ravi Kumar", e.Name)
	assert.Equal(t, RoleHOD, e.Role)
	assert.Equal(t, uint(3), e.DepartmentID)
	assert.Equal(t, "Assembly", e.Department)
	assert.Equal(t, "Supervisor", e.Designation)
	assert.False(t, e.Active)
}

func TestNormalizeCellsKeyedObject(t *testing.T) {
	cells := NormalizeCells(decode(t, `{"cells":{"12":3,"4":{"currentLevel":1},"x":2}}`)["cells"])
	require.Len(t, cells, 2)
	assert.Equal(t, uint(4), cells[0].SkillID)
	assert.Equal(t, 1, *cells[0].CurrentLevel)
	assert.Equal(t, uint(12), cells[1].SkillID)
	assert.Equal(t, 3, *cells[1].CurrentLevel)
}

func TestNormalizeOrgMatrix(t *testing.T) {
	m := NormalizeOrgMatrix(decode(t, `{
		"skills": [{"id":1,"name":"Lathe"},{"skill_id":2,"skill_name":"CNC"}],
		"users": [{"userId":5,"userName":"Meera","skills":[{"skillId":1,"currentLevel":4}]}]
	}`))
	require.Len(t, m.Skills, 2)
	assert.Equal(t, "CNC", m.Skills[1].Name)
	require.Len(t, m.Rows, 1)
	assert.Equal(t, "Meera", m.Rows[0].Name)
	cell, ok := m.Rows[0].CellFor(1)
	require.True(t, ok)
	assert.Equal(t, 4, *cell.CurrentLevel)
	_, ok = m.Rows[0].CellFor(2)
	assert.False(t, ok)
}

func TestNormalizeUserSkillLevelIgnoresRecordID(t *testing.T) {
	l := NormalizeUserSkillLevel(decode(t, `{"id":99,"user":{"id":3,"name":"Anu"},"skill":{"id":8,"name":"Brazing"},"currentLevel":2}`))
	assert.Equal(t, uint(3), l.UserID)
	assert.Equal(t, "Anu", l.UserName)
	assert.Equal(t, uint(8), l.Cell.SkillID)
	assert.Equal(t, "Brazing", l.Cell.SkillName)
}

func TestSessionFromClaims(t *testing.T) {
	s := SessionFromClaims(map[string]any{"sub": float64(42), "role": "Admin", "name": "Root"}, "login@example.com")
	assert.Equal(t, "42", s.SubjectID)
	assert.Equal(t, RoleAdmin, s.Role)
	assert.Equal(t, "login@example.com", s.Email)
	assert.Equal(t, "Root", s.DisplayName)
}

func TestToInt(t *testing.T) {
	n, ok := ToInt(float64(3))
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	_, ok = ToInt("abc")
	assert.False(t, ok)

	_, ok = ToInt(nil)
	assert.False(t, ok)

	n, ok = ToInt(" 2.0 ")
	assert.True(t, ok)
	assert.Equal(t, 2, n)
}
