package model

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

// 后端各接口对同一字段的命名并不统一（skillId / skill_id / skill.id），
// 这里是唯一做字段兜底的地方，之后只使用严格的内部类型。

// Raw 后端返回的未定型 JSON 对象
type Raw = map[string]any

func lookup(raw Raw, path string) (any, bool) {
	cur := any(raw)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[part]
		if !ok {
			return nil, false
		}
	}
	if cur == nil {
		return nil, false
	}
	return cur, true
}

// pick 返回第一个存在且非 null 的字段
func pick(raw Raw, paths ...string) (any, bool) {
	for _, p := range paths {
		if v, ok := lookup(raw, p); ok {
			return v, true
		}
	}
	return nil, false
}

// ToInt 把 JSON 数字、数字字符串转为整数，其他输入返回 false
func ToInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		if f, err := n.Float64(); err == nil {
			return ToInt(f)
		}
	case string:
		s := strings.TrimSpace(n)
		if i, err := strconv.Atoi(s); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return ToInt(f)
		}
	}
	return 0, false
}

// ToFloat 同 ToInt，保留小数
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, !math.IsNaN(n)
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil && !math.IsNaN(f)
	}
	return 0, false
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case json.Number:
		return s.String()
	case bool:
		return strconv.FormatBool(s)
	}
	return ""
}

func toBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case float64:
		return b != 0, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		return parsed, err == nil
	}
	return false, false
}

func pickUint(raw Raw, paths ...string) uint {
	v, ok := pick(raw, paths...)
	if !ok {
		return 0
	}
	n, ok := ToInt(v)
	if !ok || n < 0 {
		return 0
	}
	return uint(n)
}

func pickInt(raw Raw, paths ...string) int {
	v, ok := pick(raw, paths...)
	if !ok {
		return 0
	}
	n, _ := ToInt(v)
	return n
}

func pickString(raw Raw, paths ...string) string {
	for _, p := range paths {
		if v, ok := lookup(raw, p); ok {
			if s := toString(v); s != "" {
				return s
			}
		}
	}
	return ""
}

func pickBool(raw Raw, def bool, paths ...string) bool {
	v, ok := pick(raw, paths...)
	if !ok {
		return def
	}
	b, ok := toBool(v)
	if !ok {
		return def
	}
	return b
}

func NormalizeSkill(raw Raw) Skill {
	return Skill{
		ID:       pickUint(raw, "id", "skillId", "skill_id"),
		Name:     pickString(raw, "name", "skillName", "skill_name", "title"),
		Category: pickString(raw, "category", "category.name", "skillCategory", "skill_category"),
	}
}

// NormalizeSkillLevelCell 未评定（缺失、null、非数字）的当前水平保留为 nil
func NormalizeSkillLevelCell(raw Raw) SkillLevelCell {
	cell := SkillLevelCell{
		SkillID:       pickUint(raw, "skillId", "skill_id", "skill.id", "id"),
		SkillName:     pickString(raw, "skillName", "skill_name", "skill.name", "name"),
		Category:      pickString(raw, "category", "skill.category", "skillCategory"),
		RequiredLevel: pickInt(raw, "requiredLevel", "required_level", "required"),
	}
	if v, ok := pick(raw, "currentLevel", "current_level", "level", "userLevel"); ok {
		if n, ok := ToInt(v); ok {
			cell.CurrentLevel = IntPtr(n)
		}
	}
	cell.Unmapped = !pickBool(raw, true, "isMapped", "mapped", "assigned", "is_assigned")
	return cell
}

func NormalizeEmployee(raw Raw) Employee {
	return Employee{
		ID:            pickUint(raw, "id", "userId", "user_id"),
		EmployeeCode:  pickString(raw, "employeeCode", "employee_code", "empCode", "emp_code"),
		Name:          pickString(raw, "name", "fullName", "full_name", "userName", "username"),
		Email:         pickString(raw, "email"),
		Role:          ParseRole(pickString(raw, "role", "role.name")),
		DepartmentID:  pickUint(raw, "departmentId", "department_id", "department.id"),
		Department:    pickString(raw, "departmentName", "department_name", "department.name", "department"),
		DesignationID: pickUint(raw, "designationId", "designation_id", "designation.id"),
		Designation:   pickString(raw, "designationName", "designation_name", "designation.name", "designation"),
		Active:        pickBool(raw, true, "active", "isActive", "is_active"),
	}
}

func NormalizeDepartment(raw Raw) Department {
	return Department{
		ID:   pickUint(raw, "id", "departmentId", "department_id"),
		Name: pickString(raw, "name", "departmentName", "department_name"),
		Code: pickString(raw, "code", "departmentCode"),
	}
}

func NormalizeDesignation(raw Raw) Designation {
	return Designation{
		ID:           pickUint(raw, "id", "designationId", "designation_id"),
		Name:         pickString(raw, "name", "designationName", "designation_name", "title"),
		DepartmentID: pickUint(raw, "departmentId", "department_id", "department.id"),
	}
}

func NormalizeDesignationSkill(raw Raw) DesignationSkill {
	return DesignationSkill{
		ID:            pickUint(raw, "id"),
		DesignationID: pickUint(raw, "designationId", "designation_id", "designation.id"),
		SkillID:       pickUint(raw, "skillId", "skill_id", "skill.id"),
		RequiredLevel: pickInt(raw, "requiredLevel", "required_level"),
	}
}

func NormalizeTraining(raw Raw) Training {
	return Training{
		ID:        pickUint(raw, "id", "trainingId", "training_id"),
		Title:     pickString(raw, "title", "name", "trainingName", "training_name"),
		SkillID:   pickUint(raw, "skillId", "skill_id", "skill.id"),
		Trainer:   pickString(raw, "trainer", "trainerName", "trainer_name", "trainer.name"),
		StartDate: pickString(raw, "startDate", "start_date", "date"),
		EndDate:   pickString(raw, "endDate", "end_date"),
		Mode:      pickString(raw, "mode", "trainingMode"),
		Status:    pickString(raw, "status"),
	}
}

func NormalizeTrainingRequirement(raw Raw) TrainingRequirement {
	return TrainingRequirement{
		ID:       pickUint(raw, "id"),
		UserID:   pickUint(raw, "userId", "user_id", "user.id"),
		SkillID:  pickUint(raw, "skillId", "skill_id", "skill.id"),
		Priority: strings.ToUpper(pickString(raw, "priority")),
		Remarks:  pickString(raw, "remarks", "remark", "notes"),
	}
}

// NormalizeMatrixRow 单元格可能放在 cells / skills / skillLevels 下
func NormalizeMatrixRow(raw Raw) MatrixRow {
	row := MatrixRow{
		SubjectID:    pickUint(raw, "userId", "user_id", "id", "user.id"),
		Name:         pickString(raw, "name", "userName", "user_name", "fullName", "user.name"),
		EmployeeCode: pickString(raw, "employeeCode", "employee_code", "empCode"),
		Department:   pickString(raw, "departmentName", "department_name", "department.name", "department"),
		Designation:  pickString(raw, "designationName", "designation_name", "designation.name", "designation"),
	}
	if v, ok := pick(raw, "cells", "skills", "skillLevels", "skill_levels"); ok {
		row.Cells = NormalizeCells(v)
	}
	return row
}

// NormalizeCells 接受对象数组或以技能 ID 为键的对象
func NormalizeCells(v any) []SkillLevelCell {
	switch items := v.(type) {
	case []any:
		cells := make([]SkillLevelCell, 0, len(items))
		for _, item := range items {
			if obj, ok := item.(map[string]any); ok {
				cells = append(cells, NormalizeSkillLevelCell(obj))
			}
		}
		return cells
	case map[string]any:
		cells := make([]SkillLevelCell, 0, len(items))
		for key, item := range items {
			obj, ok := item.(map[string]any)
			if !ok {
				// 形如 {"12": 3} 的简写
				id, idOK := ToInt(key)
				if !idOK || id < 0 {
					continue
				}
				cell := SkillLevelCell{SkillID: uint(id)}
				if n, ok := ToInt(item); ok {
					cell.CurrentLevel = IntPtr(n)
				}
				cells = append(cells, cell)
				continue
			}
			cell := NormalizeSkillLevelCell(obj)
			if cell.SkillID == 0 {
				if id, ok := ToInt(key); ok && id > 0 {
					cell.SkillID = uint(id)
				}
			}
			cells = append(cells, cell)
		}
		sortCells(cells)
		return cells
	}
	return nil
}

func sortCells(cells []SkillLevelCell) {
	sort.SliceStable(cells, func(i, j int) bool { return cells[i].SkillID < cells[j].SkillID })
}

func NormalizeOrgMatrix(raw Raw) OrgMatrix {
	var m OrgMatrix
	if v, ok := pick(raw, "skills", "columns"); ok {
		if items, ok := v.([]any); ok {
			for _, item := range items {
				if obj, ok := item.(map[string]any); ok {
					m.Skills = append(m.Skills, NormalizeSkill(obj))
				}
			}
		}
	}
	if v, ok := pick(raw, "rows", "users", "employees", "matrix"); ok {
		if items, ok := v.([]any); ok {
			for _, item := range items {
				if obj, ok := item.(map[string]any); ok {
					m.Rows = append(m.Rows, NormalizeMatrixRow(obj))
				}
			}
		}
	}
	return m
}

func NormalizeImportResult(raw Raw) ImportResult {
	res := ImportResult{
		Inserted: pickInt(raw, "inserted", "insertedCount", "created"),
		Updated:  pickInt(raw, "updated", "updatedCount"),
		Skipped:  pickInt(raw, "skipped", "skippedCount"),
		Errors:   []ImportRowError{},
	}
	if v, ok := pick(raw, "errors", "rowErrors"); ok {
		if items, ok := v.([]any); ok {
			for _, item := range items {
				switch e := item.(type) {
				case map[string]any:
					res.Errors = append(res.Errors, ImportRowError{
						Row:     pickInt(e, "row", "rowNumber", "line"),
						Message: pickString(e, "message", "error", "reason"),
					})
				case string:
					res.Errors = append(res.Errors, ImportRowError{Message: e})
				}
			}
		}
	}
	return res
}

func NormalizeReportSummary(raw Raw) ReportSummary {
	var avg float64
	if v, ok := pick(raw, "averageCompletion", "average_completion", "avgCompletion"); ok {
		avg, _ = ToFloat(v)
	}
	return ReportSummary{
		TotalEmployees:      pickInt(raw, "totalEmployees", "total_employees", "employees", "totalUsers"),
		TotalSkills:         pickInt(raw, "totalSkills", "total_skills", "skills"),
		TotalTrainings:      pickInt(raw, "totalTrainings", "total_trainings", "trainings"),
		UpcomingTrainings:   pickInt(raw, "upcomingTrainings", "upcoming_trainings"),
		AverageCompletion:   avg,
		PendingRequirements: pickInt(raw, "pendingRequirements", "pending_requirements"),
	}
}

// UserSkillLevel 用户技能水平列表中的一项
type UserSkillLevel struct {
	UserID   uint           `json:"userId"`
	UserName string         `json:"userName,omitempty"`
	Cell     SkillLevelCell `json:"cell"`
}

func NormalizeUserSkillLevel(raw Raw) UserSkillLevel {
	cell := NormalizeSkillLevelCell(raw)
	// 这里的 id 是记录自身的 ID，不能当作技能 ID
	cell.SkillID = pickUint(raw, "skillId", "skill_id", "skill.id")
	return UserSkillLevel{
		UserID:   pickUint(raw, "userId", "user_id", "user.id"),
		UserName: pickString(raw, "userName", "user_name", "user.name", "employeeName"),
		Cell:     cell,
	}
}
