package model

// Skill 技能目录中的一项
type Skill struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

// SkillLevelCell 某个员工在某项技能上的水平
// CurrentLevel 为 nil 表示已分配但尚未评定；Unmapped 表示该技能未分配给此员工
type SkillLevelCell struct {
	SkillID       uint   `json:"skillId"`
	SkillName     string `json:"skillName,omitempty"`
	Category      string `json:"category,omitempty"`
	RequiredLevel int    `json:"requiredLevel"`
	CurrentLevel  *int   `json:"currentLevel"`
	Unmapped      bool   `json:"unmapped,omitempty"`
}

// MatrixRow 组织矩阵中的一名员工
type MatrixRow struct {
	SubjectID    uint             `json:"subjectId"`
	Name         string           `json:"name"`
	EmployeeCode string           `json:"employeeCode,omitempty"`
	Department   string           `json:"department,omitempty"`
	Designation  string           `json:"designation,omitempty"`
	Cells        []SkillLevelCell `json:"cells"`
}

// CellFor 返回该员工在指定技能上的单元格
func (r MatrixRow) CellFor(skillID uint) (SkillLevelCell, bool) {
	for _, c := range r.Cells {
		if c.SkillID == skillID {
			return c, true
		}
	}
	return SkillLevelCell{}, false
}

// OrgMatrix 全组织技能矩阵
type OrgMatrix struct {
	Skills []Skill     `json:"skills"`
	Rows   []MatrixRow `json:"rows"`
}

func IntPtr(v int) *int {
	return &v
}
