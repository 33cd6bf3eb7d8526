package model

// Employee 员工档案
type Employee struct {
	ID            uint   `json:"id"`
	EmployeeCode  string `json:"employeeCode,omitempty"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Role          Role   `json:"role"`
	DepartmentID  uint   `json:"departmentId,omitempty"`
	Department    string `json:"department,omitempty"`
	DesignationID uint   `json:"designationId,omitempty"`
	Designation   string `json:"designation,omitempty"`
	Active        bool   `json:"active"`
}

type Department struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

type Designation struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	DepartmentID uint   `json:"departmentId,omitempty"`
}

// DesignationSkill 岗位与技能的映射
type DesignationSkill struct {
	ID            uint `json:"id"`
	DesignationID uint `json:"designationId"`
	SkillID       uint `json:"skillId"`
	RequiredLevel int  `json:"requiredLevel"`
}

type Training struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	SkillID   uint   `json:"skillId,omitempty"`
	Trainer   string `json:"trainer,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
	Mode      string `json:"mode,omitempty"`
	Status    string `json:"status,omitempty"`
}

type TrainingRequirement struct {
	ID       uint   `json:"id"`
	UserID   uint   `json:"userId"`
	SkillID  uint   `json:"skillId"`
	Priority string `json:"priority,omitempty"`
	Remarks  string `json:"remarks,omitempty"`
}

// ImportRowError 导入时单行的错误，原样展示
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult 后端导入接口的结果
type ImportResult struct {
	Inserted int              `json:"inserted"`
	Updated  int              `json:"updated"`
	Skipped  int              `json:"skipped"`
	Errors   []ImportRowError `json:"errors"`
}

// ReportSummary 仪表盘统计
type ReportSummary struct {
	TotalEmployees      int     `json:"totalEmployees"`
	TotalSkills         int     `json:"totalSkills"`
	TotalTrainings      int     `json:"totalTrainings"`
	UpcomingTrainings   int     `json:"upcomingTrainings"`
	AverageCompletion   float64 `json:"averageCompletion"`
	PendingRequirements int     `json:"pendingRequirements"`
}

// SkillGapEntry 技能差距报表中的一项
type SkillGapEntry struct {
	UserID        uint   `json:"userId"`
	UserName      string `json:"userName,omitempty"`
	SkillID       uint   `json:"skillId"`
	SkillName     string `json:"skillName"`
	RequiredLevel int    `json:"requiredLevel"`
	CurrentLevel  *int   `json:"currentLevel"`
	Gap           int    `json:"gap"`
	Priority      string `json:"priority"`
	PriorityLabel string `json:"priorityLabel"`
}
