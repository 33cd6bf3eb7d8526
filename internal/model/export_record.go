package model

type ExportKind string

const (
	ExportIndividualMatrix ExportKind = "individual_matrix"
	ExportOrgMatrix        ExportKind = "org_matrix"
	ExportOrgWorkbook      ExportKind = "org_workbook"
)

// ExportRecord 已归档的打印/导出文档
type ExportRecord struct {
	BaseModel
	Kind        ExportKind `gorm:"size:32;index;not null" json:"kind"`
	SubjectID   string     `gorm:"size:64;index" json:"subjectId,omitempty"`
	RequestedBy string     `gorm:"size:100;not null" json:"requestedBy"`
	Role        Role       `gorm:"size:20" json:"role"`
	ObjectName  string     `gorm:"size:255;not null" json:"objectName"`
	URL         string     `gorm:"size:512" json:"url"`
	Pages       int        `gorm:"default:1" json:"pages"`
}

func (ExportRecord) TableName() string {
	return "export_records"
}
