package repository

import (
	"skill_console/internal/model"

	"gorm.io/gorm"
)

// ExportRepository 归档文档的历史记录
type ExportRepository struct {
	DB *gorm.DB
}

func NewExportRepository(db *gorm.DB) *ExportRepository {
	return &ExportRepository{DB: db}
}

func (r *ExportRepository) Create(record *model.ExportRecord) error {
	return r.DB.Create(record).Error
}

func (r *ExportRepository) FindRecent(kind model.ExportKind, limit int) ([]model.ExportRecord, error) {
	var records []model.ExportRecord
	q := r.DB.Order("created_at DESC").Limit(limit)
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	err := q.Find(&records).Error
	return records, err
}
