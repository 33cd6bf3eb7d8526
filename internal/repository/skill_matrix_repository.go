package repository

import (
	"context"
	"fmt"
	"net/url"

	"skill_console/internal/model"
)

type SkillMatrixRepository struct {
	Client *APIClient
}

func NewSkillMatrixRepository(client *APIClient) *SkillMatrixRepository {
	return &SkillMatrixRepository{Client: client}
}

// FindByUser 单个员工的矩阵，返回员工信息和技能单元格
func (r *SkillMatrixRepository) FindByUser(ctx context.Context, token string, userID uint) (model.MatrixRow, error) {
	raw, err := r.Client.Get(ctx, fmt.Sprintf("/skill-matrix/user/%d", userID), token, nil)
	if err != nil {
		return model.MatrixRow{}, err
	}

	// 后端可能直接返回单元格数组
	if len(raw) > 0 && raw[0] == '[' {
		items, err := DecodeList(raw)
		if err != nil {
			return model.MatrixRow{}, err
		}
		row := model.MatrixRow{SubjectID: userID}
		for _, item := range items {
			row.Cells = append(row.Cells, model.NormalizeSkillLevelCell(item))
		}
		return row, nil
	}

	obj, err := DecodeObject(raw)
	if err != nil {
		return model.MatrixRow{}, err
	}
	row := model.NormalizeMatrixRow(obj)
	if row.SubjectID == 0 {
		row.SubjectID = userID
	}
	return row, nil
}

// FindOrg 全组织矩阵，可按部门、岗位过滤
func (r *SkillMatrixRepository) FindOrg(ctx context.Context, token string, query url.Values) (model.OrgMatrix, error) {
	raw, err := r.Client.Get(ctx, "/skill-matrix/org", token, query)
	if err != nil {
		return model.OrgMatrix{}, err
	}
	obj, err := DecodeObject(raw)
	if err != nil {
		return model.OrgMatrix{}, err
	}
	return model.NormalizeOrgMatrix(obj), nil
}
