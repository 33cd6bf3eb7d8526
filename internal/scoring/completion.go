package scoring

import "skill_console/internal/model"

// MatrixSummary 某个员工技能矩阵的汇总，按需计算，不持久化
type MatrixSummary struct {
	TotalSkills          int     `json:"totalSkills"`
	TotalRequiredScore   int     `json:"totalRequiredScore"`
	TotalCurrentScore    int     `json:"totalCurrentScore"`
	CompletionPercentage float64 `json:"completionPercentage"`
}

// ComputeCompletion 统计已分配技能的完成度
//
// 先按技能去重，只保留第一次出现的单元格，再排除未分配（Unmapped）的单元格，
// 与打印和导出时 CellFor 取到的单元格一致；
// 已分配但未评定的当前水平按 0 计。
func ComputeCompletion(cells []model.SkillLevelCell, requiredLevel int) MatrixSummary {
	seen := make(map[uint]struct{}, len(cells))
	var summary MatrixSummary

	for _, cell := range cells {
		if _, dup := seen[cell.SkillID]; dup {
			continue
		}
		seen[cell.SkillID] = struct{}{}
		if cell.Unmapped {
			continue
		}

		summary.TotalSkills++
		if cell.CurrentLevel != nil {
			summary.TotalCurrentScore += ClampLevel(*cell.CurrentLevel)
		}
	}

	summary.TotalRequiredScore = summary.TotalSkills * ClampLevel(requiredLevel)
	if summary.TotalRequiredScore > 0 {
		pct := float64(summary.TotalCurrentScore) / float64(summary.TotalRequiredScore) * 100
		summary.CompletionPercentage = round2(ClampPercent(pct))
	}
	return summary
}
