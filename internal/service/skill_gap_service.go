package service

import (
	"context"
	"net/url"
	"sort"

	"skill_console/internal/model"
	"skill_console/internal/repository"
	"skill_console/internal/scoring"
)

// SkillGapService 由用户技能水平计算差距报表
type SkillGapService struct {
	LevelRepo *repository.ResourceRepository
	Matrix    *SkillMatrixService
}

func NewSkillGapService(levelRepo *repository.ResourceRepository, matrix *SkillMatrixService) *SkillGapService {
	return &SkillGapService{
		LevelRepo: levelRepo,
		Matrix:    matrix,
	}
}

type SkillGapReport struct {
	RequiredLevel int                   `json:"requiredLevel"`
	Entries       []model.SkillGapEntry `json:"entries"`
	High          int                   `json:"high"`
	Medium        int                   `json:"medium"`
	Low           int                   `json:"low"`
}

func (s *SkillGapService) Report(ctx context.Context, token string, query url.Values) (*SkillGapReport, error) {
	items, err := s.LevelRepo.List(ctx, token, query)
	if err != nil {
		return nil, err
	}
	levels := make([]model.UserSkillLevel, len(items))
	for i, item := range items {
		levels[i] = model.NormalizeUserSkillLevel(item)
	}
	return BuildSkillGapReport(levels, s.Matrix.Options().RequiredLevel), nil
}

// BuildSkillGapReport 只保留差距大于 0 的已分配技能，
// 按优先级、差距从大到小、员工名、技能名排序
func BuildSkillGapReport(levels []model.UserSkillLevel, requiredLevel int) *SkillGapReport {
	required := scoring.ClampLevel(requiredLevel)
	report := &SkillGapReport{RequiredLevel: required, Entries: []model.SkillGapEntry{}}

	type key struct{ user, skill uint }
	seen := make(map[key]struct{}, len(levels))
	for _, l := range levels {
		k := key{l.UserID, l.Cell.SkillID}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if l.Cell.Unmapped {
			continue
		}

		current := 0
		if l.Cell.CurrentLevel != nil {
			current = scoring.ClampLevel(*l.Cell.CurrentLevel)
		}
		gap := required - current
		if gap <= 0 {
			continue
		}

		p := scoring.PriorityFromLevel(l.Cell.CurrentLevel)
		report.Entries = append(report.Entries, model.SkillGapEntry{
			UserID:        l.UserID,
			UserName:      l.UserName,
			SkillID:       l.Cell.SkillID,
			SkillName:     l.Cell.SkillName,
			RequiredLevel: required,
			CurrentLevel:  l.Cell.CurrentLevel,
			Gap:           gap,
			Priority:      p.Key.String(),
			PriorityLabel: p.Label,
		})
		switch p.Key {
		case scoring.PriorityHigh:
			report.High++
		case scoring.PriorityMedium:
			report.Medium++
		default:
			report.Low++
		}
	}

	sort.SliceStable(report.Entries, func(i, j int) bool {
		a, b := report.Entries[i], report.Entries[j]
		wa, wb := scoring.Priority(a.Priority).Weight(), scoring.Priority(b.Priority).Weight()
		if wa != wb {
			return wa < wb
		}
		if a.Gap != b.Gap {
			return a.Gap > b.Gap
		}
		if a.UserName != b.UserName {
			return a.UserName < b.UserName
		}
		return a.SkillName < b.SkillName
	})
	return report
}
