package service

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"skill_console/internal/model"
	"skill_console/internal/repository"
	"skill_console/internal/util"
)

type ReportService struct {
	ReportRepo *repository.ReportRepository
}

func NewReportService(reportRepo *repository.ReportRepository) *ReportService {
	return &ReportService{ReportRepo: reportRepo}
}

// ReportEntry 报表目录中的一项
type ReportEntry struct {
	Key         string   `json:"key"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Formats     []string `json:"formats,omitempty"`
}

func (s *ReportService) Catalog(ctx context.Context, token string) ([]ReportEntry, error) {
	items, err := s.ReportRepo.Catalog(ctx, token)
	if err != nil {
		return nil, err
	}
	entries := make([]ReportEntry, 0, len(items))
	for _, item := range items {
		entry := ReportEntry{}
		entry.Key, _ = firstString(item, "key", "id", "slug")
		entry.Name, _ = firstString(item, "name", "title")
		entry.Description, _ = firstString(item, "description")
		if formats, ok := item["formats"].([]any); ok {
			for _, f := range formats {
				if str, ok := f.(string); ok {
					entry.Formats = append(entry.Formats, str)
				}
			}
		}
		if entry.Key == "" {
			continue
		}
		if entry.Name == "" {
			entry.Name = entry.Key
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func firstString(raw model.Raw, keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := raw[k].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

func (s *ReportService) Summary(ctx context.Context, token string, query url.Values) (model.ReportSummary, error) {
	return s.ReportRepo.Summary(ctx, token, query)
}

// Export 返回后端文件流，调用方负责关闭
func (s *ReportService) Export(ctx context.Context, token, reportKey string, query url.Values) (*http.Response, error) {
	if strings.TrimSpace(reportKey) == "" {
		return nil, util.NewValidationError("report")
	}
	return s.ReportRepo.Export(ctx, token, reportKey, query)
}
