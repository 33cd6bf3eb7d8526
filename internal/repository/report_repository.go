package repository

import (
	"context"
	"net/http"
	"net/url"

	"skill_console/internal/model"
)

type ReportRepository struct {
	Client *APIClient
}

func NewReportRepository(client *APIClient) *ReportRepository {
	return &ReportRepository{Client: client}
}

func (r *ReportRepository) Catalog(ctx context.Context, token string) ([]model.Raw, error) {
	raw, err := r.Client.Get(ctx, "/reports", token, nil)
	if err != nil {
		return nil, err
	}
	return DecodeList(raw)
}

func (r *ReportRepository) Summary(ctx context.Context, token string, query url.Values) (model.ReportSummary, error) {
	raw, err := r.Client.Get(ctx, "/reports/summary", token, query)
	if err != nil {
		return model.ReportSummary{}, err
	}
	obj, err := DecodeObject(raw)
	if err != nil {
		return model.ReportSummary{}, err
	}
	return model.NormalizeReportSummary(obj), nil
}

// Export 透传后端生成的文件
func (r *ReportRepository) Export(ctx context.Context, token, reportKey string, query url.Values) (*http.Response, error) {
	return r.Client.Stream(ctx, "/reports/"+url.PathEscape(reportKey)+"/export", token, query)
}
