package repository

import (
	"context"
	"net/url"

	"skill_console/internal/model"
)

// CalendarRepository 年度培训计划
type CalendarRepository struct {
	Client *APIClient
}

func NewCalendarRepository(client *APIClient) *CalendarRepository {
	return &CalendarRepository{Client: client}
}

func (r *CalendarRepository) List(ctx context.Context, token string, query url.Values) ([]model.Raw, error) {
	raw, err := r.Client.Get(ctx, "/annual-training-calendar", token, query)
	if err != nil {
		return nil, err
	}
	return DecodeList(raw)
}

func (r *CalendarRepository) Import(ctx context.Context, token, filename string, content []byte, year string) (model.ImportResult, error) {
	fields := map[string]string{}
	if year != "" {
		fields["year"] = year
	}
	raw, err := r.Client.Upload(ctx, "/annual-training-calendar/import", token, "file", filename, content, fields)
	if err != nil {
		return model.ImportResult{}, err
	}
	obj, err := DecodeObject(raw)
	if err != nil {
		return model.ImportResult{}, err
	}
	return model.NormalizeImportResult(obj), nil
}
