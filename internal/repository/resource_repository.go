package repository

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"skill_console/internal/model"
)

// ResourceRepository 面向资源的通用 CRUD 接口，如 /departments、/skills
type ResourceRepository struct {
	Client *APIClient
	Path   string
}

func NewResourceRepository(client *APIClient, path string) *ResourceRepository {
	return &ResourceRepository{Client: client, Path: "/" + strings.Trim(path, "/")}
}

func (r *ResourceRepository) itemPath(id string) string {
	return fmt.Sprintf("%s/%s", r.Path, url.PathEscape(id))
}

func (r *ResourceRepository) List(ctx context.Context, token string, query url.Values) ([]model.Raw, error) {
	raw, err := r.Client.Get(ctx, r.Path, token, query)
	if err != nil {
		return nil, err
	}
	return DecodeList(raw)
}

func (r *ResourceRepository) FindByID(ctx context.Context, token, id string) (model.Raw, error) {
	raw, err := r.Client.Get(ctx, r.itemPath(id), token, nil)
	if err != nil {
		return nil, err
	}
	return DecodeObject(raw)
}

func (r *ResourceRepository) Create(ctx context.Context, token string, payload model.Raw) (model.Raw, error) {
	raw, err := r.Client.Post(ctx, r.Path, token, payload)
	if err != nil {
		return nil, err
	}
	return DecodeObject(raw)
}

func (r *ResourceRepository) Update(ctx context.Context, token, id string, payload model.Raw) (model.Raw, error) {
	raw, err := r.Client.Put(ctx, r.itemPath(id), token, payload)
	if err != nil {
		return nil, err
	}
	return DecodeObject(raw)
}

func (r *ResourceRepository) Delete(ctx context.Context, token, id string) error {
	_, err := r.Client.Delete(ctx, r.itemPath(id), token)
	return err
}
