package service

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"skill_console/internal/config"
	"skill_console/internal/model"
	"skill_console/internal/repository"
)

func newBackend(t *testing.T, h http.Handler) *repository.APIClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return repository.NewAPIClient(config.BackendConfig{BaseURL: srv.URL})
}

func sessionAs(role model.Role, id string) *model.Session {
	return &model.Session{SubjectID: id, Email: id + "@example.com", Role: role}
}
