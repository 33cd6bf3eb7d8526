package repository

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"skill_console/internal/config"
	"skill_console/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *APIClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewAPIClient(config.BackendConfig{BaseURL: srv.URL + "/api/"})
}

func TestAPIClientAttachesBearerToken(t *testing.T) {
	var gotAuth, gotPath, gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"data":[{"id":1}]}`))
	})

	raw, err := c.Get(context.Background(), "departments", "tok", url.Values{"q": {"ops"}})
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "/api/departments", gotPath)
	assert.Equal(t, "q=ops", gotQuery)
	assert.JSONEq(t, `[{"id":1}]`, string(raw))
}

func TestAPIClientOmitsAuthWithoutToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"email":"a@b.c","password":"pw"}`, string(body))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"token":"t"}`))
	})

	raw, err := NewAuthRepository(c).Login(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
	assert.JSONEq(t, `{"token":"t"}`, string(raw))
}

func TestAPIClientRequestErrors(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"message field", http.StatusBadRequest, `{"message":"Department exists"}`, "Department exists"},
		{"error field", http.StatusConflict, `{"error":"duplicate"}`, "duplicate"},
		{"generic fallback", http.StatusInternalServerError, `oops`, util.GenericRequestFailure},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			})
			_, err := c.Get(context.Background(), "/x", "tok", nil)
			var reqErr *util.RequestError
			require.True(t, errors.As(err, &reqErr))
			assert.Equal(t, tc.status, reqErr.Status)
			assert.Equal(t, tc.message, reqErr.Error())
			assert.False(t, errors.Is(err, util.ErrUnauthorized))
		})
	}
}

func TestAPIClientUnauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	_, err := c.Get(context.Background(), "/users", "expired", nil)
	assert.ErrorIs(t, err, util.ErrUnauthorized)
}

func TestAPIClientUpload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		content, _ := io.ReadAll(f)
		assert.Equal(t, "calendar.csv", hdr.Filename)
		assert.Equal(t, "a,b\n", string(content))
		assert.Equal(t, "2026", r.FormValue("year"))
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"inserted": 3, "updated": 1, "skipped": 2, "errors": []any{map[string]any{"row": 4, "message": "bad month"}}},
		})
	})

	res, err := NewCalendarRepository(c).Import(context.Background(), "tok", "calendar.csv", []byte("a,b\n"), "2026")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Inserted)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 2, res.Skipped)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 4, res.Errors[0].Row)
	assert.Equal(t, "bad month", res.Errors[0].Message)
}

func TestDecodeList(t *testing.T) {
	items, err := DecodeList(json.RawMessage(`[{"id":1},{"id":2}]`))
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = DecodeList(json.RawMessage(`{"rows":[{"id":1}],"total":1}`))
	require.NoError(t, err)
	assert.Len(t, items, 1)

	items, err = DecodeList(json.RawMessage(`null`))
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = DecodeList(json.RawMessage(`{"total":1}`))
	var parseErr *util.ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestSkillMatrixRepositoryFindByUser(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/skill-matrix/user/7", r.URL.Path)
		w.Write([]byte(`{"data":{"user":{"name":"Asha"},"department":{"name":"Ops"},"skills":[
			{"skill":{"id":3,"name":"Welding"},"required_level":4,"current_level":2},
			{"skill_id":4,"skillName":"Safety","currentLevel":null},
			{"skillId":5,"skillName":"Cranes","isMapped":false}
		]}}`))
	})

	row, err := NewSkillMatrixRepository(c).FindByUser(context.Background(), "tok", 7)
	require.NoError(t, err)
	assert.Equal(t, uint(7), row.SubjectID)
	assert.Equal(t, "Asha", row.Name)
	assert.Equal(t, "Ops", row.Department)
	require.Len(t, row.Cells, 3)
	assert.Equal(t, uint(3), row.Cells[0].SkillID)
	assert.Equal(t, "Welding", row.Cells[0].SkillName)
	assert.Equal(t, 2, *row.Cells[0].CurrentLevel)
	assert.Nil(t, row.Cells[1].CurrentLevel)
	assert.True(t, row.Cells[2].Unmapped)
}
