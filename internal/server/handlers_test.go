package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryannaik/recon-dashboard/internal/app"
	"github.com/aryannaik/recon-dashboard/internal/records"
	"github.com/aryannaik/recon-dashboard/internal/search"
	"github.com/aryannaik/recon-dashboard/internal/session"
	"github.com/aryannaik/recon-dashboard/internal/targets"
)

func newTestMux(t *testing.T, maxUpload int64) http.Handler {
	t.Helper()
	a := app.New(records.NewStore(records.Builtin(), nil), targets.Builtin(), session.NewManager(), nil)
	return NewMux(NewHandlers(a, maxUpload, nil), "")
}

func do(t *testing.T, h http.Handler, method, target, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if token != "" {
		req.Header.Set(TokenHeader, token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHandleSearch(t *testing.T) {
	h := newTestMux(t, 1<<20)

	rec := do(t, h, http.MethodGet, "/api/records?q=%D0%B8%D0%B2%D0%B0%D0%BD%D0%BE%D0%B2", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[search.Response](t, rec)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, records.All, resp.Category)

	rec = do(t, h, http.MethodGet, "/api/records?category=vehicle", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, decode[search.Response](t, rec).Total)

	rec = do(t, h, http.MethodGet, "/api/records?category=boat", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleLookup(t *testing.T) {
	h := newTestMux(t, 1<<20)

	rec := do(t, h, http.MethodGet, "/api/records/2", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decode[records.Record](t, rec).ID)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/records/99", "", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/records/abc", "", "").Code)
}

func TestHandleLoad(t *testing.T) {
	h := newTestMux(t, 64)

	rec := do(t, h, http.MethodPost, "/api/records/load?name=db.csv", "h\nA,b,vehicle\n", "")
	require.Equal(t, http.StatusOK, rec.Code)
	loaded := decode[loadResponse](t, rec)
	assert.Equal(t, 1, loaded.Loaded)
	assert.Equal(t, 1, loaded.Results.Total)

	rec = do(t, h, http.MethodPost, "/api/records/load?name=db.json", "[{", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "parse json payload")

	rec = do(t, h, http.MethodPost, "/api/records/load", `{"name":"A"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/records/load", strings.Repeat("x", 65), "")
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/records", "", "")
	assert.Equal(t, 1, decode[search.Response](t, rec).Total, "rejected payloads leave the collection alone")
}

func TestTargetsAndToggle(t *testing.T) {
	h := newTestMux(t, 1<<20)
	total := len(targets.Builtin())

	rec := do(t, h, http.MethodGet, "/api/targets", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, total, decode[search.TargetResponse](t, rec).Total)

	rec = do(t, h, http.MethodPost, "/api/targets/toggle", `{"kind":"category","value":"military"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, total-3, decode[search.TargetResponse](t, rec).Total)

	rec = do(t, h, http.MethodGet, "/api/targets", "", "")
	assert.Equal(t, total-3, decode[search.TargetResponse](t, rec).Total, "filter state persists between requests")

	rec = do(t, h, http.MethodPost, "/api/targets/toggle", `{"kind":"category","value":"harbour"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/targets/toggle", `not json`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/targets/reset", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, total, decode[search.TargetResponse](t, rec).Total)
}

func TestLayers(t *testing.T) {
	h := newTestMux(t, 1<<20)

	rec := do(t, h, http.MethodPost, "/api/layers/terrain", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/layers", "", "")
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "terrain", body["current"])

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPost, "/api/layers/infrared", "", "").Code)
}

func TestSessionFlow(t *testing.T) {
	h := newTestMux(t, 1<<20)

	assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodGet, "/api/profile", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodGet, "/api/status", "", "bogus").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/login", `{"username":"x","password":"p"}`, "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodPost, "/api/login", `{"username":"agent","password":""}`, "").Code)

	rec := do(t, h, http.MethodPost, "/api/register", `{"username":"agent","email":"agent@mill.gov"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	login := decode[loginResponse](t, rec)
	require.NotEmpty(t, login.Token)

	assert.Equal(t, http.StatusConflict, do(t, h, http.MethodPost, "/api/register", `{"username":"agent","email":"agent@mill.gov"}`, "").Code)

	rec = do(t, h, http.MethodPost, "/api/profile", `{"fullname":"Агент Смит"}`, login.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decode[app.Profile](t, rec)
	assert.Equal(t, "Агент Смит", profile.Fullname)
	assert.Zero(t, profile.AccountAgeDays)

	rec = do(t, h, http.MethodGet, "/api/status", "", login.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	status := decode[app.Status](t, rec)
	require.NotNil(t, status.User)
	assert.Equal(t, "agent", status.User.Username)

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/logout", "", login.Token).Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodGet, "/api/profile", "", login.Token).Code)

	rec = do(t, h, http.MethodPost, "/api/login", `{"username":"agent","password":"pw"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Агент Смит", decode[loginResponse](t, rec).User.Fullname)
}

func TestLoadRefreshesCallerSearch(t *testing.T) {
	h := newTestMux(t, 1<<20)

	rec := do(t, h, http.MethodGet, "/api/records?category=vehicle", "", "")
	require.Equal(t, 3, decode[search.Response](t, rec).Total)

	rec = do(t, h, http.MethodPost, "/api/records/load", "- name: A\n  category: vehicle\n- name: B\n", "")
	require.Equal(t, http.StatusOK, rec.Code)
	loaded := decode[loadResponse](t, rec)
	assert.Equal(t, 2, loaded.Loaded)
	assert.Equal(t, records.CategoryVehicle, loaded.Results.Category)
	require.Equal(t, 1, loaded.Results.Total)
	assert.Equal(t, "A", loaded.Results.Results[0].Name)
}

func TestRestoreRememberedUser(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "session.json"),
		[]byte(`{"username":"petrov","fullname":"Петров П.","timezone":"UTC+3"}`), 0o644))

	a := app.New(records.NewStore(records.Builtin(), nil), targets.Builtin(),
		session.NewManager(session.WithRememberFile(dir)), nil)
	handlers := NewHandlers(a, 1<<20, nil)
	require.NoError(t, handlers.Restore())
	h := NewMux(handlers, "")

	rec := do(t, h, http.MethodGet, "/api/status", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	status := decode[app.Status](t, rec)
	require.NotNil(t, status.User)
	assert.Equal(t, "petrov", status.User.Username)

	rec = do(t, h, http.MethodGet, "/api/profile", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Петров П.", decode[app.Profile](t, rec).Fullname)

	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/logout", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodGet, "/api/profile", "", "").Code)
	_, err := os.Stat(filepath.Join(dir, "session.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestRestoreWithoutRememberedUser(t *testing.T) {
	a := app.New(records.NewStore(records.Builtin(), nil), targets.Builtin(),
		session.NewManager(session.WithRememberFile(t.TempDir())), nil)
	assert.ErrorIs(t, NewHandlers(a, 1<<20, nil).Restore(), session.ErrNoSession)
}

func TestConcurrentTogglesKeepEveryUpdate(t *testing.T) {
	h := newTestMux(t, 1<<20)

	var wg sync.WaitGroup
	for _, c := range targets.Categories {
		wg.Add(1)
		go func(c targets.Category) {
			defer wg.Done()
			body := `{"kind":"category","value":"` + string(c) + `"}`
			assert.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/targets/toggle", body, "").Code)
		}(c)
	}
	wg.Wait()

	rec := do(t, h, http.MethodGet, "/api/targets", "", "")
	resp := decode[search.TargetResponse](t, rec)
	assert.Zero(t, resp.Total)
	assert.Empty(t, resp.Filters.Categories)
}
