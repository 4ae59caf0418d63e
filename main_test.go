package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"item-audit-api/auth"
	"item-audit-api/controllers"
	"item-audit-api/database"
	"item-audit-api/models"
	"item-audit-api/repositories"
)

type testApp struct {
	router *chi.Mux
	repos  *repositories.Repositories
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := database.Initialize(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repos := repositories.NewRepositories(db)
	require.NoError(t, seedDefaultUser(repos.User))

	tokens := auth.NewTokenService("test-secret", auth.DefaultTokenTTL)
	ctrl := controllers.NewControllers(repos, tokens)

	return &testApp{
		router: setupRouter(ctrl, repos, tokens, zap.NewNop()),
		repos:  repos,
	}
}

func (app *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	return rec
}

func (app *testApp) login(t *testing.T) string {
	t.Helper()

	form := url.Values{"username": {"test"}, "password": {"test"}}
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := app.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body["access_token"])
	return body["access_token"]
}

func TestRoot(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"message": "Fast API in Python"}`, rec.Body.String())
}

func TestTokenIssuance(t *testing.T) {
	app := newTestApp(t)

	form := url.Values{"username": {"test"}, "password": {"test"}}
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := app.do(req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["access_token"])
	assert.Equal(t, "bearer", body["token_type"])
}

func TestTokenWrongPassword(t *testing.T) {
	app := newTestApp(t)

	form := url.Values{"username": {"test"}, "password": {"wrong"}}
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := app.do(req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"detail": "Invalid username or password"}`, rec.Body.String())
}

func TestUsersMe(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := app.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"username": "test"}`, rec.Body.String())

	// Without a token the endpoint is closed
	rec = app.do(httptest.NewRequest(http.MethodGet, "/users/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestItemLifecycleWithAudit(t *testing.T) {
	app := newTestApp(t)

	// Create an item
	req := httptest.NewRequest(http.MethodPost, "/items/", strings.NewReader(`{"name":"item1"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := app.do(req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "item1", created.Name)
	assert.NotZero(t, created.ID)

	// Read it back
	rec = app.do(httptest.NewRequest(http.MethodGet, "/items/1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	// List includes it
	rec = app.do(httptest.NewRequest(http.MethodGet, "/items/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var items []models.Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	assert.Len(t, items, 1)

	// Missing item is a 404
	rec = app.do(httptest.NewRequest(http.MethodGet, "/items/999", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// The create was audited with its final status
	rec = app.do(httptest.NewRequest(http.MethodGet, "/audit_log/?path=/items/&method=POST", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []models.AuditLogEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, http.StatusCreated, entries[0].StatusCode)
	assert.Equal(t, "/items/", entries[0].Path)
	assert.Contains(t, entries[0].RequestBody, "item1")
}

func TestAuditLogFilters(t *testing.T) {
	app := newTestApp(t)

	// Generate some traffic
	app.do(httptest.NewRequest(http.MethodGet, "/items/", nil))
	req := httptest.NewRequest(http.MethodPost, "/items/", strings.NewReader(`{"name":"item1"}`))
	req.Header.Set("Content-Type", "application/json")
	app.do(req)

	rec := app.do(httptest.NewRequest(http.MethodGet, "/audit_log/?method=POST", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []models.AuditLogEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "POST", entries[0].Method)

	// Combining filters narrows further
	rec = app.do(httptest.NewRequest(http.MethodGet, "/audit_log/?method=GET&path=/items/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	entries = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "GET", entries[0].Method)
	assert.Equal(t, "/items/", entries[0].Path)
}

func TestTokenResponseNotStored(t *testing.T) {
	app := newTestApp(t)
	app.login(t)

	entries, err := app.repos.Audit.List(context.Background(), models.AuditLogFilter{Path: "/token"})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	// Neither the issued token nor the submitted password is persisted
	assert.NotContains(t, entries[0].ResponseBody, "access_token")
	assert.NotContains(t, entries[0].RequestBody, "password")
	assert.Equal(t, http.StatusOK, entries[0].StatusCode)
	assert.WithinDuration(t, time.Now().UTC(), entries[0].Timestamp, time.Minute)
}

func TestMalformedBodyDoesNotBreakHandlers(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/items/", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := app.do(req)

	// The handler's own validation response is delivered untouched
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	entries, err := app.repos.Audit.List(context.Background(), models.AuditLogFilter{Method: "POST"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "", entries[0].RequestBody)
	assert.Equal(t, http.StatusBadRequest, entries[0].StatusCode)
}
