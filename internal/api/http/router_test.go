package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	auth "github.com/mind-engage/mindengage-qformat/internal/auth/middleware"
	"github.com/mind-engage/mindengage-qformat/internal/bank"
	"github.com/mind-engage/mindengage-qformat/internal/db"
	"github.com/mind-engage/mindengage-qformat/internal/export"
	"github.com/mind-engage/mindengage-qformat/internal/i18n"
	"github.com/mind-engage/mindengage-qformat/internal/storage"
)

type testServer struct {
	*httptest.Server
	auth  *auth.AuthService
	token string
}

func newTestServer(t *testing.T, strict bool) *testServer {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()
	dbh, err := db.Open(ctx, db.DriverSQLite, "file:"+filepath.Join(dir, "api.db")+"?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	t.Cleanup(func() { dbh.Close() })
	bs, err := storage.NewFSStore(filepath.Join(dir, "blobs"))
	require.NoError(t, err)

	store := bank.NewSQLStore(dbh, string(db.DriverSQLite))
	arch := export.NewBlobArchive(dbh, bs)
	loc := i18n.English()
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)

	authSvc := auth.NewAuthService("test")
	r := NewRouter(Deps{
		Auth:          authSvc,
		Accounts:      auth.Accounts{{Username: "t", PassHash: string(hash), Role: "teacher"}},
		Store:         store,
		Exporter:      export.New(store, loc, export.WithStrict(strict), export.WithArchive(arch)),
		Archive:       arch,
		Localizer:     loc,
		DefaultFormat: "txt",
		CORSOrigins:   []string{"http://localhost:3000"},
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	res, err := http.Post(srv.URL+"/auth/login", "application/json", strings.NewReader(`{"username":"t","password":"pw"}`))
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	var tok struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&tok))
	return &testServer{Server: srv, auth: authSvc, token: tok.AccessToken}
}

func (s *testServer) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, s.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+s.token)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { res.Body.Close() })
	return res
}

const weekOne = `{"name":"Week 1","questions":[
 {"id":"1","qtype":"truefalse","question_text":"<p>Sky is blue</p>"},
 {"id":"2","qtype":"ddwtos","name":"Drag words"},
 {"id":"3","qtype":"shortanswer","question_text":"Capital of France?"}
]}`

func TestExportFlowLenient(t *testing.T) {
	s := newTestServer(t, false)

	res := s.do(t, http.MethodPut, "/categories/week1", weekOne)
	require.Equal(t, http.StatusOK, res.StatusCode)

	res = s.do(t, http.MethodGet, "/categories", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var cats []map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&cats))
	require.Len(t, cats, 1)
	assert.Equal(t, "Week 1", cats[0]["name"])

	res = s.do(t, http.MethodGet, "/categories/week1/export", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, `attachment; filename=questions.txt`, res.Header.Get("Content-Disposition"))
	id := res.Header.Get("X-Export-ID")
	require.NotEmpty(t, id)

	res = s.do(t, http.MethodGet, "/exports/"+id, "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var rec export.Record
	require.NoError(t, json.NewDecoder(res.Body).Decode(&rec))
	assert.Equal(t, []string{"Drag words"}, rec.Skipped)
	assert.Equal(t, "t", rec.CreatedBy)

	res = s.do(t, http.MethodGet, "/exports/"+id+"/download", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "text/plain; charset=utf-8", res.Header.Get("Content-Type"))

	res = s.do(t, http.MethodGet, "/exports/nope", "")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestExportFlowStrict(t *testing.T) {
	s := newTestServer(t, true)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPut, "/categories/week1", weekOne).StatusCode)

	res := s.do(t, http.MethodGet, "/categories/week1/export?format=pdf", "")
	require.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	var body struct {
		Message      string   `json:"message"`
		NotSupported []string `json:"not_supported"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, []string{"Drag words"}, body.NotSupported)
	assert.Equal(t, "The following questions are not supported:\n- Drag words", body.Message)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/categories/week1/export?format=docx", "").StatusCode)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/categories/missing/export", "").StatusCode)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPut, "/categories/week2", "{").StatusCode)
}

func TestRoutesRequireToken(t *testing.T) {
	s := newTestServer(t, true)
	res, err := http.Get(s.URL + "/categories")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, err = http.Get(s.URL + "/healthz")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestLoginPreflightAllowsPost(t *testing.T) {
	s := newTestServer(t, true)
	req, err := http.NewRequest(http.MethodOptions, s.URL+"/auth/login", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()

	assert.Equal(t, "http://localhost:3000", res.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, res.Header.Get("Access-Control-Allow-Methods"), http.MethodPost)
}

func TestExportsAllowExportRoleOrDownloadRole(t *testing.T) {
	s := newTestServer(t, false)
	for role, want := range map[string]int{
		"reviewer": http.StatusNotFound, // export:download
		"teacher":  http.StatusNotFound, // question:export
		"ghost":    http.StatusForbidden,
	} {
		tok, err := s.auth.IssueJWT("u", role)
		require.NoError(t, err)
		req, err := http.NewRequest(http.MethodGet, s.URL+"/exports/nope", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+tok)
		res, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		res.Body.Close()
		assert.Equal(t, want, res.StatusCode, role)
	}
}
