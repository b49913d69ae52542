package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"concordia/config"
	deliverycontext "concordia/internal/delivery/context"
	"concordia/internal/delivery/http/middleware"
	"concordia/internal/delivery/http/router"
	"concordia/internal/delivery/http/router/handler"
	"concordia/internal/domain/entity"
	"concordia/internal/domain/service"
	"concordia/internal/infra/auth"
	"concordia/internal/infra/persistence/store"
	"concordia/internal/infra/spreadsheet"
	"concordia/internal/usecase/impl"
)

const googleTestToken = "google-token"

// fakeGoogle accepts exactly one ID token.
type fakeGoogle struct{}

func (fakeGoogle) VerifyIDToken(_ context.Context, idToken string) (*service.OAuthUser, error) {
	if idToken != googleTestToken {
		return nil, service.ErrInvalidIDToken
	}

	return &service.OAuthUser{Email: "teacher@school.edu", Name: "Teacher"}, nil
}

func (fakeGoogle) GetProvider() entity.ProviderType {
	return entity.ProviderGoogle
}

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := &config.Config{}
	cfg.SecretKey.Session = "test-session-secret"
	cfg.HTTP.MaxRequestBodySize = "1MB"

	db, err := store.OpenSQLite("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, store.Migrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	authUC := impl.NewAuthService(impl.AuthServiceParams{
		TxManager:         store.NewTransactionManager(db),
		CredentialRepo:    store.NewCredentialRepository(db),
		Hasher:            auth.NewBcryptHasherWithCost(bcrypt.MinCost),
		TokenService:      tokens,
		GoogleAuthService: fakeGoogle{},
		Logger:            logger,
	})
	rosterUC := impl.NewRosterService(impl.RosterServiceParams{
		StudentRepo: store.NewStudentRepository(db),
		Sheet:       spreadsheet.NewRosterSheet(logger),
		Logger:      logger,
	})
	bundleUC := impl.NewBundleService(impl.BundleServiceParams{
		ReportWriter: spreadsheet.NewBundleReportWriter(logger),
		Logger:       logger,
	})

	return NewEcho(cfg, logger, router.RouterParams{
		AuthHandler:    handler.NewAuthHandler(handler.AuthHandlerParams{AuthUC: authUC, Logger: logger}),
		StudentHandler: handler.NewStudentHandler(handler.StudentHandlerParams{RosterUC: rosterUC, Logger: logger}),
		BundleHandler:  handler.NewBundleHandler(handler.BundleHandlerParams{BundleUC: bundleUC, Logger: logger}),
		AuthMiddleware: middleware.NewAuthMiddleware(authUC),
	})
}

func do(t *testing.T, e *echo.Echo, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())

	return out
}

func register(t *testing.T, e *echo.Echo) string {
	t.Helper()

	rec := do(t, e, http.MethodPost, "/api/register", "", map[string]string{"username": "maria", "password": "s3cret"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	return decode(t, rec)["token"].(string)
}

func TestServer_Health(t *testing.T) {
	e := newTestServer(t)

	rec := do(t, e, http.MethodGet, "/api/ping", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":1}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(deliverycontext.HeaderXRequestID))

	rec = do(t, e, http.MethodGet, "/health", "", nil)
	assert.JSONEq(t, `{"ok":1,"status":"ok"}`, rec.Body.String())
}

func TestServer_RegisterLoginVerify(t *testing.T) {
	e := newTestServer(t)

	rec := do(t, e, http.MethodPost, "/api/register", "", map[string]string{"username": "maria", "password": "s3cret"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.EqualValues(t, 1, body["ok"])
	assert.Equal(t, "maria", body["user"])
	assert.NotEmpty(t, body["token"])

	rec = do(t, e, http.MethodPost, "/api/login", "", map[string]string{"username": "maria", "password": "s3cret"})
	require.Equal(t, http.StatusOK, rec.Code)
	token := decode(t, rec)["token"].(string)

	rec = do(t, e, http.MethodGet, "/api/verify-token", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":1,"user":"maria"}`, rec.Body.String())
}

func TestServer_RegisterAcceptsAnyNonEmptyPair(t *testing.T) {
	e := newTestServer(t)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "long password", username: "long", password: strings.Repeat("p", 80)},
		{name: "multibyte password", username: "multi", password: strings.Repeat("ñ", 50)},
		{name: "username kept verbatim", username: " bob", password: "pw"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds := map[string]string{"username": tt.username, "password": tt.password}

			rec := do(t, e, http.MethodPost, "/api/register", "", creds)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tt.username, decode(t, rec)["user"])

			rec = do(t, e, http.MethodPost, "/api/login", "", creds)
			assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		})
	}

	rec := do(t, e, http.MethodPost, "/api/login", "", map[string]string{"username": "bob", "password": "pw"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_AuthFailures(t *testing.T) {
	e := newTestServer(t)
	register(t, e)

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		body       any
		wantStatus int
		wantError  string
		wantCode   string
	}{
		{
			name: "register missing password", method: http.MethodPost, path: "/api/register",
			body: map[string]string{"username": "x"}, wantStatus: http.StatusBadRequest,
			wantError: "missing fields", wantCode: "MISSING_FIELDS",
		},
		{
			name: "register taken username", method: http.MethodPost, path: "/api/register",
			body: map[string]string{"username": "maria", "password": "x"}, wantStatus: http.StatusConflict,
			wantCode: "USER_ALREADY_EXISTS",
		},
		{
			name: "login wrong password", method: http.MethodPost, path: "/api/login",
			body: map[string]string{"username": "maria", "password": "nope"}, wantStatus: http.StatusUnauthorized,
			wantError: "invalid credentials", wantCode: "INVALID_CREDENTIALS",
		},
		{
			name: "login unknown user", method: http.MethodPost, path: "/api/login",
			body: map[string]string{"username": "ghost", "password": "s3cret"}, wantStatus: http.StatusUnauthorized,
			wantError: "invalid credentials", wantCode: "INVALID_CREDENTIALS",
		},
		{
			name: "verify without header", method: http.MethodGet, path: "/api/verify-token",
			wantStatus: http.StatusUnauthorized, wantError: "missing authorization", wantCode: "MISSING_AUTHORIZATION",
		},
		{
			name: "verify garbage token", method: http.MethodGet, path: "/api/verify-token", token: "garbage",
			wantStatus: http.StatusUnauthorized, wantError: "invalid token", wantCode: "UNAUTHORIZED",
		},
		{
			name: "students without header", method: http.MethodGet, path: "/api/students",
			wantStatus: http.StatusUnauthorized, wantCode: "MISSING_AUTHORIZATION",
		},
		{
			name: "google login missing token", method: http.MethodPost, path: "/api/google-login",
			body: map[string]string{}, wantStatus: http.StatusBadRequest,
			wantError: "missing idToken", wantCode: "MISSING_ID_TOKEN",
		},
		{
			name: "google login rejected token", method: http.MethodPost, path: "/api/google-login",
			body: map[string]string{"idToken": "forged"}, wantStatus: http.StatusUnauthorized,
			wantError: "invalid id token", wantCode: "INVALID_ID_TOKEN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, e, tt.method, tt.path, tt.token, tt.body)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			body := decode(t, rec)
			assert.EqualValues(t, 0, body["ok"])
			assert.Equal(t, tt.wantCode, body["code"])
			assert.NotEmpty(t, body["requestId"])
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body["error"])
			}
		})
	}
}

func TestServer_GoogleLogin(t *testing.T) {
	e := newTestServer(t)

	for range 2 {
		rec := do(t, e, http.MethodPost, "/api/google-login", "", map[string]string{"idToken": googleTestToken})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		body := decode(t, rec)
		assert.Equal(t, "teacher@school.edu", body["user"])

		rec = do(t, e, http.MethodGet, "/api/verify-token", body["token"].(string), nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestServer_StudentLifecycle(t *testing.T) {
	e := newTestServer(t)
	token := register(t, e)

	student := map[string]any{
		"sid":        "s1",
		"name":       "Ana",
		"id":         "1001",
		"level":      "3A",
		"email":      "ana@school.edu",
		"attendance": map[string]any{"2024-03-01": true},
		"grades":     map[string]any{"p1": 8.5, "notes": []any{"a", "b"}},
	}

	rec := do(t, e, http.MethodPost, "/api/students", token, student)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"ok":1}`, rec.Body.String())

	rec = do(t, e, http.MethodPost, "/api/students", token, map[string]any{"sid": "s1", "name": "Other"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, e, http.MethodPost, "/api/students", token, map[string]any{"name": "No sid"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "missing student sid", decode(t, rec)["error"])

	rec = do(t, e, http.MethodGet, "/api/students", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, student, listed[0])

	rec = do(t, e, http.MethodPut, "/api/students/s1", token, map[string]any{"sid": "ignored", "name": "Ana María"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, e, http.MethodGet, "/api/students", token, nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "s1", listed[0]["sid"])
	assert.Equal(t, "Ana María", listed[0]["name"])
	assert.Equal(t, map[string]any{}, listed[0]["grades"])

	rec = do(t, e, http.MethodPut, "/api/students/unknown", token, map[string]any{"name": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	for range 2 {
		rec = do(t, e, http.MethodDelete, "/api/students/s1", token, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	rec = do(t, e, http.MethodGet, "/api/students", token, nil)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestServer_ExportThenImport(t *testing.T) {
	e := newTestServer(t)
	token := register(t, e)

	rec := do(t, e, http.MethodPost, "/api/students", token, map[string]any{"sid": "s1", "name": "Ana", "level": "3A"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, e, http.MethodGet, "/api/students/export", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "students.xlsx")
	workbook := rec.Body.Bytes()

	rec = do(t, e, http.MethodDelete, "/api/students/s1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	upload := func(content []byte) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("file", "students.xlsx")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/students/import", &buf)
		req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		return rec
	}

	rec = upload(workbook)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"ok":1,"imported":1,"skipped":[]}`, rec.Body.String())

	rec = upload(workbook)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":1,"imported":0,"skipped":[{"line":2,"sid":"s1","reason":"sid already exists"}]}`, rec.Body.String())

	rec = upload([]byte("not a workbook"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_SPREADSHEET", decode(t, rec)["code"])
}

func TestServer_BundleNormalize(t *testing.T) {
	e := newTestServer(t)
	token := register(t, e)

	legacy := `{"notas":[{"id":"g1","nombre":"Ana","curso":"3A","p1":8,"p2":7,"p3":9,"ex":6,"promedio":"7.50"}],"cursos":["b","A","a"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/bundle/normalize", strings.NewReader(legacy))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"promedio":7.50`)
	body := decode(t, rec)
	assert.EqualValues(t, 1, body["version"])
	assert.Len(t, body["cursos"], 2)

	req = httptest.NewRequest(http.MethodPost, "/api/bundle/normalize", strings.NewReader(`{"version":7}`))
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_BUNDLE", decode(t, rec)["code"])
}
