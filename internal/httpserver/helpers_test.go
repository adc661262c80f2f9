package httpserver

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
	"github.com/Skotchmaster/ecommerce_api/internal/repo"
	"github.com/Skotchmaster/ecommerce_api/internal/service"
	"github.com/Skotchmaster/ecommerce_api/internal/storage"
	pkgdb "github.com/Skotchmaster/ecommerce_api/pkg/db"
	"github.com/Skotchmaster/ecommerce_api/pkg/hash"
	"github.com/Skotchmaster/ecommerce_api/pkg/tokens"
)

var testSecret = []byte("test-jwt-secret")

type testEnv struct {
	E    *echo.Echo
	Repo *repo.GormRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := pkgdb.Open(context.Background(), pkgdb.DriverSQLite, dsn)
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	r := &repo.GormRepo{DB: db}
	store, err := storage.NewLocalStore(t.TempDir(), "http://localhost/static/uploads")
	require.NoError(t, err)

	catalog := &service.CatalogService{Repo: r}
	e := New(slog.New(slog.NewJSONHandler(io.Discard, nil)))
	Register(e, &Deps{
		Auth:      &AuthHTTP{Svc: &service.AuthService{Repo: r, JWTSecret: testSecret}},
		Users:     &UserHTTP{Svc: &service.UserService{Repo: r}},
		Catalog:   &CatalogHTTP{Svc: catalog},
		Orders:    &OrderHTTP{Svc: &service.OrderService{Repo: r}},
		Files:     &FileHTTP{Svc: &service.FileService{Catalog: catalog, Store: store}},
		JWTSecret: testSecret,
		Ready:     r.Ping,
	})
	return &testEnv{E: e, Repo: r}
}

func (env *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) user(t *testing.T, email string, admin bool) (models.User, string) {
	t.Helper()

	pw, err := hash.HashPassword("Secret1!")
	require.NoError(t, err)
	u := models.User{Name: "Test User", Email: email, Password: pw, IsAdmin: admin}
	require.NoError(t, env.Repo.CreateUser(context.Background(), &u))

	tok, _, err := tokens.NewAccessToken(u.ID.String(), u.Email, tokens.RoleFor(admin), time.Now(), testSecret)
	require.NoError(t, err)
	return u, tok
}

func (env *testEnv) product(t *testing.T, name, price string, stock int) models.Product {
	t.Helper()
	ctx := context.Background()

	_, err := env.Repo.CreateCategoryIfMissing(ctx, "general")
	require.NoError(t, err)
	cat, err := env.Repo.GetCategoryByName(ctx, "general")
	require.NoError(t, err)

	p := models.Product{Name: name, Description: "desc", Price: decimal.RequireFromString(price), Stock: stock, CategoryID: cat.ID}
	require.NoError(t, env.Repo.CreateProduct(ctx, &p))
	return p
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, code int) {
	t.Helper()
	require.Equal(t, code, rec.Code, rec.Body.String())
}

