package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golocales/internal/api/local"
	"golocales/internal/api/router"
	"golocales/internal/api/user"
	"golocales/internal/domain"
	"golocales/internal/pkg/logger"
	"golocales/internal/pkg/token"
)

// stubLocales responde sempre com sucesso e registra o id recebido.
type stubLocales struct {
	lastID string
}

func (s *stubLocales) CreateLocal(ctx context.Context, in domain.NewLocalInput) (domain.Local, error) {
	return domain.Local{LocalID: "L1", Direccion: in.Direccion}, nil
}

func (s *stubLocales) GetLocalByID(ctx context.Context, id string) (domain.Local, error) {
	s.lastID = id
	return domain.Local{LocalID: id}, nil
}

func (s *stubLocales) ListLocales(ctx context.Context) ([]domain.Local, error) {
	return []domain.Local{}, nil
}

func (s *stubLocales) UpdateLocal(ctx context.Context, id string, patch domain.LocalPatch) (map[string]interface{}, error) {
	s.lastID = id
	return patch.Attributes(), nil
}

func (s *stubLocales) DeleteLocal(ctx context.Context, id string) error {
	s.lastID = id
	return nil
}

type stubLogin struct{}

func (stubLogin) Login(ctx context.Context, correo, contrasena string) (string, error) {
	return "tok", nil
}

func newRouter(t *testing.T, opts router.Options) (http.Handler, *stubLocales) {
	t.Helper()
	svc := &stubLocales{}
	log := logger.Nop()
	return router.NewRouter(local.NewHandler(svc, log), user.NewHandler(stubLogin{}, log), log, opts), svc
}

func do(h http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRoutes(t *testing.T) {
	h, svc := newRouter(t, router.Options{})

	rec := do(h, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = do(h, http.MethodPatch, "/v1/locales/abc", `{"direccion":"x"}`, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", svc.lastID)

	rec = do(h, http.MethodPut, "/v1/locales", `{"direccion":"x"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(h, http.MethodDelete, "/v1/locales/abc", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(h, http.MethodOptions, "/v1/locales/abc", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRoutes_AuthOnWrites(t *testing.T) {
	tokens := token.NewService("segredo", time.Hour)
	h, _ := newRouter(t, router.Options{
		AuthEnabled: true,
		TokenSvc:    tokens,
		WriteRoles:  []domain.Role{domain.RoleGerente},
	})

	// leitura continua aberta
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/v1/locales", "", nil).Code)

	assert.Equal(t, http.StatusUnauthorized, do(h, http.MethodPost, "/v1/locales", `{"direccion":"x"}`, nil).Code)

	cliente, err := tokens.GenerateToken("ana@mail.com", string(domain.RoleCliente))
	require.NoError(t, err)
	rec := do(h, http.MethodPost, "/v1/locales", `{"direccion":"x"}`, map[string]string{"Authorization": "Bearer " + cliente})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	gerente, err := tokens.GenerateToken("bob@mail.com", string(domain.RoleGerente))
	require.NoError(t, err)
	rec = do(h, http.MethodPost, "/v1/locales", `{"direccion":"x"}`, map[string]string{"Authorization": "Bearer " + gerente})
	assert.Equal(t, http.StatusCreated, rec.Code)

	assert.Equal(t, http.StatusOK, do(h, http.MethodPost, "/v1/auth/login", `{"correo":"a","contrasena":"b"}`, nil).Code)
}
