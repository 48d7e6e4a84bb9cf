package user_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"golocales/internal/api/user"
	apperror "golocales/internal/errors"
	"golocales/internal/pkg/logger"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Login(ctx context.Context, correo string, contrasena string) (string, error) {
	args := m.Called(ctx, correo, contrasena)
	return args.String(0), args.Error(1)
}

func TestLoginUserHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		token      string
		err        error
		wantStatus int
	}{
		{name: "sucesso", body: `{"correo":"ana@mail.com","contrasena":"secreta"}`, token: "tok", wantStatus: http.StatusOK},
		{name: "credenciais invalidas", body: `{"correo":"ana@mail.com","contrasena":"secreta"}`, err: apperror.NewUnauthorizedError("Credenciales inválidas."), wantStatus: http.StatusUnauthorized},
		{name: "json invalido", body: `{`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockUserService)
			svc.On("Login", mock.Anything, "ana@mail.com", "secreta").Return(tt.token, tt.err)
			h := user.NewHandler(svc, logger.Nop())

			rec := httptest.NewRecorder()
			h.LoginUserHandler(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/login", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "tok", body["token"])
			} else {
				assert.EqualValues(t, tt.wantStatus, body["code"])
			}
		})
	}
}
