package userservice_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"golocales/internal/domain"
	apperror "golocales/internal/errors"
	"golocales/internal/pkg/logger"
	"golocales/internal/service/userservice"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) FindByEmail(ctx context.Context, correo string) (domain.User, error) {
	args := m.Called(ctx, correo)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserStore) Save(ctx context.Context, user domain.User) (domain.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(domain.User), args.Error(1)
}

type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateToken(correo string, role string) (string, error) {
	args := m.Called(correo, role)
	return args.String(0), args.Error(1)
}

func TestLogin(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("secreta"), bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		name     string
		stored   domain.User
		findErr  error
		password string
		wantErr  bool
		status   int
	}{
		{name: "bcrypt ok", stored: domain.User{Correo: "ana@mail.com", Contrasena: string(hashed), Role: domain.RoleGerente}, password: "secreta"},
		{name: "texto ok", stored: domain.User{Correo: "ana@mail.com", Contrasena: "secreta", Role: domain.RoleGerente}, password: "secreta"},
		{name: "senha errada", stored: domain.User{Correo: "ana@mail.com", Contrasena: "secreta"}, password: "outra", wantErr: true, status: 401},
		{name: "usuario inexistente", findErr: apperror.NewNotFoundError("x"), password: "secreta", wantErr: true, status: 401},
		{name: "falha de storage", findErr: errors.New("down"), password: "secreta", wantErr: true, status: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, tokens := new(MockUserStore), new(MockTokenService)
			svc := userservice.NewService(users, tokens, logger.Nop())

			users.On("FindByEmail", mock.Anything, "ana@mail.com").Return(tt.stored, tt.findErr)
			tokens.On("GenerateToken", "ana@mail.com", "Gerente").Return("tok", nil)

			got, err := svc.Login(context.Background(), " Ana@Mail.com", tt.password)
			if tt.wantErr {
				status, _, _ := apperror.MapToHTTPStatus(err)
				assert.Equal(t, tt.status, status)
				tokens.AssertNotCalled(t, "GenerateToken", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "tok", got)
		})
	}
}

func TestLogin_MissingCredentials(t *testing.T) {
	svc := userservice.NewService(new(MockUserStore), new(MockTokenService), logger.Nop())

	_, err := svc.Login(context.Background(), "", "x")
	assert.IsType(t, &apperror.UnauthorizedError{}, err)
}

func TestRegister_HashesAndDefaultsRole(t *testing.T) {
	users := new(MockUserStore)
	svc := userservice.NewService(users, new(MockTokenService), logger.Nop())

	users.On("Save", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		return u.Correo == "ana@mail.com" && u.Role == domain.RoleCliente &&
			bcrypt.CompareHashAndPassword([]byte(u.Contrasena), []byte("secreta")) == nil
	})).Return(domain.User{Correo: "ana@mail.com", Role: domain.RoleCliente}, nil)

	saved, err := svc.Register(context.Background(), domain.User{Correo: "Ana@Mail.com", Contrasena: "secreta"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCliente, saved.Role)
	users.AssertExpectations(t)
}

func TestRegister_Validation(t *testing.T) {
	users := new(MockUserStore)
	svc := userservice.NewService(users, new(MockTokenService), logger.Nop())

	_, err := svc.Register(context.Background(), domain.User{Correo: "ana@mail.com"})
	assert.IsType(t, &apperror.ValidationError{}, err)
	users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
