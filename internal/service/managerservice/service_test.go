package managerservice_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"golocales/internal/domain"
	apperror "golocales/internal/errors"
	"golocales/internal/pkg/logger"
	"golocales/internal/pkg/mq"
	"golocales/internal/service/managerservice"
)

type MockLocales struct {
	mock.Mock
}

func (m *MockLocales) FindByID(ctx context.Context, id string) (domain.Local, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Local), args.Error(1)
}

func (m *MockLocales) FindByManager(ctx context.Context, correo string) ([]domain.Local, error) {
	args := m.Called(ctx, correo)
	return args.Get(0).([]domain.Local), args.Error(1)
}

func (m *MockLocales) Delete(ctx context.Context, local domain.Local) error {
	args := m.Called(ctx, local)
	return args.Error(0)
}

type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) FindByEmail(ctx context.Context, correo string) (domain.User, error) {
	args := m.Called(ctx, correo)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUsers) UpdateRole(ctx context.Context, correo string, role domain.Role) error {
	args := m.Called(ctx, correo, role)
	return args.Error(0)
}

func newService(locales *MockLocales, users *MockUsers) *managerservice.Service {
	return managerservice.NewService(locales, users, mq.NopPublisher{}, logger.Nop())
}

func TestResolve_EmptyEmailIsNoChange(t *testing.T) {
	svc := newService(new(MockLocales), new(MockUsers))

	a, err := svc.Resolve(context.Background(), "   ", "")
	assert.NoError(t, err)
	assert.Nil(t, a)
}

func TestResolve_NormalizesAndPromotesCliente(t *testing.T) {
	locales, users := new(MockLocales), new(MockUsers)
	svc := newService(locales, users)

	users.On("FindByEmail", mock.Anything, "ana@mail.com").
		Return(domain.User{Correo: "ana@mail.com", Nombre: "Ana", Contrasena: "secreta", Role: domain.RoleCliente}, nil)

	a, err := svc.Resolve(context.Background(), " Ana@Mail.com ", "")
	require.NoError(t, err)
	assert.True(t, a.Promote)
	assert.Equal(t, domain.Manager{Nombre: "Ana", Correo: "ana@mail.com", Contrasena: "secreta"}, a.Manager)
	locales.AssertNotCalled(t, "FindByManager", mock.Anything, mock.Anything)
}

func TestResolve_UserNotFound(t *testing.T) {
	users := new(MockUsers)
	svc := newService(new(MockLocales), users)
	users.On("FindByEmail", mock.Anything, "ghost@mail.com").
		Return(domain.User{}, apperror.NewNotFoundError("x"))

	_, err := svc.Resolve(context.Background(), "ghost@mail.com", "")
	var rej *apperror.ManagerRejectionError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, apperror.ReasonUserNotFound, rej.Reason)
	assert.Equal(t, "El usuario con correo 'ghost@mail.com' no existe.", rej.Msg)
}

func TestResolve_InvalidRole(t *testing.T) {
	users := new(MockUsers)
	svc := newService(new(MockLocales), users)
	users.On("FindByEmail", mock.Anything, "admin@mail.com").
		Return(domain.User{Correo: "admin@mail.com", Role: "Admin"}, nil)

	_, err := svc.Resolve(context.Background(), "admin@mail.com", "")
	var rej *apperror.ManagerRejectionError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, apperror.ReasonInvalidRole, rej.Reason)
}

func TestResolve_GerenteAlreadyAssigned(t *testing.T) {
	locales, users := new(MockLocales), new(MockUsers)
	svc := newService(locales, users)

	users.On("FindByEmail", mock.Anything, "ana@mail.com").
		Return(domain.User{Correo: "ana@mail.com", Role: domain.RoleGerente}, nil)
	locales.On("FindByManager", mock.Anything, "ana@mail.com").
		Return([]domain.Local{{LocalID: "L1"}}, nil)

	_, err := svc.Resolve(context.Background(), "ana@mail.com", "")
	var rej *apperror.ManagerRejectionError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, "L1", rej.LocalID)

	// editar o próprio local não conflita
	a, err := svc.Resolve(context.Background(), "ana@mail.com", "L1")
	require.NoError(t, err)
	assert.False(t, a.Promote)
}

func TestResolve_InfrastructureError(t *testing.T) {
	users := new(MockUsers)
	svc := newService(new(MockLocales), users)
	users.On("FindByEmail", mock.Anything, "ana@mail.com").Return(domain.User{}, errors.New("timeout"))

	_, err := svc.Resolve(context.Background(), "ana@mail.com", "")
	assert.IsType(t, &apperror.InternalError{}, err)
}

func TestCommit_PromotesOnlyMarked(t *testing.T) {
	users := new(MockUsers)
	svc := newService(new(MockLocales), users)
	users.On("UpdateRole", mock.Anything, "ana@mail.com", domain.RoleGerente).Return(nil).Once()

	svc.Commit(context.Background(), nil, "L1")
	svc.Commit(context.Background(), &managerservice.Assignment{Manager: domain.Manager{Correo: "bob@mail.com"}}, "L1")
	svc.Commit(context.Background(), &managerservice.Assignment{Manager: domain.Manager{Correo: "ana@mail.com"}, Promote: true}, "L1")

	users.AssertExpectations(t)
	users.AssertNumberOfCalls(t, "UpdateRole", 1)
}

func TestCommit_FailureIsSwallowed(t *testing.T) {
	users := new(MockUsers)
	svc := newService(new(MockLocales), users)
	users.On("UpdateRole", mock.Anything, "ana@mail.com", domain.RoleGerente).Return(errors.New("throttled"))

	assert.NotPanics(t, func() {
		svc.Commit(context.Background(), &managerservice.Assignment{Manager: domain.Manager{Correo: "ana@mail.com"}, Promote: true}, "L1")
	})
}

func TestOnDelete(t *testing.T) {
	locales, users := new(MockLocales), new(MockUsers)
	svc := newService(locales, users)

	local := domain.Local{LocalID: "L1", Gerente: &domain.Manager{Correo: "ana@mail.com"}}
	locales.On("FindByID", mock.Anything, "L1").Return(local, nil)
	users.On("UpdateRole", mock.Anything, "ana@mail.com", domain.RoleCliente).Return(errors.New("down"))
	locales.On("Delete", mock.Anything, local).Return(nil)

	deleted, found, err := svc.OnDelete(context.Background(), "L1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "L1", deleted.LocalID)
	locales.AssertCalled(t, "Delete", mock.Anything, local)
}

func TestOnDelete_Missing(t *testing.T) {
	locales := new(MockLocales)
	svc := newService(locales, new(MockUsers))
	locales.On("FindByID", mock.Anything, "nope").Return(domain.Local{}, apperror.NewNotFoundError("Local no encontrado"))

	_, found, err := svc.OnDelete(context.Background(), "nope")
	assert.NoError(t, err)
	assert.False(t, found)
	locales.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
