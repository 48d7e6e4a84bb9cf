package userservice

import (
	"context"
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"golocales/internal/domain"
	apperror "golocales/internal/errors"
	"golocales/internal/pkg/logger"
)

// UserStore é o que o serviço usa do diretório de usuários.
type UserStore interface {
	FindByEmail(ctx context.Context, correo string) (domain.User, error)
	Save(ctx context.Context, user domain.User) (domain.User, error)
}

// TokenService é o contrato da camada de token (internal/pkg/token).
type TokenService interface {
	GenerateToken(correo string, role string) (string, error)
}

// UserService autentica usuários do diretório e registra contas novas.
type UserService struct {
	users    UserStore
	tokenSvc TokenService
	logger   logger.Logger
}

// NewService cria uma nova instância do UserService, injetando o Repositório.
func NewService(users UserStore, tokenSvc TokenService, log logger.Logger) *UserService {
	return &UserService{users: users, tokenSvc: tokenSvc, logger: log}
}

// Register grava um usuário novo com a senha em bcrypt. Papel vazio vira Cliente.
func (s *UserService) Register(ctx context.Context, user domain.User) (domain.User, error) {
	user.Correo = domain.NormalizeEmail(user.Correo)
	if user.Correo == "" || user.Contrasena == "" {
		return domain.User{}, apperror.NewValidationError("Correo y contraseña son obligatorios.")
	}
	if user.Role == "" {
		user.Role = domain.RoleCliente
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Contrasena), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}
	user.Contrasena = string(hashed)

	saved, err := s.users.Save(ctx, user)
	if err != nil {
		return domain.User{}, apperror.Wrap("Error interno", err)
	}
	s.logger.Info("Usuário registrado.", map[string]interface{}{"correo": saved.Correo, "role": string(saved.Role)})
	return saved, nil
}

// Login verifica as credenciais e emite um JWT com o correo e o papel.
// O diretório pode guardar senhas em bcrypt ou em texto; ambos são aceitos.
func (s *UserService) Login(ctx context.Context, correo, contrasena string) (string, error) {
	correo = domain.NormalizeEmail(correo)
	if correo == "" || contrasena == "" {
		return "", apperror.NewUnauthorizedError("Correo y contraseña son obligatorios.")
	}

	user, err := s.users.FindByEmail(ctx, correo)
	if apperror.IsNotFound(err) {
		return "", apperror.NewUnauthorizedError("Credenciales inválidas.")
	}
	if err != nil {
		return "", apperror.Wrap("Error interno", err)
	}

	if !passwordMatches(user.Contrasena, contrasena) {
		s.logger.Info("Login rejeitado.", map[string]interface{}{"correo": correo})
		return "", apperror.NewUnauthorizedError("Credenciales inválidas.")
	}

	tokenString, err := s.tokenSvc.GenerateToken(user.Correo, string(user.Role))
	if err != nil {
		return "", apperror.NewInternalError("Falha ao gerar token de autenticação.", err)
	}
	return tokenString, nil
}

func passwordMatches(stored, given string) bool {
	if stored == "" {
		return false
	}
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}
