package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError é a interface central para todos os erros customizados do serviço de locais.
// Ela permite que o código externo (Handler) acesse a Categoria e a Mensagem do erro.
type AppError interface {
	Error() string    // Implementa a interface error padrão do Go
	Category() string // Categoria do erro (e.g., "VALIDATION_ERROR", "NOT_FOUND", "INTERNAL_ERROR")
	HTTPStatus() int  // Código HTTP sugerido para o Handler
	Unwrap() error    // Permite encapsular erros subjacentes (original error)
}

// Detailer é implementado pelos erros que anexam campos extras ao corpo da resposta.
type Detailer interface {
	Details() map[string]interface{}
}

// --- Tipos de Erro Específicos (Erros de Domínio) ---

// ValidationError representa falhas de validação de dados de entrada.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string    { return e.Msg }
func (e *ValidationError) Category() string { return "VALIDATION_ERROR" }
func (e *ValidationError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *ValidationError) Unwrap() error    { return nil }

// NewValidationError cria um novo erro de validação.
func NewValidationError(msg string) AppError {
	return &ValidationError{Msg: msg}
}

// NotFoundError representa a ausência de um recurso solicitado.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string    { return e.Msg }
func (e *NotFoundError) Category() string { return "NOT_FOUND" }
func (e *NotFoundError) HTTPStatus() int  { return http.StatusNotFound } // 404
func (e *NotFoundError) Unwrap() error    { return nil }

// NewNotFoundError cria um novo erro de recurso não encontrado.
func NewNotFoundError(msg string) AppError {
	return &NotFoundError{Msg: msg}
}

// Motivos de rejeição do protocolo de atribuição de gerente.
const (
	ReasonUserNotFound           = "USER_NOT_FOUND"
	ReasonInvalidRole            = "INVALID_ROLE"
	ReasonManagerAlreadyAssigned = "MANAGER_ALREADY_ASSIGNED"
)

// ManagerRejectionError é a recusa estruturada de uma atribuição de gerente.
// Sempre 400: o cliente pediu um gerente que não pode ser atribuído.
type ManagerRejectionError struct {
	Reason  string
	Msg     string
	LocalID string // Local que já tem o gerente, só para MANAGER_ALREADY_ASSIGNED
}

func (e *ManagerRejectionError) Error() string    { return e.Msg }
func (e *ManagerRejectionError) Category() string { return e.Reason }
func (e *ManagerRejectionError) HTTPStatus() int  { return http.StatusBadRequest }
func (e *ManagerRejectionError) Unwrap() error    { return nil }

func (e *ManagerRejectionError) Details() map[string]interface{} {
	if e.LocalID == "" {
		return nil
	}
	return map[string]interface{}{"local_id": e.LocalID}
}

// NewUserNotFound rejeita um correo que não existe no diretório.
func NewUserNotFound(correo string) AppError {
	return &ManagerRejectionError{
		Reason: ReasonUserNotFound,
		Msg:    fmt.Sprintf("El usuario con correo '%s' no existe.", correo),
	}
}

// NewInvalidRole rejeita um usuário cujo papel não é Cliente nem Gerente.
func NewInvalidRole(correo string) AppError {
	return &ManagerRejectionError{
		Reason: ReasonInvalidRole,
		Msg:    fmt.Sprintf("El usuario '%s' debe tener rol 'Gerente' o 'Cliente'.", correo),
	}
}

// NewManagerAlreadyAssigned rejeita um gerente que já responde por outro local.
func NewManagerAlreadyAssigned(correo, localID string) AppError {
	return &ManagerRejectionError{
		Reason:  ReasonManagerAlreadyAssigned,
		Msg:     fmt.Sprintf("El gerente '%s' ya tiene un local asignado.", correo),
		LocalID: localID,
	}
}

// UnauthorizedError representa credenciais ausentes ou inválidas.
type UnauthorizedError struct {
	Msg string
}

func (e *UnauthorizedError) Error() string    { return e.Msg }
func (e *UnauthorizedError) Category() string { return "UNAUTHORIZED" }
func (e *UnauthorizedError) HTTPStatus() int  { return http.StatusUnauthorized } // 401
func (e *UnauthorizedError) Unwrap() error    { return nil }

// NewUnauthorizedError cria um erro de autenticação.
func NewUnauthorizedError(msg string) AppError {
	return &UnauthorizedError{Msg: msg}
}

// ForbiddenError representa um usuário autenticado sem a permissão necessária.
type ForbiddenError struct {
	Msg string
}

func (e *ForbiddenError) Error() string    { return e.Msg }
func (e *ForbiddenError) Category() string { return "FORBIDDEN" }
func (e *ForbiddenError) HTTPStatus() int  { return http.StatusForbidden } // 403
func (e *ForbiddenError) Unwrap() error    { return nil }

// NewForbiddenError cria um erro de autorização.
func NewForbiddenError(msg string) AppError {
	return &ForbiddenError{Msg: msg}
}

// --- Tipos de Erro de Infraestrutura (Encapsulamento) ---

// InternalError representa falhas inesperadas no servidor, serviço ou repositório.
type InternalError struct {
	Msg string
	Err error // Erro original subjacente (e.g., erro do SDK da AWS ou do driver SQL)
}

func (e *InternalError) Error() string    { return e.Msg }
func (e *InternalError) Category() string { return "INTERNAL_ERROR" }
func (e *InternalError) HTTPStatus() int  { return http.StatusInternalServerError } // 500
func (e *InternalError) Unwrap() error    { return e.Err }

// Details expõe o erro original para diagnóstico, como as lambdas originais faziam.
func (e *InternalError) Details() map[string]interface{} {
	if e.Err == nil {
		return nil
	}
	return map[string]interface{}{"error": e.Err.Error()}
}

// NewInternalError cria um erro de servidor (para falhas de lógica ou código não esperado).
func NewInternalError(msg string, err error) AppError {
	return &InternalError{Msg: msg, Err: err}
}

// NewDBError é um atalho para criar um InternalError específico de falhas de armazenamento.
func NewDBError(msg string, err error) AppError {
	return NewInternalError(msg, err)
}

// Wrap preserva erros já tipados e encapsula o resto como InternalError.
func Wrap(msg string, err error) error {
	var appErr AppError
	if errors.As(err, &appErr) {
		return err
	}
	return NewInternalError(msg, err)
}

// --- Helper para o Handler (Tradução Final) ---

// MapToHTTPStatus recebe um erro e o traduz para o código HTTP e corpo de resposta.
func MapToHTTPStatus(err error) (int, string, string) {
	var appErr AppError
	if errors.As(err, &appErr) {
		// O erro é tipado (ValidationError, NotFoundError, etc.)
		return appErr.HTTPStatus(), appErr.Category(), appErr.Error()
	}

	// Erro não tipado (e.g., erro simples de pacote Go que não implementa AppError)
	// Tratar como erro interno genérico.
	return http.StatusInternalServerError, "UNKNOWN_ERROR", "Error interno"
}

// DetailsOf devolve os campos extras do erro, se houver.
func DetailsOf(err error) map[string]interface{} {
	var d Detailer
	if errors.As(err, &d) {
		return d.Details()
	}
	return nil
}

// Is* são atalhos usados pelos serviços para decidir o fluxo sem depender dos tipos concretos.

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsRejection(err error) bool {
	var r *ManagerRejectionError
	return errors.As(err, &r)
}
