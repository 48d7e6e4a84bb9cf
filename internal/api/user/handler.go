package user

import (
	"context"
	"encoding/json"
	"net/http"

	apperror "golocales/internal/errors"
	"golocales/internal/pkg/logger"
	"golocales/internal/pkg/middleware"
)

// UserService define o contrato para o login.
type UserService interface {
	Login(ctx context.Context, correo string, contrasena string) (string, error)
}

// LoginRequest representa o payload de entrada para o login.
type LoginRequest struct {
	Correo     string `json:"correo" example:"ana@mail.com"`
	Contrasena string `json:"contrasena" example:"secreta"`
}

// TokenResponse é a resposta de um login bem-sucedido.
type TokenResponse struct {
	Token string `json:"token"`
}

// Handler agrupa todos os métodos de Handler do usuário.
type Handler struct {
	Service UserService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc UserService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// LoginUserHandler lida com a requisição POST /v1/auth/login.
// @Summary Autentica um usuário e retorna um JWT
// @Description Recebe correo/contrasena do diretório de usuários e emite um JSON Web Token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body LoginRequest true "Credenciais do usuário"
// @Success 200 {object} TokenResponse "Token JWT emitido"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 401 {object} domain.ErrorResponse "Credenciais inválidas"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /auth/login [post]
func (h *Handler) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, apperror.NewValidationError("Body inválido; se esperaba JSON"))
		return
	}

	token, err := h.Service.Login(r.Context(), req.Correo, req.Contrasena)
	if err != nil {
		if status, _, _ := apperror.MapToHTTPStatus(err); status >= 500 {
			h.Logger.Error("Erro interno no login.", err)
		}
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(TokenResponse{Token: token})
}
