package local

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golocales/internal/domain"
	apperror "golocales/internal/errors"
	"golocales/internal/pkg/logger"
	"golocales/internal/pkg/middleware"
)

// LocalService define o contrato que o Handler espera da camada de Serviço.
type LocalService interface {
	CreateLocal(ctx context.Context, in domain.NewLocalInput) (domain.Local, error)
	GetLocalByID(ctx context.Context, id string) (domain.Local, error)
	ListLocales(ctx context.Context) ([]domain.Local, error)
	UpdateLocal(ctx context.Context, id string, patch domain.LocalPatch) (map[string]interface{}, error)
	DeleteLocal(ctx context.Context, id string) error
}

// Handler agrupa todos os métodos de Handler de locais.
type Handler struct {
	Service LocalService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc LocalService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// handleServiceResponse processa erros de serviço e envia respostas padronizadas ao cliente.
func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	if err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(successStatus)
		if data != nil {
			if jsonErr := json.NewEncoder(w).Encode(data); jsonErr != nil {
				h.Logger.Error("Falha ao codificar JSON de resposta", jsonErr)
			}
		}
		return
	}

	status, category, _ := apperror.MapToHTTPStatus(err)
	if status >= 500 {
		h.Logger.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		h.Logger.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{
			"path":       r.URL.Path,
			"request_id": middleware.GetRequestID(r.Context()),
		})
	}
	middleware.WriteError(w, err)
}

func (h *Handler) readBody(r *http.Request) (LocalRequest, error) {
	req, raw, err := decodeBody(r)
	if err != nil {
		return req, err
	}
	h.Logger.Debug("Body recebido.", map[string]interface{}{"body": logger.Mask(raw)})
	return req, nil
}

// CreateLocalHandler lida com a requisição POST /v1/locales.
// @Summary Cria um local
// @Description Grava o local e, se houver gerente.correo, valida e promove o usuário a Gerente.
// @Tags locales
// @Accept json
// @Produce json
// @Param local body LocalRequest true "Dados do local"
// @Success 201 {object} domain.Local "Local criado"
// @Failure 400 {object} domain.ErrorResponse "Validação ou gerente rejeitado"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Security BearerAuth
// @Router /locales [post]
func (h *Handler) CreateLocalHandler(w http.ResponseWriter, r *http.Request) {
	req, err := h.readBody(r)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusCreated)
		return
	}

	created, err := h.Service.CreateLocal(r.Context(), req.ToInput())
	h.handleServiceResponse(w, r, created, err, http.StatusCreated)
}

// ListLocalesHandler lida com a requisição GET /v1/locales.
// @Summary Lista os locais
// @Tags locales
// @Produce json
// @Success 200 {array} domain.Local
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /locales [get]
func (h *Handler) ListLocalesHandler(w http.ResponseWriter, r *http.Request) {
	locales, err := h.Service.ListLocales(r.Context())
	h.handleServiceResponse(w, r, locales, err, http.StatusOK)
}

// GetLocalHandler lida com a requisição GET /v1/locales/{local_id}.
// @Summary Busca um local
// @Tags locales
// @Produce json
// @Param local_id path string true "Identificador do local"
// @Success 200 {object} domain.Local
// @Failure 404 {object} domain.ErrorResponse "Local no encontrado"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /locales/{local_id} [get]
func (h *Handler) GetLocalHandler(w http.ResponseWriter, r *http.Request) {
	local, err := h.Service.GetLocalByID(r.Context(), r.PathValue("local_id"))
	h.handleServiceResponse(w, r, local, err, http.StatusOK)
}

// UpdateLocalHandler lida com PUT e PATCH /v1/locales/{local_id}.
// @Summary Edita um local
// @Description Aplica só os campos presentes. Trocar gerente.correo revalida o gerente.
// @Tags locales
// @Accept json
// @Produce json
// @Param local_id path string true "Identificador do local"
// @Param local body LocalRequest true "Campos a alterar"
// @Success 200 {object} domain.UpdateResponse
// @Failure 400 {object} domain.ErrorResponse "Body inválido, nada a atualizar ou gerente rejeitado"
// @Failure 404 {object} domain.ErrorResponse "Local no encontrado"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Security BearerAuth
// @Router /locales/{local_id} [put]
func (h *Handler) UpdateLocalHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("local_id")
	if id == "" {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Falta path parameter 'id'."), http.StatusOK)
		return
	}
	req, err := h.readBody(r)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	updated, err := h.Service.UpdateLocal(r.Context(), id, req.ToPatch())
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, domain.UpdateResponse{Message: "Local actualizado", Updated: updated}, nil, http.StatusOK)
}

// DeleteLocalHandler lida com a requisição DELETE /v1/locales/{local_id}.
// @Summary Elimina um local
// @Description Remove o local e devolve o gerente ao papel Cliente.
// @Tags locales
// @Produce json
// @Param local_id path string true "Identificador do local"
// @Success 200 {object} domain.MessageResponse
// @Failure 400 {object} domain.ErrorResponse "Falta o identificador"
// @Failure 404 {object} domain.ErrorResponse "Local no encontrado (modo estrito)"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Security BearerAuth
// @Router /locales/{local_id} [delete]
func (h *Handler) DeleteLocalHandler(w http.ResponseWriter, r *http.Request) {
	err := h.Service.DeleteLocal(r.Context(), r.PathValue("local_id"))
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, domain.MessageResponse{Message: "Local eliminado"}, nil, http.StatusOK)
}
