package localservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"golocales/internal/domain"
	apperror "golocales/internal/errors"
	"golocales/internal/pkg/logger"
	"golocales/internal/service/managerservice"
)

// ManagerProtocol é o protocolo de atribuição de gerentes visto pelo serviço de locais.
type ManagerProtocol interface {
	Resolve(ctx context.Context, email, currentLocalID string) (*managerservice.Assignment, error)
	Commit(ctx context.Context, a *managerservice.Assignment, localID string)
	Release(ctx context.Context, correo, localID string)
	OnDelete(ctx context.Context, localID string) (domain.Local, bool, error)
}

// Options ajusta comportamentos que variam entre implantações.
type Options struct {
	// DeleteStrict responde 404 ao eliminar um local inexistente.
	DeleteStrict bool
	// DemoteReplacedManager devolve a Cliente o gerente substituído numa edição.
	DemoteReplacedManager bool
}

// Service implementa as operações de locais.
type Service struct {
	repo     domain.LocalRepository
	managers ManagerProtocol
	events   domain.EventPublisher
	validate *validator.Validate
	logger   logger.Logger
	opts     Options
	newID    func() string
}

// NewService cria e retorna uma nova instância do Serviço de Locais.
func NewService(repo domain.LocalRepository, managers ManagerProtocol, events domain.EventPublisher, log logger.Logger, opts Options) *Service {
	return &Service{
		repo:     repo,
		managers: managers,
		events:   events,
		validate: validator.New(),
		logger:   log,
		opts:     opts,
		newID:    uuid.NewString,
	}
}

// validationMessage traduz a primeira falha do validator para a mensagem da API.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("El campo '%s' es obligatorio.", field)
	case "max":
		return fmt.Sprintf("El campo '%s' excede el largo máximo de %s.", field, fe.Param())
	default:
		return fmt.Sprintf("El campo '%s' es inválido.", field)
	}
}

// CreateLocal valida, resolve o gerente, grava o local e só então promove o gerente.
func (s *Service) CreateLocal(ctx context.Context, in domain.NewLocalInput) (domain.Local, error) {
	s.logger.Debug("Iniciando criação de local no serviço.", map[string]interface{}{"direccion": in.Direccion})

	in.Telefono = strings.TrimSpace(in.Telefono)
	if err := s.validate.Struct(in); err != nil {
		msg := validationMessage(err)
		s.logger.Warn("Falha na validação do local.", map[string]interface{}{"error": msg})
		return domain.Local{}, apperror.NewValidationError(msg)
	}

	assignment, err := s.managers.Resolve(ctx, in.GerenteCorreo, "")
	if err != nil {
		return domain.Local{}, err
	}

	local := domain.Local{
		LocalID:          s.newID(),
		Direccion:        in.Direccion,
		Telefono:         in.Telefono,
		HoraApertura:     in.HoraApertura,
		HoraFinalizacion: in.HoraFinalizacion,
	}
	if assignment != nil {
		m := assignment.Manager
		local.Gerente = &m
	}

	created, err := s.repo.Create(ctx, local)
	if err != nil {
		return domain.Local{}, apperror.Wrap("Error interno", err)
	}

	s.managers.Commit(ctx, assignment, created.LocalID)
	s.publish(ctx, domain.EventLocalCreated, domain.LocalEvent{LocalID: created.LocalID, GerenteCorreo: created.ManagerEmail()})

	s.logger.Info("Local criado com sucesso.", map[string]interface{}{"local_id": created.LocalID})
	return created, nil
}

// GetLocalByID busca um local pelo identificador.
func (s *Service) GetLocalByID(ctx context.Context, id string) (domain.Local, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Local{}, apperror.NewValidationError("Falta path parameter 'id'.")
	}
	local, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Local{}, apperror.Wrap("Error al obtener el local", err)
	}
	return local, nil
}

// ListLocales devolve todos os locais.
func (s *Service) ListLocales(ctx context.Context) ([]domain.Local, error) {
	locales, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, apperror.Wrap("Error al listar los locales", err)
	}
	s.logger.Debug("Locais listados.", map[string]interface{}{"total": len(locales)})
	return locales, nil
}

// UpdateLocal aplica uma edição parcial e devolve o conjunto de atributos alterados.
func (s *Service) UpdateLocal(ctx context.Context, id string, patch domain.LocalPatch) (map[string]interface{}, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperror.NewValidationError("Falta path parameter 'id'.")
	}

	correo, naming := patch.ManagerEmail()
	correo = domain.NormalizeEmail(correo)
	if naming && correo == "" {
		patch = withoutManagerEmail(patch)
		naming = false
	}
	if patch.Empty() {
		return nil, apperror.NewValidationError("Nada que actualizar")
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap("Error interno", err)
	}

	var assignment *managerservice.Assignment
	if naming {
		assignment, err = s.managers.Resolve(ctx, correo, id)
		if err != nil {
			return nil, err
		}
		patch = patch.WithManager(assignment.Manager)
	}

	if _, err := s.repo.Update(ctx, current, patch); err != nil {
		return nil, apperror.Wrap("Error interno", err)
	}

	s.managers.Commit(ctx, assignment, id)

	previous := current.ManagerEmail()
	if s.opts.DemoteReplacedManager && assignment != nil && previous != "" && previous != assignment.Manager.Correo {
		s.managers.Release(ctx, previous, id)
	}

	s.publish(ctx, domain.EventLocalUpdated, domain.LocalEvent{LocalID: id, GerenteCorreo: patch.ApplyTo(current).ManagerEmail()})
	s.logger.Info("Local atualizado.", map[string]interface{}{"local_id": id, "campos": len(patch)})
	return patch.Attributes(), nil
}

// DeleteLocal remove o local e rebaixa seu gerente. Local inexistente só é erro no modo estrito.
func (s *Service) DeleteLocal(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperror.NewValidationError("Falta path parameter 'id'.")
	}

	deleted, found, err := s.managers.OnDelete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		if s.opts.DeleteStrict {
			return apperror.NewNotFoundError("Local no encontrado")
		}
		s.logger.Info("Exclusão de local inexistente ignorada.", map[string]interface{}{"local_id": id})
		return nil
	}

	s.publish(ctx, domain.EventLocalDeleted, domain.LocalEvent{LocalID: id, GerenteCorreo: deleted.ManagerEmail()})
	s.logger.Info("Local eliminado.", map[string]interface{}{"local_id": id})
	return nil
}

func (s *Service) publish(ctx context.Context, key string, payload interface{}) {
	if err := s.events.Publish(ctx, key, payload); err != nil {
		s.logger.Warn("Falha ao publicar evento.", map[string]interface{}{"event": key, "error": err.Error()})
	}
}

func withoutManagerEmail(p domain.LocalPatch) domain.LocalPatch {
	out := make(domain.LocalPatch, 0, len(p))
	for _, u := range p {
		if _, ok := u.(domain.SetGerenteCorreo); !ok {
			out = append(out, u)
		}
	}
	return out
}
