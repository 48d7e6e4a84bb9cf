package managerservice

import (
	"context"

	"golocales/internal/domain"
	apperror "golocales/internal/errors"
	"golocales/internal/pkg/logger"
)

// LocalFinder é o que o protocolo precisa do registro de locais.
type LocalFinder interface {
	FindByID(ctx context.Context, id string) (domain.Local, error)
	FindByManager(ctx context.Context, correo string) ([]domain.Local, error)
	Delete(ctx context.Context, local domain.Local) error
}

// Assignment é um gerente resolvido, pronto para ser embutido no local.
type Assignment struct {
	Manager domain.Manager
	// Promote indica que o usuário é Cliente e deve virar Gerente após a gravação do local.
	Promote bool
}

// Service implementa o protocolo de atribuição de gerentes:
// validar, gravar o local, e só então alterar o papel do usuário (best-effort).
type Service struct {
	locales LocalFinder
	users   domain.UserDirectory
	events  domain.EventPublisher
	logger  logger.Logger
}

func NewService(locales LocalFinder, users domain.UserDirectory, events domain.EventPublisher, log logger.Logger) *Service {
	return &Service{locales: locales, users: users, events: events, logger: log}
}

// Resolve valida o candidato a gerente. Correo vazio devolve (nil, nil): nenhuma mudança de gerente.
// currentLocalID exclui o próprio local da verificação de unicidade (edição).
func (s *Service) Resolve(ctx context.Context, email, currentLocalID string) (*Assignment, error) {
	correo := domain.NormalizeEmail(email)
	if correo == "" {
		return nil, nil
	}

	user, err := s.users.FindByEmail(ctx, correo)
	if apperror.IsNotFound(err) {
		s.logger.Info("Gerente rejeitado: usuário inexistente.", map[string]interface{}{"correo": correo})
		return nil, apperror.NewUserNotFound(correo)
	}
	if err != nil {
		return nil, apperror.Wrap("Error interno", err)
	}

	a := &Assignment{Manager: domain.Manager{
		Nombre:     user.Nombre,
		Correo:     correo,
		Contrasena: user.Contrasena,
	}}

	switch user.Role {
	case domain.RoleGerente:
		assigned, err := s.locales.FindByManager(ctx, correo)
		if err != nil {
			return nil, apperror.Wrap("Error interno", err)
		}
		for _, l := range assigned {
			if l.LocalID != currentLocalID {
				s.logger.Info("Gerente rejeitado: já atribuído.", map[string]interface{}{"correo": correo, "local_id": l.LocalID})
				return nil, apperror.NewManagerAlreadyAssigned(correo, l.LocalID)
			}
		}
	case domain.RoleCliente:
		a.Promote = true
	default:
		s.logger.Info("Gerente rejeitado: papel inválido.", map[string]interface{}{"correo": correo, "role": string(user.Role)})
		return nil, apperror.NewInvalidRole(correo)
	}

	return a, nil
}

// Commit promove o Cliente depois que o local foi gravado. Falha é registrada e engolida.
func (s *Service) Commit(ctx context.Context, a *Assignment, localID string) {
	if a == nil || !a.Promote {
		return
	}
	s.setRole(ctx, a.Manager.Correo, localID, domain.RoleGerente, domain.EventManagerPromoted)
}

// Release devolve o gerente substituído ao papel Cliente (best-effort).
func (s *Service) Release(ctx context.Context, correo, localID string) {
	if correo == "" {
		return
	}
	s.setRole(ctx, correo, localID, domain.RoleCliente, domain.EventManagerDemoted)
}

// OnDelete busca o local, rebaixa o gerente (best-effort) e remove o local.
// found é false quando o local não existe; nesse caso nada é feito.
func (s *Service) OnDelete(ctx context.Context, localID string) (domain.Local, bool, error) {
	local, err := s.locales.FindByID(ctx, localID)
	if apperror.IsNotFound(err) {
		return domain.Local{}, false, nil
	}
	if err != nil {
		return domain.Local{}, false, apperror.Wrap("Error interno", err)
	}

	s.Release(ctx, local.ManagerEmail(), localID)

	err = s.locales.Delete(ctx, local)
	if apperror.IsNotFound(err) {
		// removido por outra requisição entre a leitura e a exclusão
		return domain.Local{}, false, nil
	}
	if err != nil {
		return domain.Local{}, false, apperror.Wrap("Error interno", err)
	}
	return local, true, nil
}

func (s *Service) setRole(ctx context.Context, correo, localID string, role domain.Role, event string) {
	if err := s.users.UpdateRole(ctx, correo, role); err != nil {
		s.logger.Warn("Falha ao atualizar papel do gerente; estado inconsistente registrado.", map[string]interface{}{
			"correo":   correo,
			"local_id": localID,
			"role":     string(role),
			"error":    err.Error(),
		})
		return
	}
	s.logger.Info("Papel do gerente atualizado.", map[string]interface{}{"correo": correo, "local_id": localID, "role": string(role)})

	if err := s.events.Publish(ctx, event, domain.ManagerEvent{Correo: correo, LocalID: localID, Role: role}); err != nil {
		s.logger.Warn("Falha ao publicar evento.", map[string]interface{}{"event": event, "error": err.Error()})
	}
}
