package domain

import "context"

// Local representa uma loja/filial da rede.
type Local struct {
	LocalID          string   `json:"local_id" dynamodbav:"local_id"`
	Direccion        string   `json:"direccion" dynamodbav:"direccion"`
	Telefono         string   `json:"telefono,omitempty" dynamodbav:"telefono,omitempty"`
	HoraApertura     string   `json:"hora_apertura,omitempty" dynamodbav:"hora_apertura,omitempty"`
	HoraFinalizacion string   `json:"hora_finalizacion,omitempty" dynamodbav:"hora_finalizacion,omitempty"`
	Gerente          *Manager `json:"gerente,omitempty" dynamodbav:"gerente,omitempty"`
}

// Manager é a cópia desnormalizada do usuário no momento da atribuição.
// Não é sincronizada depois: se o usuário mudar nome ou senha, o snapshot fica desatualizado.
type Manager struct {
	Nombre     string `json:"nombre,omitempty" dynamodbav:"nombre,omitempty"`
	Correo     string `json:"correo,omitempty" dynamodbav:"correo,omitempty"`
	Contrasena string `json:"contrasena,omitempty" dynamodbav:"contrasena,omitempty"`
}

// ManagerEmail devolve o correo do gerente do local, ou "" se não houver.
func (l Local) ManagerEmail() string {
	if l.Gerente == nil {
		return ""
	}
	return l.Gerente.Correo
}

// NewLocalInput é o payload já decodificado para criação de um local.
type NewLocalInput struct {
	Direccion        string `validate:"required"`
	Telefono         string `validate:"max=32"`
	HoraApertura     string
	HoraFinalizacion string
	GerenteCorreo    string
}

// LocalRepository define o contrato de persistência do registro de locais.
// Cada implementação garante nativamente que um correo de gerente pertence a no máximo um local.
type LocalRepository interface {
	Create(ctx context.Context, local Local) (Local, error)
	FindByID(ctx context.Context, id string) (Local, error)
	FindAll(ctx context.Context) ([]Local, error)
	FindByManager(ctx context.Context, correo string) ([]Local, error)
	Update(ctx context.Context, current Local, patch LocalPatch) (Local, error)
	Delete(ctx context.Context, local Local) error
}

// UserDirectory define o que o serviço usa do diretório de usuários.
type UserDirectory interface {
	FindByEmail(ctx context.Context, correo string) (User, error)
	UpdateRole(ctx context.Context, correo string, role Role) error
}
