package domain

import "context"

// Routing keys dos eventos publicados pelo serviço.
const (
	EventLocalCreated    = "local.created"
	EventLocalUpdated    = "local.updated"
	EventLocalDeleted    = "local.deleted"
	EventManagerPromoted = "manager.promoted"
	EventManagerDemoted  = "manager.demoted"
)

// LocalEvent carrega o mínimo para consumidores reagirem a mudanças de locais.
type LocalEvent struct {
	LocalID       string `json:"local_id"`
	GerenteCorreo string `json:"gerente_correo,omitempty"`
}

// ManagerEvent descreve uma mudança de papel feita pelo protocolo de atribuição.
type ManagerEvent struct {
	Correo  string `json:"correo"`
	LocalID string `json:"local_id"`
	Role    Role   `json:"role"`
}

// EventPublisher publica eventos de domínio. Falhas não devem abortar a operação que os gerou.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
}
