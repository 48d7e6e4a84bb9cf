package domain

import "strings"

// User representa uma conta do diretório de usuários (tabela de usuários).
// O diretório é mantido por outro subsistema; aqui só lemos e alteramos o papel.
type User struct {
	Correo     string `json:"correo" dynamodbav:"correo"`
	Nombre     string `json:"nombre,omitempty" dynamodbav:"nombre,omitempty"`
	Contrasena string `json:"-" dynamodbav:"contrasena,omitempty"` // Nunca sai em respostas HTTP
	Role       Role   `json:"role" dynamodbav:"role"`
}

// Role é o papel do usuário. O diretório pode conter valores fora das constantes abaixo.
type Role string

const (
	RoleCliente Role = "Cliente"
	RoleGerente Role = "Gerente"
)

// Assignable informa se o papel permite que o usuário seja gerente de um local.
func (r Role) Assignable() bool {
	return r == RoleCliente || r == RoleGerente
}

// NormalizeEmail aplica a normalização usada como chave do diretório.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
