package domain

// ErrorResponse é a estrutura padronizada para respostas de erro na API.
// @Description Estrutura padronizada para respostas de erro na API.
type ErrorResponse struct {
	Code     int    `json:"code" example:"400"`
	Category string `json:"category" example:"MANAGER_ALREADY_ASSIGNED"`
	Message  string `json:"message" example:"El gerente 'ana@mail.com' ya tiene un local asignado."`
	LocalID  string `json:"local_id,omitempty" example:"5b0e7c8e-2f0a-4d7e-9a57-3c1f0b7d9e21"`
	Error    string `json:"error,omitempty"`
}

// MessageResponse é a resposta de confirmação das operações sem corpo próprio.
type MessageResponse struct {
	Message string `json:"message" example:"Local eliminado"`
}

// UpdateResponse é a resposta da edição de um local.
type UpdateResponse struct {
	Message string                 `json:"message" example:"Local actualizado"`
	Updated map[string]interface{} `json:"updated"`
}
