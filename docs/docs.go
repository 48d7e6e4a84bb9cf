// Package docs registra a especificação OpenAPI servida em /swagger/.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Autentica um usuário e retorna um JWT",
                "parameters": [
                    {"description": "Credenciais do usuário", "name": "login", "in": "body", "required": true, "schema": {"$ref": "#/definitions/user.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token JWT emitido", "schema": {"$ref": "#/definitions/user.TokenResponse"}},
                    "400": {"description": "Payload inválido", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "401": {"description": "Credenciais inválidas", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "500": {"description": "Erro interno do servidor", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/locales": {
            "get": {
                "produces": ["application/json"],
                "tags": ["locales"],
                "summary": "Lista os locais",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Local"}}},
                    "500": {"description": "Erro interno do servidor", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["locales"],
                "summary": "Cria um local",
                "parameters": [
                    {"description": "Dados do local", "name": "local", "in": "body", "required": true, "schema": {"$ref": "#/definitions/local.LocalRequest"}}
                ],
                "responses": {
                    "201": {"description": "Local criado", "schema": {"$ref": "#/definitions/domain.Local"}},
                    "400": {"description": "Validação ou gerente rejeitado", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "500": {"description": "Erro interno do servidor", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/locales/{local_id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["locales"],
                "summary": "Busca um local",
                "parameters": [
                    {"type": "string", "description": "Identificador do local", "name": "local_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Local"}},
                    "404": {"description": "Local no encontrado", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "500": {"description": "Erro interno do servidor", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["locales"],
                "summary": "Edita um local",
                "parameters": [
                    {"type": "string", "description": "Identificador do local", "name": "local_id", "in": "path", "required": true},
                    {"description": "Campos a alterar", "name": "local", "in": "body", "required": true, "schema": {"$ref": "#/definitions/local.LocalRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.UpdateResponse"}},
                    "400": {"description": "Body inválido, nada a atualizar ou gerente rejeitado", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "404": {"description": "Local no encontrado", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "500": {"description": "Erro interno do servidor", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["locales"],
                "summary": "Elimina um local",
                "parameters": [
                    {"type": "string", "description": "Identificador do local", "name": "local_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.MessageResponse"}},
                    "400": {"description": "Falta o identificador", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "404": {"description": "Local no encontrado (modo estrito)", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "500": {"description": "Erro interno do servidor", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer", "example": 400},
                "category": {"type": "string", "example": "MANAGER_ALREADY_ASSIGNED"},
                "message": {"type": "string"},
                "local_id": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "domain.Local": {
            "type": "object",
            "properties": {
                "local_id": {"type": "string"},
                "direccion": {"type": "string"},
                "telefono": {"type": "string"},
                "hora_apertura": {"type": "string"},
                "hora_finalizacion": {"type": "string"},
                "gerente": {"$ref": "#/definitions/domain.Manager"}
            }
        },
        "domain.Manager": {
            "type": "object",
            "properties": {
                "nombre": {"type": "string"},
                "correo": {"type": "string"},
                "contrasena": {"type": "string"}
            }
        },
        "domain.MessageResponse": {
            "type": "object",
            "properties": {"message": {"type": "string", "example": "Local eliminado"}}
        },
        "domain.UpdateResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "Local actualizado"},
                "updated": {"type": "object", "additionalProperties": true}
            }
        },
        "local.LocalRequest": {
            "type": "object",
            "properties": {
                "direccion": {"type": "string", "example": "Av. Siempre Viva 123"},
                "telefono": {"type": "string", "example": "987654321"},
                "hora_apertura": {"type": "string", "example": "09:00"},
                "hora_finalizacion": {"type": "string", "example": "22:00"},
                "gerente": {
                    "type": "object",
                    "properties": {
                        "nombre": {"type": "string"},
                        "correo": {"type": "string", "example": "ana@mail.com"},
                        "contrasena": {"type": "string"}
                    }
                }
            }
        },
        "user.LoginRequest": {
            "type": "object",
            "properties": {
                "correo": {"type": "string", "example": "ana@mail.com"},
                "contrasena": {"type": "string"}
            }
        },
        "user.TokenResponse": {
            "type": "object",
            "properties": {"token": {"type": "string"}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "GoLocales API",
	Description:      "Back office de locais e atribuição de gerentes.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
