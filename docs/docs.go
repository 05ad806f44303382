// Package docs registra la definición OpenAPI servida en /swagger/*.
// Se regenera con `swag init -g cmd/api/main.go`.
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
        "/health": {
            "get": {
                "produces": ["text/plain"],
                "tags": ["system"],
                "summary": "Liveness",
                "responses": {"200": {"description": "ok"}}
            }
        },
        "/recipients": {
            "get": {
                "produces": ["application/json"],
                "tags": ["recipients"],
                "summary": "Recipients del usuario (owner)",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["recipients"],
                "summary": "Crear recipient",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            }
        },
        "/recipients/{recipientID}/dashboard": {
            "get": {
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Resumen de inicio",
                "parameters": [{"type": "string", "name": "recipientID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}
            }
        },
        "/recipients/{recipientID}/members": {
            "get": {
                "produces": ["application/json"],
                "tags": ["circle"],
                "summary": "Miembros del care circle",
                "parameters": [{"type": "string", "name": "recipientID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/recipients/{recipientID}/updates": {
            "get": {
                "produces": ["application/json"],
                "tags": ["updates"],
                "summary": "Feed de updates",
                "parameters": [
                    {"type": "string", "name": "recipientID", "in": "path", "required": true},
                    {"type": "string", "name": "q", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["updates"],
                "summary": "Publicar update",
                "parameters": [{"type": "string", "name": "recipientID", "in": "path", "required": true}],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/recipients/{recipientID}/medications": {
            "get": {
                "produces": ["application/json"],
                "tags": ["medications"],
                "summary": "Medicaciones",
                "parameters": [
                    {"type": "string", "name": "recipientID", "in": "path", "required": true},
                    {"type": "string", "name": "status", "in": "query", "enum": ["active", "completed", "discontinued"]}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/recipients/{recipientID}/medications/schedule": {
            "get": {
                "produces": ["application/json"],
                "tags": ["medications"],
                "summary": "Tomas esperadas en una ventana",
                "parameters": [
                    {"type": "string", "name": "recipientID", "in": "path", "required": true},
                    {"type": "string", "name": "from", "in": "query"},
                    {"type": "string", "name": "to", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/recipients/{recipientID}/tasks": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Tareas",
                "parameters": [
                    {"type": "string", "name": "recipientID", "in": "path", "required": true},
                    {"type": "string", "name": "filter", "in": "query", "enum": ["all", "pending", "completed", "mine", "high-priority"]}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/recipients/{recipientID}/visits": {
            "get": {
                "produces": ["application/json"],
                "tags": ["visits"],
                "summary": "Visitas del mes",
                "parameters": [
                    {"type": "string", "name": "recipientID", "in": "path", "required": true},
                    {"type": "integer", "name": "year", "in": "query"},
                    {"type": "integer", "name": "month", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/recipients/{recipientID}/calendar": {
            "get": {
                "produces": ["application/json"],
                "tags": ["visits"],
                "summary": "Grilla mensual",
                "parameters": [
                    {"type": "string", "name": "recipientID", "in": "path", "required": true},
                    {"type": "integer", "name": "year", "in": "query"},
                    {"type": "integer", "name": "month", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/recipients/{recipientID}/documents": {
            "get": {
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "Documentos",
                "parameters": [
                    {"type": "string", "name": "recipientID", "in": "path", "required": true},
                    {"type": "string", "name": "category", "in": "query"},
                    {"type": "string", "name": "q", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "Subir documento",
                "parameters": [
                    {"type": "string", "name": "recipientID", "in": "path", "required": true},
                    {"type": "file", "name": "file", "in": "formData", "required": true},
                    {"type": "string", "name": "category", "in": "formData"}
                ],
                "responses": {"201": {"description": "Created"}, "413": {"description": "Too Large"}}
            }
        },
        "/me/notifications": {
            "get": {
                "produces": ["application/json"],
                "tags": ["notifications"],
                "summary": "Notificaciones del usuario",
                "parameters": [{"type": "boolean", "name": "unread", "in": "query"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/me/profile": {
            "get": {
                "produces": ["application/json"],
                "tags": ["profiles"],
                "summary": "Perfil propio",
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["profiles"],
                "summary": "Guardar perfil",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/community/facilities": {
            "get": {
                "produces": ["application/json"],
                "tags": ["community"],
                "summary": "Centros de salud cercanos",
                "parameters": [
                    {"type": "string", "name": "province", "in": "query"},
                    {"type": "integer", "name": "radius", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/community/events": {
            "get": {"produces": ["application/json"], "tags": ["community"], "summary": "Eventos", "responses": {"200": {"description": "OK"}}}
        },
        "/community/support-groups": {
            "get": {"produces": ["application/json"], "tags": ["community"], "summary": "Grupos de apoyo", "responses": {"200": {"description": "OK"}}}
        },
        "/help/faqs": {
            "get": {
                "produces": ["application/json"],
                "tags": ["help"],
                "summary": "Preguntas frecuentes",
                "parameters": [{"type": "string", "name": "q", "in": "query"}],
                "responses": {"200": {"description": "OK"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "CareCircle API",
	Description:      "Coordinación del cuidado de un familiar: circle, updates, medicaciones, tareas, visitas y documentos.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
