// Package docs registers the OpenAPI description served by gin-swagger.
// Regenerate with: swag init -g cmd/api/main.go
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
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/users": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Create an applicant",
                "parameters": [
                    {"description": "Applicant profile", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.CreateUserRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.User"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/applications": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["applications"],
                "summary": "Submit an application",
                "parameters": [
                    {"type": "string", "name": "fullName", "in": "formData", "required": true},
                    {"type": "string", "name": "email", "in": "formData", "required": true},
                    {"type": "string", "name": "phone", "in": "formData", "required": true},
                    {"type": "string", "name": "country", "in": "formData", "required": true},
                    {"type": "string", "name": "city", "in": "formData", "required": true},
                    {"type": "string", "name": "dateOfBirth", "in": "formData", "required": true},
                    {"type": "string", "name": "experience", "in": "formData", "required": true},
                    {"type": "string", "description": "nurse, midwife or caregiver", "name": "role", "in": "formData", "required": true},
                    {"type": "string", "name": "additionalInfo", "in": "formData"},
                    {"type": "file", "name": "passport", "in": "formData"},
                    {"type": "file", "name": "credentials", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.SubmitApplicationResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/tests/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tests"],
                "summary": "Get a skills test",
                "parameters": [
                    {"type": "string", "description": "Test ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.TestView"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/tests/{id}/submit": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tests"],
                "summary": "Submit test answers",
                "parameters": [
                    {"type": "string", "description": "Test ID", "name": "id", "in": "path", "required": true},
                    {"description": "Answers keyed by question id", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.SubmitTestRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.TestResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/admin/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Admin login",
                "parameters": [
                    {"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.AdminLoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Response"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/admin/stats": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Get admin dashboard statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.AdminStats"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/admin/applications": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "List applications",
                "parameters": [
                    {"type": "string", "description": "pending, testing, approved, rejected or all", "name": "status", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.ApplicationWithUser"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/admin/applications/export": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "text/csv"],
                "tags": ["admin"],
                "summary": "Export applications",
                "parameters": [
                    {"type": "string", "description": "xlsx or csv", "name": "format", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/admin/applications/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Get one application",
                "parameters": [
                    {"type": "string", "description": "Application ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.ApplicationWithUser"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/admin/applications/{id}/status": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Override application status",
                "parameters": [
                    {"type": "string", "description": "Application ID", "name": "id", "in": "path", "required": true},
                    {"description": "New status", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.UpdateStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        }
    },
    "definitions": {
        "domain.AdminLoginRequest": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {"password": {"type": "string"}, "username": {"type": "string"}}
        },
        "domain.AdminStats": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"},
                "pending": {"type": "integer"},
                "testing": {"type": "integer"},
                "approved": {"type": "integer"},
                "rejected": {"type": "integer"},
                "byRole": {"$ref": "#/definitions/domain.RoleCounts"}
            }
        },
        "domain.RoleCounts": {
            "type": "object",
            "properties": {"nurse": {"type": "integer"}, "midwife": {"type": "integer"}, "caregiver": {"type": "integer"}}
        },
        "domain.ApplicationWithUser": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "userId": {"type": "string"},
                "role": {"type": "string"},
                "status": {"type": "string"},
                "passportUrl": {"type": "string"},
                "credentialsUrl": {"type": "string"},
                "additionalInfo": {"type": "object", "properties": {"notes": {"type": "string"}}},
                "testScore": {"type": "integer"},
                "testCompleted": {"type": "boolean"},
                "submittedAt": {"type": "string"},
                "updatedAt": {"type": "string"},
                "user": {"$ref": "#/definitions/domain.User"},
                "test": {"type": "object", "properties": {"score": {"type": "integer"}, "completed": {"type": "boolean"}}}
            }
        },
        "domain.CreateUserRequest": {
            "type": "object",
            "required": ["city", "country", "dateOfBirth", "email", "experience", "fullName", "phone"],
            "properties": {
                "fullName": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "country": {"type": "string"},
                "city": {"type": "string"},
                "dateOfBirth": {"type": "string"},
                "experience": {"type": "string"}
            }
        },
        "domain.SubmitApplicationResult": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "applicationId": {"type": "string"},
                "testId": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "domain.SubmitTestRequest": {
            "type": "object",
            "required": ["answers"],
            "properties": {"answers": {"type": "object", "additionalProperties": {"type": "integer"}}}
        },
        "domain.TestResult": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "score": {"type": "integer"},
                "passed": {"type": "boolean"},
                "message": {"type": "string"}
            }
        },
        "domain.TestView": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "applicationId": {"type": "string"},
                "role": {"type": "string"},
                "answers": {"type": "object", "additionalProperties": {"type": "integer"}},
                "score": {"type": "integer"},
                "completed": {"type": "boolean"},
                "startedAt": {"type": "string"},
                "completedAt": {"type": "string"},
                "questions": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "id": {"type": "string"},
                            "question": {"type": "string"},
                            "options": {"type": "array", "items": {"type": "string"}},
                            "correctAnswer": {"type": "integer"}
                        }
                    }
                }
            }
        },
        "domain.UpdateStatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {"status": {"type": "string", "enum": ["pending", "testing", "approved", "rejected"]}}
        },
        "domain.User": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"},
                "fullName": {"type": "string"},
                "phone": {"type": "string"},
                "country": {"type": "string"},
                "city": {"type": "string"},
                "dateOfBirth": {"type": "string"},
                "experience": {"type": "string"},
                "createdAt": {"type": "string"}
            }
        },
        "response.Response": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {},
                "error": {},
                "request_id": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Care Recruitment API",
	Description:      "Healthcare recruitment backend: applications, caregiver skills test and admin review.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
