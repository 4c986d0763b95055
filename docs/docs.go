// Package docs registers the OpenAPI document served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/signin": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Sign in",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {
                        "description": "Credentials",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.SignInRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/auth/refresh": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Authentication"],
                "summary": "Rotate a refresh token",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "description": "Profile ID", "name": "id", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/auth/signout/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Authentication"],
                "summary": "Revoke every refresh token of a profile",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "description": "Profile ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/profiles": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Profiles"],
                "summary": "List profiles",
                "parameters": [
                    {"type": "string", "description": "Exact email filter", "name": "email", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}}}
            },
            "post": {
                "tags": ["Profiles"],
                "summary": "Create a profile",
                "parameters": [
                    {"description": "Profile", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateProfileRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "403": {"description": "Role requires Manage on Profile", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/students": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Students"],
                "summary": "List students",
                "parameters": [
                    {"type": "string", "description": "Name filter", "name": "name", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}}}
            },
            "post": {
                "tags": ["Students"],
                "summary": "Create a student",
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.APIResponse"}}}
            }
        },
        "/lecturer": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Lecturers"],
                "summary": "List lecturers",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}}}
            },
            "post": {
                "tags": ["Lecturers"],
                "summary": "Create a lecturer",
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.APIResponse"}}}
            }
        },
        "/courses": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Courses"],
                "summary": "List courses",
                "parameters": [
                    {"type": "string", "description": "Title search", "name": "search", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Courses"],
                "summary": "Create a course",
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.APIResponse"}}}
            }
        },
        "/departments": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Departments"],
                "summary": "List departments",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Departments"],
                "summary": "Create a department",
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.APIResponse"}}}
            }
        },
        "/seed": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Seed"],
                "summary": "Reset and repopulate the database",
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.APIResponse"}}}
            }
        }
    },
    "definitions": {
        "dto.APIResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {},
                "error": {"$ref": "#/definitions/dto.ErrorDetail"},
                "timestamp": {"type": "string"}
            }
        },
        "dto.ErrorDetail": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "field": {"type": "string"},
                "details": {"type": "string"}
            }
        },
        "dto.SignInRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string", "example": "admin@uni.edu"},
                "password": {"type": "string", "example": "password123"}
            }
        },
        "dto.CreateProfileRequest": {
            "type": "object",
            "required": ["firstName", "lastName", "email", "password"],
            "properties": {
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "role": {"type": "string", "enum": ["ADMIN", "FACULTY", "STUDENT", "GUEST"]}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "JWT token for authorization",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "UniManage API",
	Description:      "University management API: profiles, students, lecturers, courses and departments",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
