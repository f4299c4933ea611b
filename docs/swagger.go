// Package docs exposes the Swagger specification for the TaskHub API.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Type \"Bearer\" followed by a space and JWT token."
        }
    },
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/users/register": {
            "post": {
                "tags": ["Users"],
                "summary": "Register a new user",
                "responses": {"201": {"description": "Created"}, "409": {"description": "Email already taken"}}
            }
        },
        "/users/login": {
            "post": {
                "tags": ["Users"],
                "summary": "Log in and obtain a JWT token",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid credentials"}}
            }
        },
        "/tasks/create": {
            "post": {
                "tags": ["Tasks"],
                "security": [{"BearerAuth": []}],
                "summary": "Create a task",
                "responses": {"201": {"description": "Created"}, "409": {"description": "Duplicate task"}}
            }
        },
        "/tasks": {
            "get": {
                "tags": ["Tasks"],
                "security": [{"BearerAuth": []}],
                "summary": "List tasks",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/tasks/dashboard": {
            "get": {
                "tags": ["Tasks"],
                "security": [{"BearerAuth": []}],
                "summary": "Dashboard statistics",
                "responses": {"200": {"description": "OK"}}
            }
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "TaskHub API",
	Description:      "API for managing tasks, their activity history and team members.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
