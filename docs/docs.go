// Package docs registers the OpenAPI description served under /swagger.
// Regenerate with `swag init -g cmd/api/main.go`.
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
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "security": [{"BearerAuth": []}],
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Create an account",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/credentials"}}],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Email already exists"}}
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Exchange credentials for a bearer token",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/credentials"}}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid credentials"}}
            }
        },
        "/exercises": {
            "get": {"tags": ["exercises"], "summary": "List exercises", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["exercises"], "summary": "Create an exercise", "responses": {"201": {"description": "Created"}, "409": {"description": "Name already used"}}}
        },
        "/exercises/bulk": {
            "post": {"tags": ["exercises"], "summary": "Best-effort bulk create", "responses": {"200": {"description": "OK"}}}
        },
        "/exercises/seed": {
            "post": {"tags": ["exercises"], "summary": "Add the preset machine catalogue", "responses": {"200": {"description": "OK"}}}
        },
        "/exercises/{id}/history": {
            "get": {
                "tags": ["exercises"],
                "summary": "Recent workouts containing the exercise, newest first",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/exercises/{id}/progress": {
            "get": {
                "tags": ["exercises"],
                "summary": "Bucketed progress series and summary for one exercise",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "enum": ["12w", "6m", "all"], "name": "range", "in": "query"},
                    {"type": "integer", "enum": [14, 28], "name": "bucket", "in": "query"},
                    {"type": "string", "enum": ["auto", "weight", "reps"], "name": "metric", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/progress.Result"}},
                    "400": {"description": "Unknown option or malformed date"}
                }
            }
        },
        "/workouts": {
            "get": {"tags": ["workouts"], "summary": "Workouts on a date, each with its exercises and sets", "parameters": [{"type": "string", "name": "date", "in": "query", "required": true}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["workouts"], "summary": "Start a workout", "responses": {"201": {"description": "Created"}}}
        },
        "/workouts/{id}": {
            "get": {"tags": ["workouts"], "summary": "Workout menu with exercises and sets", "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["workouts"], "summary": "Change date or memo", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["workouts"], "summary": "Delete a workout", "responses": {"204": {"description": "No Content"}}}
        },
        "/calendar": {
            "get": {"tags": ["planner"], "summary": "Workout days and set totals for a month", "parameters": [{"type": "string", "name": "month", "in": "query"}], "responses": {"200": {"description": "OK"}}}
        },
        "/templates": {
            "get": {"tags": ["planner"], "summary": "List templates", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["planner"], "summary": "Save a template", "responses": {"201": {"description": "Created"}}}
        },
        "/settings": {
            "get": {"tags": ["planner"], "summary": "User settings", "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["planner"], "summary": "Update user settings", "responses": {"200": {"description": "OK"}}}
        },
        "/gym": {
            "get": {"tags": ["planner"], "summary": "Redirect to the configured gym login page", "responses": {"302": {"description": "Found"}, "404": {"description": "Not configured"}}}
        }
    },
    "definitions": {
        "credentials": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "progress.Result": {
            "type": "object",
            "properties": {
                "metric": {"type": "string"},
                "range": {"type": "string"},
                "bucket_days": {"type": "integer"},
                "points": {"type": "array", "items": {"type": "object"}},
                "series": {"type": "array", "items": {"type": "object", "properties": {"date": {"type": "string"}, "value": {"type": "number"}}}},
                "summary": {
                    "type": "object",
                    "properties": {
                        "latest": {"type": "number"},
                        "best": {"type": "number"},
                        "delta_from_previous": {"type": "number"},
                        "delta_from_first": {"type": "number"}
                    }
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Kanso Lift API",
	Description:      "Workout logging and per-exercise progress.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
