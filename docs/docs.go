// Package docs registers the OpenAPI description served at /swagger/.
// Regenerate with: swag init -g cmd/server/main.go -o docs
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
        "/image_codes/{image_code_id}/": {
            "get": {
                "produces": ["image/png"],
                "tags": ["Verification"],
                "summary": "Image captcha",
                "parameters": [
                    {"type": "string", "description": "Challenge UUID", "name": "image_code_id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/sms_codes/": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Verification"],
                "summary": "Send an SMS code after the captcha check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/users/register/": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Register an account",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/users/login/": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Log in",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/news/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["News"],
                "summary": "Paginated news list",
                "parameters": [
                    {"type": "integer", "name": "tag_id", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/search/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["News"],
                "summary": "Full-text news search",
                "parameters": [
                    {"type": "string", "name": "q", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/docs/{doc_id}/download/": {
            "get": {
                "produces": ["application/octet-stream"],
                "tags": ["Docs"],
                "summary": "Download a document",
                "parameters": [
                    {"type": "integer", "name": "doc_id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
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
	Title:            "News portal API",
	Description:      "News, documents, courses and their administration.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
