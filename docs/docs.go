// Package docs registers the pricing API document served under /swagger/.
// Regenerate with: swag init -g docs/swagger_pricing.go --instanceName pricing
package docs

import "github.com/swaggo/swag"

const InstanceName = "pricing"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {"name": "API Support"},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "tags": ["Health"],
                "summary": "Health Check",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "503": {"description": "Configuration not loaded"}}
            }
        },
        "/pricing/ranges": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Pricing"],
                "summary": "Get range tiers",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Pricing"],
                "summary": "Replace range tiers",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.RangesRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SavedResponse"}},
                    "422": {"description": "Rejected configuration", "schema": {"$ref": "#/definitions/dto.ConfigErrorResponse"}}
                }
            }
        },
        "/pricing/city-rules": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Pricing"],
                "summary": "Get city rules",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Pricing"],
                "summary": "Replace city rules",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SavedResponse"}},
                    "422": {"description": "Rejected configuration", "schema": {"$ref": "#/definitions/dto.ConfigErrorResponse"}}
                }
            }
        },
        "/pricing/surge-rules": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Pricing"],
                "summary": "Get surge catalog",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/pricing/surge-rules/{rule_id}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Pricing"],
                "summary": "Upsert a dynamic surge rule",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "in": "path", "name": "rule_id", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.SurgeRuleRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SavedResponse"}}}
            }
        },
        "/fares/quote": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Fares"],
                "summary": "Quote a trip",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.QuoteRequest"}}],
                "responses": {"200": {"description": "Itemized breakdown, amounts in minor units"}, "404": {"description": "City rule not found"}}
            }
        },
        "/fares/{trip_id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Fares"],
                "summary": "Get the audited fare of a trip",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "in": "path", "name": "trip_id", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Trip was not priced"}}
            }
        },
        "/ws/fares": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Fares"],
                "summary": "Live fare feed",
                "responses": {"101": {"description": "Switching Protocols"}}
            }
        }
    },
    "definitions": {
        "dto.RangesRequest": {
            "type": "object",
            "properties": {"ranges": {"type": "array", "items": {"type": "object"}}}
        },
        "dto.SurgeRuleRequest": {
            "type": "object",
            "properties": {"name": {"type": "string"}, "multiplier": {"type": "number"}}
        },
        "dto.QuoteRequest": {
            "type": "object",
            "properties": {
                "pricing_model": {"type": "string", "enum": ["RANGE", "CITY"]},
                "city": {"type": "string"},
                "metrics": {"type": "object"}
            }
        },
        "dto.SavedResponse": {
            "type": "object",
            "properties": {"version": {"type": "string"}, "message": {"type": "string"}}
        },
        "dto.ConfigErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "code": {"type": "string"},
                "index": {"type": "integer"},
                "city": {"type": "string"},
                "field": {"type": "string"}
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
	Host:             "localhost:3010",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Pricing Service API",
	Description:      "Pricing service keeps the tiered fare configuration, quotes trips and streams computed fares.",
	InfoInstanceName: InstanceName,
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
