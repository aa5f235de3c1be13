// Package docs registers the OpenAPI document served under /swagger/.
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
        "/v1/airlines/register": {
            "post": {
                "summary": "Register an airline directly or record a vote for it",
                "parameters": [
                    {"$ref": "#/parameters/CallerID"},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterAirlineRequest"}}
                ],
                "responses": {
                    "201": {"description": "admitted"},
                    "202": {"description": "pending, vote count returned"},
                    "409": {"description": "already registered or duplicate vote"},
                    "422": {"description": "initiator not funded"},
                    "503": {"description": "ledger not operational"}
                }
            }
        },
        "/v1/airlines/{airline_id}/fund": {
            "post": {
                "summary": "Contribute funds in wei",
                "parameters": [
                    {"$ref": "#/parameters/CallerID"},
                    {"in": "path", "name": "airline_id", "required": true, "type": "string"},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/FundAirlineRequest"}}
                ],
                "responses": {
                    "200": {"description": "funding state after the contribution"},
                    "422": {"description": "airline not registered or amount overflow"}
                }
            }
        },
        "/v1/airlines/{airline_id}": {
            "get": {
                "summary": "Participant view",
                "parameters": [
                    {"$ref": "#/parameters/CallerID"},
                    {"in": "path", "name": "airline_id", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "participant"}, "404": {"description": "unknown airline"}}
            }
        },
        "/v1/airlines/{airline_id}/registration": {
            "get": {
                "summary": "Registration flag and airline count",
                "parameters": [{"$ref": "#/parameters/CallerID"}, {"in": "path", "name": "airline_id", "required": true, "type": "string"}],
                "responses": {"200": {"description": "registration status"}}
            }
        },
        "/v1/airlines/{airline_id}/funding": {
            "get": {
                "summary": "Funding flag and funded airline count",
                "parameters": [{"$ref": "#/parameters/CallerID"}, {"in": "path", "name": "airline_id", "required": true, "type": "string"}],
                "responses": {"200": {"description": "funding status"}}
            }
        },
        "/v1/candidates": {
            "get": {
                "summary": "Pending candidates with vote tallies",
                "parameters": [{"$ref": "#/parameters/CallerID"}],
                "responses": {"200": {"description": "pending candidates"}}
            }
        },
        "/v1/candidates/{candidate_id}/votes": {
            "get": {
                "summary": "Vote count for a candidate",
                "parameters": [{"$ref": "#/parameters/CallerID"}, {"in": "path", "name": "candidate_id", "required": true, "type": "string"}],
                "responses": {"200": {"description": "vote count and votes required"}}
            }
        },
        "/v1/candidates/{candidate_id}/votes/{voter_id}": {
            "get": {
                "summary": "Whether a voter has voted for a candidate",
                "parameters": [
                    {"$ref": "#/parameters/CallerID"},
                    {"in": "path", "name": "candidate_id", "required": true, "type": "string"},
                    {"in": "path", "name": "voter_id", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "has voted"}}
            }
        },
        "/v1/ledger/summary": {
            "get": {
                "summary": "Global counters and admission mode",
                "parameters": [{"$ref": "#/parameters/CallerID"}],
                "responses": {"200": {"description": "ledger summary"}}
            }
        },
        "/v1/ledger/operational": {
            "get": {
                "summary": "Operational flag",
                "responses": {"200": {"description": "operational status"}}
            }
        },
        "/v1/admin/ledger/operational": {
            "put": {
                "summary": "Toggle the operational flag",
                "parameters": [
                    {"$ref": "#/parameters/OwnerID"},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/SetOperationalRequest"}}
                ],
                "responses": {"200": {"description": "new operational status"}, "403": {"description": "not the owner"}}
            }
        },
        "/v1/admin/callers/{caller_id}/authorize": {
            "post": {
                "summary": "Add an orchestrator to the allow-list",
                "parameters": [{"$ref": "#/parameters/OwnerID"}, {"in": "path", "name": "caller_id", "required": true, "type": "string"}],
                "responses": {"200": {"description": "authorized"}}
            }
        },
        "/v1/admin/callers/{caller_id}/deauthorize": {
            "post": {
                "summary": "Remove an orchestrator from the allow-list",
                "parameters": [{"$ref": "#/parameters/OwnerID"}, {"in": "path", "name": "caller_id", "required": true, "type": "string"}],
                "responses": {"200": {"description": "deauthorized"}}
            }
        }
    },
    "parameters": {
        "CallerID": {"in": "header", "name": "X-Caller-Id", "required": true, "type": "string"},
        "OwnerID": {"in": "header", "name": "X-Owner-Id", "required": true, "type": "string"}
    },
    "definitions": {
        "RegisterAirlineRequest": {
            "type": "object",
            "properties": {
                "initiator_id": {"type": "string"},
                "candidate_id": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "FundAirlineRequest": {
            "type": "object",
            "properties": {"amount_wei": {"type": "string", "description": "decimal wei"}}
        },
        "SetOperationalRequest": {
            "type": "object",
            "properties": {"operational": {"type": "boolean"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "FlightSurety Admission Ledger API",
	Description:      "Airline admission by direct registration or funded-airline vote, and threshold funding.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
