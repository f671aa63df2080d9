package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "OD Portal API",
        "description": "On-duty request submission and review service",
        "version": "0.1.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Users", "description": "Member profiles"},
        {"name": "Timings", "description": "Year period timings"},
        {"name": "OD Requests", "description": "On-duty request lifecycle"},
        {"name": "Reports", "description": "Admin reporting and export"},
        {"name": "Admin Whitelist", "description": "Admin access management"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/timings/{year}": {
            "get": {
                "tags": ["Timings"],
                "summary": "List period timings",
                "parameters": [
                    {"name": "year", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/timings": {
            "post": {
                "tags": ["Timings"],
                "summary": "Upsert period timings",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertTimingsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/user": {
            "post": {
                "tags": ["Users"],
                "summary": "Create or update own profile",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertUserRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/user/{id}": {
            "get": {
                "tags": ["Users"],
                "summary": "Get user profile",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/od/request": {
            "post": {
                "tags": ["OD Requests"],
                "summary": "Submit an OD request",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateODRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/od/history/{userId}": {
            "get": {
                "tags": ["OD Requests"],
                "summary": "OD request history",
                "parameters": [
                    {"name": "userId", "in": "path", "required": true, "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/od/pending": {
            "get": {
                "tags": ["OD Requests"],
                "summary": "Pending review queue",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/od/review/{id}": {
            "put": {
                "tags": ["OD Requests"],
                "summary": "Review an OD request",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReviewODRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/reports/summary": {
            "get": {
                "tags": ["Reports"],
                "summary": "OD request summary",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/export": {
            "get": {
                "tags": ["Reports"],
                "summary": "Export OD requests",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "produces": ["text/csv", "application/pdf"],
                "responses": {
                    "200": {"description": "Attachment"}
                }
            }
        },
        "/admin/whitelist": {
            "get": {
                "tags": ["Admin Whitelist"],
                "summary": "List whitelist entries",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Admin Whitelist"],
                "summary": "Add whitelist entry",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddWhitelistRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/admin/whitelist/{email}": {
            "delete": {
                "tags": ["Admin Whitelist"],
                "summary": "Remove whitelist entry",
                "parameters": [
                    {"name": "email", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found"}
                }
            }
        }
    },
    "definitions": {
        "User": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "department": {"type": "string"},
                "year": {"type": "integer"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "ODRequest": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "user_id": {"type": "string"},
                "year": {"type": "integer"},
                "periods": {"type": "array", "items": {"type": "integer"}},
                "date": {"type": "string"},
                "department": {"type": "string"},
                "category": {"type": "string"},
                "status": {"type": "string"},
                "remarks": {"type": "string"},
                "reviewed_by": {"type": "string"},
                "reviewed_at": {"type": "string"},
                "submitted_at": {"type": "string"}
            }
        },
        "PeriodTiming": {
            "type": "object",
            "properties": {
                "year": {"type": "integer"},
                "period_number": {"type": "integer"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"}
            }
        },
        "CreateODRequest": {
            "type": "object",
            "properties": {
                "user_id": {"type": "string"},
                "year": {"type": "integer"},
                "periods": {"type": "array", "items": {"type": "integer"}},
                "date": {"type": "string"},
                "department": {"type": "string"},
                "category": {"type": "string"},
                "remarks": {"type": "string"}
            },
            "required": ["user_id", "year", "periods", "date", "department", "category"]
        },
        "ReviewODRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["approved", "rejected"]},
                "remarks": {"type": "string"},
                "reviewed_by": {"type": "string"}
            },
            "required": ["status", "reviewed_by"]
        },
        "UpsertUserRequest": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "department": {"type": "string"},
                "year": {"type": "integer"}
            },
            "required": ["id", "name", "email", "department", "year"]
        },
        "UpsertTimingsRequest": {
            "type": "object",
            "properties": {
                "timings": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/PeriodTiming"}
                }
            },
            "required": ["timings"]
        },
        "AddWhitelistRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "department": {"type": "string"}
            },
            "required": ["email"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
