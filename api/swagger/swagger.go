package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Lab Planner API",
        "description": "Daily classroom and lab room assignment for science courses",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Teachers", "description": "Teacher roster management"},
        {"name": "Rooms", "description": "Room catalog and CSV import"},
        {"name": "Availability", "description": "Weekly windows of gated rooms"},
        {"name": "Requests", "description": "Classroom-resource requests"},
        {"name": "Planning", "description": "Daily room assignment"},
        {"name": "Reports", "description": "Asynchronous exports"}
    ],
    "paths": {
        "/teachers": {
            "get": {
                "tags": ["Teachers"],
                "summary": "List teachers",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "sort", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Teachers"],
                "summary": "Create teacher",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTeacherRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teachers/{id}": {
            "get": {
                "tags": ["Teachers"],
                "summary": "Get teacher",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Teachers"],
                "summary": "Update teacher",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateTeacherRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Teachers"],
                "summary": "Deactivate teacher",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/rooms": {
            "get": {
                "tags": ["Rooms"],
                "summary": "List rooms",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "type", "in": "query", "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Rooms"],
                "summary": "Create room",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateRoomRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/rooms/import": {
            "post": {
                "tags": ["Rooms"],
                "summary": "Import rooms from CSV",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "file", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/rooms/{id}": {
            "get": {
                "tags": ["Rooms"],
                "summary": "Get room",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Rooms"],
                "summary": "Update room",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateRoomRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Rooms"],
                "summary": "Deactivate room",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/rooms/{id}/windows": {
            "get": {
                "tags": ["Availability"],
                "summary": "List weekly windows of a room",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Room name"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Availability"],
                "summary": "Add a weekly window",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Room name"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateRoomWindowRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/rooms/{id}/windows/{wid}": {
            "delete": {
                "tags": ["Availability"],
                "summary": "Remove a weekly window",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Room name"},
                    {"name": "wid", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/requests": {
            "get": {
                "tags": ["Requests"],
                "summary": "List material requests",
                "parameters": [
                    {"name": "date", "in": "query", "type": "string"},
                    {"name": "teacher_id", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Requests"],
                "summary": "Create material request",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateMaterialRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Notice deadline passed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/requests/{id}": {
            "get": {
                "tags": ["Requests"],
                "summary": "Get material request",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Requests"],
                "summary": "Update a pending material request",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateMaterialRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Request already planned", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Requests"],
                "summary": "Delete material request",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/plannings/generate": {
            "post": {
                "tags": ["Planning"],
                "summary": "Generate the planning for a date",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GeneratePlanningRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "No requests or no rooms for that date", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "No course could be placed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/plannings/{date}": {
            "get": {
                "tags": ["Planning"],
                "summary": "Get the planning for a date",
                "parameters": [
                    {"name": "date", "in": "path", "required": true, "type": "string", "description": "YYYY-MM-DD"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No planning stored for that date", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/generate": {
            "post": {
                "tags": ["Reports"],
                "summary": "Queue a report generation job",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReportRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/status/{id}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Get report job status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/export/{token}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download a generated export",
                "produces": ["application/octet-stream"],
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File"},
                    "412": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "CreateTeacherRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "full_name": {"type": "string"},
                "discipline": {"type": "string"},
                "phone": {"type": "string"}
            },
            "required": ["email", "full_name"]
        },
        "UpdateTeacherRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "full_name": {"type": "string"},
                "discipline": {"type": "string"},
                "phone": {"type": "string"},
                "active": {"type": "boolean"}
            }
        },
        "CreateRoomRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "type": {"type": "string"},
                "capacity": {"type": "integer"},
                "computers": {"type": "integer"},
                "sinks": {"type": "integer"},
                "fume_hoods": {"type": "integer"},
                "optical_benches": {"type": "integer"},
                "oscilloscopes": {"type": "integer"},
                "electric_burners": {"type": "integer"},
                "filtration_supports": {"type": "integer"},
                "printers": {"type": "integer"},
                "exam_capable": {"type": "boolean"}
            },
            "required": ["name", "type", "capacity"]
        },
        "UpdateRoomRequest": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "capacity": {"type": "integer"},
                "computers": {"type": "integer"},
                "exam_capable": {"type": "boolean"},
                "active": {"type": "boolean"}
            }
        },
        "CreateRoomWindowRequest": {
            "type": "object",
            "properties": {
                "weekday": {"type": "integer"},
                "start": {"type": "string", "example": "9h00"},
                "end": {"type": "string", "example": "12h00"}
            },
            "required": ["weekday", "start", "end"]
        },
        "CreateMaterialRequest": {
            "type": "object",
            "properties": {
                "teacher_id": {"type": "string"},
                "date": {"type": "string", "example": "2026-09-14"},
                "start": {"type": "string", "example": "9h30"},
                "level": {"type": "string", "example": "2nde"},
                "title": {"type": "string"},
                "selected_materials": {"type": "array", "items": {"type": "string"}},
                "description": {"type": "string"},
                "computers_needed": {"type": "integer"},
                "room_type_hint": {"type": "string"},
                "exam": {"type": "boolean"}
            },
            "required": ["teacher_id", "date", "start", "level"]
        },
        "UpdateMaterialRequest": {
            "type": "object",
            "properties": {
                "start": {"type": "string"},
                "title": {"type": "string"},
                "selected_materials": {"type": "array", "items": {"type": "string"}},
                "description": {"type": "string"},
                "computers_needed": {"type": "integer"},
                "exam": {"type": "boolean"}
            }
        },
        "GeneratePlanningRequest": {
            "type": "object",
            "properties": {
                "date": {"type": "string", "example": "2026-09-14"}
            },
            "required": ["date"]
        },
        "ReportRequest": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "enum": ["planning", "rooms", "requests"]},
                "date": {"type": "string", "example": "2026-09-14"},
                "format": {"type": "string", "enum": ["csv", "pdf"]}
            },
            "required": ["type", "format"]
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
