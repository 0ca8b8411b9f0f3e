package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "EduHub API",
        "description": "Role-based education platform API",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"name": "Authentication", "description": "Signup, login and profile"},
        {"name": "Admin", "description": "Accounts, universities, courses, enrollments"},
        {"name": "Instructor", "description": "Course content, grading, deregistration requests"},
        {"name": "Student", "description": "Dashboard, catalog, enrollment, grades"},
        {"name": "Analyst", "description": "Read-only aggregate reports"}
    ],
    "paths": {
        "/auth/signup": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register a new account",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate email or username"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate by email and password",
                "responses": {
                    "200": {"description": "Token issued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/profile": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Get own profile",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "tags": ["Authentication"],
                "summary": "Update own profile",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/dashboard": {
            "get": {
                "tags": ["Admin"],
                "summary": "Entity counts",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/students": {
            "get": {"tags": ["Admin"], "summary": "List students", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Admin"], "summary": "Create a student", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/admin/instructors": {
            "get": {"tags": ["Admin"], "summary": "List instructors", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Admin"], "summary": "Create an instructor", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/admin/universities": {
            "get": {"tags": ["Admin"], "summary": "List universities", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Admin"], "summary": "Create a university", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "409": {"description": "Name taken"}}}
        },
        "/admin/courses": {
            "get": {"tags": ["Admin"], "summary": "List courses", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Admin"], "summary": "Create a course", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/admin/enrollments": {
            "get": {"tags": ["Admin"], "summary": "List enrollments", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Admin"], "summary": "Enroll a student", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "409": {"description": "Already enrolled"}}}
        },
        "/admin/deregistration-requests": {
            "get": {"tags": ["Admin"], "summary": "List deregistration requests", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/instructor/courses": {
            "get": {"tags": ["Instructor"], "summary": "List assigned courses", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/student/dashboard": {
            "get": {"tags": ["Student"], "summary": "Dashboard", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/student/grades": {
            "get": {"tags": ["Student"], "summary": "Grades and GPA", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/analyst/courses": {
            "get": {"tags": ["Analyst"], "summary": "Per-course aggregates", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/analyst/courses/export": {
            "get": {"tags": ["Analyst"], "summary": "Export course performance as CSV or PDF", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "File"}}}
        }
    },
    "definitions": {
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
