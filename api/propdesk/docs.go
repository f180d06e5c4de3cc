// Package propdesk holds the Swagger document for the PropDesk session API.
// The template is maintained by hand alongside the handler annotations in
// internal/propdesk/http.
package propdesk

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "AussieBroadWAN Team",
            "url": "https://github.com/aussiebroadwan/propdesk"
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
        "/livez": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Health"
                ],
                "summary": "Liveness check",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/authsdk.HealthResponse"
                        }
                    }
                }
            }
        },
        "/readyz": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Health"
                ],
                "summary": "Readiness check",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/authsdk.HealthResponse"
                        }
                    },
                    "503": {
                        "description": "Service Unavailable",
                        "schema": {
                            "$ref": "#/definitions/authsdk.HealthResponse"
                        }
                    }
                }
            }
        },
        "/v1/bootstrap": {
            "post": {
                "description": "Creates the first admin identity in an empty directory.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Bootstrap"
                ],
                "summary": "Bootstrap the first admin",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Bootstrap token",
                        "name": "X-Bootstrap-Token",
                        "in": "header",
                        "required": true
                    },
                    {
                        "description": "Admin details",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/authsdk.BootstrapRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created admin",
                        "schema": {
                            "$ref": "#/definitions/authsdk.BootstrapResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid request body or validation failed",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ValidationErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Token missing or invalid, or already bootstrapped",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Bootstrap not enabled",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    },
                    "429": {
                        "description": "Rate limit exceeded",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/identities": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Identities"
                ],
                "summary": "List identities",
                "responses": {
                    "200": {
                        "description": "All identities",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ListIdentitiesResponse"
                        }
                    },
                    "401": {
                        "description": "Ticket missing or not for the current session",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Admin role required",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    },
                    "429": {
                        "description": "Rate limit exceeded",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    }
                }
            },
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Identities"
                ],
                "summary": "Create an identity",
                "parameters": [
                    {
                        "description": "Identity details",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/authsdk.CreateIdentityRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created identity",
                        "schema": {
                            "$ref": "#/definitions/authsdk.IdentityInfo"
                        }
                    },
                    "400": {
                        "description": "Invalid request body, unknown role or validation failed",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ValidationErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Ticket missing or not for the current session",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Admin role required",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "email_taken",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    },
                    "429": {
                        "description": "Rate limit exceeded",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/identities/{id}": {
            "patch": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Identities"
                ],
                "summary": "Activate or deactivate an identity",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Identity ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "New active flag",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/authsdk.UpdateIdentityRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Updated identity",
                        "schema": {
                            "$ref": "#/definitions/authsdk.IdentityInfo"
                        }
                    },
                    "400": {
                        "description": "Invalid request body",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ValidationErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Ticket missing or not for the current session",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Admin role required",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Identity not found",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    },
                    "429": {
                        "description": "Rate limit exceeded",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/permissions/{permission}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Reports whether the signed-in identity holds the named permission.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Permissions"
                ],
                "summary": "Check a permission",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Permission name, e.g. view_properties",
                        "name": "permission",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Whether the permission is granted",
                        "schema": {
                            "$ref": "#/definitions/authsdk.PermissionResponse"
                        }
                    },
                    "400": {
                        "description": "unknown_permission",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Ticket missing or not for the current session",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    },
                    "429": {
                        "description": "Rate limit exceeded",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    },
                    "503": {
                        "description": "Session still loading",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/session": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Session"
                ],
                "summary": "Get the current session",
                "responses": {
                    "200": {
                        "description": "Current session and its permissions",
                        "schema": {
                            "$ref": "#/definitions/authsdk.SessionResponse"
                        }
                    },
                    "401": {
                        "description": "Ticket missing or not for the current session",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "no_session",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    },
                    "429": {
                        "description": "Rate limit exceeded",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    },
                    "503": {
                        "description": "Session still loading",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/session/login": {
            "post": {
                "description": "Verifies the credentials and replaces the current session. The returned ticket must be sent as a Bearer token on protected routes.\nUnknown email, wrong password and inactive identity all answer login_failed.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Session"
                ],
                "summary": "Log in",
                "parameters": [
                    {
                        "description": "Credentials",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/authsdk.LoginRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Session, permissions and ticket",
                        "schema": {
                            "$ref": "#/definitions/authsdk.LoginResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid request body or validation failed",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ValidationErrorResponse"
                        }
                    },
                    "401": {
                        "description": "login_failed",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    },
                    "429": {
                        "description": "Too many attempts for this address and email",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Session could not be stored",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/session/logout": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Clears the current session. A no-op when nobody is signed in.",
                "tags": [
                    "Session"
                ],
                "summary": "Log out",
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "401": {
                        "description": "Ticket missing or not for the current session",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Session could not be cleared",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/views/{view}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Renders a protected view when the signed-in identity holds its permission.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Views"
                ],
                "summary": "Open a dashboard view",
                "parameters": [
                    {
                        "enum": [
                            "properties",
                            "units",
                            "tenants",
                            "leases",
                            "maintenance",
                            "payments",
                            "buyers",
                            "sales",
                            "reports",
                            "own-lease",
                            "own-payments",
                            "maintenance-requests",
                            "assigned-maintenance"
                        ],
                        "type": "string",
                        "description": "View name",
                        "name": "view",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "View placeholder",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ViewResponse"
                        }
                    },
                    "401": {
                        "description": "Ticket missing or not for the current session",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "access_denied",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    },
                    "429": {
                        "description": "Rate limit exceeded",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    },
                    "503": {
                        "description": "Session still loading",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "authsdk.BootstrapRequest": {
            "type": "object",
            "required": [
                "email",
                "name",
                "password"
            ],
            "properties": {
                "email": {
                    "type": "string",
                    "maxLength": 254
                },
                "name": {
                    "type": "string",
                    "maxLength": 100
                },
                "password": {
                    "type": "string",
                    "maxLength": 128,
                    "minLength": 8
                },
                "phone": {
                    "type": "string",
                    "maxLength": 32
                }
            }
        },
        "authsdk.BootstrapResponse": {
            "type": "object",
            "properties": {
                "identity": {
                    "$ref": "#/definitions/authsdk.IdentityInfo"
                }
            }
        },
        "authsdk.CreateIdentityRequest": {
            "type": "object",
            "required": [
                "email",
                "name",
                "password",
                "role"
            ],
            "properties": {
                "email": {
                    "type": "string",
                    "maxLength": 254
                },
                "name": {
                    "type": "string",
                    "maxLength": 100
                },
                "password": {
                    "type": "string",
                    "maxLength": 128,
                    "minLength": 8
                },
                "phone": {
                    "type": "string",
                    "maxLength": 32
                },
                "role": {
                    "type": "string",
                    "enum": [
                        "admin",
                        "property_manager",
                        "landlord",
                        "tenant",
                        "vendor"
                    ]
                }
            }
        },
        "authsdk.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "string"
                },
                "error_description": {
                    "type": "string"
                }
            }
        },
        "authsdk.HealthChecks": {
            "type": "object",
            "properties": {
                "database": {
                    "type": "string"
                },
                "session": {
                    "type": "string"
                },
                "session_store": {
                    "type": "string"
                }
            }
        },
        "authsdk.HealthResponse": {
            "type": "object",
            "properties": {
                "checks": {
                    "$ref": "#/definitions/authsdk.HealthChecks"
                },
                "status": {
                    "type": "string"
                },
                "uptime": {
                    "type": "string"
                },
                "version": {
                    "type": "string"
                }
            }
        },
        "authsdk.IdentityInfo": {
            "type": "object",
            "properties": {
                "createdAt": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "id": {
                    "type": "string"
                },
                "isActive": {
                    "type": "boolean"
                },
                "name": {
                    "type": "string"
                },
                "phone": {
                    "type": "string"
                },
                "role": {
                    "type": "string"
                },
                "updatedAt": {
                    "type": "string"
                }
            }
        },
        "authsdk.ListIdentitiesResponse": {
            "type": "object",
            "properties": {
                "identities": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/authsdk.IdentityInfo"
                    }
                }
            }
        },
        "authsdk.LoginRequest": {
            "type": "object",
            "required": [
                "email"
            ],
            "properties": {
                "email": {
                    "type": "string",
                    "maxLength": 254
                },
                "password": {
                    "type": "string",
                    "maxLength": 128
                }
            }
        },
        "authsdk.LoginResponse": {
            "type": "object",
            "properties": {
                "expires_in": {
                    "type": "integer"
                },
                "permissions": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "session": {
                    "$ref": "#/definitions/authsdk.SessionInfo"
                },
                "ticket": {
                    "type": "string"
                },
                "ticket_type": {
                    "type": "string"
                }
            }
        },
        "authsdk.PermissionResponse": {
            "type": "object",
            "properties": {
                "granted": {
                    "type": "boolean"
                },
                "permission": {
                    "type": "string"
                }
            }
        },
        "authsdk.SessionInfo": {
            "type": "object",
            "properties": {
                "establishedAt": {
                    "type": "string"
                },
                "id": {
                    "type": "string"
                },
                "identity": {
                    "$ref": "#/definitions/authsdk.IdentityInfo"
                }
            }
        },
        "authsdk.SessionResponse": {
            "type": "object",
            "properties": {
                "permissions": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "session": {
                    "$ref": "#/definitions/authsdk.SessionInfo"
                }
            }
        },
        "authsdk.UpdateIdentityRequest": {
            "type": "object",
            "required": [
                "isActive"
            ],
            "properties": {
                "isActive": {
                    "type": "boolean"
                }
            }
        },
        "authsdk.ValidationErrorResponse": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "details": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "string"
                    }
                },
                "message": {
                    "type": "string"
                }
            }
        },
        "authsdk.ViewResponse": {
            "type": "object",
            "properties": {
                "identity": {
                    "$ref": "#/definitions/authsdk.IdentityInfo"
                },
                "permission": {
                    "type": "string"
                },
                "view": {
                    "type": "string"
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Session ticket. Format: \"Bearer {ticket}\".",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "PropDesk Session API",
	Description:      "Session and authorization core for the property dashboard: login, the current session, permission checks and role-guarded views.\n\nTickets are EdDSA-signed JWTs bound to the current session.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
