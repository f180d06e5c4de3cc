package authsdk

import "time"

// ErrorResponse is the JSON shape of APIError.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// ValidationErrorResponse is returned with 400 when request fields fail
// validation. Details maps field name to reason.
type ValidationErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// ============================================================================
// Session
// ============================================================================

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"max=128"`
}

type IdentityInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type SessionInfo struct {
	ID            string       `json:"id"`
	Identity      IdentityInfo `json:"identity"`
	EstablishedAt time.Time    `json:"establishedAt"`
}

type LoginResponse struct {
	Session     SessionInfo `json:"session"`
	Permissions []string    `json:"permissions"`
	Ticket      string      `json:"ticket"`
	TicketType  string      `json:"ticket_type"`
	ExpiresIn   int         `json:"expires_in"`
}

type SessionResponse struct {
	Session     SessionInfo `json:"session"`
	Permissions []string    `json:"permissions"`
}

type PermissionResponse struct {
	Permission string `json:"permission"`
	Granted    bool   `json:"granted"`
}

// ViewResponse is the placeholder body of a guarded dashboard view.
type ViewResponse struct {
	View       string       `json:"view"`
	Permission string       `json:"permission"`
	Identity   IdentityInfo `json:"identity"`
}

// ============================================================================
// Directory
// ============================================================================

type CreateIdentityRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Phone    string `json:"phone" validate:"max=32"`
	Role     string `json:"role" validate:"required,oneof=admin property_manager landlord tenant vendor"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type UpdateIdentityRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

type ListIdentitiesResponse struct {
	Identities []IdentityInfo `json:"identities"`
}

type BootstrapRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Phone    string `json:"phone" validate:"max=32"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type BootstrapResponse struct {
	Identity IdentityInfo `json:"identity"`
}

// ============================================================================
// Health
// ============================================================================

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database     string `json:"database"`
	SessionStore string `json:"session_store"`
	Session      string `json:"session"`
}
