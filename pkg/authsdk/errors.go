package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/propdesk/pkg/httpx"
)

const (
	ErrorCodeInvalidRequest    = "invalid_request"
	ErrorCodeValidation        = "validation_error"
	ErrorCodeLoginFailed       = "login_failed"
	ErrorCodeUnauthenticated   = "unauthenticated"
	ErrorCodeAccessDenied      = "access_denied"
	ErrorCodeSessionLoading    = "session_loading"
	ErrorCodeNoSession         = "no_session"
	ErrorCodeNotFound          = "not_found"
	ErrorCodeUnknownPermission = "unknown_permission"
	ErrorCodeEmailTaken        = "email_taken"
	ErrorCodeServerError       = "server_error"
)

// APIError is the error body returned by every endpoint. It implements error
// on the client side and writes itself on the server side.
type APIError struct {
	StatusCode  int    `json:"-"`
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes e as a JSON response. Unauthenticated responses carry a
// Bearer challenge.
func (e *APIError) WriteError(w http.ResponseWriter) {
	if e.StatusCode == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="propdesk"`)
	}
	httpx.WriteJSON(w, e.StatusCode, e)
}

// WithDescription returns a copy of e with a different description.
func (e *APIError) WithDescription(desc string) *APIError {
	cp := *e
	cp.Description = desc
	return &cp
}

var (
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	// ErrLoginFailed does not say whether the email or the password was wrong.
	ErrLoginFailed = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeLoginFailed,
		Description: "invalid email or password",
	}

	ErrUnauthenticated = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeUnauthenticated,
		Description: "no valid session for this ticket",
	}

	ErrAccessDenied = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeAccessDenied,
		Description: "the current role does not grant access",
	}

	ErrSessionLoading = &APIError{
		StatusCode:  http.StatusServiceUnavailable,
		Code:        ErrorCodeSessionLoading,
		Description: "session is still loading",
	}

	ErrNoSession = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNoSession,
		Description: "nobody is signed in",
	}

	ErrNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "resource not found",
	}

	ErrUnknownPermission = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeUnknownPermission,
		Description: "unknown permission name",
	}

	ErrEmailTaken = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeEmailTaken,
		Description: "an identity with this email already exists",
	}

	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)

// parseErrorResponse turns a non-2xx response into an *APIError.
func parseErrorResponse(resp *http.Response, body []byte) error {
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	var valErr ValidationErrorResponse
	if err := json.Unmarshal(body, &valErr); err == nil && valErr.Code != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        valErr.Code,
			Description: valErr.Message,
		}
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
