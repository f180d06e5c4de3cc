package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/propdesk/internal/propdesk/service"
	"github.com/aussiebroadwan/propdesk/pkg/authsdk"
	"github.com/aussiebroadwan/propdesk/pkg/httpx"
	"github.com/aussiebroadwan/propdesk/pkg/slogx"
)

type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

// ServeHTTP creates the first admin identity. The X-Bootstrap-Token header
// must match the configured token.
//
//	@Summary		Bootstrap the first admin
//	@Description	Creates the first admin identity in an empty directory.
//	@Tags			Bootstrap
//	@Accept			json
//	@Produce		json
//	@Param			X-Bootstrap-Token	header		string							true	"Bootstrap token"
//	@Param			request				body		authsdk.BootstrapRequest		true	"Admin details"
//	@Success		201					{object}	authsdk.BootstrapResponse		"Created admin"
//	@Failure		400					{object}	authsdk.ValidationErrorResponse	"Invalid request body or validation failed"
//	@Failure		401					{object}	authsdk.ErrorResponse			"Token missing or invalid, or already bootstrapped"
//	@Failure		404					{object}	authsdk.ErrorResponse			"Bootstrap not enabled"
//	@Failure		429					{object}	authsdk.ErrorResponse			"Rate limit exceeded"
//	@Router			/v1/bootstrap [post].
func (h *BootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l := slogx.FromContext(r.Context())

	if h.BootstrapService.Token == "" {
		authsdk.ErrNotFound.WithDescription("Bootstrap endpoint is not enabled").WriteError(w)
		return
	}

	token := r.Header.Get("X-Bootstrap-Token")
	if token == "" {
		authsdk.ErrUnauthenticated.WithDescription("Bootstrap token is required in X-Bootstrap-Token header").WriteError(w)
		return
	}

	var req authsdk.BootstrapRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	admin, err := h.BootstrapService.Bootstrap(r.Context(), token, service.NewIdentity{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBootstrapDisabled):
			authsdk.ErrNotFound.WithDescription("Bootstrap endpoint is not enabled").WriteError(w)
		case errors.Is(err, service.ErrBootstrapUnauthorized):
			authsdk.ErrUnauthenticated.WithDescription("Invalid bootstrap token").WriteError(w)
		case errors.Is(err, service.ErrBootstrapAlready):
			authsdk.ErrUnauthenticated.WithDescription("Directory has already been bootstrapped").WriteError(w)
		default:
			l.Error("bootstrap failed", slog.Any("error", err))
			authsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authsdk.BootstrapResponse{Identity: toIdentityInfo(admin)})
}
