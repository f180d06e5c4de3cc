package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/propdesk/internal/propdesk/domain"
	"github.com/aussiebroadwan/propdesk/internal/propdesk/service"
	"github.com/aussiebroadwan/propdesk/internal/propdesk/store"
	"github.com/aussiebroadwan/propdesk/pkg/authsdk"
	"github.com/aussiebroadwan/propdesk/pkg/httpx"
	"github.com/aussiebroadwan/propdesk/pkg/slogx"
)

// IdentitiesHandler manages the directory. Every route is guarded with the
// admin role.
type IdentitiesHandler struct {
	IdentityService *service.IdentityService
}

// HandleList serves GET /v1/identities.
//
//	@Summary		List identities
//	@Tags			Identities
//	@Produce		json
//	@Success		200	{object}	authsdk.ListIdentitiesResponse	"All identities"
//	@Failure		401	{object}	authsdk.ErrorResponse	"Ticket missing or not for the current session"
//	@Failure		403	{object}	authsdk.ErrorResponse	"Admin role required"
//	@Failure		429	{object}	authsdk.ErrorResponse	"Rate limit exceeded"
//	@Failure		500	{object}	authsdk.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/v1/identities [get].
func (h *IdentitiesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	idents, err := h.IdentityService.List(r.Context())
	if err != nil {
		slogx.FromContext(r.Context()).Error("failed to list identities", slog.Any("error", err))
		authsdk.ErrServerError.WriteError(w)
		return
	}

	resp := authsdk.ListIdentitiesResponse{Identities: make([]authsdk.IdentityInfo, len(idents))}
	for i, id := range idents {
		resp.Identities[i] = toIdentityInfo(id)
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleCreate serves POST /v1/identities.
//
//	@Summary		Create an identity
//	@Tags			Identities
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.CreateIdentityRequest	true	"Identity details"
//	@Success		201		{object}	authsdk.IdentityInfo			"Created identity"
//	@Failure		400		{object}	authsdk.ValidationErrorResponse	"Invalid request body, unknown role or validation failed"
//	@Failure		409		{object}	authsdk.ErrorResponse			"email_taken"
//	@Failure		401	{object}	authsdk.ErrorResponse	"Ticket missing or not for the current session"
//	@Failure		403	{object}	authsdk.ErrorResponse	"Admin role required"
//	@Failure		429	{object}	authsdk.ErrorResponse	"Rate limit exceeded"
//	@Failure		500	{object}	authsdk.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/v1/identities [post].
func (h *IdentitiesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req authsdk.CreateIdentityRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	ident, err := h.IdentityService.Create(r.Context(), service.NewIdentity{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     domain.Role(req.Role),
		Password: req.Password,
	})
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		authsdk.ErrEmailTaken.WriteError(w)
		return
	case errors.Is(err, domain.ErrUnknownRole):
		authsdk.ErrInvalidRequest.WithDescription(err.Error()).WriteError(w)
		return
	case err != nil:
		slogx.FromContext(r.Context()).Error("failed to create identity", slog.Any("error", err))
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toIdentityInfo(ident))
}

// HandleUpdate serves PATCH /v1/identities/{id}.
//
//	@Summary		Activate or deactivate an identity
//	@Tags			Identities
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Identity ID"
//	@Param			request	body		authsdk.UpdateIdentityRequest	true	"New active flag"
//	@Success		200		{object}	authsdk.IdentityInfo			"Updated identity"
//	@Failure		400		{object}	authsdk.ValidationErrorResponse	"Invalid request body"
//	@Failure		404		{object}	authsdk.ErrorResponse			"Identity not found"
//	@Failure		401	{object}	authsdk.ErrorResponse	"Ticket missing or not for the current session"
//	@Failure		403	{object}	authsdk.ErrorResponse	"Admin role required"
//	@Failure		429	{object}	authsdk.ErrorResponse	"Rate limit exceeded"
//	@Failure		500	{object}	authsdk.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/v1/identities/{id} [patch].
func (h *IdentitiesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req authsdk.UpdateIdentityRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	ident, err := h.IdentityService.SetActive(r.Context(), r.PathValue("id"), *req.IsActive)
	switch {
	case errors.Is(err, store.ErrNotFound):
		authsdk.ErrNotFound.WithDescription("identity not found").WriteError(w)
		return
	case err != nil:
		slogx.FromContext(r.Context()).Error("failed to update identity", slog.Any("error", err))
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toIdentityInfo(ident))
}
