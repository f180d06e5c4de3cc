package http

import (
	"net/http"

	"github.com/aussiebroadwan/propdesk/internal/propdesk/access"
	"github.com/aussiebroadwan/propdesk/internal/propdesk/domain"
	"github.com/aussiebroadwan/propdesk/internal/propdesk/guard"
	"github.com/aussiebroadwan/propdesk/pkg/authsdk"
	"github.com/aussiebroadwan/propdesk/pkg/httpx"
)

// PermissionHandler serves GET /v1/permissions/{permission}. It runs behind
// a guard that only requires a session.
//
//	@Summary		Check a permission
//	@Description	Reports whether the signed-in identity holds the named permission.
//	@Tags			Permissions
//	@Produce		json
//	@Param			permission	path		string						true	"Permission name, e.g. view_properties"
//	@Success		200			{object}	authsdk.PermissionResponse	"Whether the permission is granted"
//	@Failure		400			{object}	authsdk.ErrorResponse		"unknown_permission"
//	@Failure		401	{object}	authsdk.ErrorResponse	"Ticket missing or not for the current session"
//	@Failure		429	{object}	authsdk.ErrorResponse	"Rate limit exceeded"
//	@Failure		503	{object}	authsdk.ErrorResponse	"Session still loading"
//	@Security		BearerAuth
//	@Router			/v1/permissions/{permission} [get].
func PermissionHandler(w http.ResponseWriter, r *http.Request) {
	perm, err := domain.ParsePermission(r.PathValue("permission"))
	if err != nil {
		authsdk.ErrUnknownPermission.WithDescription(err.Error()).WriteError(w)
		return
	}

	sess, ok := guard.SessionFrom(r.Context())
	if !ok {
		authsdk.ErrUnauthenticated.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.PermissionResponse{
		Permission: perm.String(),
		Granted:    access.HasPermission(&sess.Identity, perm),
	})
}
