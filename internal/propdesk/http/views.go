package http

import (
	"net/http"

	"github.com/aussiebroadwan/propdesk/internal/propdesk/domain"
	"github.com/aussiebroadwan/propdesk/internal/propdesk/guard"
	"github.com/aussiebroadwan/propdesk/pkg/authsdk"
	"github.com/aussiebroadwan/propdesk/pkg/httpx"
)

// dashboardViews maps each protected dashboard view to the permission it
// requires. The view bodies are placeholders; the dashboard renders them.
var dashboardViews = map[string]domain.Permission{
	"properties":           domain.PermProperties,
	"units":                domain.PermUnits,
	"tenants":              domain.PermTenants,
	"leases":               domain.PermLeases,
	"maintenance":          domain.PermMaintenance,
	"payments":             domain.PermPayments,
	"buyers":               domain.PermBuyers,
	"sales":                domain.PermSales,
	"reports":              domain.PermReports,
	"own-lease":            domain.PermOwnLease,
	"own-payments":         domain.PermOwnPayments,
	"maintenance-requests": domain.PermMaintenanceRequests,
	"assigned-maintenance": domain.PermAssignedMaintenance,
}

// viewHandler serves GET /v1/views/{view}; one route is registered per
// entry in dashboardViews.
//
//	@Summary		Open a dashboard view
//	@Description	Renders a protected view when the signed-in identity holds its permission.
//	@Tags			Views
//	@Produce		json
//	@Param			view	path		string					true	"View name"	Enums(properties, units, tenants, leases, maintenance, payments, buyers, sales, reports, own-lease, own-payments, maintenance-requests, assigned-maintenance)
//	@Success		200		{object}	authsdk.ViewResponse	"View placeholder"
//	@Failure		403		{object}	authsdk.ErrorResponse	"access_denied"
//	@Failure		401	{object}	authsdk.ErrorResponse	"Ticket missing or not for the current session"
//	@Failure		429	{object}	authsdk.ErrorResponse	"Rate limit exceeded"
//	@Failure		503	{object}	authsdk.ErrorResponse	"Session still loading"
//	@Security		BearerAuth
//	@Router			/v1/views/{view} [get].
func viewHandler(name string, perm domain.Permission) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := guard.SessionFrom(r.Context())
		if !ok {
			authsdk.ErrUnauthenticated.WriteError(w)
			return
		}

		httpx.WriteJSON(w, http.StatusOK, authsdk.ViewResponse{
			View:       name,
			Permission: perm.String(),
			Identity:   toIdentityInfo(sess.Identity),
		})
	}
}
