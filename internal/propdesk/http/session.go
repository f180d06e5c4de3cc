package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/propdesk/internal/propdesk/guard"
	"github.com/aussiebroadwan/propdesk/internal/propdesk/service"
	"github.com/aussiebroadwan/propdesk/internal/propdesk/session"
	"github.com/aussiebroadwan/propdesk/pkg/authsdk"
	"github.com/aussiebroadwan/propdesk/pkg/httpx"
	"github.com/aussiebroadwan/propdesk/pkg/jwtx"
	"github.com/aussiebroadwan/propdesk/pkg/slogx"
)

type SessionHandler struct {
	Authenticator *service.Authenticator
	Sessions      *session.Manager
	Tickets       *jwtx.Tickets
}

// HandleLogin serves POST /v1/session/login.
//
//	@Summary		Log in
//	@Description	Verifies the credentials and replaces the current session. The returned ticket must be sent as a Bearer token on protected routes.
//	@Description	Unknown email, wrong password and inactive identity all answer login_failed.
//	@Tags			Session
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginRequest			true	"Credentials"
//	@Success		200		{object}	authsdk.LoginResponse			"Session, permissions and ticket"
//	@Failure		400		{object}	authsdk.ValidationErrorResponse	"Invalid request body or validation failed"
//	@Failure		401		{object}	authsdk.ErrorResponse			"login_failed"
//	@Failure		429		{object}	authsdk.ErrorResponse			"Too many attempts for this address and email"
//	@Failure		500		{object}	authsdk.ErrorResponse			"Session could not be stored"
//	@Router			/v1/session/login [post].
func (h *SessionHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	l := slogx.FromContext(r.Context())

	var req authsdk.LoginRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	sess, err := h.Authenticator.Authenticate(r.Context(), req.Email, req.Password)
	if errors.Is(err, service.ErrLoginFailed) {
		authsdk.ErrLoginFailed.WriteError(w)
		return
	}
	if err != nil {
		l.Error("login failed", slog.Any("error", err))
		authsdk.ErrServerError.WriteError(w)
		return
	}

	ticket, err := h.Tickets.Issue(sess.Identity.ID, sess.ID, sess.Identity.Role.String())
	if err != nil {
		l.Error("failed to issue ticket", slog.Any("error", err))
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.LoginResponse{
		Session:     toSessionInfo(sess),
		Permissions: permissionNames(sess.Identity.Role),
		Ticket:      ticket,
		TicketType:  "Bearer",
		ExpiresIn:   int(h.Tickets.TTL().Seconds()),
	})
}

// HandleLogout serves POST /v1/session/logout. Logging out with nobody
// signed in succeeds; otherwise the caller must hold the current ticket.
//
//	@Summary		Log out
//	@Description	Clears the current session. A no-op when nobody is signed in.
//	@Tags			Session
//	@Success		204
//	@Failure		401	{object}	authsdk.ErrorResponse	"Ticket missing or not for the current session"
//	@Failure		500	{object}	authsdk.ErrorResponse	"Session could not be cleared"
//	@Security		BearerAuth
//	@Router			/v1/session/logout [post].
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	snap := h.Sessions.Current()
	if snap.Session != nil {
		if err := guard.VerifyTicket(h.Tickets, httpx.BearerToken(r), snap.Session); err != nil {
			slogx.FromContext(r.Context()).Info("logout refused", slog.Any("error", err))
			authsdk.ErrUnauthenticated.WriteError(w)
			return
		}
	}

	if err := h.Authenticator.Logout(r.Context()); err != nil {
		slogx.FromContext(r.Context()).Error("logout failed", slog.Any("error", err))
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}

// HandleGet serves GET /v1/session.
//
//	@Summary		Get the current session
//	@Tags			Session
//	@Produce		json
//	@Success		200	{object}	authsdk.SessionResponse	"Current session and its permissions"
//	@Failure		404	{object}	authsdk.ErrorResponse	"no_session"
//	@Failure		401	{object}	authsdk.ErrorResponse	"Ticket missing or not for the current session"
//	@Failure		429	{object}	authsdk.ErrorResponse	"Rate limit exceeded"
//	@Failure		503	{object}	authsdk.ErrorResponse	"Session still loading"
//	@Security		BearerAuth
//	@Router			/v1/session [get].
func (h *SessionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	snap := h.Sessions.Current()
	switch {
	case !snap.Loaded:
		w.Header().Set("Retry-After", "1")
		authsdk.ErrSessionLoading.WriteError(w)
		return
	case snap.Session == nil:
		authsdk.ErrNoSession.WriteError(w)
		return
	}

	if err := guard.VerifyTicket(h.Tickets, httpx.BearerToken(r), snap.Session); err != nil {
		authsdk.ErrUnauthenticated.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.SessionResponse{
		Session:     toSessionInfo(*snap.Session),
		Permissions: permissionNames(snap.Session.Identity.Role),
	})
}
