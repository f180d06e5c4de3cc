/*
Package authsdk provides a client SDK and the shared wire types for the
propdesk session service.

# Overview

The service holds a single current session. Logging in replaces it and
returns a ticket (an EdDSA signed JWT bound to the session id). Every
protected call presents the ticket as a bearer token; the server checks the
ticket, the session and the caller's permission on each request.

	client := authsdk.NewClient("http://localhost:8080")

	login, err := client.Login(ctx, "sarah@propdesk.com", password)
	// login.Permissions lists what the signed-in role may do.

	check, err := client.Check(ctx, "payments")
	view, err := client.View(ctx, "properties")

	err = client.Logout(ctx)

# Errors

Non-2xx responses are returned as *APIError carrying the HTTP status, an
error code and a description:

	_, err := client.View(ctx, "sales")
	var apiErr *authsdk.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden {
		// signed in, but the role lacks the permission
	}

The same type is used by the server to write error responses, so both sides
agree on the {"error", "error_description"} shape.
*/
package authsdk
