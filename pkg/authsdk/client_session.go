package authsdk

import (
	"context"
	"net/http"
	"net/url"
)

// Login replaces the server's current session. On success the returned
// ticket is kept for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/session/login", LoginRequest{
		Email:    email,
		Password: password,
	}, nil)
	if err != nil {
		return nil, err
	}

	var out LoginResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}

	c.SetTicket(out.Ticket)
	return &out, nil
}

// Logout clears the server's current session and forgets the ticket.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/session/logout", nil, nil)
	if err != nil {
		return err
	}
	if err := checkStatusNoContent(resp); err != nil {
		return err
	}

	c.SetTicket("")
	return nil
}

// Session returns the current session and its permissions.
func (c *Client) Session(ctx context.Context) (*SessionResponse, error) {
	return get[SessionResponse](ctx, c, "/v1/session")
}

// Check asks whether the current session holds permission.
func (c *Client) Check(ctx context.Context, permission string) (*PermissionResponse, error) {
	return get[PermissionResponse](ctx, c, "/v1/permissions/"+url.PathEscape(permission))
}

// View fetches a guarded dashboard view such as "properties" or "own-lease".
func (c *Client) View(ctx context.Context, name string) (*ViewResponse, error) {
	return get[ViewResponse](ctx, c, "/v1/views/"+url.PathEscape(name))
}
