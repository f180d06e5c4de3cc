package authsdk

import (
	"context"
	"net/http"
	"net/url"
)

// ListIdentities returns the directory. Admin only.
func (c *Client) ListIdentities(ctx context.Context) (*ListIdentitiesResponse, error) {
	return get[ListIdentitiesResponse](ctx, c, "/v1/identities")
}

// CreateIdentity registers an identity. Admin only.
func (c *Client) CreateIdentity(ctx context.Context, req CreateIdentityRequest) (*IdentityInfo, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/identities", req, nil)
	if err != nil {
		return nil, err
	}

	var out IdentityInfo
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetIdentityActive enables or disables login for an identity. Admin only.
func (c *Client) SetIdentityActive(ctx context.Context, id string, active bool) (*IdentityInfo, error) {
	resp, err := c.doRequest(ctx, http.MethodPatch, "/v1/identities/"+url.PathEscape(id),
		UpdateIdentityRequest{IsActive: &active}, nil)
	if err != nil {
		return nil, err
	}

	var out IdentityInfo
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Bootstrap creates the first admin of an empty directory.
func (c *Client) Bootstrap(ctx context.Context, token string, req BootstrapRequest) (*BootstrapResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/bootstrap", req, map[string]string{
		"X-Bootstrap-Token": token,
	})
	if err != nil {
		return nil, err
	}

	var out BootstrapResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}
