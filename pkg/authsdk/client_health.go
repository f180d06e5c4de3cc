package authsdk

import "context"

// GetLiveness checks if the service is alive.
func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return get[HealthResponse](ctx, c, "/livez")
}

// GetReadiness checks if the service and its storage are ready.
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return get[HealthResponse](ctx, c, "/readyz")
}
