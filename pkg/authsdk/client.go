package authsdk

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

// Client talks to a propdesk session service. It remembers the ticket from
// the last successful Login and presents it on protected calls.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	mu     sync.RWMutex
	ticket string
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Ticket returns the ticket presented on protected calls.
func (c *Client) Ticket() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ticket
}

// SetTicket replaces the ticket, e.g. to reuse one from another client.
func (c *Client) SetTicket(ticket string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticket = ticket
}
