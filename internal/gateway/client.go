package gateway

import (
	"context"
	"errors"

	"github.com/Clark-Hu/moviebooking/internal/domain"
)

// Session is the part of the session store the gateway depends on.
type Session interface {
	Token() string
	Logout(ctx context.Context)
}

// NavigateFunc is told about a forced logout so the caller can send the user
// back to the login view.
type NavigateFunc func(ctx context.Context, err error)

// Client calls every endpoint other than login and registration. The token
// is read from the session for each request. Any unauthorized response
// clears the session, calls the navigate hook and is still returned to the
// caller as ErrUnauthorized.
type Client struct {
	t        *transport
	session  Session
	navigate NavigateFunc
}

// New constructs a Client. navigate may be nil.
func New(baseURL string, session Session, navigate NavigateFunc, opts Options) (*Client, error) {
	if session == nil {
		return nil, errors.New("gateway: session is required")
	}
	t, err := newTransport(baseURL, opts)
	if err != nil {
		return nil, err
	}
	return &Client{t: t, session: session, navigate: navigate}, nil
}

func (c *Client) send(ctx context.Context, req call) error {
	req.token = c.session.Token()
	err := c.t.do(ctx, req)
	if errors.Is(err, domain.ErrUnauthorized) {
		c.unauthorized(ctx, err)
	}
	return err
}

func (c *Client) unauthorized(ctx context.Context, err error) {
	c.t.logger.Printf("gateway: unauthorized response, clearing session: %v", err)
	c.session.Logout(ctx)
	if c.navigate != nil {
		c.navigate(ctx, err)
	}
}
