package gateway

import (
	"context"
	"errors"
	"net/http"

	"github.com/Clark-Hu/moviebooking/internal/domain"
)

// AuthClient performs login and registration. It never attaches a token and
// never triggers the unauthorized handling of Client, so a rejected login
// cannot loop back into a forced logout.
type AuthClient struct {
	t *transport
}

// NewAuthClient constructs an AuthClient for the backend rooted at baseURL.
func NewAuthClient(baseURL string, opts Options) (*AuthClient, error) {
	t, err := newTransport(baseURL, opts)
	if err != nil {
		return nil, err
	}
	return &AuthClient{t: t}, nil
}

// loginResponse accepts both the canonical and the legacy field names.
type loginResponse struct {
	Token    string   `json:"token"`
	Type     string   `json:"type"`
	ID       string   `json:"id"`
	Username string   `json:"username"`
	LoginID  string   `json:"loginId"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
	Role     []string `json:"role"`
}

func (r loginResponse) result() domain.LoginResult {
	user := domain.User{ID: r.ID, Username: r.Username, Email: r.Email, Roles: r.Roles}
	if user.Username == "" {
		user.Username = r.LoginID
	}
	if len(user.Roles) == 0 {
		user.Roles = r.Role
	}
	return domain.LoginResult{Token: r.Token, User: user}
}

// Login exchanges credentials for a token. A 401 or 403 is reported as
// ErrInvalidCredentials.
func (a *AuthClient) Login(ctx context.Context, creds domain.Credentials) (domain.LoginResult, error) {
	var resp loginResponse
	err := a.t.do(ctx, call{
		op:       "login",
		method:   http.MethodPost,
		segments: []string{"login"},
		body:     creds,
		out:      &resp,
	})
	if err != nil {
		var derr *domain.Error
		if errors.As(err, &derr) && (derr.Status == http.StatusUnauthorized || derr.Status == http.StatusForbidden) {
			derr.Kind = domain.ErrInvalidCredentials
		}
		return domain.LoginResult{}, err
	}
	return resp.result(), nil
}

// Register creates an account. Duplicate usernames and rejected fields come
// back as ErrValidation with the backend's field messages.
func (a *AuthClient) Register(ctx context.Context, signup domain.SignUp) error {
	if len(signup.Roles) == 0 {
		signup.Roles = []string{"user"}
	}
	err := a.t.do(ctx, call{
		op:       "register",
		method:   http.MethodPost,
		segments: []string{"register"},
		body:     signup,
	})
	var derr *domain.Error
	if errors.As(err, &derr) && derr.Kind == domain.ErrConflict {
		derr.Kind = domain.ErrValidation
	}
	return err
}
