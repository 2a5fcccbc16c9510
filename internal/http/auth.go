package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Clark-Hu/moviebooking/internal/domain"
	"github.com/Clark-Hu/moviebooking/internal/validate"
)

const tokenIssuer = "booking-mock"

type tokenClaims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

type loginResponse struct {
	Token    string   `json:"token"`
	Type     string   `json:"type"`
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

type ctxKey int

const userKey ctxKey = iota

// userFrom returns the account attached by requireAuth.
func userFrom(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(userKey).(domain.User)
	return u, ok
}

func (s *Server) issueToken(u domain.User) (string, error) {
	now := s.now()
	claims := tokenClaims{
		Roles: u.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tokenIssuer,
			Subject:   u.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.cfg.JWTTTLMins) * time.Minute)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
}

func (s *Server) parseToken(raw string) (*tokenClaims, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (interface{}, error) { return []byte(s.cfg.JWTSecret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}
	return &claims, nil
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	return token, token != ""
}

// requireAuth rejects requests without a valid bearer token and attaches the
// caller's account to the request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			s.respondError(w, http.StatusUnauthorized, "Missing token", nil)
			return
		}
		claims, err := s.parseToken(raw)
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "JWT Expired"
			}
			s.respondError(w, http.StatusUnauthorized, msg, nil)
			return
		}
		user, ok := s.catalog.User(claims.Subject)
		if !ok {
			s.respondError(w, http.StatusUnauthorized, "User not found", nil)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}

// requireAdmin must run after requireAuth.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userFrom(r.Context())
		if !ok || !user.IsAdmin() {
			s.respondError(w, http.StatusForbidden, "Access denied", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var form validate.LoginForm
	if err := decodeJSONBody(w, r, &form); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if res := validate.Check(form); !res.Valid {
		s.respondInvalid(w, res, form)
		return
	}

	creds := form.Credentials()
	user, err := s.catalog.Authenticate(creds.Username, creds.Password)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	token, err := s.issueToken(user)
	if err != nil {
		s.logger.Printf("sign token for %s: %v", user.Username, err)
		s.respondError(w, http.StatusInternalServerError, "Failed to issue token", nil)
		return
	}

	s.respondJSON(w, http.StatusOK, loginResponse{
		Token:    token,
		Type:     "Bearer",
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Roles:    user.Roles,
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var signup domain.SignUp
	if err := decodeJSONBody(w, r, &signup); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	form := validate.RegistrationFromSignUp(signup)
	if res := validate.Check(form); !res.Valid {
		s.respondInvalid(w, res, form)
		return
	}

	clean := form.SignUp()
	clean.Roles = signup.Roles
	if _, err := s.catalog.Register(clean); err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, messageResponse{Message: "User registered successfully!"})
}

// handleResetPassword lets a user change their own password. Admins may
// change anyone's.
func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	username, err := pathParam(r, "name")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	caller, _ := userFrom(r.Context())
	if !strings.EqualFold(caller.Username, username) && !caller.IsAdmin() {
		s.respondError(w, http.StatusForbidden, "You can only reset your own password", nil)
		return
	}

	var creds domain.Credentials
	if err := decodeJSONBody(w, r, &creds); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if creds.Username != "" && !strings.EqualFold(creds.Username, username) {
		s.respondError(w, http.StatusBadRequest, "Username does not match the request path", nil)
		return
	}
	form := validate.ResetPasswordForm{Username: username, Password: creds.Password, ConfirmPassword: creds.Password}
	if res := validate.Check(form); !res.Valid {
		s.respondInvalid(w, res, form)
		return
	}

	if err := s.catalog.ResetPassword(username, form.Password); err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, messageResponse{Message: "Password changed successfully"})
}
