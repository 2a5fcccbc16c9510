package httpserver

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Clark-Hu/moviebooking/internal/domain"
)

func TestHandleLogin(t *testing.T) {
	srv, _ := buildTestServer(t)

	tests := []struct {
		name    string
		body    interface{}
		want    int
		message string
	}{
		{"valid", domain.Credentials{Username: "admin", Password: adminPassword}, http.StatusOK, ""},
		{"wrong password", domain.Credentials{Username: "admin", Password: "nope-nope"}, http.StatusUnauthorized, "Bad credentials"},
		{"unknown user", domain.Credentials{Username: "ghost", Password: "whatever1"}, http.StatusUnauthorized, "Bad credentials"},
		{"empty fields", `{}`, http.StatusBadRequest, "Username is required"},
		{"malformed", `{"username":`, http.StatusBadRequest, ""},
		{"unknown field", `{"username":"admin","password":"x","extra":1}`, http.StatusBadRequest, ""},
		{"empty body", "", http.StatusBadRequest, "Request body cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, srv, http.MethodPost, "/login", "", tt.body)
			expectStatus(t, rec, tt.want)
			if tt.want != http.StatusOK {
				if tt.message != "" {
					if got := decodeBody[errorResponse](t, rec).Message; got != tt.message {
						t.Fatalf("message = %q, want %q", got, tt.message)
					}
				}
				return
			}
			resp := decodeBody[loginResponse](t, rec)
			if resp.Token == "" || resp.Type != "Bearer" || resp.Username != "admin" || resp.ID == "" {
				t.Fatalf("login response = %+v", resp)
			}
			if !(domain.User{Roles: resp.Roles}).IsAdmin() {
				t.Fatalf("roles = %v", resp.Roles)
			}
		})
	}
}

func TestIssuedTokenClaims(t *testing.T) {
	srv, _ := buildTestServer(t)
	token := loginAs(t, srv, "admin", adminPassword)

	claims, err := srv.parseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "admin" || claims.Issuer != tokenIssuer {
		t.Fatalf("claims = %+v", claims)
	}
	ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if ttl != time.Hour {
		t.Fatalf("ttl = %s", ttl)
	}
}

func TestHandleRegister(t *testing.T) {
	srv, _ := buildTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/register", "", signUp("alice"))
	expectStatus(t, rec, http.StatusCreated)
	if msg := decodeBody[messageResponse](t, rec).Message; msg == "" {
		t.Fatalf("missing message")
	}
	if token := loginAs(t, srv, "alice", userPassword); token == "" {
		t.Fatalf("registered user cannot log in")
	}

	t.Run("duplicate username", func(t *testing.T) {
		dup := signUp("alice")
		dup.Email = "other@example.com"
		rec := doRequest(t, srv, http.MethodPost, "/register", "", dup)
		expectStatus(t, rec, http.StatusBadRequest)
		if got := decodeBody[errorResponse](t, rec).Errors["username"]; got == "" {
			t.Fatalf("expected username error, body %s", rec.Body.String())
		}
	})

	t.Run("field errors", func(t *testing.T) {
		bad := signUp("bob")
		bad.Email = "not-an-email"
		bad.ContactNumber = "12345"
		bad.Password = "short"
		rec := doRequest(t, srv, http.MethodPost, "/register", "", bad)
		expectStatus(t, rec, http.StatusBadRequest)
		resp := decodeBody[errorResponse](t, rec)
		for _, field := range []string{"email", "contactNumber", "password"} {
			if resp.Errors[field] == "" {
				t.Fatalf("missing error for %s: %v", field, resp.Errors)
			}
		}
		if resp.Errors["contactNumber"] != "Contact number must be 10 digits" {
			t.Fatalf("contactNumber message = %q", resp.Errors["contactNumber"])
		}
	})
}

func TestRequireAuth(t *testing.T) {
	srv, clock := buildTestServer(t)
	registerUser(t, srv, "alice")
	token := loginAs(t, srv, "alice", userPassword)

	book := domain.BookingRequest{MovieName: "Inception", TheatreName: "PVR Phoenix", NoOfTickets: 1, SeatNumbers: []string{"A1"}}

	t.Run("missing token", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/Inception/add", "", book)
		expectStatus(t, rec, http.StatusUnauthorized)
		if msg := decodeBody[errorResponse](t, rec).Message; msg != "Missing token" {
			t.Fatalf("message = %q", msg)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/Inception/add", "not-a-jwt", book)
		expectStatus(t, rec, http.StatusUnauthorized)
		if msg := decodeBody[errorResponse](t, rec).Message; msg != "Invalid token" {
			t.Fatalf("message = %q", msg)
		}
	})

	t.Run("foreign signature", func(t *testing.T) {
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "alice",
				Issuer:    tokenIssuer,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}).SignedString([]byte("some-other-secret-value"))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		rec := doRequest(t, srv, http.MethodPost, "/Inception/add", forged, book)
		expectStatus(t, rec, http.StatusUnauthorized)
	})

	t.Run("valid token", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/Inception/add", token, book)
		expectStatus(t, rec, http.StatusCreated)
	})

	t.Run("expired token", func(t *testing.T) {
		clock.Advance(2 * time.Hour)
		rec := doRequest(t, srv, http.MethodPost, "/Inception/add", token, book)
		expectStatus(t, rec, http.StatusUnauthorized)
		if msg := decodeBody[errorResponse](t, rec).Message; msg != "JWT Expired" {
			t.Fatalf("message = %q", msg)
		}
	})
}

func TestAdminGuard(t *testing.T) {
	srv, _ := buildTestServer(t)
	registerUser(t, srv, "alice")
	userToken := loginAs(t, srv, "alice", userPassword)
	adminToken := loginAs(t, srv, "admin", adminPassword)

	routes := []struct {
		method string
		path   string
		body   interface{}
	}{
		{http.MethodPost, "/addMovie", domain.Movie{Name: "Dune", TheatreName: "IMAX", TicketsAvailable: 10}},
		{http.MethodPut, "/Inception/update", domain.Movie{TicketsAvailable: 10}},
		{http.MethodDelete, "/Inception/delete", nil},
		{http.MethodGet, "/userTickets/Inception", nil},
		{http.MethodPut, "/Inception/update/some-ticket", nil},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			rec := doRequest(t, srv, rt.method, rt.path, userToken, rt.body)
			expectStatus(t, rec, http.StatusForbidden)
			rec = doRequest(t, srv, rt.method, rt.path, "", rt.body)
			expectStatus(t, rec, http.StatusUnauthorized)
		})
	}

	rec := doRequest(t, srv, http.MethodGet, "/userTickets/Inception", adminToken, nil)
	expectStatus(t, rec, http.StatusOK)
}

func TestHandleResetPassword(t *testing.T) {
	srv, _ := buildTestServer(t)
	registerUser(t, srv, "alice")
	registerUser(t, srv, "bob")
	alice := loginAs(t, srv, "alice", userPassword)
	admin := loginAs(t, srv, "admin", adminPassword)

	rec := doRequest(t, srv, http.MethodPut, "/bob/forgot", alice, domain.Credentials{Username: "bob", Password: "hijacked-1"})
	expectStatus(t, rec, http.StatusForbidden)

	rec = doRequest(t, srv, http.MethodPut, "/alice/forgot", alice, domain.Credentials{Username: "alice", Password: "short"})
	expectStatus(t, rec, http.StatusBadRequest)
	if msg := decodeBody[errorResponse](t, rec).Message; msg != "Password must be between 8 to 32 characters" {
		t.Fatalf("message = %q", msg)
	}

	rec = doRequest(t, srv, http.MethodPut, "/alice/forgot", alice, domain.Credentials{Username: "bob", Password: "looking-glass"})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = doRequest(t, srv, http.MethodPut, "/alice/forgot", alice, domain.Credentials{Username: "alice", Password: "looking-glass"})
	expectStatus(t, rec, http.StatusOK)
	loginAs(t, srv, "alice", "looking-glass")

	rec = doRequest(t, srv, http.MethodPut, "/bob/forgot", admin, domain.Credentials{Password: "reset-by-admin"})
	expectStatus(t, rec, http.StatusOK)
	loginAs(t, srv, "bob", "reset-by-admin")

	rec = doRequest(t, srv, http.MethodPut, "/alice/forgot", "", domain.Credentials{Password: "looking-glass"})
	expectStatus(t, rec, http.StatusUnauthorized)
}
