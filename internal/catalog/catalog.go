// Package catalog is the in-memory state of the mock booking backend: user
// accounts, screenings, tickets and reviews. All methods are safe for
// concurrent use and return copies.
package catalog

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"golang.org/x/crypto/bcrypt"

	"github.com/Clark-Hu/moviebooking/internal/domain"
)

// Role names as issued in tokens and login responses.
const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

type account struct {
	user domain.User
	hash []byte
}

// Catalog holds every entity of the mock backend.
type Catalog struct {
	mu       sync.RWMutex
	accounts map[string]*account
	movies   []*domain.Movie
	tickets  []*domain.Ticket
	reviews  []*domain.Review
	// seats maps a screening id to its booked seat identifiers.
	seats map[string]map[string]struct{}

	cost   int
	now    func() time.Time
	logger *log.Logger
}

// Option customizes a Catalog.
type Option func(*Catalog)

// WithBcryptCost overrides the password hashing cost. Tests use
// bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(c *Catalog) { c.cost = cost }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Catalog) { c.now = now }
}

// New returns an empty catalog.
func New(logger *log.Logger, opts ...Option) *Catalog {
	if logger == nil {
		logger = log.Default()
	}
	c := &Catalog{
		accounts: make(map[string]*account),
		seats:    make(map[string]map[string]struct{}),
		cost:     bcrypt.DefaultCost,
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func fail(op string, kind error, msg string) error {
	return &domain.Error{Op: op, Kind: kind, Message: msg}
}

// Register creates an account. Requested roles "admin" or "ROLE_ADMIN" grant
// the admin role; every account is also a user.
func (c *Catalog) Register(signup domain.SignUp) (domain.User, error) {
	const op = "register"

	hash, err := bcrypt.GenerateFromPassword([]byte(signup.Password), c.cost)
	if err != nil {
		return domain.User{}, fmt.Errorf("%s: hash password: %w", op, err)
	}

	var user domain.User
	if err := copier.Copy(&user, &signup); err != nil {
		return domain.User{}, fmt.Errorf("%s: copy profile: %w", op, err)
	}
	user.ID = uuid.NewString()
	user.Roles = rolesFor(signup.Roles)

	c.mu.Lock()
	defer c.mu.Unlock()

	key := strings.ToLower(user.Username)
	if _, exists := c.accounts[key]; exists {
		return domain.User{}, &domain.Error{Op: op, Kind: domain.ErrValidation, Message: "Error: Username is already taken!",
			Fields: map[string]string{"username": "Username is already taken!"}}
	}
	for _, acct := range c.accounts {
		if strings.EqualFold(acct.user.Email, user.Email) {
			return domain.User{}, &domain.Error{Op: op, Kind: domain.ErrValidation, Message: "Error: Email is already in use!",
				Fields: map[string]string{"email": "Email is already in use!"}}
		}
	}

	c.accounts[key] = &account{user: user, hash: hash}
	c.logger.Printf("catalog: registered %s %v", user.Username, user.Roles)
	return user, nil
}

func rolesFor(requested []string) []string {
	roles := []string{RoleUser}
	for _, r := range requested {
		if strings.TrimPrefix(strings.ToUpper(r), "ROLE_") == "ADMIN" {
			return []string{RoleUser, RoleAdmin}
		}
	}
	return roles
}

// Authenticate checks a username and password.
func (c *Catalog) Authenticate(username, password string) (domain.User, error) {
	c.mu.RLock()
	acct, ok := c.accounts[strings.ToLower(username)]
	c.mu.RUnlock()

	if !ok {
		return domain.User{}, fail("login", domain.ErrInvalidCredentials, "Bad credentials")
	}
	if err := bcrypt.CompareHashAndPassword(acct.hash, []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return domain.User{}, fail("login", domain.ErrInvalidCredentials, "Bad credentials")
		}
		return domain.User{}, fmt.Errorf("login: %w", err)
	}
	return cloneUser(acct.user), nil
}

// User looks up an account by username.
func (c *Catalog) User(username string) (domain.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	acct, ok := c.accounts[strings.ToLower(username)]
	if !ok {
		return domain.User{}, false
	}
	return cloneUser(acct.user), true
}

// ResetPassword replaces the password of username.
func (c *Catalog) ResetPassword(username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), c.cost)
	if err != nil {
		return fmt.Errorf("reset password: hash: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	acct, ok := c.accounts[strings.ToLower(username)]
	if !ok {
		return fail("reset password", domain.ErrNotFound, "User not found")
	}
	acct.hash = hash
	return nil
}

func cloneUser(u domain.User) domain.User {
	u.Roles = append([]string(nil), u.Roles...)
	return u
}
