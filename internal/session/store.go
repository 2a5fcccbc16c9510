// Package session holds the client's record of who is logged in and keeps it
// in sync with durable storage.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Clark-Hu/moviebooking/internal/domain"
)

// Authenticator performs the unauthenticated account calls.
type Authenticator interface {
	Login(ctx context.Context, creds domain.Credentials) (domain.LoginResult, error)
	Register(ctx context.Context, signup domain.SignUp) error
}

// Options tunes a Store.
type Options struct {
	// AutoLogin makes Register log the new account in with the same
	// credentials once the backend accepts it.
	AutoLogin bool
	Logger    *log.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Store is the single source of truth for the current session. It is safe for
// concurrent use. Token and user are always set or cleared together.
type Store struct {
	auth    Authenticator
	storage Storage
	opts    Options
	logger  *log.Logger

	// write is held across a storage write and the matching update of
	// current, so storage and memory change together.
	write sync.Mutex

	mu      sync.RWMutex
	current domain.Session
}

// Open restores any persisted session. Stored sessions that are incomplete,
// unreadable or already expired are discarded.
func Open(ctx context.Context, auth Authenticator, storage Storage, opts Options) *Store {
	if storage == nil {
		storage = NewMemoryStorage()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Store{auth: auth, storage: storage, opts: opts, logger: opts.Logger}
	s.restore(ctx)
	return s
}

func (s *Store) restore(ctx context.Context) {
	stored, err := s.storage.Load(ctx)
	switch {
	case errors.Is(err, ErrNoSession):
		return
	case err != nil:
		s.logger.Printf("session: discarding unreadable session: %v", err)
	case !stored.Valid():
		s.logger.Printf("session: discarding incomplete session")
	case stored.Expired(s.opts.Now()):
		s.logger.Printf("session: stored session for %s expired at %s", stored.User.Username, stored.ExpiresAt.Format(time.RFC3339))
	default:
		s.current = stored
		return
	}
	if err := s.storage.Clear(ctx); err != nil {
		s.logger.Printf("session: clear stored session: %v", err)
	}
}

// Login exchanges credentials for a session and persists it. On failure the
// previous session is left untouched.
func (s *Store) Login(ctx context.Context, creds domain.Credentials) (domain.User, error) {
	result, err := s.auth.Login(ctx, creds)
	if err != nil {
		return domain.User{}, err
	}
	if result.Token == "" {
		return domain.User{}, &domain.Error{Op: "login", Kind: domain.ErrServer, Message: "response carried no token"}
	}

	user := result.User
	next := domain.Session{Token: result.Token, User: &user, ExpiresAt: tokenExpiry(result.Token)}

	s.write.Lock()
	defer s.write.Unlock()
	if err := s.storage.Save(ctx, next); err != nil {
		return domain.User{}, fmt.Errorf("persist session: %w", err)
	}

	s.mu.Lock()
	s.current = next
	s.mu.Unlock()

	s.logger.Printf("session: logged in as %s", user.Username)
	return user, nil
}

// Register creates an account. With Options.AutoLogin it then logs in and
// returns the new user; otherwise the returned user is nil.
func (s *Store) Register(ctx context.Context, signup domain.SignUp) (*domain.User, error) {
	if err := s.auth.Register(ctx, signup); err != nil {
		return nil, err
	}
	if !s.opts.AutoLogin {
		return nil, nil
	}

	user, err := s.Login(ctx, domain.Credentials{Username: signup.Username, Password: signup.Password})
	if err != nil {
		return nil, fmt.Errorf("login after register: %w", err)
	}
	return &user, nil
}

// Logout clears the in-memory and persisted session. It never fails; storage
// errors are logged.
func (s *Store) Logout(ctx context.Context) {
	s.write.Lock()
	defer s.write.Unlock()

	s.mu.Lock()
	had := s.current.Valid()
	s.current = domain.Session{}
	s.mu.Unlock()

	if err := s.storage.Clear(ctx); err != nil {
		s.logger.Printf("session: clear stored session: %v", err)
	}
	if had {
		s.logger.Printf("session: logged out")
	}
}

// IsAuthenticated reports whether both a token and a user are present.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Valid()
}

// Token returns the bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Token
}

// User returns a copy of the logged in user.
func (s *Store) User() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current.User == nil {
		return domain.User{}, false
	}
	return *s.current.User, true
}

// Snapshot returns a copy of the whole session.
func (s *Store) Snapshot() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.current
	if out.User != nil {
		u := *out.User
		out.User = &u
	}
	return out
}
