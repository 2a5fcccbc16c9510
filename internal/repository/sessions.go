package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/moviebooking/internal/domain"
	"github.com/Clark-Hu/moviebooking/internal/session"
)

// SessionsRepository stores one client session per profile.
type SessionsRepository struct {
	pool *pgxpool.Pool
}

// Get returns the session stored for profile, or session.ErrNoSession.
func (r *SessionsRepository) Get(ctx context.Context, profile string) (domain.Session, error) {
	const query = `
        SELECT token, user_data, expires_at
        FROM sessions
        WHERE profile = $1
    `

	var (
		s        domain.Session
		userData []byte
		expires  *time.Time
	)
	err := r.pool.QueryRow(ctx, query, profile).Scan(&s.Token, &userData, &expires)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Session{}, session.ErrNoSession
		}
		return domain.Session{}, fmt.Errorf("get session %s: %w", profile, err)
	}

	var user domain.User
	if err := json.Unmarshal(userData, &user); err != nil {
		return domain.Session{}, fmt.Errorf("decode session user %s: %w", profile, err)
	}
	s.User = &user
	s.ExpiresAt = expires
	return s, nil
}

// Put inserts or replaces the session of profile.
func (r *SessionsRepository) Put(ctx context.Context, profile string, s domain.Session) error {
	if s.User == nil {
		return fmt.Errorf("put session %s: user is required", profile)
	}
	userData, err := json.Marshal(s.User)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}

	const query = `
        INSERT INTO sessions (profile, token, user_data, expires_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (profile)
        DO UPDATE SET token = EXCLUDED.token,
                      user_data = EXCLUDED.user_data,
                      expires_at = EXCLUDED.expires_at,
                      updated_at = now()
    `
	if _, err := r.pool.Exec(ctx, query, profile, s.Token, userData, s.ExpiresAt); err != nil {
		return fmt.Errorf("put session %s: %w", profile, err)
	}
	return nil
}

// Delete removes the session of profile. Deleting a missing row is not an
// error.
func (r *SessionsRepository) Delete(ctx context.Context, profile string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE profile = $1`, profile); err != nil {
		return fmt.Errorf("delete session %s: %w", profile, err)
	}
	return nil
}

// PurgeExpired deletes every session whose expiry lies before now.
func (r *SessionsRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at IS NOT NULL AND expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("purge expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Storage adapts the repository to session.Storage for one profile.
func (r *SessionsRepository) Storage(profile string) session.Storage {
	if profile == "" {
		profile = "default"
	}
	return &profileStorage{repo: r, profile: profile}
}

type profileStorage struct {
	repo    *SessionsRepository
	profile string
}

func (p *profileStorage) Load(ctx context.Context) (domain.Session, error) {
	return p.repo.Get(ctx, p.profile)
}

func (p *profileStorage) Save(ctx context.Context, s domain.Session) error {
	return p.repo.Put(ctx, p.profile, s)
}

func (p *profileStorage) Clear(ctx context.Context) error {
	return p.repo.Delete(ctx, p.profile)
}
