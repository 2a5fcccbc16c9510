package cli

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Clark-Hu/moviebooking/db"
	"github.com/Clark-Hu/moviebooking/internal/config"
	"github.com/Clark-Hu/moviebooking/internal/repository"
	"github.com/Clark-Hu/moviebooking/internal/session"
	"github.com/Clark-Hu/moviebooking/internal/store"
)

const defaultProfile = "default"

// openStorage builds the configured session backend. The returned func
// releases its connections.
func openStorage(ctx context.Context, cfg config.Client, logger *log.Logger) (session.Storage, func(), error) {
	switch cfg.SessionBackend {
	case config.BackendMemory:
		return session.NewMemoryStorage(), func() {}, nil

	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.TimeoutSecs)*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
		}
		ttl := time.Duration(cfg.Redis.SessionTTLMins) * time.Minute
		return session.NewRedisStorage(rdb, cfg.Profile, ttl), func() { _ = rdb.Close() }, nil

	case config.BackendPostgres:
		st, err := store.New(ctx, cfg.DB.URL, store.Options{
			MaxConns:               int32(cfg.DB.MaxConns),
			MinConns:               int32(cfg.DB.MinConns),
			MaxConnIdleTime:        time.Duration(cfg.DB.MaxIdleSecs) * time.Second,
			MaxConnLifetime:        time.Duration(cfg.DB.MaxLifeSecs) * time.Second,
			ConnTimeout:            time.Duration(cfg.DB.ConnTimeoutSecs) * time.Second,
			StatementCacheCapacity: cfg.DB.StatementCache,
			Logger:                 logger,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		if err := st.Migrate(ctx, db.Migrations, "migrations"); err != nil {
			st.Close()
			return nil, nil, err
		}
		repo := repository.New(st)
		if n, err := repo.Sessions.PurgeExpired(ctx, time.Now()); err != nil {
			logger.Printf("purge expired sessions: %v", err)
		} else if n > 0 {
			logger.Printf("purged %d expired session(s)", n)
		}
		return repo.Sessions.Storage(cfg.Profile), st.Close, nil

	default:
		return session.NewFileStorage(sessionFile(cfg)), func() {}, nil
	}
}

// sessionFile keeps one file per profile next to the default location.
func sessionFile(cfg config.Client) string {
	path := cfg.SessionFile
	if path == "" {
		path = session.DefaultPath()
	}
	if cfg.Profile == "" || cfg.Profile == defaultProfile {
		return path
	}
	ext := filepath.Ext(path)
	return path[:len(path)-len(ext)] + "-" + cfg.Profile + ext
}
