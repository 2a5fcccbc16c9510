package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Session backends understood by the CLI.
const (
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// DB holds the pool settings for the Postgres session backend.
type DB struct {
	URL             string
	MaxConns        int
	MinConns        int
	MaxIdleSecs     int
	MaxLifeSecs     int
	ConnTimeoutSecs int
	StatementCache  int
}

// Redis holds the connection settings for the Redis session backend.
type Redis struct {
	Addr           string
	Password       string
	DB             int
	SessionTTLMins int
}

// Client is the configuration of the moviebook CLI.
type Client struct {
	APIURL         string
	TimeoutSecs    int
	AutoLogin      bool
	SessionBackend string
	SessionFile    string
	Profile        string
	Redis          Redis
	DB             DB
}

// Mock is the configuration of the booking-mock backend.
type Mock struct {
	Port                string
	BasePath            string
	JWTSecret           string
	JWTTTLMins          int
	HelpfulRequiresAuth bool
	StatusSweepSecs     int
	SeedCatalog         bool
	AdminUsername       string
	AdminPassword       string
	ReadTimeoutSecs     int
	WriteTimeoutSecs    int
	IdleTimeoutSecs     int
}

// LoadClient reads the CLI configuration from the environment and an
// optional .env file.
func LoadClient() (Client, error) {
	_ = godotenv.Load()

	cfg := Client{
		APIURL:         getEnv("MOVIEBOOK_API_URL", "http://localhost:8080/api/v1.0/moviebooking"),
		TimeoutSecs:    getEnvInt("MOVIEBOOK_TIMEOUT_SECS", 10),
		AutoLogin:      getEnvBool("MOVIEBOOK_AUTO_LOGIN", true),
		SessionBackend: strings.ToLower(getEnv("MOVIEBOOK_SESSION_BACKEND", BackendFile)),
		SessionFile:    os.Getenv("MOVIEBOOK_SESSION_FILE"),
		Profile:        getEnv("MOVIEBOOK_PROFILE", "default"),
		Redis: Redis{
			Addr:           os.Getenv("REDIS_ADDR"),
			Password:       os.Getenv("REDIS_PASSWORD"),
			DB:             getEnvInt("REDIS_DB", 0),
			SessionTTLMins: getEnvInt("REDIS_SESSION_TTL_MINUTES", 24*60),
		},
		DB: DB{
			URL:             os.Getenv("DB_URL"),
			MaxConns:        getEnvInt("DB_MAX_CONNS", 4),
			MinConns:        getEnvInt("DB_MIN_CONNS", 0),
			MaxIdleSecs:     getEnvInt("DB_MAX_CONN_IDLE_SECS", 300),
			MaxLifeSecs:     getEnvInt("DB_MAX_CONN_LIFETIME_SECS", 3600),
			ConnTimeoutSecs: getEnvInt("DB_CONN_TIMEOUT_SECS", 10),
			StatementCache:  getEnvInt("DB_STATEMENT_CACHE_CAPACITY", 64),
		},
	}

	if cfg.APIURL == "" {
		return Client{}, fmt.Errorf("MOVIEBOOK_API_URL is required")
	}
	if cfg.TimeoutSecs <= 0 {
		return Client{}, fmt.Errorf("MOVIEBOOK_TIMEOUT_SECS must be positive")
	}
	switch cfg.SessionBackend {
	case BackendFile, BackendMemory:
	case BackendRedis:
		if cfg.Redis.Addr == "" {
			return Client{}, fmt.Errorf("REDIS_ADDR is required for the redis session backend")
		}
		if cfg.Redis.SessionTTLMins < 0 {
			return Client{}, fmt.Errorf("REDIS_SESSION_TTL_MINUTES must be non-negative")
		}
	case BackendPostgres:
		if cfg.DB.URL == "" {
			return Client{}, fmt.Errorf("DB_URL is required for the postgres session backend")
		}
		if err := cfg.DB.validate(); err != nil {
			return Client{}, err
		}
	default:
		return Client{}, fmt.Errorf("MOVIEBOOK_SESSION_BACKEND %q is not one of file, redis, postgres, memory", cfg.SessionBackend)
	}

	return cfg, nil
}

func (d DB) validate() error {
	if d.MaxConns <= 0 {
		return fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if d.MinConns < 0 {
		return fmt.Errorf("DB_MIN_CONNS must be non-negative")
	}
	if d.MinConns > d.MaxConns {
		return fmt.Errorf("DB_MIN_CONNS cannot exceed DB_MAX_CONNS")
	}
	if d.StatementCache < 0 {
		return fmt.Errorf("DB_STATEMENT_CACHE_CAPACITY must be non-negative")
	}
	return nil
}

// LoadMock reads the mock backend configuration.
func LoadMock() (Mock, error) {
	_ = godotenv.Load()

	cfg := Mock{
		Port:                getEnv("PORT", "8080"),
		BasePath:            getEnv("BASE_PATH", "/api/v1.0/moviebooking"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		JWTTTLMins:          getEnvInt("JWT_TTL_MINUTES", 60),
		HelpfulRequiresAuth: getEnvBool("HELPFUL_REQUIRES_AUTH", false),
		StatusSweepSecs:     getEnvInt("STATUS_SWEEP_SECS", 60),
		SeedCatalog:         getEnvBool("SEED_CATALOG", true),
		AdminUsername:       getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:       os.Getenv("ADMIN_PASSWORD"),
		ReadTimeoutSecs:     getEnvInt("SERVER_READ_TIMEOUT", 15),
		WriteTimeoutSecs:    getEnvInt("SERVER_WRITE_TIMEOUT", 15),
		IdleTimeoutSecs:     getEnvInt("SERVER_IDLE_TIMEOUT", 60),
	}

	if cfg.JWTSecret == "" {
		return Mock{}, fmt.Errorf("JWT_SECRET is required")
	}
	if len(cfg.JWTSecret) < 16 {
		return Mock{}, fmt.Errorf("JWT_SECRET must be at least 16 bytes")
	}
	if cfg.JWTTTLMins <= 0 {
		return Mock{}, fmt.Errorf("JWT_TTL_MINUTES must be positive")
	}
	if cfg.StatusSweepSecs <= 0 {
		return Mock{}, fmt.Errorf("STATUS_SWEEP_SECS must be positive")
	}
	if !strings.HasPrefix(cfg.BasePath, "/") {
		return Mock{}, fmt.Errorf("BASE_PATH must start with /")
	}
	if cfg.AdminPassword != "" && len(cfg.AdminPassword) < 8 {
		return Mock{}, fmt.Errorf("ADMIN_PASSWORD must be at least 8 characters")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}
