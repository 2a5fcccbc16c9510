package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Clark-Hu/moviebooking/internal/domain"
)

// ErrNoSession is returned by Storage.Load when nothing has been persisted.
var ErrNoSession = errors.New("no stored session")

// Storage persists a session between process runs.
type Storage interface {
	Load(ctx context.Context) (domain.Session, error)
	Save(ctx context.Context, s domain.Session) error
	Clear(ctx context.Context) error
}

// MemoryStorage keeps the session for the lifetime of the process only.
type MemoryStorage struct {
	mu      sync.Mutex
	session *domain.Session
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Load(context.Context) (domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return domain.Session{}, ErrNoSession
	}
	return *m.session, nil
}

func (m *MemoryStorage) Save(_ context.Context, s domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = &s
	return nil
}

func (m *MemoryStorage) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	return nil
}

// DefaultPath returns the session file location. MOVIEBOOK_SESSION_FILE wins,
// then $XDG_CONFIG_HOME/moviebook/session.json, then ~/.config.
func DefaultPath() string {
	if envPath := os.Getenv("MOVIEBOOK_SESSION_FILE"); envPath != "" {
		return envPath
	}

	configDirectory := os.Getenv("XDG_CONFIG_HOME")
	if configDirectory == "" {
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "moviebook-session.json")
		}
		configDirectory = filepath.Join(homeDirectory, ".config")
	}
	return filepath.Join(configDirectory, "moviebook", "session.json")
}

// FileStorage keeps the session as JSON in a single owner-only file.
type FileStorage struct {
	Path string
}

func NewFileStorage(path string) *FileStorage {
	if path == "" {
		path = DefaultPath()
	}
	return &FileStorage{Path: path}
}

func (f *FileStorage) Load(context.Context) (domain.Session, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Session{}, ErrNoSession
		}
		return domain.Session{}, fmt.Errorf("reading session file %s: %w", f.Path, err)
	}

	var s domain.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return domain.Session{}, fmt.Errorf("parsing session file %s: %w", f.Path, err)
	}
	return s, nil
}

// Save writes the file with mode 0600, creating the parent directory with
// mode 0700. The write goes through a temp file and a rename.
func (f *FileStorage) Save(_ context.Context, s domain.Session) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	data = append(data, '\n')

	directory := filepath.Dir(f.Path)
	if err := os.MkdirAll(directory, 0o700); err != nil {
		return fmt.Errorf("creating session directory %s: %w", directory, err)
	}

	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing session file %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.Path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing session file %s: %w", f.Path, err)
	}
	return nil
}

func (f *FileStorage) Clear(context.Context) error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session file %s: %w", f.Path, err)
	}
	return nil
}
