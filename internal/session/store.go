package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/dycedu/classroom-go/internal/models"
)

// ErrNoSession indicates no persisted token pair exists.
var ErrNoSession = errors.New("no stored session")

// Store persists the token pair between runs. The stored state is exactly two
// opaque strings; nothing else the client touches is durable.
type Store interface {
	Save(tokens models.TokenPair) error
	Load() (models.TokenPair, error)
	Clear() error
}

// FileStore keeps the token pair in a single JSON file with owner-only
// permissions.
type FileStore struct {
	path string
}

// NewFileStore builds a store writing to the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Save(tokens models.TokenPair) error {
	payload, err := json.Marshal(tokens)
	if err != nil {
		return fmt.Errorf("failed to encode tokens: %w", err)
	}

	if err := os.WriteFile(f.path, payload, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

func (f *FileStore) Load() (models.TokenPair, error) {
	payload, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.TokenPair{}, ErrNoSession
		}
		return models.TokenPair{}, fmt.Errorf("failed to read session file: %w", err)
	}

	var tokens models.TokenPair
	if err := json.Unmarshal(payload, &tokens); err != nil {
		return models.TokenPair{}, fmt.Errorf("failed to decode session file: %w", err)
	}

	if tokens.Access == "" && tokens.Refresh == "" {
		return models.TokenPair{}, ErrNoSession
	}

	return tokens, nil
}

func (f *FileStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// MemoryStore holds the token pair in memory only. Used by tests and by
// callers that do not want durable sessions.
type MemoryStore struct {
	tokens models.TokenPair
	saved  bool
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Save(tokens models.TokenPair) error {
	m.tokens = tokens
	m.saved = true
	return nil
}

func (m *MemoryStore) Load() (models.TokenPair, error) {
	if !m.saved {
		return models.TokenPair{}, ErrNoSession
	}
	return m.tokens, nil
}

func (m *MemoryStore) Clear() error {
	m.tokens = models.TokenPair{}
	m.saved = false
	return nil
}
