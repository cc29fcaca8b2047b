package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/DekunleJr/Signatures/internal/model"
)

// record is the on-disk shape: the bearer token and the serialized profile.
// Either field missing means "logged out".
type record struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Store persists the session pair to a single file. It holds no logic
// beyond get/set/clear; the Session owns when to call it.
type Store struct {
	path string
}

// DefaultStorePath returns the default session file (~/.signatures/session.json).
func DefaultStorePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".signatures", "session.json"), nil
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// OpenDefaultStore creates a store at the default path.
func OpenDefaultStore() (*Store, error) {
	path, err := DefaultStorePath()
	if err != nil {
		return nil, err
	}
	return NewStore(path), nil
}

// Save writes token and user together. The write goes to a temp file first
// and is renamed into place, so a reader never observes one field without
// the other.
func (s *Store) Save(token string, user model.User) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(record{Token: token, User: &user}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return os.Rename(tmp, s.path)
}

// Load returns the stored session pair. A missing file, unparseable data,
// or a half-populated record all count as absent; corrupt records are
// removed so they cannot keep resurfacing.
func (s *Store) Load() (string, *model.User, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", nil, false
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil || rec.Token == "" || rec.User == nil {
		_ = s.Clear()
		return "", nil, false
	}
	return rec.Token, rec.User, true
}

// Clear removes the stored session unconditionally. Clearing an absent
// session is a no-op.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
