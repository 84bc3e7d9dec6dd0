package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// CredentialStore persists the bearer credential across restarts.
type CredentialStore interface {
	Save(token string) error
	Load() (string, error)
	Clear() error
}

// MemoryCredentialStore keeps the credential in memory only.
type MemoryCredentialStore struct {
	mu    sync.Mutex
	token string
}

func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{}
}

func (s *MemoryCredentialStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryCredentialStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryCredentialStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

// FileCredentialStore writes the credential to a mode-0600 file so a
// restarted client resumes its session.
type FileCredentialStore struct {
	path string
}

func NewFileCredentialStore(path string) (*FileCredentialStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create credential directory: %v", err)
	}
	return &FileCredentialStore{path: path}, nil
}

func (s *FileCredentialStore) Save(token string) error {
	return os.WriteFile(s.path, []byte(token), 0o600)
}

func (s *FileCredentialStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *FileCredentialStore) Clear() error {
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// slot is the single process-wide credential value. Only the session store
// writes it; every outgoing request reads it exactly once.
type slot struct {
	mu    sync.RWMutex
	token string
	store CredentialStore
}

func newSlot(store CredentialStore) (*slot, error) {
	s := &slot{store: store}
	token, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load persisted credential: %v", err)
	}
	s.token = token
	return s, nil
}

// Read returns a point-in-time snapshot of the credential. Callers must not
// re-read mid-request.
func (s *slot) Read() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *slot) write(token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return s.store.Save(token)
}

// clear wipes the in-memory value before touching the persistence layer so
// the credential is gone even when the store write fails.
func (s *slot) clear() error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return s.store.Clear()
}
