package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"eshop-storefront/internal/model"
)

// FileTokenStore keeps the session token pair in a JSON file so a restart
// resumes the previous session, the way a browser keeps them in local
// storage.
type FileTokenStore struct {
	mu   sync.Mutex
	path string
}

// NewFileTokenStore stores tokens at path, or under the user config dir
// when path is empty.
func NewFileTokenStore(path string) (*FileTokenStore, error) {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve user config dir: %w", err)
		}
		path = filepath.Join(dir, "eshop", "session.json")
	}
	return &FileTokenStore{path: path}, nil
}

func (s *FileTokenStore) Tokens() (model.TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.TokenPair{}, nil
	}
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("read token file: %w", err)
	}

	var pair model.TokenPair
	if err := json.Unmarshal(b, &pair); err != nil {
		return model.TokenPair{}, fmt.Errorf("decode token file: %w", err)
	}
	return pair, nil
}

func (s *FileTokenStore) Save(pair model.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	b, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("encode tokens: %w", err)
	}
	if err := os.WriteFile(s.path, b, 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

func (s *FileTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
