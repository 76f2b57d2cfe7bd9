package backend

import (
	"sync"

	"eshop-storefront/internal/model"
)

// MemoryTokenStore holds the token pair in memory only. Sessions do not
// survive a restart; useful in tests and for throwaway runs.
type MemoryTokenStore struct {
	mu   sync.Mutex
	pair model.TokenPair
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) Tokens() (model.TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pair, nil
}

func (s *MemoryTokenStore) Save(pair model.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = pair
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = model.TokenPair{}
	return nil
}
