package dataset

import (
	"sync"
)

// SharedDatasetKey holds datasets uploaded outside any chat; chats without
// their own upload fall back to it.
const SharedDatasetKey = "shared"

// Store keeps loaded datasets in memory, keyed by chat id. Datasets are
// replaced wholesale on upload and never mutated in place, so readers only
// need the lock for the map itself.
type Store struct {
	mu       *sync.RWMutex
	datasets map[string]*Dataset
}

func InitStore() *Store {
	return &Store{
		mu:       new(sync.RWMutex),
		datasets: make(map[string]*Dataset),
	}
}

func (s *Store) Put(chatId string, d *Dataset) {
	if chatId == "" {
		chatId = SharedDatasetKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.datasets[chatId] = d
}

// Get resolves the dataset for a chat, falling back to the shared upload
// when the chat has none of its own.
func (s *Store) Get(chatId string) (*Dataset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.datasets[chatId]; ok {
		return d, true
	}
	d, ok := s.datasets[SharedDatasetKey]
	return d, ok
}

func (s *Store) Delete(chatId string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.datasets, chatId)
}
