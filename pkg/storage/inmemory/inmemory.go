package inmemory

import (
	"context"
	"errors"
	"sync"

	"github.com/papercomputeco/kiosk/pkg/chatlog"
	"github.com/papercomputeco/kiosk/pkg/storage"
)

// Driver implements storage.Driver using an in-memory map.
type Driver struct {
	// mu is a read write sync mutex for locking the mapping of logs
	mu sync.RWMutex

	// logs is the in memory map of chat logs keyed by ID
	logs map[string]chatlog.ChatLog
}

// NewDriver creates a new in-memory driver.
func NewDriver() *Driver {
	return &Driver{
		logs: make(map[string]chatlog.ChatLog),
	}
}

// Put stores a chat log. Existing IDs are left untouched.
func (s *Driver) Put(_ context.Context, log *chatlog.ChatLog) error {
	if log == nil {
		return errors.New("cannot store nil chat log")
	}
	if err := log.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	log.EnsureID()
	if _, ok := s.logs[log.ID]; ok {
		return nil
	}

	s.logs[log.ID] = *log
	return nil
}

// Get retrieves a chat log by its ID.
func (s *Driver) Get(_ context.Context, id string) (*chatlog.ChatLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log, ok := s.logs[id]
	if !ok {
		return nil, storage.NotFoundError{ID: id}
	}

	return &log, nil
}

// List returns the chat logs within opts, newest first.
func (s *Driver) List(_ context.Context, opts storage.ListOptions) ([]chatlog.ChatLog, error) {
	s.mu.RLock()
	result := make([]chatlog.ChatLog, 0, len(s.logs))
	for _, log := range s.logs {
		if opts.Matches(log.Timestamp) {
			result = append(result, log)
		}
	}
	s.mu.RUnlock()

	chatlog.SortByTimestampDesc(result)
	if opts.Limit > 0 && len(result) > opts.Limit {
		result = result[:opts.Limit]
	}

	return result, nil
}

// Count returns the number of chat logs in the in-memory store.
func (s *Driver) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.logs)
}

// Close is a no-op for the in-memory driver.
func (s *Driver) Close() error {
	return nil
}
