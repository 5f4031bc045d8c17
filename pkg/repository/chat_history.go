package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dskvich/ollama-webui/pkg/domain"
)

type historyEntry struct {
	messages   []domain.ChatMessage
	lastUpdate time.Time
}

type chatHistoryRepository struct {
	mu       sync.RWMutex
	sessions map[string]historyEntry
	ttl      time.Duration
	now      func() time.Time
}

// NewChatHistoryRepository keeps chat histories in memory. A session that was
// not updated for ttl is treated as empty; zero ttl keeps histories forever.
func NewChatHistoryRepository(ttl time.Duration) *chatHistoryRepository {
	return &chatHistoryRepository{
		sessions: make(map[string]historyEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (c *chatHistoryRepository) Get(_ context.Context, sessionID string) ([]domain.ChatMessage, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.sessions[sessionID]
	if !ok || c.expired(entry) {
		return nil, nil
	}

	return slices.Clone(entry.messages), nil
}

func (c *chatHistoryRepository) Replace(_ context.Context, sessionID string, messages []domain.ChatMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.evictExpired()

	c.sessions[sessionID] = historyEntry{
		messages:   slices.Clone(messages),
		lastUpdate: c.now(),
	}
	return nil
}

func (c *chatHistoryRepository) Clear(_ context.Context, sessionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.sessions, sessionID)
	return nil
}

func (c *chatHistoryRepository) expired(e historyEntry) bool {
	return c.ttl > 0 && c.now().Sub(e.lastUpdate) > c.ttl
}

// evictExpired must be called with the write lock held.
func (c *chatHistoryRepository) evictExpired() {
	for id, entry := range c.sessions {
		if c.expired(entry) {
			delete(c.sessions, id)
		}
	}
}
