package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/dskvich/ollama-webui/pkg/domain"
)

const chatHistoryKeyPrefix = "chat_history:"

type redisChatHistoryRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisChatHistoryRepository stores each session history as one JSON value
// that expires ttl after the last update.
func NewRedisChatHistoryRepository(client *redis.Client, ttl time.Duration) *redisChatHistoryRepository {
	return &redisChatHistoryRepository{client: client, ttl: ttl}
}

func (r *redisChatHistoryRepository) Get(ctx context.Context, sessionID string) ([]domain.ChatMessage, error) {
	data, err := r.client.Get(ctx, r.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get chat history: %w", err)
	}

	var messages []domain.ChatMessage
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("unmarshal chat history: %w", err)
	}
	return messages, nil
}

func (r *redisChatHistoryRepository) Replace(ctx context.Context, sessionID string, messages []domain.ChatMessage) error {
	data, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("marshal chat history: %w", err)
	}

	if err := r.client.Set(ctx, r.key(sessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("save chat history: %w", err)
	}
	return nil
}

func (r *redisChatHistoryRepository) Clear(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, r.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete chat history: %w", err)
	}
	return nil
}

func (r *redisChatHistoryRepository) key(sessionID string) string {
	return chatHistoryKeyPrefix + sessionID
}
