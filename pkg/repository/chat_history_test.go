package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dskvich/ollama-webui/pkg/domain"
)

func TestChatHistoryRepository(t *testing.T) {
	repo := NewChatHistoryRepository(0)
	ctx := context.Background()

	msgs, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, msgs)

	history := []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "hi"},
		{Role: domain.RoleAssistant, Content: "hello"},
	}
	require.NoError(t, repo.Replace(ctx, "s1", history))

	msgs, err = repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, history, msgs)

	msgs, err = repo.Get(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, msgs, "sessions are isolated")

	require.NoError(t, repo.Clear(ctx, "s1"))
	msgs, err = repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestChatHistoryRepositoryReturnsCopies(t *testing.T) {
	repo := NewChatHistoryRepository(0)
	ctx := context.Background()

	history := []domain.ChatMessage{{Role: domain.RoleUser, Content: "hi"}}
	require.NoError(t, repo.Replace(ctx, "s1", history))
	history[0].Content = "changed"

	msgs, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "hi", msgs[0].Content)

	msgs[0].Content = "changed again"
	msgs, _ = repo.Get(ctx, "s1")
	assert.Equal(t, "hi", msgs[0].Content)
}

func TestChatHistoryRepositoryTTL(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	repo := NewChatHistoryRepository(time.Hour)
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, repo.Replace(ctx, "old", []domain.ChatMessage{{Role: domain.RoleUser, Content: "a"}}))

	now = now.Add(30 * time.Minute)
	msgs, _ := repo.Get(ctx, "old")
	assert.Len(t, msgs, 1)

	now = now.Add(time.Hour)
	msgs, _ = repo.Get(ctx, "old")
	assert.Empty(t, msgs)

	require.NoError(t, repo.Replace(ctx, "new", []domain.ChatMessage{{Role: domain.RoleUser, Content: "b"}}))
	assert.NotContains(t, repo.sessions, "old")
	assert.Contains(t, repo.sessions, "new")
}
