package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dskvich/ollama-webui/pkg/config"
	"github.com/dskvich/ollama-webui/pkg/domain"
	"github.com/dskvich/ollama-webui/pkg/services"
	"github.com/dskvich/ollama-webui/pkg/tools"
)

type noAirlines struct{}

func (noAirlines) FindByName(context.Context, string) (*domain.AirlineDetail, error) {
	return nil, domain.ErrNotFound
}

func (noAirlines) UpdateCallsign(context.Context, string, string) (bool, error) {
	return false, nil
}

func toolNames(t *testing.T, fns []services.ToolFunction) []string {
	t.Helper()

	ts, err := services.NewToolService(fns)
	require.NoError(t, err)

	var names []string
	for _, tool := range ts.Tools() {
		names = append(names, tool.Function.Name)
	}
	return names
}

func TestToolFunctions(t *testing.T) {
	employeeLookup := tools.NewEmployeeLookup(nil)

	assert.Equal(t,
		[]string{"get-current-fuel-price", "get-current-weather", "get-employee-details"},
		toolNames(t, toolFunctions(employeeLookup, nil)))

	assert.Equal(t,
		[]string{"get-current-fuel-price", "get-current-weather", "get-employee-details", "get-airline-name", "get-airline-name-and-callsign"},
		toolNames(t, toolFunctions(employeeLookup, noAirlines{})))
}

func TestNewHistoryRepository(t *testing.T) {
	var closers []func()

	repo, err := newHistoryRepository(context.Background(), config.History{Store: config.HistoryStoreMemory, TTL: time.Hour}, config.Redis{}, &closers)
	require.NoError(t, err)
	assert.NotNil(t, repo)
	assert.Empty(t, closers)

	_, err = newHistoryRepository(context.Background(), config.History{Store: "sqlite"}, config.Redis{}, &closers)
	assert.EqualError(t, err, `unknown history store "sqlite"`)
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}
	require.NoError(t, config.Parse(&cfg))

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, config.HistoryStoreMemory, cfg.History.Store)
	assert.Equal(t, "llama3.2", cfg.Ollama.ChatModel)
}
