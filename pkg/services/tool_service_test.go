package services

import (
	"context"
	"errors"
	"testing"

	"github.com/sashabaranov/go-openai/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dskvich/ollama-webui/pkg/domain"
	"github.com/dskvich/ollama-webui/pkg/tools"
)

type stubTool struct {
	name   string
	params jsonschema.Definition
	fn     any
}

func (s stubTool) Name() string                      { return s.name }
func (s stubTool) Description() string               { return "stub" }
func (s stubTool) Parameters() jsonschema.Definition { return s.params }
func (s stubTool) Function() any                     { return s.fn }

func countParams() jsonschema.Definition {
	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"count": {Type: jsonschema.Integer},
			"label": {Type: jsonschema.String},
		},
		Required: []string{"count"},
	}
}

func TestNewToolServiceValidation(t *testing.T) {
	tests := []struct {
		name string
		tool ToolFunction
	}{
		{"empty name", stubTool{name: "", fn: func(context.Context) (string, error) { return "", nil }}},
		{"nil handler", stubTool{name: "a"}},
		{"not a func", stubTool{name: "a", fn: "nope"}},
		{"missing context", stubTool{name: "a", params: countParams(), fn: func(int) (string, error) { return "", nil }}},
		{"wrong arity", stubTool{name: "a", params: countParams(), fn: func(context.Context) (string, error) { return "", nil }}},
		{"no error result", stubTool{name: "a", params: countParams(), fn: func(context.Context, int) string { return "" }}},
		{"undescribed required", stubTool{
			name:   "a",
			params: jsonschema.Definition{Type: jsonschema.Object, Required: []string{"x"}},
			fn:     func(context.Context, string) (string, error) { return "", nil },
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewToolService([]ToolFunction{tt.tool})
			assert.Error(t, err)
		})
	}
}

func TestNewToolServiceRejectsDuplicates(t *testing.T) {
	_, err := NewToolService([]ToolFunction{tools.NewWeather(), tools.NewWeather()})
	assert.ErrorContains(t, err, "duplicate")
}

func TestInvokeFunction(t *testing.T) {
	ts, err := NewToolService([]ToolFunction{tools.NewFuelPrice(), tools.NewWeather()})
	require.NoError(t, err)

	require.Len(t, ts.Tools(), 2)
	assert.Equal(t, "get-current-fuel-price", ts.Tools()[0].Function.Name)

	out, err := ts.InvokeFunction(context.Background(), "get-current-fuel-price", map[string]any{
		"location": "Bengaluru",
		"fuelType": "diesel",
	})
	require.NoError(t, err)
	assert.Equal(t, "Current price of diesel in Bengaluru is Rs.103/L", out)
}

func TestInvokeFunctionErrors(t *testing.T) {
	ts, err := NewToolService([]ToolFunction{tools.NewFuelPrice()})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = ts.InvokeFunction(ctx, "unknown", nil)
	assert.ErrorIs(t, err, domain.ErrToolNotFound)

	_, err = ts.InvokeFunction(ctx, "get-current-fuel-price", map[string]any{"location": "Pune"})
	assert.ErrorIs(t, err, domain.ErrInvalidToolArguments)

	_, err = ts.InvokeFunction(ctx, "get-current-fuel-price", map[string]any{"location": "Pune", "fuelType": "kerosene"})
	assert.ErrorIs(t, err, domain.ErrInvalidToolArguments)

	_, err = ts.InvokeFunction(ctx, "get-current-fuel-price", map[string]any{"location": 42.0, "fuelType": "petrol"})
	assert.ErrorIs(t, err, domain.ErrInvalidToolArguments)
}

func TestInvokeFunctionConvertsNumbers(t *testing.T) {
	var got int
	ts, err := NewToolService([]ToolFunction{stubTool{
		name:   "count",
		params: countParams(),
		fn: func(_ context.Context, n int) (int, error) {
			got = n
			return n * 2, nil
		},
	}})
	require.NoError(t, err)

	out, err := ts.InvokeFunction(context.Background(), "count", map[string]any{"count": float64(21)})
	require.NoError(t, err)
	assert.Equal(t, 21, got)
	assert.Equal(t, 42, out)

	_, err = ts.InvokeFunction(context.Background(), "count", map[string]any{"count": 2.5})
	assert.ErrorIs(t, err, domain.ErrInvalidToolArguments)
}

func TestInvokeFunctionReturnsHandlerError(t *testing.T) {
	boom := errors.New("boom")
	ts, err := NewToolService([]ToolFunction{stubTool{
		name:   "fail",
		params: jsonschema.Definition{Type: jsonschema.Object},
		fn:     func(context.Context) (string, error) { return "", boom },
	}})
	require.NoError(t, err)

	_, err = ts.InvokeFunction(context.Background(), "fail", map[string]any{})
	assert.ErrorIs(t, err, boom)
}
