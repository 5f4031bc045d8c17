package ollama

import (
	"encoding/json"
	"fmt"

	"github.com/ollama/ollama/api"

	"github.com/dskvich/ollama-webui/pkg/domain"
)

func toAPIMessages(messages []domain.ChatMessage) []api.Message {
	out := make([]api.Message, 0, len(messages))
	for _, m := range messages {
		msg := api.Message{
			Role:    m.Role,
			Content: m.Content,
		}
		for _, img := range m.Images {
			msg.Images = append(msg.Images, api.ImageData(img))
		}
		for _, tc := range m.ToolCalls {
			var call api.ToolCall
			call.Function.Name = tc.Name
			call.Function.Arguments = api.ToolCallFunctionArguments(tc.Arguments)
			msg.ToolCalls = append(msg.ToolCalls, call)
		}
		out = append(out, msg)
	}
	return out
}

func toDomainToolCalls(calls []api.ToolCall) []domain.ToolCall {
	if len(calls) == 0 {
		return nil
	}
	out := make([]domain.ToolCall, 0, len(calls))
	for _, c := range calls {
		out = append(out, domain.ToolCall{
			Name:      c.Function.Name,
			Arguments: map[string]any(c.Function.Arguments),
		})
	}
	return out
}

// toAPITools converts through the JSON wire shape of a tool definition.
func toAPITools(tools []domain.Tool) (api.Tools, error) {
	if len(tools) == 0 {
		return nil, nil
	}

	data, err := json.Marshal(tools)
	if err != nil {
		return nil, fmt.Errorf("marshaling tools: %w", err)
	}

	var out api.Tools
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("converting tools: %w", err)
	}
	return out, nil
}
