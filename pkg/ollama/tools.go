package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dskvich/ollama-webui/pkg/domain"
)

const toolCallsTag = "[TOOL_CALLS]"

// ToolInvoker executes a tool call requested by the model.
type ToolInvoker interface {
	InvokeFunction(ctx context.Context, name string, args map[string]any) (any, error)
}

// PromptBuilder renders a raw tool-calling prompt in the
// [AVAILABLE_TOOLS] ... [/AVAILABLE_TOOLS][INST] ... [/INST] format.
type PromptBuilder struct {
	tools  []domain.Tool
	prompt strings.Builder
}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

func (b *PromptBuilder) WithToolSpecification(tool domain.Tool) *PromptBuilder {
	b.tools = append(b.tools, tool)
	return b
}

func (b *PromptBuilder) WithPrompt(prompt string) *PromptBuilder {
	b.prompt.WriteString(prompt)
	return b
}

func (b *PromptBuilder) Build() (string, error) {
	tools := b.tools
	if tools == nil {
		tools = []domain.Tool{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(tools); err != nil {
		return "", fmt.Errorf("encoding tool specifications: %w", err)
	}

	return "[AVAILABLE_TOOLS] " + strings.TrimSpace(buf.String()) +
		"[/AVAILABLE_TOOLS][INST] " + b.prompt.String() + " [/INST]", nil
}

// GenerateWithTools sends a prompt built by PromptBuilder in raw mode, parses
// the tool calls in the answer and runs each of them through invoker in order.
func (c *client) GenerateWithTools(ctx context.Context, model, prompt string, invoker ToolInvoker) (domain.ToolsResult, error) {
	resp, err := c.Generate(ctx, model, prompt, true)
	if err != nil {
		return domain.ToolsResult{}, err
	}

	slog.DebugContext(ctx, "Tool calling response received", "model", model, "response", resp)

	calls, err := ParseToolCalls(resp)
	if err != nil {
		return domain.ToolsResult{ModelResponse: resp}, err
	}

	result := domain.ToolsResult{ModelResponse: resp}
	for _, call := range calls {
		out, err := invoker.InvokeFunction(ctx, call.Name, call.Arguments)
		if err != nil {
			return result, fmt.Errorf("invoking tool %q: %w", call.Name, err)
		}
		result.ToolResults = append(result.ToolResults, domain.ToolResult{
			FunctionName: call.Name,
			Arguments:    call.Arguments,
			Result:       out,
		})
	}
	return result, nil
}

// ParseToolCalls extracts the list of {"name", "arguments"} objects a model
// emits in answer to a tool-calling prompt. A single object is accepted too.
func ParseToolCalls(response string) ([]domain.ToolCall, error) {
	s := strings.TrimSpace(strings.ReplaceAll(response, toolCallsTag, ""))
	if s == "" {
		return nil, domain.ErrNoToolCalls
	}

	var calls []domain.ToolCall
	switch s[0] {
	case '[':
		if err := json.Unmarshal([]byte(s), &calls); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrNoToolCalls, err)
		}
	case '{':
		var call domain.ToolCall
		if err := json.Unmarshal([]byte(s), &call); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrNoToolCalls, err)
		}
		calls = []domain.ToolCall{call}
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrNoToolCalls, s)
	}

	valid := calls[:0]
	for _, call := range calls {
		if call.Name == "" {
			continue
		}
		if call.Arguments == nil {
			call.Arguments = map[string]any{}
		}
		valid = append(valid, call)
	}
	if len(valid) == 0 {
		return nil, domain.ErrNoToolCalls
	}
	return valid, nil
}
