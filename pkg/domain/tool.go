package domain

import "github.com/sashabaranov/go-openai/jsonschema"

const ToolTypeFunction = "function"

// Tool is a registered tool: its prompt-facing description plus the Go handler.
type Tool struct {
	Type     string    `json:"type"`
	Function *Function `json:"function"`
}

type Function struct {
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Parameters  jsonschema.Definition `json:"parameters"`
	Function    any                   `json:"-"`
}

// ToolCall is a function call requested by the model.
type ToolCall struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// ToolResult is the outcome of invoking one requested tool call.
type ToolResult struct {
	FunctionName string         `json:"function_name"`
	Arguments    map[string]any `json:"arguments"`
	Result       any            `json:"result"`
}

// ToolsResult bundles the raw model output with the executed tool results, in call order.
type ToolsResult struct {
	ModelResponse string
	ToolResults   []ToolResult
}
