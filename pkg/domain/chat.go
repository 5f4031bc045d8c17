package domain

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ChatMessage is one turn of a conversation. Images hold raw image bytes.
type ChatMessage struct {
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	Images    [][]byte   `json:"images,omitempty"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// ChatResult is the outcome of one chat round trip. History holds the request
// messages followed by the assistant reply and replaces the caller's history.
type ChatResult struct {
	Response  string
	ToolCalls []ToolCall
	History   []ChatMessage
}

// StreamHandler receives the text accumulated so far while a reply streams in.
type StreamHandler func(text string)
