package model

import "encoding/json"

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall captures a tool invocation emitted by an assistant message. The
// argument payload stays serialized until the dispatcher parses it; it is
// never evaluated.
type ToolCall struct {
	ID        string
	Name      string
	Arguments json.RawMessage
}

// ToolResult carries the text a tool produced for one call, tagged with the
// identifier of the call that requested it.
type ToolResult struct {
	CallID  string
	Name    string
	Content string
}

// Message represents a single conversational turn. Exactly one of the three
// shapes is populated: user text, assistant text and/or tool calls, or a
// tool result.
type Message struct {
	Role      Role
	Content   string
	ToolCalls []ToolCall
	Result    *ToolResult
}

// UserMessage builds the opening user turn of a conversation.
func UserMessage(text string) Message {
	return Message{Role: RoleUser, Content: text}
}

// ToolResultMessage answers one tool call with its text content.
func ToolResultMessage(call ToolCall, content string) Message {
	return Message{
		Role: RoleTool,
		Result: &ToolResult{
			CallID:  call.ID,
			Name:    call.Name,
			Content: content,
		},
	}
}
