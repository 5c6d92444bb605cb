package model

import (
	"context"
	"encoding/json"
)

// ToolDescriptor is the {name, description, schema} triple a tool server
// advertises. The schema is passed through to the model verbatim.
type ToolDescriptor struct {
	Name        string
	Description string
	InputSchema json.RawMessage
}

// ChatClient issues one chat-completion call. The returned assistant message
// may carry tool calls that the caller is expected to answer before the next
// call.
type ChatClient interface {
	Chat(ctx context.Context, conversation []Message, tools []ToolDescriptor) (Message, error)
}
