package model

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cockroachdb/errors"
)

// DefaultModel is used when no model override is configured.
const DefaultModel = anthropic.ModelClaude3_7SonnetLatest

const defaultMaxTokens = 4096

// Ensure AnthropicClient implements the ChatClient interface.
var _ ChatClient = (*AnthropicClient)(nil)

// AnthropicClient is a ChatClient backed by the Anthropic Messages API.
type AnthropicClient struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

// AnthropicOption customizes an AnthropicClient.
type AnthropicOption func(*AnthropicClient)

// WithModel overrides the model name.
func WithModel(name string) AnthropicOption {
	return func(c *AnthropicClient) {
		if strings.TrimSpace(name) != "" {
			c.model = anthropic.Model(name)
		}
	}
}

// WithMaxTokens overrides the per-call output token cap.
func WithMaxTokens(n int64) AnthropicOption {
	return func(c *AnthropicClient) {
		if n > 0 {
			c.maxTokens = n
		}
	}
}

// NewAnthropicClient builds a chat client for the given credential. The key
// is injected here once; it is never re-read from the environment.
func NewAnthropicClient(apiKey, baseURL string, opts ...AnthropicOption) (*AnthropicClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("model: api key is required")
	}
	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(baseURL))
	}
	c := &AnthropicClient{
		client:    anthropic.NewClient(reqOpts...),
		model:     DefaultModel,
		maxTokens: defaultMaxTokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Chat sends the conversation plus the advertised tools and converts the
// response back into a Message.
func (c *AnthropicClient) Chat(ctx context.Context, conversation []Message, tools []ToolDescriptor) (Message, error) {
	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages:  toMessageParams(conversation),
		Tools:     toToolParams(tools),
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return Message{}, errors.Wrap(err, "model: messages call")
	}
	return fromSDKMessage(msg), nil
}

// toolSchema is the subset of a tool input schema the Messages API wants
// split out of the raw descriptor schema.
type toolSchema struct {
	Properties map[string]any `json:"properties"`
	Required   []string       `json:"required"`
}

func toToolParams(tools []ToolDescriptor) []anthropic.ToolUnionParam {
	if len(tools) == 0 {
		return nil
	}
	out := make([]anthropic.ToolUnionParam, 0, len(tools))
	for _, t := range tools {
		var schema toolSchema
		// Descriptor schemas come from the tool server; a malformed one
		// degrades to an unconstrained tool rather than failing the call.
		_ = json.Unmarshal(t.InputSchema, &schema)

		input := anthropic.ToolInputSchemaParam{
			Type:       "object",
			Properties: schema.Properties,
		}
		if len(schema.Required) > 0 {
			input.Required = schema.Required
		}
		out = append(out, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        t.Name,
				Description: anthropic.String(t.Description),
				InputSchema: input,
			},
		})
	}
	return out
}

// toMessageParams converts the conversation into Messages API params.
// Consecutive tool-result turns collapse into a single user message so each
// assistant tool_use block is answered in the turn that follows it.
func toMessageParams(conversation []Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(conversation))
	var pendingResults []anthropic.ContentBlockParamUnion

	flushResults := func() {
		if len(pendingResults) > 0 {
			out = append(out, anthropic.NewUserMessage(pendingResults...))
			pendingResults = nil
		}
	}

	for _, msg := range conversation {
		switch msg.Role {
		case RoleTool:
			if msg.Result != nil {
				pendingResults = append(pendingResults,
					anthropic.NewToolResultBlock(msg.Result.CallID, msg.Result.Content, false))
			}
		case RoleAssistant:
			flushResults()
			blocks := make([]anthropic.ContentBlockParamUnion, 0, 1+len(msg.ToolCalls))
			if msg.Content != "" {
				blocks = append(blocks, anthropic.NewTextBlock(msg.Content))
			}
			for _, call := range msg.ToolCalls {
				blocks = append(blocks, anthropic.NewToolUseBlock(call.ID, call.Arguments, call.Name))
			}
			if len(blocks) == 0 {
				blocks = append(blocks, anthropic.NewTextBlock(""))
			}
			out = append(out, anthropic.NewAssistantMessage(blocks...))
		default:
			flushResults()
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}
	flushResults()
	return out
}

func fromSDKMessage(msg *anthropic.Message) Message {
	out := Message{Role: RoleAssistant}
	var text strings.Builder
	for _, block := range msg.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			text.WriteString(b.Text)
		case anthropic.ToolUseBlock:
			out.ToolCalls = append(out.ToolCalls, ToolCall{
				ID:        b.ID,
				Name:      b.Name,
				Arguments: json.RawMessage(b.JSON.Input.Raw()),
			})
		}
	}
	out.Content = text.String()
	return out
}
