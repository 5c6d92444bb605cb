package model

import (
	"encoding/json"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAnthropicClientRequiresKey(t *testing.T) {
	for _, key := range []string{"", "   "} {
		_, err := NewAnthropicClient(key, "")
		require.Error(t, err, "key %q should be rejected", key)
	}
}

func TestAnthropicClientOptions(t *testing.T) {
	c, err := NewAnthropicClient("sk-test", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, c.model)
	assert.Equal(t, int64(defaultMaxTokens), c.maxTokens)

	c, err = NewAnthropicClient("sk-test", "https://proxy.internal",
		WithModel("claude-custom"), WithMaxTokens(512))
	require.NoError(t, err)
	assert.Equal(t, anthropic.Model("claude-custom"), c.model)
	assert.Equal(t, int64(512), c.maxTokens)

	// Blank or non-positive overrides keep the defaults.
	c, err = NewAnthropicClient("sk-test", "", WithModel("  "), WithMaxTokens(0))
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, c.model)
	assert.Equal(t, int64(defaultMaxTokens), c.maxTokens)
}

func TestToToolParams(t *testing.T) {
	schema := json.RawMessage(`{
		"type": "object",
		"properties": {"state": {"type": "string", "description": "Two-letter state code"}},
		"required": ["state"]
	}`)
	params := toToolParams([]ToolDescriptor{
		{Name: "get_alerts", Description: "Active alerts for a state", InputSchema: schema},
	})
	require.Len(t, params, 1)

	tool := params[0].OfTool
	require.NotNil(t, tool)
	assert.Equal(t, "get_alerts", tool.Name)
	assert.Equal(t, "Active alerts for a state", tool.Description.Value)
	assert.Contains(t, tool.InputSchema.Properties, "state")
	assert.Equal(t, []string{"state"}, tool.InputSchema.Required)
}

func TestToToolParamsDegradesOnMalformedSchema(t *testing.T) {
	params := toToolParams([]ToolDescriptor{
		{Name: "broken", InputSchema: json.RawMessage(`not json`)},
	})
	require.Len(t, params, 1)
	require.NotNil(t, params[0].OfTool)
	assert.Empty(t, params[0].OfTool.InputSchema.Properties)
}

func TestToToolParamsEmpty(t *testing.T) {
	assert.Nil(t, toToolParams(nil))
}

func TestToMessageParamsMergesConsecutiveToolResults(t *testing.T) {
	conversation := []Message{
		UserMessage("weather in sacramento?"),
		{
			Role:    RoleAssistant,
			Content: "checking",
			ToolCalls: []ToolCall{
				{ID: "call_1", Name: "get_alerts", Arguments: json.RawMessage(`{"state":"CA"}`)},
				{ID: "call_2", Name: "get_forecast", Arguments: json.RawMessage(`{"latitude":38.5,"longitude":-121.5}`)},
			},
		},
		ToolResultMessage(ToolCall{ID: "call_1", Name: "get_alerts"}, "no alerts"),
		ToolResultMessage(ToolCall{ID: "call_2", Name: "get_forecast"}, "sunny"),
		{Role: RoleAssistant, Content: "all clear"},
	}

	params := toMessageParams(conversation)
	require.Len(t, params, 4)

	assert.Equal(t, anthropic.MessageParamRoleUser, params[0].Role)
	assert.Equal(t, anthropic.MessageParamRoleAssistant, params[1].Role)
	assert.Equal(t, anthropic.MessageParamRoleAssistant, params[3].Role)

	// Both results ride in one user turn directly after the tool_use turn.
	merged := params[2]
	assert.Equal(t, anthropic.MessageParamRoleUser, merged.Role)
	require.Len(t, merged.Content, 2)
	require.NotNil(t, merged.Content[0].OfToolResult)
	require.NotNil(t, merged.Content[1].OfToolResult)
	assert.Equal(t, "call_1", merged.Content[0].OfToolResult.ToolUseID)
	assert.Equal(t, "call_2", merged.Content[1].OfToolResult.ToolUseID)
}

func TestToMessageParamsFlushesTrailingResults(t *testing.T) {
	conversation := []Message{
		UserMessage("hi"),
		{
			Role:      RoleAssistant,
			ToolCalls: []ToolCall{{ID: "call_9", Name: "get_alerts", Arguments: json.RawMessage(`{}`)}},
		},
		ToolResultMessage(ToolCall{ID: "call_9", Name: "get_alerts"}, "done"),
	}

	params := toMessageParams(conversation)
	require.Len(t, params, 3)
	last := params[2]
	assert.Equal(t, anthropic.MessageParamRoleUser, last.Role)
	require.Len(t, last.Content, 1)
	require.NotNil(t, last.Content[0].OfToolResult)
}

func TestToMessageParamsAssistantToolUseBlocks(t *testing.T) {
	conversation := []Message{
		{
			Role:      RoleAssistant,
			ToolCalls: []ToolCall{{ID: "call_3", Name: "get_us_state_capital", Arguments: json.RawMessage(`{"state":"CA"}`)}},
		},
	}

	params := toMessageParams(conversation)
	require.Len(t, params, 1)
	require.Len(t, params[0].Content, 1)
	use := params[0].Content[0].OfToolUse
	require.NotNil(t, use)
	assert.Equal(t, "call_3", use.ID)
	assert.Equal(t, "get_us_state_capital", use.Name)
}
