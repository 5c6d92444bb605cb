// Package orchestrator stitches one user query to the language model and
// dispatches the tool calls the model requests through the live MCP session.
package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"github.com/weatherchat/weatherchat/pkg/model"
)

// Per-query failure classes. Each ProcessQuery error is marked with exactly
// one of these so callers can tell a model failure from a transport failure
// from a bad argument payload.
var (
	ErrModelCall  = errors.New("model call failed")
	ErrToolCall   = errors.New("tool invocation failed")
	ErrToolArgs   = errors.New("malformed tool arguments")
	ErrRoundLimit = errors.New("tool rounds exhausted")
)

// DefaultMaxToolRounds bounds the model/tool loop per query. A model that
// keeps chaining tool batches is cut off with ErrRoundLimit and whatever
// output accumulated.
const DefaultMaxToolRounds = 5

// Session is the slice of the tool-server connection the orchestrator needs.
type Session interface {
	ListTools(ctx context.Context) ([]model.ToolDescriptor, error)
	CallTool(ctx context.Context, name string, args map[string]any) (string, error)
}

// Orchestrator holds the collaborators for processing queries. It is not
// safe for concurrent queries; the shell issues one at a time.
type Orchestrator struct {
	chat      model.ChatClient
	session   Session
	maxRounds int
	log       zerolog.Logger
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithMaxToolRounds overrides the tool-round cap.
func WithMaxToolRounds(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxRounds = n
		}
	}
}

// WithLogger attaches a logger for per-dispatch events.
func WithLogger(log zerolog.Logger) Option {
	return func(o *Orchestrator) { o.log = log }
}

// New wires a chat client to a tool-server session.
func New(chat model.ChatClient, session Session, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		chat:      chat,
		session:   session,
		maxRounds: DefaultMaxToolRounds,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ProcessQuery runs one query to completion: fresh conversation, current
// tool list, then model calls interleaved with tool dispatch until the model
// answers without tools or the round cap hits. Tool calls in a batch run
// sequentially in the order the model requested them, each answered by
// exactly one tool-result message before the next model call.
func (o *Orchestrator) ProcessQuery(ctx context.Context, query string) (string, error) {
	conversation := []model.Message{model.UserMessage(query)}

	// Re-fetched every query so a server-side tool change is observed on
	// the next query.
	tools, err := o.session.ListTools(ctx)
	if err != nil {
		return "", errors.Mark(err, ErrToolCall)
	}

	var out []string
	for round := 0; round < o.maxRounds; round++ {
		reply, err := o.chat.Chat(ctx, conversation, tools)
		if err != nil {
			return "", errors.Mark(err, ErrModelCall)
		}
		conversation = append(conversation, reply)

		if len(reply.ToolCalls) == 0 {
			out = append(out, reply.Content)
			return strings.Join(out, "\n"), nil
		}

		for _, call := range reply.ToolCalls {
			args, err := parseArguments(call.Arguments)
			if err != nil {
				return "", errors.Mark(errors.Wrapf(err, "tool %s", call.Name), ErrToolArgs)
			}
			out = append(out, fmt.Sprintf("[Calling tool %s with args %s]", call.Name, compactJSON(call.Arguments)))

			o.log.Debug().Str("tool", call.Name).Int("round", round).Msg("dispatching tool call")
			result, err := o.session.CallTool(ctx, call.Name, args)
			if err != nil {
				return "", errors.Mark(errors.Wrapf(err, "tool %s", call.Name), ErrToolCall)
			}
			conversation = append(conversation, model.ToolResultMessage(call, result))
		}
	}

	return strings.Join(out, "\n"),
		errors.Mark(errors.Newf("gave up after %d tool rounds", o.maxRounds), ErrRoundLimit)
}

// parseArguments decodes the serialized argument payload with a strict JSON
// parser. Anything that is not a single JSON object (or null/empty, treated
// as no arguments) is rejected as data, never evaluated.
func parseArguments(raw json.RawMessage) (map[string]any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return map[string]any{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	var args map[string]any
	if err := dec.Decode(&args); err != nil {
		return nil, errors.Wrap(err, "decode arguments")
	}
	if dec.More() {
		return nil, errors.New("trailing data after arguments object")
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}

func compactJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(bytes.TrimSpace(raw))
	}
	return buf.String()
}
