// Package toolserver assembles the MCP tool server: four weather and
// capital-lookup tools advertised with reflected JSON schemas, argument
// validation in front of every handler, and a stdio transport.
package toolserver

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
)

// Server wraps an MCP server with the weather tool set registered.
type Server struct {
	mcp *mcpsdk.Server
	log zerolog.Logger
}

// New registers the given tool definitions on a fresh MCP server.
func New(defs []Definition, log zerolog.Logger) *Server {
	srv := mcpsdk.NewServer(&mcpsdk.Implementation{Name: "weather", Version: "0.1.0"}, nil)
	s := &Server{mcp: srv, log: log}
	for _, def := range defs {
		srv.AddTool(&mcpsdk.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		}, s.handler(def))
	}
	return s
}

// Run serves the tool set over stdio until ctx is done or the peer
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcpsdk.StdioTransport{})
}

// Connect attaches the server to an arbitrary transport; tests use it with
// in-memory transports.
func (s *Server) Connect(ctx context.Context, transport mcpsdk.Transport) (*mcpsdk.ServerSession, error) {
	return s.mcp.Connect(ctx, transport, nil)
}

func (s *Server) handler(def Definition) func(context.Context, *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	return func(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
		args := map[string]any{}
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
				return nil, errors.Wrapf(err, "tool %s: decode arguments", def.Name)
			}
		}
		if err := ValidateArgs(args, def.schema); err != nil {
			return nil, errors.WithMessagef(err, "tool %s", def.Name)
		}

		s.log.Info().Str("tool", def.Name).Msg("tool call")
		text := def.Handle(ctx, args)
		return &mcpsdk.CallToolResult{
			Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: text}},
		}, nil
	}
}
