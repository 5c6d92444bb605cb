package mcpclient

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func setupTestClient(t *testing.T, callCounter *atomic.Int32) *Client {
	t.Helper()
	server := mcpsdk.NewServer(&mcpsdk.Implementation{Name: "test-server", Version: "test"}, nil)
	registerTestTools(server)

	serverTransport, clientTransport := mcpsdk.NewInMemoryTransports()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		session, err := server.Connect(ctx, serverTransport, nil)
		if err != nil {
			t.Errorf("server connect failed: %v", err)
			return
		}
		<-ctx.Done()
		_ = session.Close()
	}()

	originalBuilder := transportBuilder
	transportBuilder = func(context.Context, string) (mcpsdk.Transport, error) {
		if callCounter != nil {
			callCounter.Add(1)
		}
		return clientTransport, nil
	}
	t.Cleanup(func() {
		transportBuilder = originalBuilder
		cancel()
		<-done
	})

	client := New("inmemory")
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func registerTestTools(server *mcpsdk.Server) {
	server.AddTool(&mcpsdk.Tool{
		Name:        "echo",
		Description: "Echo input",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"text": {Type: "string"},
			},
			Required: []string{"text"},
		},
	}, func(_ context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
		var payload map[string]string
		if err := json.Unmarshal(req.Params.Arguments, &payload); err != nil {
			return nil, err
		}
		return &mcpsdk.CallToolResult{
			Content: []mcpsdk.Content{
				&mcpsdk.TextContent{Text: "echo:" + payload["text"]},
				&mcpsdk.TextContent{Text: "second line"},
			},
		}, nil
	})
}

func TestListToolsReturnsDescriptors(t *testing.T) {
	var connects atomic.Int32
	client := setupTestClient(t, &connects)

	tools, err := client.ListTools(context.Background())
	if err != nil {
		t.Fatalf("ListTools failed: %v", err)
	}
	if len(tools) != 1 || tools[0].Name != "echo" {
		t.Fatalf("unexpected tools: %+v", tools)
	}
	if tools[0].Description != "Echo input" {
		t.Fatalf("unexpected description: %q", tools[0].Description)
	}
	var schema map[string]any
	if err := json.Unmarshal(tools[0].InputSchema, &schema); err != nil {
		t.Fatalf("schema should be valid JSON: %v", err)
	}
	if schema["type"] != "object" {
		t.Fatalf("unexpected schema: %+v", schema)
	}

	// Repeated calls reuse the lazily established session.
	if _, err := client.ListTools(context.Background()); err != nil {
		t.Fatalf("second ListTools failed: %v", err)
	}
	if connects.Load() != 1 {
		t.Fatalf("expected a single connect, got %d", connects.Load())
	}
}

func TestCallToolFlattensTextContent(t *testing.T) {
	client := setupTestClient(t, nil)

	got, err := client.CallTool(context.Background(), "echo", map[string]any{"text": "hi"})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if got != "echo:hi\nsecond line" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestCallToolUnknownToolFails(t *testing.T) {
	client := setupTestClient(t, nil)

	if _, err := client.CallTool(context.Background(), "missing", nil); err == nil {
		t.Fatalf("expected failure for unknown tool")
	}
}

func TestConnectErrorIsSticky(t *testing.T) {
	originalBuilder := transportBuilder
	defer func() { transportBuilder = originalBuilder }()

	var calls atomic.Int32
	transportBuilder = func(context.Context, string) (mcpsdk.Transport, error) {
		calls.Add(1)
		return nil, context.DeadlineExceeded
	}

	client := New("bad")
	if _, err := client.ListTools(context.Background()); err == nil {
		t.Fatalf("expected connection error")
	}
	if _, err := client.CallTool(context.Background(), "echo", nil); err == nil {
		t.Fatalf("expected cached connection error")
	}
	if calls.Load() != 1 {
		t.Fatalf("connect should only be attempted once, got %d", calls.Load())
	}
}

func TestCloseWithoutSession(t *testing.T) {
	if err := New("noop").Close(); err != nil {
		t.Fatalf("Close without session should be nil: %v", err)
	}
}

func TestBuildTransportLaunchers(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		path     string
		wantArgv []string
	}{
		{"server.py", []string{"python3", "server.py"}},
		{"/opt/tools/server.PY", []string{"python3", "/opt/tools/server.PY"}},
		{"server.js", []string{"node", "server.js"}},
		{"./weather-server", []string{"./weather-server"}},
	}
	for _, tt := range tests {
		transport, err := buildTransport(ctx, tt.path)
		if err != nil {
			t.Fatalf("buildTransport(%q) failed: %v", tt.path, err)
		}
		ct, ok := transport.(*mcpsdk.CommandTransport)
		if !ok {
			t.Fatalf("buildTransport(%q) = %T, want CommandTransport", tt.path, transport)
		}
		args := ct.Command.Args
		if len(args) != len(tt.wantArgv) {
			t.Fatalf("buildTransport(%q) argv = %v, want %v", tt.path, args, tt.wantArgv)
		}
		for i := range args {
			if args[i] != tt.wantArgv[i] {
				t.Fatalf("buildTransport(%q) argv = %v, want %v", tt.path, args, tt.wantArgv)
			}
		}
	}
}

func TestBuildTransportRejectsUnsupported(t *testing.T) {
	for _, path := range []string{"", "  ", "server.rb", "server.sh"} {
		if _, err := buildTransport(context.Background(), path); err == nil {
			t.Fatalf("buildTransport(%q) should fail", path)
		}
	}
}
