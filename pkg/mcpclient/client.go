// Package mcpclient owns the single MCP session between the chat client and
// the tool server. It wraps the official MCP SDK and launches the server as
// a subprocess speaking the protocol over stdio.
package mcpclient

import (
	"context"
	"encoding/json"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/weatherchat/weatherchat/pkg/model"
)

// transportBuilder is overridden in tests to stub the transport factory.
var transportBuilder = buildTransport

// Client holds the tool-server session. One Client, and therefore one
// server subprocess, exists per process; it connects lazily and exactly
// once, and Close releases the session on any exit path.
type Client struct {
	impl       *mcpsdk.Client
	session    *mcpsdk.ClientSession
	serverPath string
	once       sync.Once
	connectErr error
}

// New constructs a client for the tool server program at serverPath. No
// subprocess is started until the first call that needs the session.
func New(serverPath string) *Client {
	impl := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "weatherchat", Version: "0.1.0"}, nil)
	return &Client{impl: impl, serverPath: serverPath}
}

// Connect establishes the session eagerly so startup failures (bad server
// path, unsupported extension, dead subprocess) surface before the shell
// starts.
func (c *Client) Connect(ctx context.Context) error {
	return c.ensureConnected(ctx)
}

func (c *Client) ensureConnected(ctx context.Context) error {
	c.once.Do(func() {
		transport, err := transportBuilder(ctx, c.serverPath)
		if err != nil {
			c.connectErr = errors.Wrap(err, "mcpclient: build transport")
			return
		}
		session, err := c.impl.Connect(ctx, transport, nil)
		if err != nil {
			c.connectErr = errors.Wrap(err, "mcpclient: connect")
			return
		}
		c.session = session
	})
	return c.connectErr
}

// ListTools fetches the current tool list from the server. Callers re-fetch
// per query; nothing is cached here.
func (c *Client) ListTools(ctx context.Context) ([]model.ToolDescriptor, error) {
	if err := c.ensureConnected(ctx); err != nil {
		return nil, err
	}
	var tools []model.ToolDescriptor
	for tool, err := range c.session.Tools(ctx, nil) {
		if err != nil {
			return nil, errors.Wrap(err, "mcpclient: list tools")
		}
		desc, err := toToolDescriptor(tool)
		if err != nil {
			return nil, err
		}
		tools = append(tools, desc)
	}
	return tools, nil
}

// CallTool invokes the named tool and flattens its text content into a
// single string. A result the server marks as a tool-level error is still
// returned as text; only transport failures become errors here.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	if err := c.ensureConnected(ctx); err != nil {
		return "", err
	}
	res, err := c.session.CallTool(ctx, &mcpsdk.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		return "", errors.Wrapf(err, "mcpclient: call tool %s", name)
	}
	return flattenContent(res), nil
}

// Close shuts down the session and the server subprocess, if any.
func (c *Client) Close() error {
	if c == nil || c.session == nil {
		return nil
	}
	err := c.session.Close()
	c.session = nil
	return err
}

func toToolDescriptor(tool *mcpsdk.Tool) (model.ToolDescriptor, error) {
	if tool == nil {
		return model.ToolDescriptor{}, nil
	}
	schema, err := json.Marshal(tool.InputSchema)
	if err != nil {
		return model.ToolDescriptor{}, errors.Wrapf(err, "mcpclient: encode schema for %s", tool.Name)
	}
	return model.ToolDescriptor{
		Name:        tool.Name,
		Description: tool.Description,
		InputSchema: schema,
	}, nil
}

func flattenContent(res *mcpsdk.CallToolResult) string {
	if res == nil {
		return ""
	}
	var parts []string
	for _, content := range res.Content {
		if tc, ok := content.(*mcpsdk.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// buildTransport maps the server program path onto a stdio subprocess
// transport. Two script extensions are recognized with fixed launchers; an
// extensionless path is treated as a native executable so the bundled Go
// server binary works too.
func buildTransport(ctx context.Context, serverPath string) (mcpsdk.Transport, error) {
	serverPath = strings.TrimSpace(serverPath)
	if serverPath == "" {
		return nil, errors.New("server path is empty")
	}

	var cmd *exec.Cmd
	switch strings.ToLower(filepath.Ext(serverPath)) {
	case ".py":
		cmd = exec.CommandContext(ctx, "python3", serverPath)
	case ".js":
		cmd = exec.CommandContext(ctx, "node", serverPath)
	case "":
		// #nosec G204 -- serverPath is the operator-supplied server program, not remote input
		cmd = exec.CommandContext(ctx, serverPath)
	default:
		return nil, errors.Newf("unsupported server program %q (want .py, .js, or an executable)", serverPath)
	}
	return &mcpsdk.CommandTransport{Command: cmd}, nil
}
