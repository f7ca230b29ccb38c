package mcptools

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"pkt.systems/ncmctl/internal/actions"
	"pkt.systems/ncmctl/schema"
	"pkt.systems/pslog"
)

// ServerName is the implementation name advertised to MCP clients.
const ServerName = "ncmctl"

// NoInput is the argument type of tools without parameters.
type NoInput struct{}

// VolumeInput carries the set_volume argument.
type VolumeInput struct {
	Volume int `json:"volume" jsonschema:"volume percentage from 0 to 100"`
}

// KeywordInput carries a search keyword.
type KeywordInput struct {
	Keyword string `json:"keyword" jsonschema:"search keyword"`
}

// IndexInput carries a search result display index.
type IndexInput struct {
	Index string `json:"index" jsonschema:"display index of the entry in the last search listing, for example 01"`
}

// Output is the structured result of every tool.
type Output struct {
	Result string `json:"result"`
}

// NewServer builds an MCP server exposing every action through runner.
func NewServer(runner *actions.Runner, version string) *mcp.Server {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(&mcp.Implementation{Name: ServerName, Version: version}, nil)
	Register(server, runner)
	return server
}

// Register adds one tool per action.
func Register(server *mcp.Server, runner *actions.Runner) {
	for _, action := range actions.All() {
		tool := &mcp.Tool{Name: action.Name, Description: action.Description}
		switch action.Param.Kind {
		case actions.ParamInt:
			mcp.AddTool(server, tool, volumeHandler(runner, action))
		case actions.ParamString:
			if action.Param.Name == "index" {
				mcp.AddTool(server, tool, indexHandler(runner, action))
			} else {
				mcp.AddTool(server, tool, keywordHandler(runner, action))
			}
		default:
			mcp.AddTool(server, tool, noInputHandler(runner, action))
		}
	}
}

// Serve runs the server over stdio until ctx is done or the client disconnects.
func Serve(ctx context.Context, server *mcp.Server) error {
	pslog.Ctx(ctx).Info("mcp stdio server ready")
	return server.Run(ctx, &mcp.StdioTransport{})
}

func noInputHandler(runner *actions.Runner, action actions.Action) mcp.ToolHandlerFor[NoInput, Output] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ NoInput) (*mcp.CallToolResult, Output, error) {
		return call(ctx, runner, action, actions.Arg{})
	}
}

func volumeHandler(runner *actions.Runner, action actions.Action) mcp.ToolHandlerFor[VolumeInput, Output] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in VolumeInput) (*mcp.CallToolResult, Output, error) {
		arg, err := action.ParseArg([]string{strconv.Itoa(in.Volume)})
		if err != nil {
			return errorResult(action.Name, err), Output{}, nil
		}
		return call(ctx, runner, action, arg)
	}
}

func keywordHandler(runner *actions.Runner, action actions.Action) mcp.ToolHandlerFor[KeywordInput, Output] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in KeywordInput) (*mcp.CallToolResult, Output, error) {
		arg, err := action.ParseArg([]string{in.Keyword})
		if err != nil {
			return errorResult(action.Name, err), Output{}, nil
		}
		return call(ctx, runner, action, arg)
	}
}

func indexHandler(runner *actions.Runner, action actions.Action) mcp.ToolHandlerFor[IndexInput, Output] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in IndexInput) (*mcp.CallToolResult, Output, error) {
		arg, err := action.ParseArg([]string{in.Index})
		if err != nil {
			return errorResult(action.Name, err), Output{}, nil
		}
		return call(ctx, runner, action, arg)
	}
}

func call(ctx context.Context, runner *actions.Runner, action actions.Action, arg actions.Arg) (*mcp.CallToolResult, Output, error) {
	out, err := runner.Run(ctx, action, arg)
	if err != nil {
		return errorResult(action.Name, err), Output{}, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: out}},
	}, Output{Result: out}, nil
}

func errorResult(tool string, err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: describe(tool, err)}},
	}
}

func describe(tool string, err error) string {
	switch {
	case errors.Is(err, schema.ErrNotInitialized):
		return fmt.Sprintf("%s failed: the player is not connected (%v)", tool, err)
	case errors.Is(err, schema.ErrInvalidArgument), errors.Is(err, schema.ErrOutOfRange):
		return fmt.Sprintf("%s rejected: %v", tool, err)
	case errors.Is(err, schema.ErrInvalidState):
		return fmt.Sprintf("%s not possible now: %v", tool, err)
	default:
		return fmt.Sprintf("%s failed: %v", tool, err)
	}
}
