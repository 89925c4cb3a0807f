package mcp

import (
	"context"
	"fmt"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tempoflow-ai/tempoflow/internal/app"
)

// ServerName is reported to MCP clients.
const ServerName = "tempoflow-mcp"

// markdownResponse wraps Markdown content in an MCP tool result.
func markdownResponse(markdown string) *mcpsdk.CallToolResultFor[any] {
	return &mcpsdk.CallToolResultFor[any]{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: markdown}},
	}
}

// errorResponse reports a tool error inside the result with IsError set, so
// the model sees it instead of a protocol error.
func errorResponse(e *ToolError) *mcpsdk.CallToolResultFor[any] {
	return &mcpsdk.CallToolResultFor[any]{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: FormatError(e)}},
		IsError: true,
	}
}

// toResponse converts a handler outcome into an MCP result.
func toResponse(res *ToolResult, err error) (*mcpsdk.CallToolResultFor[any], error) {
	if err != nil {
		slog.Error("mcp tool failed", "error", err)
		return errorResponse(&ToolError{Code: CodeInternal, Message: err.Error()}), nil
	}
	if res.Error != nil {
		return errorResponse(res.Error), nil
	}
	return markdownResponse(res.Content), nil
}

// tool adapts a typed handler to the SDK signature.
func tool[In any](a *app.Context, h func(context.Context, *app.Context, In) (*ToolResult, error)) func(context.Context, *mcpsdk.ServerSession, *mcpsdk.CallToolParamsFor[In]) (*mcpsdk.CallToolResultFor[any], error) {
	return func(ctx context.Context, _ *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[In]) (*mcpsdk.CallToolResultFor[any], error) {
		return toResponse(h(ctx, a, params.Arguments))
	}
}

// NewServer registers every TempoFlow tool on a new MCP server.
func NewServer(a *app.Context, version string) *mcpsdk.Server {
	server := mcpsdk.NewServer(&mcpsdk.Implementation{Name: ServerName, Version: version}, &mcpsdk.ServerOptions{
		InitializedHandler: func(ctx context.Context, _ *mcpsdk.ServerSession, _ *mcpsdk.InitializedParams) {
			slog.Info("MCP connection established")
		},
	})

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        ToolListTasks,
		Description: `List tasks. Optional "status" (all, open, done) and "priority" (low, medium, high) filters.`,
	}, tool(a, HandleListTasks))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        ToolAddTask,
		Description: `Create a task. "title" is required; "priority" defaults to medium; "due_date" is YYYY-MM-DD.`,
	}, tool(a, HandleAddTask))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        ToolToggleTask,
		Description: `Mark a task done, or reopen it if already done. "task_id" accepts a unique prefix.`,
	}, tool(a, HandleToggleTask))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        ToolRecordSession,
		Description: `Record a focus session: "duration" in minutes, "completed" false for abandoned intervals, optional RFC 3339 "date" and "task_id".`,
	}, tool(a, HandleRecordSession))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        ToolProductivityScore,
		Description: `Productivity score over the trailing "days" (default 7): task completion, focus efficiency and consistency with insights.`,
	}, tool(a, HandleProductivityScore))

	return server
}

// Run serves over stdio until the client disconnects. stdout carries only
// JSON-RPC; log to stderr.
func Run(ctx context.Context, a *app.Context, version string) error {
	if err := NewServer(a, version).Run(ctx, mcpsdk.NewStdioTransport()); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}
