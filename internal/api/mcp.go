package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer exposes the ingest pipeline as MCP tools so agent clients can
// pull profile bundles without going through HTTP.
func NewMCPServer(deps Deps) *server.MCPServer {
	s := server.NewMCPServer(
		"linkedingest",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions("linkedingest turns a public profile into a normalized plain-text bundle."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("ingest_profile",
			mcp.WithDescription("Fetch a public profile and return it as a normalized plain-text bundle. May wait in the ingestion queue."),
			mcp.WithString("profile_id", mcp.Description("Public profile identifier"), mcp.Required()),
		),
		mcpIngestProfile(deps),
	)

	s.AddTool(
		mcp.NewTool("queue_status",
			mcp.WithDescription("Report the ingestion queue depth and an upper-bound completion estimate."),
		),
		mcpQueueStatus(deps),
	)

	return s
}

func mcpIngestProfile(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if deps.Ingest == nil {
			return mcpError(unavailableDetail), nil
		}
		profileID, err := req.RequireString("profile_id")
		if err != nil {
			return mcpError("profile_id is required"), nil
		}

		doc, err := deps.Ingest.Ingest(ctx, profileID)
		if err != nil {
			return mcpError(fmt.Sprintf("ingest failed: %v", err)), nil
		}
		return mcpText(doc.Text()), nil
	}
}

func mcpQueueStatus(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if deps.Ingest == nil {
			return mcpError(unavailableDetail), nil
		}
		status, err := json.Marshal(deps.Ingest.QueueStatus())
		if err != nil {
			return mcpError(fmt.Sprintf("encoding status: %v", err)), nil
		}
		return mcpText(string(status)), nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
