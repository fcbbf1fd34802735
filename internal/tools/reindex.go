package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/groveplan/grove/internal/index"
)

// ReindexTool handles the grove_reindex MCP tool.
type ReindexTool struct {
	store *index.Store
}

// NewReindexTool creates a ReindexTool with its dependencies.
func NewReindexTool(store *index.Store) *ReindexTool {
	return &ReindexTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *ReindexTool) Definition() mcp.Tool {
	return mcp.NewTool("grove_reindex",
		mcp.WithDescription(
			"Rebuild the backlog index from the planning tree. Use after bulk "+
				"changes made outside the server.",
		),
	)
}

// Handle processes the grove_reindex tool call.
func (t *ReindexTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	indexed, skipped, err := t.store.Rebuild()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reindex failed: %v", err)), nil
	}

	msg := fmt.Sprintf("Indexed %d objects", indexed)
	if skipped > 0 {
		msg += fmt.Sprintf(" (%d files skipped: unreadable front matter)", skipped)
	}
	return mcp.NewToolResultText(msg), nil
}
