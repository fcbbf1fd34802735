package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/groveplan/grove/internal/index"
	"github.com/groveplan/grove/internal/object"
)

// SearchTool handles the grove_search MCP tool over the backlog index.
type SearchTool struct {
	store *index.Store
}

// NewSearchTool creates a SearchTool with its dependencies.
func NewSearchTool(store *index.Store) *SearchTool {
	return &SearchTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *SearchTool) Definition() mcp.Tool {
	return mcp.NewTool("grove_search",
		mcp.WithDescription(
			"Search the backlog index by ID or title substring, optionally "+
				"filtered by kind. Run grove_reindex first if the tree changed "+
				"outside the server.",
		),
		mcp.WithString("query",
			mcp.Description("Substring to match against object IDs and titles. Empty lists everything up to the limit."),
		),
		mcp.WithString("kind",
			mcp.Description("Restrict results to one kind."),
			mcp.Enum("project", "epic", "feature", "task"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (default: 20)."),
		),
	)
}

// Handle processes the grove_search tool call.
func (t *SearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	kind := object.Kind(req.GetString("kind", ""))
	limit := intArg(req, "limit", 20)

	entries, err := t.store.Search(query, kind, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	if len(entries) == 0 {
		return mcp.NewToolResultText("No matching objects."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Backlog (%d)\n\n", len(entries))
	for _, e := range entries {
		fmt.Fprintf(&sb, "- [%s] %s", e.Kind, e.ID)
		if e.Title != "" {
			fmt.Fprintf(&sb, " — %s", e.Title)
		}
		if e.Status != "" {
			fmt.Fprintf(&sb, " (%s)", e.Status)
		}
		fmt.Fprintf(&sb, "\n  %s\n", e.Path)
	}
	return mcp.NewToolResultText(sb.String()), nil
}
